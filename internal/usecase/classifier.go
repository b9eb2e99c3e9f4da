package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"SalesScanner/internal/dates"
	"SalesScanner/internal/domain"
	"SalesScanner/internal/extract"
	"SalesScanner/internal/filter"
	"SalesScanner/internal/locator"
	"SalesScanner/internal/ports"
	"SalesScanner/internal/textutil"
	"SalesScanner/internal/threshold"
)

// ErrViewSource is returned for browser "view-source" dumps, which carry the
// markup as text instead of a DOM.
var ErrViewSource = errors.New("view-source snapshot, save the complete page instead")

const traceTextLimit = 200

// RecordExtractor pulls the order fields out of one container.
type RecordExtractor interface {
	Fields(container *goquery.Selection) domain.OrderRecord
	OrderID(container *goquery.Selection) string
	OrderDate(container *goquery.Selection, parser *dates.Parser) *time.Time
}

// ClassifierConfig holds the per-run inputs of the classifier.
type ClassifierConfig struct {
	FilterStates      []string
	FilteringDisabled bool
	KnownBad          filter.KnownBad
	Location          *time.Location
	Now               func() time.Time
	NewID             func() string
	// NewExtractor builds the field extractor for one document; nil means
	// the sales-panel extractor.
	NewExtractor func(loc *locator.Locator, baseDir string, logger *slog.Logger) RecordExtractor
}

// Classifier turns a parsed sales page into classified order lists.
// It keeps no state between calls.
type Classifier struct {
	cfg    ClassifierConfig
	logger *slog.Logger
}

// NewClassifier fills clock, location and id defaults.
func NewClassifier(cfg ClassifierConfig, logger *slog.Logger) *Classifier {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.NewExtractor == nil {
		cfg.NewExtractor = func(loc *locator.Locator, baseDir string, logger *slog.Logger) RecordExtractor {
			return extract.NewExtractor(loc, baseDir, logger)
		}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Classifier{cfg: cfg, logger: logger}
}

// IsViewSource reports whether path names a "view-source" dump.
func IsViewSource(path string) bool {
	return strings.Contains(filepath.Base(path), "view-source")
}

// run is the context of a single classification pass.
type run struct {
	logger     *slog.Logger
	containers *extract.ContainerLocator
	extractor  RecordExtractor
	status     *extract.StatusResolver
	engine     *filter.Engine
	parser     *dates.Parser
	result     domain.Result
}

// Classify processes every container of doc in document order.
func (c *Classifier) Classify(doc ports.Document) (domain.Result, error) {
	if IsViewSource(doc.Path) {
		return domain.Result{}, fmt.Errorf("classify %s: %w", doc.Path, ErrViewSource)
	}
	if doc.DOM == nil {
		return domain.Result{}, fmt.Errorf("classify %s: document is not parsed", doc.Path)
	}

	r := c.newRun(doc)
	r.logger.Info("classification started",
		"source", doc.Path,
		"threshold", r.result.Threshold.Format("02/01/2006 15:04"),
		"mode", threshold.Describe(r.result.GeneratedAt, r.result.Threshold),
		"filter_states", len(r.result.FilterStates),
	)

	containers, strategy := r.containers.Containers(doc.DOM)
	r.result.Stats.TotalFound = len(containers)
	if len(containers) == 0 {
		r.logger.Warn("no order containers found")
		extract.Diagnose(doc.DOM).Log(r.logger)
	} else {
		r.logger.Info("order containers found", "count", len(containers), "strategy", strategy)
	}

	for i, container := range containers {
		index := i + 1
		if err := r.classify(index, container); err != nil {
			r.result.Stats.FailedCount++
			r.result.Traces = append(r.result.Traces, domain.ContainerTrace{
				Index:   index,
				Classes: classesOf(container),
				Err:     err.Error(),
			})
			r.logger.Error("container failed", "index", index, "error", err)
		}
	}

	r.result.Stats.Seal()
	r.logSummary()
	return r.result, nil
}

func (c *Classifier) newRun(doc ports.Document) *run {
	now := c.cfg.Now().In(c.cfg.Location)
	th := threshold.Compute(now)
	runID := c.cfg.NewID()
	logger := c.logger.With("run_id", runID)

	loc := locator.New(logger.With("component", "locator"))
	states := c.cfg.FilterStates
	if c.cfg.FilteringDisabled {
		states = nil
	}

	return &run{
		logger:     logger,
		containers: extract.NewContainerLocator(loc, logger.With("component", "containers")),
		extractor:  c.cfg.NewExtractor(loc, doc.BaseDir, logger.With("component", "extract")),
		status:     extract.NewStatusResolver(loc, states, filter.TemporalStates, logger.With("component", "status")),
		engine:     filter.NewEngine(states, c.cfg.KnownBad, th, logger.With("component", "filter")),
		parser:     dates.NewParser(c.cfg.Now, c.cfg.Location),
		result: domain.Result{
			RunID:             runID,
			Source:            doc.Path,
			GeneratedAt:       now,
			Threshold:         th,
			FilterStates:      append([]string(nil), states...),
			TemporalStates:    append([]string(nil), filter.TemporalStates...),
			FilteringDisabled: c.cfg.FilteringDisabled,
			Stats:             domain.NewRunStats(),
		},
	}
}

// classify finalises one container. Any panic below is turned into an error
// so the caller can skip the container; nothing is counted or listed until
// every step has run.
func (r *run) classify(index int, container *goquery.Selection) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("container %d: %v", index, p)
		}
	}()

	rec := r.extractor.Fields(container)
	rec.RawStatus = r.status.Resolve(container)
	rec.OrderID = r.extractor.OrderID(container)
	rec.OrderDate = r.extractor.OrderDate(container, r.parser)

	decision := r.engine.Decide(rec)
	rec.TemporalClass = decision.TemporalClass
	trace := domain.ContainerTrace{
		Index:          index,
		Classes:        classesOf(container),
		Record:         rec,
		StatusElements: extract.StatusElements(container),
		Decision:       decision,
		Text:           textutil.Truncate(locator.JoinedText(container), traceTextLimit),
	}

	r.result.Stats.Record(rec, decision)
	switch decision.Disposition {
	case domain.DispositionFiltered:
		r.result.Filtered = append(r.result.Filtered, domain.FilteredRecord{OrderRecord: rec, Reason: decision.Reason})
		r.logger.Info("record filtered", "index", index, "name", textutil.Truncate(rec.Name, 30), "reason", decision.Reason)
	case domain.DispositionAcceptedUrgent:
		r.result.Urgent = append(r.result.Urgent, rec)
		r.logger.Info("record urgent", "index", index, "name", textutil.Truncate(rec.Name, 30), "status", rec.RawStatus)
	case domain.DispositionAcceptedReview:
		r.result.Review = append(r.result.Review, rec)
		r.logger.Info("record to review", "index", index, "name", textutil.Truncate(rec.Name, 30), "status", rec.RawStatus)
	case domain.DispositionAcceptedNormal:
		r.result.Normal = append(r.result.Normal, rec)
		r.logger.Info("record accepted", "index", index, "name", textutil.Truncate(rec.Name, 30))
	case domain.DispositionRejected:
		r.logger.Warn("record rejected", "index", index, "name", rec.Name, "price", rec.Price)
	}
	r.result.Traces = append(r.result.Traces, trace)
	return nil
}

func (r *run) logSummary() {
	s := r.result.Stats
	r.logger.Info("classification finished",
		"total_found", s.TotalFound,
		"filtered_out", s.FilteredOut,
		"urgent", s.UrgentCount,
		"normal", s.NormalCount,
		"to_review", s.ToReviewCount,
		"rejected", s.RejectedCount,
		"failed", s.FailedCount,
		"final", s.FinalCount,
	)
	for reason, count := range s.FilterReasons {
		r.logger.Debug("filter reason", "reason", reason, "count", count)
	}
}

func classesOf(sel *goquery.Selection) []string {
	cls, _ := sel.Attr("class")
	return strings.Fields(cls)
}
