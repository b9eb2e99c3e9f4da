package domain

import "time"

// Field keys used by completeness reporting.
const (
	FieldName     = "nombre"
	FieldLink     = "link"
	FieldImage    = "imagen"
	FieldPrice    = "precio"
	FieldQuantity = "cantidad"
	FieldSKU      = "sku"
)

// FieldKeys lists completeness keys in report order.
var FieldKeys = []string{FieldName, FieldLink, FieldImage, FieldPrice, FieldQuantity, FieldSKU}

// RunStats aggregates counters for one classification pass.
type RunStats struct {
	TotalFound         int            `json:"total_found"`
	FilteredOut        int            `json:"filtered_out"`
	UrgentCount        int            `json:"urgent_count"`
	NormalCount        int            `json:"normal_count"`
	ToReviewCount      int            `json:"to_review_count"`
	RejectedCount      int            `json:"rejected_count"`
	FailedCount        int            `json:"failed_count"`
	FinalCount         int            `json:"final_count"`
	FilterReasons      map[string]int `json:"filter_reasons"`
	FieldsCompleteness map[string]int `json:"fields_completeness"`
}

// NewRunStats returns zeroed counters with every completeness key present.
func NewRunStats() RunStats {
	completeness := make(map[string]int, len(FieldKeys))
	for _, key := range FieldKeys {
		completeness[key] = 0
	}
	return RunStats{
		FilterReasons:      map[string]int{},
		FieldsCompleteness: completeness,
	}
}

// Record bumps the counters for one finalized record.
func (s *RunStats) Record(rec OrderRecord, decision Decision) {
	switch decision.Disposition {
	case DispositionFiltered:
		s.FilteredOut++
		s.FilterReasons[decision.Reason]++
		return
	case DispositionAcceptedUrgent:
		s.UrgentCount++
	case DispositionAcceptedNormal:
		s.NormalCount++
	case DispositionAcceptedReview:
		s.ToReviewCount++
	case DispositionRejected:
		s.RejectedCount++
	}

	for key, value := range map[string]string{
		FieldName:     rec.Name,
		FieldLink:     rec.Link,
		FieldImage:    rec.Image,
		FieldPrice:    rec.Price,
		FieldQuantity: rec.Quantity,
		FieldSKU:      rec.SKU,
	} {
		if value != "" {
			s.FieldsCompleteness[key]++
		}
	}
}

// Seal computes derived totals; the stats are read-only afterwards.
func (s *RunStats) Seal() {
	s.FinalCount = s.UrgentCount + s.NormalCount + s.ToReviewCount
}

// ContainerTrace is the per-container audit entry rendered by the report exporter.
type ContainerTrace struct {
	Index          int
	Classes        []string
	Record         OrderRecord
	StatusElements []StatusElement
	Decision       Decision
	Text           string
	Err            string
}

// StatusElement describes one status-looking node seen in a container.
type StatusElement struct {
	Tag     string
	Classes []string
	Text    string
}

// Result is everything a classification run hands to exporters.
type Result struct {
	RunID          string
	Source         string
	GeneratedAt    time.Time
	Threshold      time.Time
	FilterStates   []string
	TemporalStates []string
	// FilteringDisabled is set when the state list was cleared for the run.
	FilteringDisabled bool

	Urgent   []OrderRecord
	Normal   []OrderRecord
	Review   []OrderRecord
	Filtered []FilteredRecord

	Stats  RunStats
	Traces []ContainerTrace
}

// Accepted returns the number of records that made it into an output list.
func (r Result) Accepted() int {
	return len(r.Urgent) + len(r.Normal) + len(r.Review)
}
