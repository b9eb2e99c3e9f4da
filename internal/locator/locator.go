package locator

import (
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
)

// Match is the outcome of a lookup: either Matched with a non-empty selection
// and the strategy that produced it, or NotMatched.
type Match struct {
	sel      *goquery.Selection
	strategy string
}

// NotMatched is the zero Match.
var NotMatched = Match{}

// Matched wraps a hit.
func Matched(sel *goquery.Selection, strategy string) Match {
	return Match{sel: sel, strategy: strategy}
}

// Ok reports whether anything was found.
func (m Match) Ok() bool {
	return m.sel != nil && m.sel.Length() > 0
}

// Selection returns the matched nodes, or an empty selection when nothing matched.
func (m Match) Selection() *goquery.Selection {
	if m.sel == nil {
		return &goquery.Selection{}
	}
	return m.sel
}

// Strategy names the strategy that matched; empty for NotMatched.
func (m Match) Strategy() string {
	return m.strategy
}

// Text returns the trimmed text of the first matched node.
func (m Match) Text() string {
	if !m.Ok() {
		return ""
	}
	return trimmedText(m.sel.First())
}

// Locator evaluates strategy cascades.
type Locator struct {
	logger *slog.Logger
}

// New builds a locator; a nil logger silences strategy failures.
func New(logger *slog.Logger) *Locator {
	return &Locator{logger: logger}
}

// First returns the first node of the first strategy that matches.
func (l *Locator) First(root *goquery.Selection, strategies ...Strategy) Match {
	m := l.All(root, strategies...)
	if !m.Ok() {
		return NotMatched
	}
	return Matched(m.sel.First(), m.strategy)
}

// All returns every node found by the first strategy that matches anything.
// Strategies run strictly in order; a failing strategy counts as a miss.
func (l *Locator) All(root *goquery.Selection, strategies ...Strategy) Match {
	if root == nil || root.Length() == 0 {
		return NotMatched
	}
	for _, strategy := range strategies {
		sel, err := l.try(root, strategy)
		if err != nil {
			l.debug("strategy failed", "strategy", strategy.Name(), "error", err)
			continue
		}
		if sel != nil && sel.Length() > 0 {
			return Matched(sel, strategy.Name())
		}
	}
	return NotMatched
}

func (l *Locator) try(root *goquery.Selection, strategy Strategy) (sel *goquery.Selection, err error) {
	defer func() {
		if r := recover(); r != nil {
			sel = nil
			err = fmt.Errorf("strategy panicked: %v", r)
		}
	}()
	return strategy.Find(root)
}

func (l *Locator) debug(msg string, args ...interface{}) {
	if l != nil && l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}
