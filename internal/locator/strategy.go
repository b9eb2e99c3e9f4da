// Package locator tries an ordered list of lookup strategies against a DOM
// subtree and keeps the first one that finds something. Saved sales-panel
// markup changes often, so every extractor is a cascade of these.
package locator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Strategy is one way of finding elements below root. Find returns every
// match in document order; an empty selection means no match. An error means
// the strategy itself is broken and is treated as a miss by the Locator.
type Strategy interface {
	Name() string
	Find(root *goquery.Selection) (*goquery.Selection, error)
}

type classStrategy struct {
	class   string
	pattern *regexp.Regexp
}

// Class matches the exact class token first, then any class attribute that
// contains the name on word boundaries.
func Class(name string) Strategy {
	return classStrategy{
		class:   name,
		pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`),
	}
}

func (c classStrategy) Name() string { return "class:" + c.class }

func (c classStrategy) Find(root *goquery.Selection) (*goquery.Selection, error) {
	exact := root.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.HasClass(c.class)
	})
	if exact.Length() > 0 {
		return exact, nil
	}
	return filterAttr(root, "class", c.pattern), nil
}

type classPatternStrategy struct {
	pattern *regexp.Regexp
}

// ClassPattern matches descendants whose class attribute matches the expression.
func ClassPattern(expr string) Strategy {
	return classPatternStrategy{pattern: regexp.MustCompile(expr)}
}

func (c classPatternStrategy) Name() string { return "class~" + c.pattern.String() }

func (c classPatternStrategy) Find(root *goquery.Selection) (*goquery.Selection, error) {
	return filterAttr(root, "class", c.pattern), nil
}

type cssStrategy struct {
	selector string
	matcher  goquery.Matcher
	err      error
}

// CSS matches a compiled CSS selector. An invalid selector never matches; the
// compile error is reported on every Find.
func CSS(selector string) Strategy {
	compiled, err := cascadia.Compile(selector)
	if err != nil {
		return cssStrategy{selector: selector, err: err}
	}
	return cssStrategy{selector: selector, matcher: compiled}
}

func (c cssStrategy) Name() string { return "css:" + c.selector }

func (c cssStrategy) Find(root *goquery.Selection) (*goquery.Selection, error) {
	if c.err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", c.selector, c.err)
	}
	return root.FindMatcher(c.matcher), nil
}

type tagTextStrategy struct {
	tag  string
	text string
}

// TagText matches tag elements whose trimmed text contains substr, ignoring case.
func TagText(tag, substr string) Strategy {
	return tagTextStrategy{tag: tag, text: strings.ToLower(substr)}
}

func (t tagTextStrategy) Name() string { return fmt.Sprintf("tag_text:%s~%s", t.tag, t.text) }

func (t tagTextStrategy) Find(root *goquery.Selection) (*goquery.Selection, error) {
	return root.Find(t.tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(strings.TrimSpace(s.Text())), t.text)
	}), nil
}

type attrStrategy struct {
	attr    string
	pattern *regexp.Regexp
}

// Attr matches descendants whose attribute value matches the expression.
func Attr(name, expr string) Strategy {
	return attrStrategy{attr: name, pattern: regexp.MustCompile(expr)}
}

func (a attrStrategy) Name() string { return fmt.Sprintf("attr:%s~%s", a.attr, a.pattern) }

func (a attrStrategy) Find(root *goquery.Selection) (*goquery.Selection, error) {
	return filterAttr(root, a.attr, a.pattern), nil
}

type customStrategy struct {
	name string
	fn   func(*goquery.Selection) *goquery.Selection
}

// Custom wraps an arbitrary lookup. fn may return nil for no match.
func Custom(name string, fn func(*goquery.Selection) *goquery.Selection) Strategy {
	return customStrategy{name: name, fn: fn}
}

func (c customStrategy) Name() string { return "custom:" + c.name }

func (c customStrategy) Find(root *goquery.Selection) (*goquery.Selection, error) {
	return c.fn(root), nil
}

func filterAttr(root *goquery.Selection, attr string, pattern *regexp.Regexp) *goquery.Selection {
	return root.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		value, ok := s.Attr(attr)
		return ok && pattern.MatchString(value)
	})
}

type withTextStrategy struct {
	inner Strategy
}

// WithText keeps only the nodes of inner that carry visible text, so an empty
// element counts as a miss and the cascade moves on.
func WithText(inner Strategy) Strategy {
	return withTextStrategy{inner: inner}
}

func (w withTextStrategy) Name() string { return w.inner.Name() }

func (w withTextStrategy) Find(root *goquery.Selection) (*goquery.Selection, error) {
	sel, err := w.inner.Find(root)
	if err != nil || sel == nil {
		return sel, err
	}
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return trimmedText(s) != ""
	}), nil
}
