// Package filter decides which compiled scenarios (pickles) take part in a
// test plan.
package filter

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	messages "github.com/cucumber/messages/go/v21"
	tagexpressions "github.com/cucumber/tag-expressions/go/v6"

	"github.com/fjglira/featureplan/internal/domain"
)

// Matcher decides whether a pickle belongs to the plan. doc is the document
// the pickle was compiled from.
type Matcher interface {
	Matches(doc *messages.GherkinDocument, pickle *messages.Pickle) bool
}

// Options configure a PickleFilter. Zero values match everything.
type Options struct {
	TagExpression string
	Names         []string
	Lines         map[string][]int // keyed by pickle uri
}

// PickleFilter accepts a pickle when its tags satisfy the tag expression, its
// name matches one of the name patterns, and it sits on a requested line.
type PickleFilter struct {
	tags  tagexpressions.Evaluatable
	names []*regexp.Regexp
	lines map[string][]int
}

// New compiles opts into a PickleFilter. A malformed tag expression or name
// pattern is a configuration error.
func New(opts Options) (*PickleFilter, error) {
	f := &PickleFilter{lines: opts.Lines}

	if expr := strings.TrimSpace(opts.TagExpression); expr != "" {
		ev, err := tagexpressions.Parse(expr)
		if err != nil {
			return nil, domain.NewErrorWithSuggestion(domain.PhaseConfig, "", 0,
				fmt.Sprintf("invalid tag expression %q", opts.TagExpression),
				`use tags joined by "and", "or", "not" and parentheses, e.g. "@smoke and not @slow"`,
				err)
		}
		f.tags = ev
	}

	for _, pattern := range opts.Names {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, domain.NewError(domain.PhaseConfig, "", 0,
				fmt.Sprintf("invalid name pattern %q", pattern), err)
		}
		f.names = append(f.names, re)
	}

	return f, nil
}

// Matches implements Matcher.
func (f *PickleFilter) Matches(doc *messages.GherkinDocument, pickle *messages.Pickle) bool {
	return f.matchesTags(pickle) && f.matchesName(pickle) && f.matchesLines(doc, pickle)
}

func (f *PickleFilter) matchesTags(pickle *messages.Pickle) bool {
	if f.tags == nil {
		return true
	}
	return f.tags.Evaluate(TagNames(pickle))
}

func (f *PickleFilter) matchesName(pickle *messages.Pickle) bool {
	if len(f.names) == 0 {
		return true
	}
	for _, re := range f.names {
		if re.MatchString(pickle.Name) {
			return true
		}
	}
	return false
}

func (f *PickleFilter) matchesLines(doc *messages.GherkinDocument, pickle *messages.Pickle) bool {
	wanted := f.lines[pickle.Uri]
	if len(wanted) == 0 {
		return true
	}
	locations := NodeLines(doc)
	for _, id := range pickle.AstNodeIds {
		if line, ok := locations[id]; ok && slices.Contains(wanted, line) {
			return true
		}
	}
	return false
}

// TagNames returns the tag names of a pickle, "@" included.
func TagNames(pickle *messages.Pickle) []string {
	names := make([]string, 0, len(pickle.Tags))
	for _, t := range pickle.Tags {
		names = append(names, t.Name)
	}
	return names
}

// NodeLines maps the ids of scenarios and example rows in doc to the line
// they start on.
func NodeLines(doc *messages.GherkinDocument) map[string]int {
	lines := make(map[string]int)
	if doc == nil || doc.Feature == nil {
		return lines
	}
	for _, child := range doc.Feature.Children {
		if child.Scenario != nil {
			addScenario(lines, child.Scenario)
		}
		if child.Rule != nil {
			for _, rc := range child.Rule.Children {
				if rc.Scenario != nil {
					addScenario(lines, rc.Scenario)
				}
			}
		}
	}
	return lines
}

func addScenario(lines map[string]int, sc *messages.Scenario) {
	lines[sc.Id] = int(sc.Location.Line)
	for _, ex := range sc.Examples {
		for _, row := range ex.TableBody {
			lines[row.Id] = int(row.Location.Line)
		}
	}
}
