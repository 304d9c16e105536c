package domain

import messages "github.com/cucumber/messages/go/v21"

// Envelope is one item of a parsed feature stream. Exactly one of Document or
// Pickle is set. A Document always precedes the pickles compiled from it.
type Envelope struct {
	Document *messages.GherkinDocument
	Pickle   *messages.Pickle
}

// FeatureSet is the expanded list of feature files to parse.
type FeatureSet struct {
	Paths []string         // ordered, deduplicated file paths
	Lines map[string][]int // optional line filters keyed by path
}

// HasLineFilter reports whether any line filter was requested for path.
func (s *FeatureSet) HasLineFilter(path string) bool {
	return len(s.Lines[path]) > 0
}

// PlanResult is the outcome of one selection and assembly run.
type PlanResult struct {
	ActiveFiles []string
	Text        string
}
