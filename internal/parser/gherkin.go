package parser

import (
	"bytes"
	"regexp"
	"strconv"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/fjglira/featureplan/internal/domain"
)

// GherkinParser parses plain .feature files with the Cucumber Gherkin parser.
type GherkinParser struct{}

// NewGherkinParser creates a new GherkinParser.
func NewGherkinParser() *GherkinParser {
	return &GherkinParser{}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *GherkinParser) SupportedExtensions() []string {
	return []string{".feature"}
}

// Parse parses a Gherkin document and stamps it with uri.
func (p *GherkinParser) Parse(uri string, content []byte, newID func() string) (*messages.GherkinDocument, error) {
	return parseGherkin(uri, content, gherkin.DefaultDialect, newID)
}

// gherkinLocationRe extracts "(line:column)" from gherkin parse errors.
var gherkinLocationRe = regexp.MustCompile(`\((\d+):\d+\)`)

func parseGherkin(uri string, content []byte, language string, newID func() string) (*messages.GherkinDocument, error) {
	doc, err := gherkin.ParseGherkinDocumentForLanguage(bytes.NewReader(content), language, newID)
	if err != nil {
		line := 0
		if m := gherkinLocationRe.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
		return nil, domain.NewErrorWithSuggestion(domain.PhaseParse, uri, line,
			"failed to parse feature file",
			"fix the Gherkin syntax or exclude the file with input.exclude",
			err)
	}
	doc.Uri = uri
	return doc, nil
}
