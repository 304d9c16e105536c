package parser

import (
	"bytes"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/fjglira/featureplan/internal/domain"
)

// MarkdownParser parses Markdown-with-Gherkin documents. The Markdown is
// rewritten into plain Gherkin, keeping every construct on its source line so
// locations (and therefore line filters) refer to the original file.
//
// Recognised constructs:
//   - headings starting with a Gherkin keyword ("# Feature: Checkout")
//   - paragraphs made only of inline-code tags ("`@smoke` `@ui`")
//   - list items starting with a step keyword ("* Given a cart")
//   - GFM tables (data tables and examples)
//   - fenced code blocks (doc strings)
//
// Everything else is treated as free text and dropped.
type MarkdownParser struct{}

// NewMarkdownParser creates a new MarkdownParser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *MarkdownParser) SupportedExtensions() []string {
	return []string{".feature.md", ".md", ".markdown"}
}

// Parse converts the Markdown to Gherkin and parses the result.
func (p *MarkdownParser) Parse(uri string, content []byte, newID func() string) (*messages.GherkinDocument, error) {
	source, language, err := ToGherkin(content)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion(domain.PhaseParse, uri, 0,
			"failed to walk markdown AST",
			"check the markdown file for syntax issues",
			err)
	}
	return parseGherkin(uri, []byte(source), language, newID)
}

// ToGherkin rewrites a Markdown-with-Gherkin document into Gherkin source and
// reports the dialect declared with a "# language: xx" heading.
func ToGherkin(content []byte) (string, string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(content))

	out := &lineWriter{lines: make([]string, bytes.Count(content, []byte("\n"))+1)}
	language := gherkin.DefaultDialect
	dialect := gherkin.DialectsBuiltin().GetDialect(language)

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Lines().Len() == 0 {
				return ast.WalkSkipChildren, nil
			}
			seg := node.Lines().At(0)
			headingText := strings.TrimSpace(string(seg.Value(content)))
			if lang, ok := strings.CutPrefix(headingText, "language:"); ok {
				lang = strings.TrimSpace(lang)
				if d := gherkin.DialectsBuiltin().GetDialect(lang); d != nil {
					language, dialect = lang, d
				}
				out.put(lineNumber(content, seg.Start), "# language: "+lang)
				return ast.WalkSkipChildren, nil
			}
			if hasKeyword(headingText, blockKeywords(dialect), ":") {
				out.put(lineNumber(content, seg.Start), headingText)
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				if tags, ok := tagLine(string(seg.Value(content))); ok {
					out.put(lineNumber(content, seg.Start), tags)
				}
			}
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			first := node.FirstChild()
			if first == nil || first.Lines().Len() == 0 {
				return ast.WalkContinue, nil
			}
			seg := first.Lines().At(0)
			step := strings.TrimSpace(string(seg.Value(content)))
			if hasKeyword(step, dialect.StepKeywords(), "") {
				out.put(lineNumber(content, seg.Start), step)
			}
			// nested lists and tables are picked up by the rest of the walk
			return ast.WalkContinue, nil

		case *east.Table:
			prev := 0
			for row := node.FirstChild(); row != nil; row = row.NextSibling() {
				line, cells := tableRow(row, content)
				if line == 0 {
					line = prev + 1
				}
				out.put(line, "| "+strings.Join(cells, " | ")+" |")
				prev = line
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			lines := node.Lines()
			var open int
			switch {
			case lines.Len() > 0:
				open = lineNumber(content, lines.At(0).Start) - 1
			case node.Info != nil:
				open = lineNumber(content, node.Info.Segment.Start)
			default:
				return ast.WalkSkipChildren, nil
			}
			out.put(open, `"""`+string(node.Language(content)))
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				out.put(open+1+i, strings.TrimRight(string(seg.Value(content)), "\r\n"))
			}
			out.put(open+1+lines.Len(), `"""`)
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", "", err
	}

	return strings.Join(out.lines, "\n"), language, nil
}

// lineWriter places Gherkin lines at fixed 1-based line numbers.
type lineWriter struct {
	lines []string
}

func (w *lineWriter) put(line int, s string) {
	if line < 1 {
		return
	}
	for len(w.lines) < line {
		w.lines = append(w.lines, "")
	}
	w.lines[line-1] = s
}

// blockKeywords returns every keyword that may open a heading.
func blockKeywords(d *gherkin.Dialect) []string {
	var kws []string
	kws = append(kws, d.FeatureKeywords()...)
	kws = append(kws, d.RuleKeywords()...)
	kws = append(kws, d.BackgroundKeywords()...)
	kws = append(kws, d.ScenarioOutlineKeywords()...)
	kws = append(kws, d.ScenarioKeywords()...)
	kws = append(kws, d.ExamplesKeywords()...)
	return kws
}

func hasKeyword(s string, keywords []string, suffix string) bool {
	for _, kw := range keywords {
		if strings.HasPrefix(s, kw+suffix) {
			return true
		}
	}
	return false
}

// tagLine converts "`@a` `@b`" into "@a @b". Lines holding anything but
// inline-code tags are rejected.
func tagLine(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 || !strings.HasPrefix(f, "`@") || !strings.HasSuffix(f, "`") {
			return "", false
		}
		tags = append(tags, strings.Trim(f, "`"))
	}
	return strings.Join(tags, " "), true
}

// tableRow returns the source line and the cell values of a table row or header.
func tableRow(row ast.Node, content []byte) (int, []string) {
	line := 0
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cell, ok := c.(*east.TableCell)
		if !ok {
			continue
		}
		value := ""
		if cell.Lines().Len() > 0 {
			seg := cell.Lines().At(0)
			value = strings.TrimSpace(string(seg.Value(content)))
			if line == 0 {
				line = lineNumber(content, seg.Start)
			}
		}
		cells = append(cells, value)
	}
	return line, cells
}

// lineNumber calculates the 1-based line number for a byte offset.
func lineNumber(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
