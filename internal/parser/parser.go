package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	messages "github.com/cucumber/messages/go/v21"
)

// Parser turns the content of one feature file into a Gherkin document.
type Parser interface {
	Parse(uri string, content []byte, newID func() string) (*messages.GherkinDocument, error)
	SupportedExtensions() []string
}

// ParserRegistry maps file extensions to parsers.
type ParserRegistry interface {
	Register(parser Parser)
	ParserFor(extension string) (Parser, error)
}

// DefaultRegistry is a thread-safe parser registry with fallback support.
type DefaultRegistry struct {
	mu       sync.RWMutex
	parsers  map[string]Parser
	fallback Parser
}

// NewRegistry creates a new DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		parsers: make(map[string]Parser),
	}
}

// NewDefaultRegistry returns a registry with the Gherkin and Markdown parsers
// registered and Gherkin as the fallback.
func NewDefaultRegistry() *DefaultRegistry {
	r := NewRegistry()
	g := NewGherkinParser()
	r.Register(g)
	r.Register(NewMarkdownParser())
	r.SetFallback(g)
	return r
}

// Register adds a parser to the registry for each of its supported extensions.
func (r *DefaultRegistry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range p.SupportedExtensions() {
		ext = strings.TrimPrefix(ext, ".")
		r.parsers[ext] = p
	}
}

// SetFallback sets the fallback parser for unregistered extensions.
func (r *DefaultRegistry) SetFallback(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = p
}

// ParserFor returns the parser registered for the given file extension.
// If no parser is found, it returns the fallback parser if set.
func (r *DefaultRegistry) ParserFor(extension string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.TrimPrefix(extension, ".")
	if p, ok := r.parsers[ext]; ok {
		return p, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no parser registered for extension %q", extension)
}

// ExtensionOf returns the extension used for parser lookup. Markdown feature
// files keep their double extension so "a.feature.md" resolves to "feature.md".
func ExtensionOf(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(base, ".feature.md") {
		return ".feature.md"
	}
	return filepath.Ext(base)
}
