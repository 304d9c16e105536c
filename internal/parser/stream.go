package parser

import (
	"context"
	"os"
	"runtime"
	"strconv"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"golang.org/x/sync/errgroup"

	"github.com/fjglira/featureplan/internal/domain"
)

// Streamer turns feature file paths into an ordered envelope stream.
type Streamer interface {
	Stream(ctx context.Context, paths []string) ([]domain.Envelope, error)
}

// GherkinStreamer parses files concurrently and emits, per file and in input
// order, the document followed by its pickles.
type GherkinStreamer struct {
	registry ParserRegistry
	jobs     int
}

// NewStreamer creates a GherkinStreamer. jobs <= 0 uses GOMAXPROCS.
func NewStreamer(registry ParserRegistry, jobs int) *GherkinStreamer {
	return &GherkinStreamer{registry: registry, jobs: jobs}
}

type parsedFile struct {
	doc     *messages.GherkinDocument
	pickles []*messages.Pickle
}

// Stream parses every path. The first failure cancels outstanding work and is
// returned as-is; no envelopes are returned alongside an error.
func (s *GherkinStreamer) Stream(ctx context.Context, paths []string) ([]domain.Envelope, error) {
	if len(paths) == 0 {
		return []domain.Envelope{}, nil
	}

	jobs := s.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// one slot per path, so no locking is needed
	results := make([]parsedFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pf, err := s.parseFile(i, path)
			if err != nil {
				return err
			}
			results[i] = pf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	envelopes := make([]domain.Envelope, 0, len(paths))
	for _, pf := range results {
		envelopes = append(envelopes, domain.Envelope{Document: pf.doc})
		for _, p := range pf.pickles {
			envelopes = append(envelopes, domain.Envelope{Pickle: p})
		}
	}
	return envelopes, nil
}

func (s *GherkinStreamer) parseFile(index int, path string) (parsedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return parsedFile{}, domain.NewErrorWithSuggestion(domain.PhaseParse, path, 0,
			"failed to read feature file",
			"check that the file exists and has read permissions",
			err)
	}

	p, err := s.registry.ParserFor(ExtensionOf(path))
	if err != nil {
		return parsedFile{}, domain.NewError(domain.PhaseParse, path, 0, "no parser for feature file", err)
	}

	newID := fileIDGenerator(index)
	doc, err := p.Parse(path, content, newID)
	if err != nil {
		return parsedFile{}, err
	}

	return parsedFile{
		doc:     doc,
		pickles: gherkin.Pickles(*doc, path, newID),
	}, nil
}

// fileIDGenerator yields ids unique across the stream: "<file index>:<n>".
func fileIDGenerator(index int) func() string {
	inc := &messages.Incrementing{}
	prefix := strconv.Itoa(index) + ":"
	return func() string {
		return prefix + inc.NewId()
	}
}
