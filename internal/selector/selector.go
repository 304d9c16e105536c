// Package selector resolves which feature files contain at least one scenario
// matching the configured filter.
package selector

import (
	"context"

	messages "github.com/cucumber/messages/go/v21"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/featureplan/internal/config"
	"github.com/fjglira/featureplan/internal/domain"
	"github.com/fjglira/featureplan/internal/filter"
	"github.com/fjglira/featureplan/internal/parser"
	"github.com/fjglira/featureplan/internal/scanner"
)

// FilterFactory builds the pickle matcher for one selection.
type FilterFactory func(opts filter.Options) (filter.Matcher, error)

// Selector wires the scanner, the Gherkin stream and the pickle filter.
type Selector struct {
	scanner   scanner.Scanner
	streamer  parser.Streamer
	newFilter FilterFactory
	logger    *logrus.Logger
}

// New creates a Selector from its collaborators. A nil logger discards output.
func New(s scanner.Scanner, st parser.Streamer, newFilter FilterFactory, logger *logrus.Logger) *Selector {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	return &Selector{scanner: s, streamer: st, newFilter: newFilter, logger: logger}
}

// NewFromConfig creates a Selector using the file scanner, the default parser
// registry and the tag/name/line pickle filter.
func NewFromConfig(cfg *config.Config, logger *logrus.Logger) *Selector {
	return New(
		scanner.NewScanner(cfg.Input.IsRecursive()),
		parser.NewStreamer(parser.NewDefaultRegistry(), cfg.Input.Jobs),
		func(opts filter.Options) (filter.Matcher, error) { return filter.New(opts) },
		logger,
	)
}

// SelectActiveFiles is a shorthand for NewFromConfig(cfg, nil).Select(ctx, cfg).
func SelectActiveFiles(ctx context.Context, cfg *config.Config) ([]string, error) {
	return NewFromConfig(cfg, nil).Select(ctx, cfg)
}

// Select returns the uris of files holding at least one matching pickle, each
// once, in the order their first matching pickle appears. Nothing matching
// yields an empty, non-nil slice.
func (s *Selector) Select(ctx context.Context, cfg *config.Config) ([]string, error) {
	set, err := s.scanner.Expand(cfg.Input.FeaturePaths, cfg.Input.Include, cfg.Input.Exclude)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("Expanded feature paths into %d file(s)", len(set.Paths))

	// built before parsing so a bad expression fails fast
	matcher, err := s.newFilter(filter.Options{
		TagExpression: cfg.Filter.TagExpression,
		Names:         cfg.Filter.Names,
		Lines:         set.Lines,
	})
	if err != nil {
		return nil, err
	}

	envelopes, err := s.streamer.Stream(ctx, set.Paths)
	if err != nil {
		return nil, err
	}

	return collect(envelopes, matcher, s.logger)
}

func collect(envelopes []domain.Envelope, matcher filter.Matcher, logger *logrus.Logger) ([]string, error) {
	active := []string{}
	seen := make(map[string]struct{})
	var doc *messages.GherkinDocument

	for _, env := range envelopes {
		switch {
		case env.Document != nil:
			doc = env.Document
		case env.Pickle != nil:
			if doc == nil {
				return nil, domain.NewError(domain.PhaseParse, env.Pickle.Uri, 0,
					"pickle received before its document", nil)
			}
			if !matcher.Matches(doc, env.Pickle) {
				continue
			}
			if _, ok := seen[env.Pickle.Uri]; ok {
				continue
			}
			seen[env.Pickle.Uri] = struct{}{}
			active = append(active, env.Pickle.Uri)
			logger.Debugf("Active: %s (scenario %q)", env.Pickle.Uri, env.Pickle.Name)
		}
	}

	return active, nil
}
