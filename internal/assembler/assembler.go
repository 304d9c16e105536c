// Package assembler joins feature files into a single test-plan document.
package assembler

import (
	"context"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fjglira/featureplan/internal/domain"
)

// Separator is placed between consecutive files in a test plan.
const Separator = "\n\n"

// Assembler reads feature files concurrently and joins them in input order.
type Assembler struct {
	jobs int
}

// New creates an Assembler. jobs <= 0 uses GOMAXPROCS.
func New(jobs int) *Assembler {
	return &Assembler{jobs: jobs}
}

// AssembleTestPlan is a shorthand for New(0).Assemble(ctx, fileIDs).
func AssembleTestPlan(ctx context.Context, fileIDs []string) (string, error) {
	return New(0).Assemble(ctx, fileIDs)
}

// Assemble returns the contents of fileIDs joined with Separator. File content
// is kept byte for byte. Any failed read aborts the whole plan.
func (a *Assembler) Assemble(ctx context.Context, fileIDs []string) (string, error) {
	if len(fileIDs) == 0 {
		return "", nil
	}

	jobs := a.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	texts := make([]string, len(fileIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(fileIDs)))

	for i, path := range fileIDs {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return domain.NewErrorWithSuggestion(domain.PhaseRead, path, 0,
					"failed to read feature file",
					"the file may have been moved or deleted since selection",
					err)
			}
			texts[i] = string(data)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	var b strings.Builder
	for i, text := range texts {
		if i > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
