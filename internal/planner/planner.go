package planner

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/featureplan/internal/assembler"
	"github.com/fjglira/featureplan/internal/config"
	"github.com/fjglira/featureplan/internal/domain"
	"github.com/fjglira/featureplan/internal/selector"
)

// FileSelector resolves the active feature files for a configuration.
type FileSelector interface {
	Select(ctx context.Context, cfg *config.Config) ([]string, error)
}

// TextAssembler joins feature files into one document.
type TextAssembler interface {
	Assemble(ctx context.Context, fileIDs []string) (string, error)
}

// Planner is the top-level orchestrator: select, assemble, write.
type Planner struct {
	selector  FileSelector
	assembler TextAssembler
	stdout    io.Writer
	log       *logrus.Logger
}

// NewPlanner creates a Planner. stdout receives the plan when output.file is
// empty or "-". A nil logger discards output.
func NewPlanner(s FileSelector, a TextAssembler, stdout io.Writer, log *logrus.Logger) *Planner {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Planner{
		selector:  s,
		assembler: a,
		stdout:    stdout,
		log:       log,
	}
}

// NewFromConfig wires the default selector and assembler for cfg.
func NewFromConfig(cfg *config.Config, stdout io.Writer, log *logrus.Logger) *Planner {
	return NewPlanner(
		selector.NewFromConfig(cfg, log),
		assembler.New(cfg.Input.Jobs),
		stdout,
		log,
	)
}

// Select only resolves the active files.
func (p *Planner) Select(ctx context.Context, cfg *config.Config) ([]string, error) {
	return p.selector.Select(ctx, cfg)
}

// Plan runs the full pipeline: select → assemble → write.
func (p *Planner) Plan(ctx context.Context, cfg *config.Config) (*domain.PlanResult, error) {
	p.log.Debugf("Selecting feature files from %v", cfg.Input.FeaturePaths)
	files, err := p.selector.Select(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		p.log.Warn("No feature file matches the filter")
	} else {
		p.log.Infof("Found %d active feature file(s)", len(files))
	}

	text, err := p.assembler.Assemble(ctx, files)
	if err != nil {
		return nil, err
	}
	result := &domain.PlanResult{ActiveFiles: files, Text: text}

	target := cfg.Output.File
	if cfg.DryRun {
		p.log.Infof("[DRY-RUN] Would write %d byte(s) to %s", len(text), describe(target))
		p.log.Debugf("[DRY-RUN] Content:\n%s", text)
		return result, nil
	}

	if err := p.write(target, text); err != nil {
		return nil, err
	}
	p.log.Info("Test plan complete")
	return result, nil
}

func (p *Planner) write(target, text string) error {
	if isStdout(target) {
		if _, err := io.WriteString(p.stdout, text); err != nil {
			return domain.NewError(domain.PhaseWrite, "stdout", 0, "failed to write test plan", err)
		}
		return nil
	}

	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.NewErrorWithSuggestion(domain.PhaseWrite, dir, 0,
				"failed to create output directory",
				"check that the parent directory exists and has write permissions",
				err)
		}
	}

	p.log.Infof("Writing: %s", target)
	if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
		return domain.NewErrorWithSuggestion(domain.PhaseWrite, target, 0,
			"failed to write test plan",
			"check disk space and write permissions for output.file",
			err)
	}
	return nil
}

func isStdout(target string) bool {
	return target == "" || target == "-"
}

func describe(target string) string {
	if isStdout(target) {
		return "stdout"
	}
	return target
}
