package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/featureplan/internal/config"
	"github.com/fjglira/featureplan/internal/domain"
)

const defaultConfigFile = "featureplan.yaml"

var (
	cfgFile string
	verbose bool
	dryRun  bool
	log     = logrus.New()
	logFile *os.File // set while logging.file is open
)

// rootCmd is the base command for featureplan.
var rootCmd = &cobra.Command{
	Use:   "featureplan",
	Short: "Assemble a test plan from tagged Gherkin feature files",
	Long: `featureplan selects the feature files holding at least one scenario
that matches a tag expression and joins their text into a single test plan.

Settings come from featureplan.yaml (or a .toml file), FEATUREPLAN_* environment
variables and command-line flags, in increasing order of precedence.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(cmd.ErrOrStderr())
		log.SetLevel(logrus.InfoLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path (.yaml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "select and assemble but don't write the plan")

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// Execute runs the root command.
func Execute() error {
	defer closeLogFile()
	return rootCmd.Execute()
}

// closeLogFile closes the logging.file handle, if any, and logs to stderr again.
func closeLogFile() {
	if logFile == nil {
		return
	}
	log.SetOutput(os.Stderr)
	_ = logFile.Close()
	logFile = nil
}

// loadConfig reads the config file, applies environment overrides and the
// persistent flags, and validates the result. A missing default config file
// is not an error; built-in defaults are used instead.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if cfgFile != defaultConfigFile || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Debugf("No %s found, using defaults", defaultConfigFile)
		cfg = config.DefaultConfig()
	}

	config.ApplyEnv(cfg)
	if dryRun {
		cfg.DryRun = true
	}
	return cfg, nil
}

// configureLogging applies logging.level and logging.file. --verbose wins over
// the configured level.
func configureLogging(cfg *config.Config) error {
	if !verbose && cfg.Logging.Level != "" {
		level, err := logrus.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return domain.NewError(domain.PhaseConfig, cfgFile, 0, "invalid logging.level", err)
		}
		log.SetLevel(level)
	}

	if cfg.Logging.File != "" {
		closeLogFile()
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return domain.NewErrorWithSuggestion(domain.PhaseConfig, cfg.Logging.File, 0,
				"failed to open log file",
				"check logging.file or leave it empty to log to stderr",
				err)
		}
		logFile = f
		log.SetOutput(f)
	}
	return nil
}
