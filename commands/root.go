package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"phonespecs-scraper/config"
	"phonespecs-scraper/utils"
)

var (
	logLevel  string
	rulesPath string

	cfg     *config.Config
	logger  *utils.Logger
	vendors config.VendorSet
)

var rootCmd = &cobra.Command{
	Use:   "phonespecs",
	Short: "phonespecs crawls phone catalogs, extracts spec sheets and looks up sold prices.",
	// Argument errors print usage; errors from a running command do not.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return setup()
	},
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "vendor rules file (overrides VENDOR_RULES)")
}

func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	lvl, err := utils.ParseLevel(level)
	if err != nil {
		return err
	}
	logger = utils.NewLogger()
	logger.SetLevel(lvl)
	if cfg.EnvFileWarning != "" {
		logger.Warn("[config] %s", cfg.EnvFileWarning)
	}

	path := cfg.VendorRulesPath
	if rulesPath != "" {
		path = rulesPath
	}
	vendors, err = config.LoadVendorRules(path)
	if err != nil {
		return err
	}
	return nil
}

// ExecuteContext runs the CLI and exits with status 1 on error.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
