package cli

import (
	"github.com/lazypower/halflife/internal/config"
	"github.com/lazypower/halflife/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg      config.Config
	cfgPath  string
	deckDir  string
	reverse  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "halflife",
	Short: "Drill the links of a knowledge graph with Bayesian scheduling",
	Long: "Halflife loads decks of facts, introduces new ones and drills the ones you are\n" +
		"most likely to have forgotten. Recall is modelled per fact and updated after every drill.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "config file (default ~/.halflife/config.yaml)")
	pf.StringVar(&deckDir, "deck-dir", "", "directory of *.deck and *.yaml decks")
	pf.BoolVarP(&reverse, "reverse", "r", false, "swap prompt and answer of every fact")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkupCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return err
	}
	if deckDir != "" {
		cfg.Decks.Dir = deckDir
	}
	if reverse {
		cfg.Decks.Reverse = true
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return logging.Init(cfg.Log.Level, cfg.Log.JSON)
}
