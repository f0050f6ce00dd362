package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/palette"
)

const version = "1.0"

// --- Global Command Variables ---
var (
	configPath string
	logLevel   string

	// play flags
	relax       bool
	showCount   bool
	showX       bool
	choices     int
	colorWords  bool
	initials    bool
	letters     string
	words       string
	withHistory bool

	rootCmd = &cobra.Command{
		Use:   "mastermind",
		Short: "The program as Master Mind (with apologies to Donald E. Knuth)",
		Long: `The program makes guesses and you supply the answers. If the answers
are correct, the program is guaranteed to find the code in 5 guesses or less.

Inspired by "The Computer as Master Mind", J. Recreational Mathematics,
Vol 9(1), 1976-77 by Donald E. Knuth.`,
		Example: `  mastermind                 # digits 1-6, Knuth's strict choices
  mastermind -cx -C 10       # show counts, extensions, and short candidate lists
  mastermind --guess         # Red Yellow Green Blue Tan Purple
  mastermind -l abcdef       # your own six letters
  mastermind serve           # HTTP service for remote oracles`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runPlay, // Defined in cmd_play.go
	}
)

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetVersionTemplate("This is Master Mind, version {{.Version}}.\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (default $MASTERMIND_CONFIG or ./mastermind.yaml)")
	pf.StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	f := rootCmd.Flags()
	f.BoolP("version", "V", false, "show the version number and exit")
	f.BoolVarP(&relax, "relax", "r", false,
		"pick at random among all guesses with the best worst case, instead of Knuth's lowest-numbered rule")
	f.BoolVarP(&showCount, "show-count", "c", false, "show the number of codes which remain possible answers")
	f.BoolVarP(&showX, "show-x", "x", false, `mark a guess that cannot be the code with "x" after it`)
	f.BoolVar(&showX, "show-extension", false, "alias for --show-x")
	_ = f.MarkHidden("show-extension")
	f.IntVarP(&choices, "choices", "C", 0, "list remaining candidates when at most this many are left (0 never)")
	f.BoolVarP(&colorWords, "guess", "G", false, "show guesses as colors: Red, Yellow, Green, Blue, Tan, Purple")
	f.BoolVarP(&initials, "initials", "g", false, `show guesses as letters from "rygbtp"`)
	f.StringVarP(&letters, "letters", "l", "", "show guesses as letters from this 6-letter string")
	f.StringVarP(&words, "words", "w", "", "show guesses as words from this comma-separated list of 6 words")
	f.BoolVar(&withHistory, "history", false, "record finished rounds in the history database")
	rootCmd.MarkFlagsMutuallyExclusive("guess", "initials", "letters", "words")

	rootCmd.AddCommand(serveCmd, analyzeCmd)
}

// loadConfig reads the configuration and applies the global log level.
// quiet raises the default level to warn unless a level was asked for.
func loadConfig(cmd *cobra.Command, quiet bool) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	explicit := os.Getenv("LOG_LEVEL") != ""
	if logLevel != "" {
		cfg.LogLevel = logLevel
		explicit = true
	}
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, fmt.Errorf("--log-level: %w", err)
	}
	if quiet && !explicit && lvl < zerolog.WarnLevel {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return cfg, nil
}

// choosePalette resolves the palette flags, falling back to the configured
// built-in.
func choosePalette(cmd *cobra.Command, fallback string) (*palette.Palette, error) {
	switch {
	case colorWords:
		return palette.Builtin("colors")
	case initials:
		return palette.Builtin("initials")
	case cmd.Flags().Changed("letters"):
		return palette.Letters(letters)
	case cmd.Flags().Changed("words"):
		return palette.Words(words)
	case fallback != "":
		return palette.Builtin(fallback)
	}
	return palette.Digits(), nil
}
