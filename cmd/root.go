package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fbzwsqualitasag/qmactools/internal/logger"
	"github.com/fbzwsqualitasag/qmactools/internal/prompt"
	"github.com/fbzwsqualitasag/qmactools/internal/state"
)

// debug indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// assumeYes answers every interactive prompt with "y" when set via `--yes`.
var assumeYes bool

// configPath is the optional YAML config file overriding the built-in
// defaults (app listing pages, SMB shares, VPN service, password database).
var configPath string

// statePath is the JSON state file tracking installed versions and mounts.
var statePath string

// rootCmd is the base command for the CLI tool `qmactools`.
// It sets up the root-level CLI structure and provides global flags.
var rootCmd = &cobra.Command{
	Use:   "qmactools",
	Short: "macOS desktop administration tasks: install apps, mount shares, VPN, password database",

	// PersistentPreRun is a hook that runs before any subcommand.
	// Here, we initialize the logger based on the debug flag.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},

	// Runtime failures are reported through the logger in Execute; usage is
	// only shown for actual usage errors.
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute initializes flags, registers subcommands, and starts the command
// execution. Any error from a subcommand is printed and the process exits
// with status 1 (the first failing step aborts the whole run).
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to all prompts")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "qmactools.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", state.DefaultPath(), "Path to state file")

	// Flag errors still show the usage text naming the offending flag even
	// though runtime errors silence it.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n%s", err, cmd.UsageString())
	})

	if err := rootCmd.Execute(); err != nil {
		logger.Init(debug)
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// confirmer returns the prompt implementation for this run: always-yes when
// --yes was given, otherwise an interactive stdin prompt.
func confirmer() prompt.Confirmer {
	if assumeYes {
		return prompt.Always{Answer: true}
	}
	return prompt.NewStdin()
}
