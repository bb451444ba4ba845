package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fbzwsqualitasag/qmactools/internal/config"
	"github.com/fbzwsqualitasag/qmactools/internal/logger"
	"github.com/fbzwsqualitasag/qmactools/internal/macos"
)

// passdbCmd groups the password-database helpers: clone the repository that
// holds the database, and open the database file itself.
var passdbCmd = &cobra.Command{
	Use:   "passdb",
	Short: "Clone or open the password database",
}

// passdbCloneCmd clones the configured password-database repository.
var passdbCloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Clone the password database repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Start("passdb clone")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.PassDB.Repo == "" {
			return fmt.Errorf("no password database repository configured; set passdb.repo in %s", configPath)
		}

		dir := macos.ExpandHome(cfg.PassDB.Dir)
		if _, err := os.Stat(dir); err == nil {
			logger.Info("[INFO] %s already exists. Skipping clone.\n", dir)
			return nil
		}

		if !confirmer().Confirm(fmt.Sprintf("Clone %s to %s?", cfg.PassDB.Repo, dir)) {
			logger.Warn("[WARN] Clone declined\n")
			return nil
		}

		mac := macos.New(macos.ExecRunner{})
		if err := mac.GitClone(cfg.PassDB.Repo, dir); err != nil {
			return err
		}
		logger.End("passdb clone")
		return nil
	},
}

// passdbOpenCmd opens the database file with the default application.
var passdbOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the password database file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Start("passdb open")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		dbPath := filepath.Join(macos.ExpandHome(cfg.PassDB.Dir), cfg.PassDB.File)
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("password database %s not found; run `qmactools passdb clone` first", dbPath)
		}

		mac := macos.New(macos.ExecRunner{})
		if err := mac.Open(dbPath); err != nil {
			return err
		}
		logger.End("passdb open")
		return nil
	},
}

func init() {
	passdbCmd.AddCommand(passdbCloneCmd)
	passdbCmd.AddCommand(passdbOpenCmd)
	rootCmd.AddCommand(passdbCmd)
}
