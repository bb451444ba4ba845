package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbzwsqualitasag/qmactools/internal/config"
	"github.com/fbzwsqualitasag/qmactools/internal/download"
	"github.com/fbzwsqualitasag/qmactools/internal/installer"
	"github.com/fbzwsqualitasag/qmactools/internal/logger"
	"github.com/fbzwsqualitasag/qmactools/internal/macos"
	"github.com/fbzwsqualitasag/qmactools/internal/resolver"
	"github.com/fbzwsqualitasag/qmactools/internal/state"
)

// Per-install flag values, applied on top of the configured app entry.
var (
	installVersion  string
	installURL      string
	installDir      string
	installKeep     bool
	installChecksum string
)

// installCmd downloads and installs one application. The app name selects a
// configured entry (built-in: r, rstudio, libreoffice, viewer). Without
// overrides the latest version is scraped from the vendor's listing page.
var installCmd = &cobra.Command{
	Use:   "install <app>",
	Short: "Download and install an application (r, rstudio, libreoffice, viewer, or configured)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		logger.Start("install " + name)

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		app, ok := cfg.App(name)
		if !ok {
			return fmt.Errorf("unknown app %q, configured apps: %s", name, strings.Join(appNames(cfg), ", "))
		}

		st := state.Load(statePath)
		inst := installer.New(
			resolver.New(),
			download.Fetch,
			download.VerifySHA256,
			macos.New(macos.ExecRunner{}),
			confirmer(),
			st,
		)

		if err := inst.Install(app, installer.Options{
			Version:  installVersion,
			URL:      installURL,
			Dir:      installDir,
			Keep:     installKeep,
			Checksum: installChecksum,
		}); err != nil {
			return err
		}

		if err := state.Save(statePath, st); err != nil {
			return err
		}
		logger.End("install " + name)
		return nil
	},
}

// appNames lists the configured app names for the unknown-app diagnostic.
func appNames(cfg config.Config) []string {
	names := make([]string, 0, len(cfg.Apps))
	for _, app := range cfg.Apps {
		names = append(names, app.Name)
	}
	return names
}

func init() {
	installCmd.Flags().StringVarP(&installVersion, "version", "v", "", "Install this version instead of resolving the latest")
	installCmd.Flags().StringVarP(&installURL, "url", "u", "", "Download this artifact URL directly")
	installCmd.Flags().StringVarP(&installDir, "dir", "d", "", "Download directory (default: system temp dir)")
	installCmd.Flags().BoolVarP(&installKeep, "keep", "k", false, "Keep the downloaded artifact, skip the cleanup prompt")
	installCmd.Flags().StringVar(&installChecksum, "checksum", "", "Expected SHA-256 of the downloaded artifact")

	rootCmd.AddCommand(installCmd)
}
