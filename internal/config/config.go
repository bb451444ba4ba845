package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// App describes one installable application: where its listing page lives,
// how to scrape a version from it, and how to build the artifact URL.
// - Name: logical name used on the command line (e.g. "r", "rstudio").
// - PageURL: vendor listing page scraped for the latest version.
// - Pattern: regexp run over the page body; capture group 1 is the version
//   token. When the pattern matches a full URL, that match is used directly
//   as the download URL.
// - BaseURL/Artifact: URL base and artifact name template used to assemble
//   the download URL; both may contain the {version} placeholder.
type App struct {
	Name     string `yaml:"name"`
	PageURL  string `yaml:"page_url"`
	Pattern  string `yaml:"pattern"`
	BaseURL  string `yaml:"base_url"`
	Artifact string `yaml:"artifact"`
}

// DirectURL reports whether the app's pattern yields a full download URL
// instead of a bare version token. Apps without an artifact template fall in
// this category (RStudio, the viewer).
func (a App) DirectURL() bool {
	return a.Artifact == ""
}

// URL assembles the artifact download URL for the given version by expanding
// the {version} placeholder in the base URL and artifact template.
func (a App) URL(version string) string {
	base := strings.ReplaceAll(a.BaseURL, "{version}", version)
	artifact := strings.ReplaceAll(a.Artifact, "{version}", version)
	return base + artifact
}

// Share describes an SMB share to mount via mount_smbfs.
type Share struct {
	Name       string `yaml:"name"`
	Host       string `yaml:"host"`
	Share      string `yaml:"share"`
	User       string `yaml:"user"`
	MountPoint string `yaml:"mountpoint"`
}

// VPN holds the scutil network-connection service name.
type VPN struct {
	Service string `yaml:"service"`
}

// PassDB describes the password database: the repository it is cloned from,
// the local clone directory, and the database filename opened after cloning.
type PassDB struct {
	Repo string `yaml:"repo"`
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

// Config is the top-level structure returned after loading the YAML
// configuration. Built once at startup and treated as immutable afterwards;
// per-run flag overrides are applied to copies of the relevant entries.
type Config struct {
	Apps   []App   `yaml:"apps"`
	Shares []Share `yaml:"shares"`
	VPN    VPN     `yaml:"vpn"`
	PassDB PassDB  `yaml:"passdb"`
}

// Default returns the built-in configuration covering the four known apps.
// The tool is fully usable without a config file; a file only overrides or
// extends these entries.
func Default() Config {
	return Config{
		Apps: []App{
			{
				Name:     "r",
				PageURL:  "https://cloud.r-project.org/bin/macosx/",
				Pattern:  `R-([0-9]+\.[0-9]+\.[0-9]+)(?:-arm64)?\.pkg`,
				BaseURL:  "https://cloud.r-project.org/bin/macosx/",
				Artifact: "R-{version}.pkg",
			},
			{
				Name:    "rstudio",
				PageURL: "https://posit.co/download/rstudio-desktop/",
				Pattern: `https://download1\.rstudio\.org/[^"']*RStudio-([0-9][0-9.+-]*)\.dmg`,
			},
			{
				Name:     "libreoffice",
				PageURL:  "https://www.libreoffice.org/download/download-libreoffice/",
				Pattern:  `LibreOffice_([0-9]+\.[0-9]+\.[0-9]+)_MacOS`,
				BaseURL:  "https://download.documentfoundation.org/libreoffice/stable/{version}/mac/x86_64/",
				Artifact: "LibreOffice_{version}_MacOS_x86-64.dmg",
			},
			{
				Name:    "viewer",
				PageURL: "https://www.firestormviewer.org/os-operating-system/",
				Pattern: `https://downloads\.firestormviewer\.org/[^"']*Phoenix-Firestorm[^"']*-([0-9]+-[0-9.]+)\.dmg`,
			},
		},
		VPN: VPN{Service: "VPN"},
		PassDB: PassDB{
			Dir:  "~/passdb",
			File: "passwords.kdbx",
		},
	}
}

// Load reads the YAML config file at path and overlays it on the built-in
// defaults. A missing file yields the defaults unchanged; a malformed file is
// an error. Apps and shares in the file replace same-named defaults and
// otherwise extend the list.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}

	for _, app := range file.Apps {
		cfg.Apps = upsertApp(cfg.Apps, app)
	}
	for _, share := range file.Shares {
		cfg.Shares = upsertShare(cfg.Shares, share)
	}
	if file.VPN.Service != "" {
		cfg.VPN = file.VPN
	}
	if file.PassDB.Repo != "" || file.PassDB.Dir != "" || file.PassDB.File != "" {
		if file.PassDB.Repo != "" {
			cfg.PassDB.Repo = file.PassDB.Repo
		}
		if file.PassDB.Dir != "" {
			cfg.PassDB.Dir = file.PassDB.Dir
		}
		if file.PassDB.File != "" {
			cfg.PassDB.File = file.PassDB.File
		}
	}

	return cfg, nil
}

// App returns the named app entry, or false when no such app is configured.
func (c Config) App(name string) (App, bool) {
	for _, app := range c.Apps {
		if app.Name == name {
			return app, true
		}
	}
	return App{}, false
}

// Share returns the named share, or the first configured share when name is
// empty. The second return is false when nothing matches.
func (c Config) Share(name string) (Share, bool) {
	if name == "" {
		if len(c.Shares) == 0 {
			return Share{}, false
		}
		return c.Shares[0], true
	}
	for _, share := range c.Shares {
		if share.Name == name {
			return share, true
		}
	}
	return Share{}, false
}

func upsertApp(apps []App, app App) []App {
	for i := range apps {
		if apps[i].Name == app.Name {
			apps[i] = app
			return apps
		}
	}
	return append(apps, app)
}

func upsertShare(shares []Share, share Share) []Share {
	for i := range shares {
		if shares[i].Name == share.Name {
			shares[i] = share
			return shares
		}
	}
	return append(shares, share)
}
