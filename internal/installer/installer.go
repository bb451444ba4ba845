package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/fbzwsqualitasag/qmactools/internal/config"
	"github.com/fbzwsqualitasag/qmactools/internal/logger"
	"github.com/fbzwsqualitasag/qmactools/internal/macos"
	"github.com/fbzwsqualitasag/qmactools/internal/prompt"
	"github.com/fbzwsqualitasag/qmactools/internal/resolver"
	"github.com/fbzwsqualitasag/qmactools/internal/state"
)

// Options are the per-run overrides for one install.
// An explicit Version skips the version resolver entirely; an explicit URL
// additionally skips URL assembly. Checksum is an optional SHA-256 the
// downloaded artifact must match.
type Options struct {
	Version  string
	URL      string
	Dir      string
	Keep     bool
	Checksum string
}

// Resolver is the version-discovery dependency, satisfied by
// resolver.Resolver in production and stubbed in tests.
type Resolver interface {
	Resolve(app config.App) (resolver.Resolution, error)
}

// Fetcher downloads a URL into a directory and returns the local file path.
type Fetcher func(url, destDir string) (string, error)

// Verifier checks a downloaded file against an expected SHA-256 digest.
type Verifier func(path, expected string) error

// Installer runs the install pipeline for one app:
// resolve -> build URL -> download -> confirm -> invoke -> cleanup.
type Installer struct {
	resolver Resolver
	fetch    Fetcher
	verify   Verifier
	mac      *macos.Commands
	confirm  prompt.Confirmer
	st       *state.State
}

// New wires an Installer from its dependencies.
func New(res Resolver, fetch Fetcher, verify Verifier, mac *macos.Commands, confirm prompt.Confirmer, st *state.State) *Installer {
	return &Installer{
		resolver: res,
		fetch:    fetch,
		verify:   verify,
		mac:      mac,
		confirm:  confirm,
		st:       st,
	}
}

// Plan determines the version and artifact URL for the run without touching
// the network unless resolution is actually needed.
func (i *Installer) Plan(app config.App, opts Options) (version, url string, err error) {
	if opts.URL != "" {
		logger.Debug("[DEBUG] Using explicit URL for %s: %s\n", app.Name, opts.URL)
		return opts.Version, opts.URL, nil
	}

	if opts.Version != "" {
		if app.DirectURL() {
			return "", "", fmt.Errorf(
				"%s has no artifact URL template, a bare --version is not enough; use --url instead", app.Name)
		}
		logger.Debug("[DEBUG] Using explicit version for %s: %s\n", app.Name, opts.Version)
		return opts.Version, app.URL(opts.Version), nil
	}

	res, err := i.resolver.Resolve(app)
	if err != nil {
		return "", "", err
	}
	if app.DirectURL() {
		return res.Version, res.URL, nil
	}
	return res.Version, app.URL(res.Version), nil
}

// Install runs the full pipeline for one app. The downloaded artifact is
// handed to the matching macOS mechanism: .pkg to the system installer, .dmg
// to Finder via open, archives to the extractor. Declining the install prompt
// leaves the artifact untouched on disk.
func (i *Installer) Install(app config.App, opts Options) error {
	version, url, err := i.Plan(app, opts)
	if err != nil {
		return err
	}

	if version != "" {
		if cur, ok := i.st.Apps[app.Name]; ok && sameVersion(cur.Version, version) {
			logger.Info("[INFO] %s version %s is current. Skipping.\n", app.Name, version)
			return nil
		}
	}

	destDir := opts.Dir
	if destDir == "" {
		destDir = os.TempDir()
	}

	artifact, err := i.fetch(url, destDir)
	if err != nil {
		return err
	}

	if opts.Checksum != "" {
		if err := i.verify(artifact, opts.Checksum); err != nil {
			return err
		}
	}

	label := app.Name
	if version != "" {
		label = fmt.Sprintf("%s %s", app.Name, version)
	}
	if !i.confirm.Confirm(fmt.Sprintf("Install %s from %s?", label, artifact)) {
		logger.Warn("[WARN] Install of %s declined. Artifact kept at %s\n", app.Name, artifact)
		return nil
	}

	if err := i.invoke(artifact, destDir); err != nil {
		return err
	}

	i.st.Apps[app.Name] = state.AppState{
		Version:     version,
		ArtifactURL: url,
		InstalledAt: time.Now(),
	}

	if opts.Keep {
		return nil
	}
	if i.confirm.Confirm(fmt.Sprintf("Delete downloaded artifact %s?", artifact)) {
		if err := os.Remove(artifact); err != nil {
			logger.Warn("[WARN] Failed to delete %s: %v\n", artifact, err)
		} else {
			logger.Info("[INFO] Deleted %s\n", artifact)
		}
	}
	return nil
}

// invoke hands the artifact to the right macOS mechanism.
func (i *Installer) invoke(artifact, destDir string) error {
	switch {
	case strings.HasSuffix(strings.ToLower(artifact), ".pkg"):
		return i.mac.InstallPkg(artifact)
	case strings.HasSuffix(strings.ToLower(artifact), ".dmg"):
		return i.mac.Open(artifact)
	case IsArchive(artifact):
		extracted, err := ExtractArchive(artifact, destDir)
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", artifact, err)
		}
		logger.Info("[INFO] Extracted %s to %s\n", filepath.Base(artifact), extracted)
		return i.mac.Open(extracted)
	default:
		return i.mac.Open(artifact)
	}
}

// sameVersion compares two version tokens, semantically when both parse as
// semver, by string otherwise.
func sameVersion(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Equal(vb)
	}
	return a == b
}
