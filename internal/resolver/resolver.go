package resolver

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/fbzwsqualitasag/qmactools/internal/config"
	"github.com/fbzwsqualitasag/qmactools/internal/logger"
)

// Resolution is the outcome of scraping a listing page: the version token,
// and for apps whose pattern matches a full href, the direct download URL.
type Resolution struct {
	Version string
	URL     string
}

// Resolver discovers the latest version of an app by fetching its vendor
// listing page and running the app's pattern over the body. Resolution is a
// single best-effort attempt: no caching, no retry, no fallback. The pattern
// is tied to the page's current HTML layout, so a failed match points the
// user at the manual override flags instead of guessing.
type Resolver struct {
	client *http.Client
}

// New creates a Resolver with a bounded HTTP timeout.
func New() *Resolver {
	return &Resolver{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Resolve fetches the app's listing page and extracts the newest version
// matching the app's pattern. Capture group 1 is the version token; when the
// pattern has no group the full match is used. For direct-URL apps the full
// match is additionally returned as the download URL.
func (r *Resolver) Resolve(app config.App) (Resolution, error) {
	logger.Debug("[DEBUG] Fetching listing page %s for %s\n", app.PageURL, app.Name)

	resp, err := r.client.Get(app.PageURL)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to fetch listing page %s: %w", app.PageURL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return Resolution{}, fmt.Errorf("listing page %s returned HTTP %d", app.PageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to read listing page %s: %w", app.PageURL, err)
	}

	return Extract(app, string(body))
}

// Extract runs the app's pattern over the page body and picks the newest
// matching version. Split out from Resolve so the scraping logic can be
// exercised against fixed sample pages.
func Extract(app config.App, body string) (Resolution, error) {
	re, err := regexp.Compile(app.Pattern)
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid version pattern for %s: %w", app.Name, err)
	}

	matches := re.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return Resolution{}, fmt.Errorf(
			"no version for %s found at %s (pattern %q); the page layout may have changed, use --version or --url to override",
			app.Name, app.PageURL, app.Pattern)
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if newerVersion(versionOf(m), versionOf(best)) {
			best = m
		}
	}

	res := Resolution{Version: versionOf(best)}
	if app.DirectURL() {
		res.URL = best[0]
	}
	logger.Debug("[DEBUG] Resolved %s version %s from %d match(es)\n", app.Name, res.Version, len(matches))
	return res, nil
}

// versionOf returns capture group 1 when present and non-empty, otherwise the
// full match.
func versionOf(m []string) string {
	if len(m) > 1 && m[1] != "" {
		return m[1]
	}
	return m[0]
}

// newerVersion reports whether a is a newer version than b. Tokens that both
// parse as semver are compared semantically; anything else keeps page order
// (first match wins).
func newerVersion(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return false
	}
	return va.GreaterThan(vb)
}
