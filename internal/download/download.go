package download

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/fbzwsqualitasag/qmactools/internal/logger"
)

var client = &http.Client{Timeout: 30 * time.Minute}

// Fetch downloads the artifact at url into destDir and returns the local file
// path. The file is named after the last URL path segment. A progress bar
// tracks the transfer; the Content-Length header drives it when present.
// Any transport error or non-2xx status is fatal to the run, there is no
// resume and no retry.
func Fetch(url, destDir string) (string, error) {
	name := path.Base(url)
	logger.Info("[INFO] Downloading %s\n", url)

	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("download of %s failed: HTTP status %d", url, resp.StatusCode)
	}

	// An installer artifact served as HTML means the scraped URL points at a
	// page, not the artifact. Surface that instead of writing the page to disk.
	ctype := resp.Header.Get("Content-Type")
	if isInstallerName(name) && strings.HasPrefix(ctype, "text/html") {
		return "", fmt.Errorf(
			"download of %s returned %s instead of an artifact; the resolved URL is stale, use --version or --url to override",
			url, ctype)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory %s: %w", destDir, err)
	}

	destPath := filepath.Join(destDir, name)
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close destination file: %v\n", cerr)
		}
	}()

	bar := progressbar.NewOptions64(resp.ContentLength,
		progressbar.OptionSetDescription(fmt.Sprintf("downloading %s", name)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(100*time.Millisecond),
	)

	if _, err := io.Copy(io.MultiWriter(out, bar), resp.Body); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	logger.Debug("[DEBUG] Downloaded artifact to %s\n", destPath)
	return destPath, nil
}

// VerifySHA256 compares the SHA-256 digest of the file at path against the
// expected hex digest. Verification is opt-in; by default the artifact is
// trusted as downloaded.
func VerifySHA256(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for checksum: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close %s: %v\n", path, cerr)
		}
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("failed to hash %s: %w", path, err)
	}

	got := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(got, expected) {
		return fmt.Errorf("checksum mismatch for %s: got %s, expected %s", path, got, expected)
	}
	logger.Debug("[DEBUG] Checksum verified for %s\n", path)
	return nil
}

// isInstallerName reports whether name looks like a macOS installer artifact.
func isInstallerName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".pkg") || strings.HasSuffix(lower, ".dmg")
}
