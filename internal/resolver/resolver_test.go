package resolver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbzwsqualitasag/qmactools/internal/config"
)

func rApp() config.App {
	app, ok := config.Default().App("r")
	if !ok {
		panic("default config lost the r app")
	}
	return app
}

func TestExtractVersionToken(t *testing.T) {
	page := `<html><body>
	<a href="R-4.3.1.pkg">R-4.3.1.pkg</a>
	</body></html>`

	res, err := Extract(rApp(), page)
	require.NoError(t, err)
	assert.Equal(t, "4.3.1", res.Version)
	assert.Empty(t, res.URL, "template apps carry no direct URL")
}

func TestExtractPicksHighestVersion(t *testing.T) {
	// Listing pages keep old releases around; the newest one must win
	// regardless of page order.
	page := `
	<a href="old/R-4.2.0.pkg">R-4.2.0.pkg</a>
	<a href="R-4.3.1-arm64.pkg">R-4.3.1-arm64.pkg</a>
	<a href="R-4.3.1.pkg">R-4.3.1.pkg</a>
	<a href="old/R-3.6.3.pkg">R-3.6.3.pkg</a>`

	res, err := Extract(rApp(), page)
	require.NoError(t, err)
	assert.Equal(t, "4.3.1", res.Version)
}

func TestExtractNoMatch(t *testing.T) {
	res, err := Extract(rApp(), "<html><body>nothing to see here</body></html>")
	require.Error(t, err)
	assert.Zero(t, res)
	// The diagnostic must point the user at the manual override.
	assert.Contains(t, err.Error(), "--version")
	assert.Contains(t, err.Error(), rApp().PageURL)
}

func TestExtractDirectURL(t *testing.T) {
	app := config.App{
		Name:    "rstudio",
		PageURL: "https://posit.co/download/rstudio-desktop/",
		Pattern: `https://download1\.rstudio\.org/[^"']*RStudio-([0-9][0-9.+-]*)\.dmg`,
	}
	page := `<a href="https://download1.rstudio.org/electron/macos/RStudio-2023.06.1-524.dmg">Download</a>`

	res, err := Extract(app, page)
	require.NoError(t, err)
	assert.Equal(t, "2023.06.1-524", res.Version)
	assert.Equal(t, "https://download1.rstudio.org/electron/macos/RStudio-2023.06.1-524.dmg", res.URL)
}

func TestExtractInvalidPattern(t *testing.T) {
	app := config.App{Name: "broken", Pattern: `R-([0-9`}
	_, err := Extract(app, "R-4.3.1.pkg")
	assert.Error(t, err)
}

func TestResolveFromListingPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<a href="R-4.3.1.pkg">R-4.3.1.pkg</a>`))
	}))
	defer srv.Close()

	app := rApp()
	app.PageURL = srv.URL

	res, err := New().Resolve(app)
	require.NoError(t, err)
	assert.Equal(t, "4.3.1", res.Version)
}

func TestResolveHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	app := rApp()
	app.PageURL = srv.URL

	_, err := New().Resolve(app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestResolveConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // deliberately closed

	app := rApp()
	app.PageURL = srv.URL

	_, err := New().Resolve(app)
	assert.Error(t, err)
}
