package installer

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbzwsqualitasag/qmactools/internal/config"
	"github.com/fbzwsqualitasag/qmactools/internal/macos"
	"github.com/fbzwsqualitasag/qmactools/internal/resolver"
	"github.com/fbzwsqualitasag/qmactools/internal/state"
)

// stubResolver returns a fixed resolution and remembers whether it was asked.
type stubResolver struct {
	res    resolver.Resolution
	err    error
	called bool
}

func (s *stubResolver) Resolve(config.App) (resolver.Resolution, error) {
	s.called = true
	return s.res, s.err
}

// pageResolver scrapes a fixed page body, standing in for the vendor site.
type pageResolver struct {
	page string
}

func (p pageResolver) Resolve(app config.App) (resolver.Resolution, error) {
	return resolver.Extract(app, p.page)
}

// scripted answers prompts in order and records the questions asked.
type scripted struct {
	answers   []bool
	questions []string
}

func (s *scripted) Confirm(q string) bool {
	s.questions = append(s.questions, q)
	if len(s.questions) > len(s.answers) {
		return false
	}
	return s.answers[len(s.questions)-1]
}

// recordingRunner captures macOS command invocations.
type recordingRunner struct {
	calls [][]string
}

func (r *recordingRunner) Run(name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil, nil
}

// writingFetcher pretends to download by writing content under the artifact
// name derived from the URL. It records the URLs fetched.
func writingFetcher(t *testing.T, urls *[]string) Fetcher {
	return func(url, destDir string) (string, error) {
		t.Helper()
		if urls != nil {
			*urls = append(*urls, url)
		}
		if err := os.MkdirAll(destDir, 0755); err != nil {
			return "", err
		}
		dest := filepath.Join(destDir, path.Base(url))
		return dest, os.WriteFile(dest, []byte("artifact"), 0644)
	}
}

func noVerify(string, string) error { return nil }

func rApp(t *testing.T) config.App {
	t.Helper()
	app, ok := config.Default().App("r")
	require.True(t, ok)
	return app
}

func newState() *state.State {
	return &state.State{Apps: map[string]state.AppState{}, Mounts: map[string]string{}}
}

func TestPlanExplicitURLSkipsResolver(t *testing.T) {
	res := &stubResolver{err: errors.New("must not be called")}
	inst := New(res, nil, nil, nil, nil, newState())

	version, url, err := inst.Plan(rApp(t), Options{URL: "https://mirror.example.org/R-4.3.1.pkg"})
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.org/R-4.3.1.pkg", url)
	assert.Empty(t, version)
	assert.False(t, res.called, "explicit --url must bypass the resolver")
}

func TestPlanExplicitVersionSkipsResolver(t *testing.T) {
	res := &stubResolver{err: errors.New("must not be called")}
	inst := New(res, nil, nil, nil, nil, newState())

	version, url, err := inst.Plan(rApp(t), Options{Version: "4.3.1"})
	require.NoError(t, err)
	assert.Equal(t, "4.3.1", version)
	assert.Equal(t, "https://cloud.r-project.org/bin/macosx/R-4.3.1.pkg", url)
	assert.False(t, res.called, "explicit --version must bypass the resolver")
}

func TestPlanExplicitVersionNeedsTemplate(t *testing.T) {
	app := config.App{Name: "rstudio", Pattern: `RStudio-([0-9.]+)\.dmg`}
	inst := New(&stubResolver{}, nil, nil, nil, nil, newState())

	_, _, err := inst.Plan(app, Options{Version: "2023.06.1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--url")
}

func TestPlanResolvesLatest(t *testing.T) {
	res := &stubResolver{res: resolver.Resolution{Version: "4.3.1"}}
	inst := New(res, nil, nil, nil, nil, newState())

	version, url, err := inst.Plan(rApp(t), Options{})
	require.NoError(t, err)
	assert.True(t, res.called)
	assert.Equal(t, "4.3.1", version)
	assert.Equal(t, "https://cloud.r-project.org/bin/macosx/R-4.3.1.pkg", url)
}

func TestPlanDirectURLApp(t *testing.T) {
	app := config.App{Name: "rstudio"}
	res := &stubResolver{res: resolver.Resolution{
		Version: "2023.06.1",
		URL:     "https://download1.rstudio.org/RStudio-2023.06.1.dmg",
	}}
	inst := New(res, nil, nil, nil, nil, newState())

	version, url, err := inst.Plan(app, Options{})
	require.NoError(t, err)
	assert.Equal(t, "2023.06.1", version)
	assert.Equal(t, "https://download1.rstudio.org/RStudio-2023.06.1.dmg", url)
}

func TestInstallDeclinedLeavesArtifact(t *testing.T) {
	dir := t.TempDir()
	rec := &recordingRunner{}
	confirm := &scripted{answers: []bool{false}}
	st := newState()

	inst := New(&stubResolver{}, writingFetcher(t, nil), noVerify, macos.New(rec), confirm, st)
	err := inst.Install(rApp(t), Options{Version: "4.3.1", Dir: dir})
	require.NoError(t, err)

	// Declining must leave the downloaded artifact untouched and run nothing.
	assert.FileExists(t, filepath.Join(dir, "R-4.3.1.pkg"))
	assert.Empty(t, rec.calls)
	assert.Empty(t, st.Apps)
	require.Len(t, confirm.questions, 1)
	assert.Contains(t, confirm.questions[0], "r 4.3.1")
}

func TestInstallPkgPipeline(t *testing.T) {
	dir := t.TempDir()
	rec := &recordingRunner{}
	confirm := &scripted{answers: []bool{true, true}}
	st := newState()

	inst := New(&stubResolver{}, writingFetcher(t, nil), noVerify, macos.New(rec), confirm, st)
	require.NoError(t, inst.Install(rApp(t), Options{Version: "4.3.1", Dir: dir}))

	artifact := filepath.Join(dir, "R-4.3.1.pkg")
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"sudo", "installer", "-pkg", artifact, "-target", "/"}, rec.calls[0])

	// Cleanup was confirmed, so the artifact is gone.
	assert.NoFileExists(t, artifact)

	// State records the install.
	got := st.Apps["r"]
	assert.Equal(t, "4.3.1", got.Version)
	assert.Equal(t, "https://cloud.r-project.org/bin/macosx/R-4.3.1.pkg", got.ArtifactURL)
	assert.False(t, got.InstalledAt.IsZero())
}

func TestInstallDeclinedCleanupKeepsArtifact(t *testing.T) {
	dir := t.TempDir()
	confirm := &scripted{answers: []bool{true, false}}

	inst := New(&stubResolver{}, writingFetcher(t, nil), noVerify, macos.New(&recordingRunner{}), confirm, newState())
	require.NoError(t, inst.Install(rApp(t), Options{Version: "4.3.1", Dir: dir}))

	assert.FileExists(t, filepath.Join(dir, "R-4.3.1.pkg"))
}

func TestInstallKeepSkipsCleanupPrompt(t *testing.T) {
	dir := t.TempDir()
	confirm := &scripted{answers: []bool{true}}

	inst := New(&stubResolver{}, writingFetcher(t, nil), noVerify, macos.New(&recordingRunner{}), confirm, newState())
	require.NoError(t, inst.Install(rApp(t), Options{Version: "4.3.1", Dir: dir, Keep: true}))

	assert.FileExists(t, filepath.Join(dir, "R-4.3.1.pkg"))
	assert.Len(t, confirm.questions, 1, "only the install prompt is asked with --keep")
}

func TestInstallSkipsWhenVersionCurrent(t *testing.T) {
	st := newState()
	st.Apps["r"] = state.AppState{Version: "4.3.1"}

	fetch := func(url, destDir string) (string, error) {
		t.Error("fetcher must not be called when the version is current")
		return "", nil
	}

	inst := New(&stubResolver{}, fetch, noVerify, nil, &scripted{}, st)
	require.NoError(t, inst.Install(rApp(t), Options{Version: "4.3.1"}))
}

func TestInstallChecksumMismatchAborts(t *testing.T) {
	dir := t.TempDir()
	confirm := &scripted{answers: []bool{true}}
	badVerify := func(path, expected string) error {
		return fmt.Errorf("checksum mismatch for %s", path)
	}

	inst := New(&stubResolver{}, writingFetcher(t, nil), badVerify, macos.New(&recordingRunner{}), confirm, newState())
	err := inst.Install(rApp(t), Options{Version: "4.3.1", Dir: dir, Checksum: "deadbeef"})
	require.Error(t, err)
	assert.Empty(t, confirm.questions, "a failed checksum aborts before any prompt")
}

func TestInstallDmgOpensFinder(t *testing.T) {
	dir := t.TempDir()
	rec := &recordingRunner{}
	app := config.App{Name: "rstudio"}
	res := &stubResolver{res: resolver.Resolution{
		Version: "2023.06.1",
		URL:     "https://download1.rstudio.org/RStudio-2023.06.1.dmg",
	}}

	inst := New(res, writingFetcher(t, nil), noVerify, macos.New(rec), &scripted{answers: []bool{true}}, newState())
	require.NoError(t, inst.Install(app, Options{Dir: dir, Keep: true}))

	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"open", filepath.Join(dir, "RStudio-2023.06.1.dmg")}, rec.calls[0])
}

// End-to-end over a fixed sample page: scraping R-4.3.1.pkg must yield the
// documented download URL and a local artifact named R-4.3.1.pkg.
func TestInstallFromSamplePage(t *testing.T) {
	dir := t.TempDir()
	var urls []string
	res := pageResolver{page: `<a href="R-4.3.1.pkg">R-4.3.1.pkg</a>`}

	inst := New(res, writingFetcher(t, &urls), noVerify, macos.New(&recordingRunner{}),
		&scripted{answers: []bool{true}}, newState())
	require.NoError(t, inst.Install(rApp(t), Options{Dir: dir, Keep: true}))

	require.Len(t, urls, 1)
	assert.Equal(t, "https://cloud.r-project.org/bin/macosx/R-4.3.1.pkg", urls[0])
	assert.FileExists(t, filepath.Join(dir, "R-4.3.1.pkg"))
}
