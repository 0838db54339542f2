package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Carmen-Shannon/oxy-starfield/auth"
	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/config"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene"
	"github.com/Carmen-Shannon/oxy-starfield/observability"
)

// newTestApp returns an app whose logs are discarded, resetting the global
// logger around the test.
func newTestApp(t *testing.T) *app {
	t.Helper()
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)
	a := newApp()
	a.logWriter = zapcore.AddSync(io.Discard)
	return a
}

func execute(t *testing.T, a *app, stdin string, args ...string) (string, error) {
	t.Helper()
	root := a.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := execute(t, newTestApp(t), "", "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, newTestApp(t), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "oxy-starfield "+Version)
}

func TestLoginCmd_RetriesUntilSuccess(t *testing.T) {
	out, err := execute(t, newTestApp(t), "demo\nwrong\n  demo \npassword123\n", "login")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, auth.ErrInvalidCredentials))
	assert.Contains(t, out, "Welcome, demo. Continue to success.html")
}

func TestLoginCmd_AbortsOnEOF(t *testing.T) {
	out, err := execute(t, newTestApp(t), "demo\nnope\n", "login")
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
	assert.Contains(t, out, auth.ErrInvalidCredentials)
}

func TestLoginCmd_ConfigDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  success_destination: home.html\n"), 0o600))

	out, err := execute(t, newTestApp(t), "demo\npassword123", "--config", path, "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Continue to home.html")
}

func TestRootCmd_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("field:\n  count: -1\n"), 0o600))

	_, err := execute(t, newTestApp(t), "", "--config", path, "version")
	assert.ErrorContains(t, err, "failed to load config")
}

func TestRunCmd_FlagsOverrideConfig(t *testing.T) {
	a := newTestApp(t)
	root := a.rootCmd()
	root.SetArgs([]string{"run", "--backend", "terminal", "--count", "42", "--seed", "7", "--fps", "30", "--software"})

	run, _, err := root.Find([]string{"run"})
	require.NoError(t, err)
	run.RunE = func(*cobra.Command, []string) error { return nil }

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, config.BackendTerminal, a.cfg.Render.Backend)
	assert.Equal(t, 42, a.cfg.Field.Count)
	assert.Equal(t, uint64(7), a.cfg.Field.Seed)
	assert.Equal(t, 30, a.cfg.Render.FrameLimit)
	assert.True(t, a.cfg.Render.Software)
	assert.Equal(t, 1280, a.cfg.Window.Width)
}

func TestBuildScene_Wiring(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Field.Count = 500
	cfg.Field.Seed = 11

	parts, err := buildScene(cfg, zap.NewNop(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), parts.seed)
	assert.Equal(t, 500, parts.stage.Field.Len())
	assert.Len(t, parts.stage.Scene.Objects(), 3)

	again, err := buildScene(cfg, zap.NewNop(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, parts.stage.Field.Positions(), again.stage.Field.Positions())

	parts.controller.KeyDown(common.KeyT)
	assert.True(t, parts.theme.Active())
	assert.True(t, parts.stage.Scene.ThemeActive())
}

func TestBuildScene_RandomSeed(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Field.Count = 10

	parts, err := buildScene(cfg, zap.NewNop(), nil, 1)
	require.NoError(t, err)
	assert.NotZero(t, parts.seed)
}

type stubHost struct {
	width, height int
	polls         int
	onPoll        func(polls int)
	resize        func(width, height int)
}

func (h *stubHost) PollEvents() {
	h.polls++
	if h.onPoll != nil {
		h.onPoll(h.polls)
	}
}

func (h *stubHost) ShouldClose() bool                   { return false }
func (h *stubHost) Size() (int, int)                    { return h.width, h.height }
func (h *stubHost) SetResizeCallback(cb func(int, int)) { h.resize = cb }
func (h *stubHost) Close()                              {}

type countingSink struct {
	renders int
	sizes   [][2]int
}

func (s *countingSink) Render(scene.Scene) error {
	s.renders++
	return nil
}

func (s *countingSink) Resize(width, height int) { s.sizes = append(s.sizes, [2]int{width, height}) }
func (s *countingSink) Release()                 {}

func TestSceneEngine_RunsUntilQuit(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Field.Count = 50
	parts, err := buildScene(cfg, zap.NewNop(), nil, 1)
	require.NoError(t, err)

	host := &stubHost{width: 300, height: 150}
	sink := &countingSink{}
	eng, driver := newSceneEngine(cfg, zap.NewNop(), host, sink, parts, 1)

	ctx, cancel := context.WithCancel(context.Background())
	host.onPoll = func(polls int) {
		if polls == 3 {
			cancel()
		}
	}

	done := make(chan error, 1)
	go func() { done <- runEngine(ctx, eng, driver, zap.NewNop()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after the context was cancelled")
	}

	assert.GreaterOrEqual(t, sink.renders, 3)
	assert.Equal(t, [][2]int{{300, 150}}, sink.sizes)
	assert.InDelta(t, 2.0, parts.stage.Scene.Camera().Aspect(), 1e-6)
}
