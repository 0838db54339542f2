package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-starfield/audio"
	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/config"
	"github.com/Carmen-Shannon/oxy-starfield/engine"
	"github.com/Carmen-Shannon/oxy-starfield/engine/profiler"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer"
	rterminal "github.com/Carmen-Shannon/oxy-starfield/engine/renderer/terminal"
	"github.com/Carmen-Shannon/oxy-starfield/engine/terminal"
	"github.com/Carmen-Shannon/oxy-starfield/engine/window"
	"github.com/Carmen-Shannon/oxy-starfield/starfield"
)

// terminalPointerScale maps terminal cells to the pixel-sized units the
// tracker's drag speed is tuned for.
const terminalPointerScale = 8

// flagBindings maps run flags to configuration keys.
var flagBindings = map[string]string{
	"backend":  "render.backend",
	"count":    "field.count",
	"seed":     "field.seed",
	"width":    "window.width",
	"height":   "window.height",
	"fps":      "render.frame_limit",
	"profile":  "render.profiling",
	"software": "render.software",
}

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the starfield scene",
		Long: "Open the starfield scene in a window (wgpu backend) or in the terminal.\n" +
			"Move the pointer to look around, drag to spin, press T or right click to\n" +
			"toggle the warm theme, R to reset and Escape to quit.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mute, _ := cmd.Flags().GetBool("mute")
			if mute {
				a.cfg.Audio.Enabled = false
			}
			return runScene(cmd.Context(), a.cfg, a.logger)
		},
	}

	f := cmd.Flags()
	f.String("backend", config.BackendWGPU, "render backend: wgpu or terminal")
	f.Int("count", 10000, "number of stars")
	f.Uint64("seed", 0, "field seed, 0 picks a random one")
	f.Int("width", 1280, "window width")
	f.Int("height", 720, "window height")
	f.Int("fps", 0, "frame limit, 0 for none")
	f.Bool("profile", false, "log frame statistics")
	f.Bool("software", false, "force the software (CPU) WebGPU adapter")
	f.Bool("mute", false, "disable the theme chime")

	for name, key := range flagBindings {
		// only an unknown flag name can fail here
		_ = a.v.BindPFlag(key, f.Lookup(name))
	}
	return cmd
}

// inputHost is the callback surface shared by the window and the terminal screen.
type inputHost interface {
	engine.Host
	SetKeyDownCallback(callback func(keyCode uint32))
	SetMouseDownCallback(callback func(button common.MouseButton, x, y float32))
	SetMouseUpCallback(callback func(button common.MouseButton, x, y float32))
	SetMouseMoveCallback(callback func(x, y float32))
}

// sceneParts is the assembled starfield core, independent of any host.
type sceneParts struct {
	seed       uint64
	stage      *starfield.Stage
	tracker    *starfield.Tracker
	theme      *starfield.Theme
	controller *starfield.Controller
}

// buildScene generates the field and assembles the stage, tracker, theme and
// controller. Theme toggles are announced on chime when it is not nil.
func buildScene(cfg *config.Config, logger *zap.Logger, chime *audio.Chime, pointerScale float32) (*sceneParts, error) {
	fieldCfg, err := starfield.NewFieldConfig(cfg.Field)
	if err != nil {
		return nil, err
	}
	palette, err := starfield.NewWarmPalette(cfg.Theme)
	if err != nil {
		return nil, err
	}

	seed := cfg.Field.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	start := time.Now()
	field := starfield.Generate(rng, cfg.Field.Count, fieldCfg)
	logger.Info("field generated",
		zap.Int("particles", field.Len()),
		zap.Uint64("seed", seed),
		zap.Duration("took", time.Since(start)))

	stage, err := starfield.NewStage(cfg, field)
	if err != nil {
		return nil, err
	}

	tracker := starfield.NewTracker(
		starfield.WithRotationSpeed(cfg.Interaction.RotationSpeed),
		starfield.WithDeviceRotationSpeed(cfg.Interaction.DeviceRotationSpeed),
	)

	themeOpts := []starfield.ThemeBuilderOption{starfield.WithThemeLogger(logger)}
	if chime != nil {
		themeOpts = append(themeOpts, starfield.WithToggleListener(chime.Play))
	}
	theme := starfield.NewTheme(palette, rng, themeOpts...)

	controller := starfield.NewController(stage, tracker, theme,
		starfield.WithControllerLogger(logger),
		starfield.WithPointerScale(pointerScale),
	)

	return &sceneParts{
		seed:       seed,
		stage:      stage,
		tracker:    tracker,
		theme:      theme,
		controller: controller,
	}, nil
}

// bindInput routes host input to the controller.
func bindInput(host inputHost, c *starfield.Controller) {
	host.SetKeyDownCallback(c.KeyDown)
	host.SetMouseDownCallback(c.MouseDown)
	host.SetMouseUpCallback(c.MouseUp)
	host.SetMouseMoveCallback(c.MouseMove)
}

// newSceneEngine builds the engine that drives parts through sink on host.
func newSceneEngine(cfg *config.Config, logger *zap.Logger, host engine.Host, sink renderer.Sink, parts *sceneParts, cellAspect float32) (engine.Engine, *starfield.Driver) {
	driver := starfield.NewDriver(parts.stage.Scene, parts.tracker,
		starfield.WithSink(sink),
		starfield.WithPulsePeriod(cfg.Pulse.Period),
		starfield.WithDriverLogger(logger),
	)

	opts := []engine.EngineBuilderOption{
		engine.WithHost(host),
		engine.WithLogger(logger),
		engine.WithProfiling(cfg.Render.Profiling),
		engine.WithProfiler(profiler.NewProfiler(
			profiler.WithLogger(logger),
			profiler.WithUpdateInterval(cfg.Render.ProfileInterval),
		)),
		engine.WithTickCallback(func(now time.Time, _ float32) {
			driver.Tick(now)
		}),
		engine.WithResizeHandler(func(width, height int) {
			parts.controller.Resize(width, height, cellAspect)
			sink.Resize(width, height)
		}),
	}
	if cfg.Render.FrameLimit > 0 {
		opts = append(opts, engine.WithRenderFrameLimit(float64(cfg.Render.FrameLimit)))
	}
	return engine.NewEngine(opts...), driver
}

func runScene(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	chime := audio.NewChime(cfg.Audio, audio.WithLogger(logger))

	switch cfg.Render.Backend {
	case config.BackendTerminal:
		return runTerminal(ctx, cfg, logger, chime)
	default:
		return runWindow(ctx, cfg, logger, chime)
	}
}

func runWindow(ctx context.Context, cfg *config.Config, logger *zap.Logger, chime *audio.Chime) error {
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithTiltJoystick(cfg.Window.TiltJoystick),
	)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	parts, err := buildScene(cfg, logger, chime, 1)
	if err != nil {
		return err
	}

	presentMode := renderer.PresentModeVSync
	if !cfg.Render.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.ParseMSAA(cfg.Render.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Render.Software),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	sink, err := renderer.NewWGPUSink(r, win.Width(), win.Height(),
		renderer.WithStarPacker(renderer.NewStarPacker(cfg.Render.PackWorkers)),
		renderer.WithSinkLogger(logger),
	)
	if err != nil {
		r.Release()
		return fmt.Errorf("failed to create render sink: %w", err)
	}
	defer sink.Release()

	bindInput(win, parts.controller)
	win.SetScrollCallback(parts.controller.Scroll)
	win.SetTiltCallback(parts.controller.Tilt)

	eng, driver := newSceneEngine(cfg, logger, win, sink, parts, 1)
	return runEngine(ctx, eng, driver, logger)
}

func runTerminal(ctx context.Context, cfg *config.Config, logger *zap.Logger, chime *audio.Chime) error {
	scr, err := terminal.NewScreen(
		terminal.WithLogger(logger),
		terminal.WithEventBuffer(cfg.Render.Terminal.EventBuffer),
	)
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer scr.Close()

	parts, err := buildScene(cfg, logger, chime, terminalPointerScale)
	if err != nil {
		return err
	}

	sink := rterminal.NewTerminalSink(scr.Screen(),
		rterminal.WithLogger(logger),
		rterminal.WithStarScale(cfg.Render.Terminal.StarScale),
	)
	defer sink.Release()

	bindInput(scr, parts.controller)

	eng, driver := newSceneEngine(cfg, logger, scr, sink, parts, rterminal.CellAspect)
	return runEngine(ctx, eng, driver, logger)
}

// runEngine runs eng until the host closes, Quit is called or ctx is done.
func runEngine(ctx context.Context, eng engine.Engine, driver *starfield.Driver, logger *zap.Logger) error {
	stop := context.AfterFunc(ctx, eng.Quit)
	defer stop()

	start := time.Now()
	err := eng.Run()
	logger.Info("scene stopped",
		zap.Uint64("frames", driver.Frames()),
		zap.Duration("ran", time.Since(start)))
	return err
}
