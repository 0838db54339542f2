package starfield

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-starfield/common"
)

// Controller routes host input to the tracker, the theme and the camera. Its
// methods match the host callback signatures and run on the loop goroutine.
type Controller struct {
	stage   *Stage
	tracker *Tracker
	theme   *Theme
	logger  *zap.Logger

	zoomStep     float32
	minZ, maxZ   float32
	pointerScale float32
}

// ControllerBuilderOption configures a Controller.
type ControllerBuilderOption func(*Controller)

// WithControllerLogger sets the controller's logger.
func WithControllerLogger(logger *zap.Logger) ControllerBuilderOption {
	return func(c *Controller) {
		c.logger = logger.Named("controller")
	}
}

// WithZoom sets the camera distance change per scroll step and its bounds.
func WithZoom(step, minZ, maxZ float32) ControllerBuilderOption {
	return func(c *Controller) {
		c.zoomStep, c.minZ, c.maxZ = step, minZ, maxZ
	}
}

// WithPointerScale multiplies pointer coordinates before they reach the tracker.
// Terminal hosts report cells, which are far coarser than pixels.
func WithPointerScale(scale float32) ControllerBuilderOption {
	return func(c *Controller) {
		c.pointerScale = scale
	}
}

// NewController creates a controller for stage.
//
// Parameters:
//   - stage: the scene being driven
//   - tracker: the interaction tracker shared with the driver
//   - theme: the theme toggle
//   - options: functional options
//
// Returns:
//   - *Controller: the controller
func NewController(stage *Stage, tracker *Tracker, theme *Theme, options ...ControllerBuilderOption) *Controller {
	c := &Controller{
		stage:        stage,
		tracker:      tracker,
		theme:        theme,
		logger:       zap.NewNop(),
		zoomStep:     2,
		minZ:         5,
		maxZ:         500,
		pointerScale: 1,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// ToggleTheme flips the warm theme and recolors the field and glow sphere.
func (c *Controller) ToggleTheme() {
	active := c.theme.Toggle(c.stage.Field)
	c.stage.ApplyTheme(active)
}

// KeyDown toggles the theme on T.
func (c *Controller) KeyDown(keyCode uint32) {
	switch keyCode {
	case common.KeyT:
		c.ToggleTheme()
	case common.KeyR:
		for _, obj := range c.stage.Scene.Rotatables() {
			obj.SetRotation(mgl32.Vec3{})
		}
	}
}

// MouseDown starts a drag on the left button and toggles the theme on the right.
func (c *Controller) MouseDown(button common.MouseButton, x, y float32) {
	switch button {
	case common.MouseButtonLeft:
		c.tracker.PointerDown(x*c.pointerScale, y*c.pointerScale)
	case common.MouseButtonRight:
		c.ToggleTheme()
	}
}

// MouseUp ends a drag.
func (c *Controller) MouseUp(button common.MouseButton, _, _ float32) {
	if button == common.MouseButtonLeft {
		c.tracker.PointerUp()
	}
}

// MouseMove forwards the pointer position.
func (c *Controller) MouseMove(x, y float32) {
	c.tracker.PointerMove(x*c.pointerScale, y*c.pointerScale)
}

// Tilt forwards a device orientation reading in degrees.
func (c *Controller) Tilt(beta, gamma float32) {
	c.tracker.Tilt(beta, gamma)
}

// Scroll moves the camera along z, positive deltas moving closer.
func (c *Controller) Scroll(delta float32) {
	cam := c.stage.Scene.Camera()
	pos := cam.Position()
	pos[2] = common.Clamp(pos[2]-delta*c.zoomStep, c.minZ, c.maxZ)
	cam.SetPosition(pos)
}

// Resize updates the tracker extent and the camera aspect.
//
// Parameters:
//   - width, height: the host size
//   - cellAspect: the unit cell height/width ratio
func (c *Controller) Resize(width, height int, cellAspect float32) {
	c.tracker.Resize(int(float32(width)*c.pointerScale), int(float32(height)*c.pointerScale))
	c.stage.Resize(width, height, cellAspect)
	c.logger.Debug("resized", zap.Int("width", width), zap.Int("height", height))
}
