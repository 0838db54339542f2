package starfield

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/config"
	"github.com/Carmen-Shannon/oxy-starfield/engine/camera"
	"github.com/Carmen-Shannon/oxy-starfield/engine/game_object"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene"
)

// Object names inside the starfield scene.
const (
	ObjectField  = "field"
	ObjectSphere = "sphere"
	ObjectGlow   = "glow"
)

// Stage is the assembled starfield scene: the star field, the dark foreground
// sphere and the additive glow sphere, drawn in that order.
type Stage struct {
	Scene  scene.Scene
	Field  *Field
	Sphere game_object.GameObject
	Glow   game_object.GameObject

	glowColor      common.Color
	glowColorAlert common.Color
}

// NewStage builds the scene around field from the camera, sphere and render settings.
//
// Parameters:
//   - cfg: the application configuration
//   - field: the generated star field
//
// Returns:
//   - *Stage: the stage
//   - error: error if a configured color cannot be parsed
func NewStage(cfg *config.Config, field *Field) (*Stage, error) {
	clearColor, err := common.ParseHexColor(cfg.Render.ClearColor)
	if err != nil {
		return nil, fmt.Errorf("render clear color: %w", err)
	}
	sphereColor, err := common.ParseHexColor(cfg.Spheres.Color)
	if err != nil {
		return nil, fmt.Errorf("sphere color: %w", err)
	}
	glowColor, err := common.ParseHexColor(cfg.Spheres.GlowColor)
	if err != nil {
		return nil, fmt.Errorf("glow color: %w", err)
	}
	glowAlert, err := common.ParseHexColor(cfg.Spheres.GlowColorAlert)
	if err != nil {
		return nil, fmt.Errorf("glow alert color: %w", err)
	}

	cam := camera.NewCamera(
		camera.WithPosition(mgl32.Vec3{0, 0, cfg.Camera.DistanceZ}),
		camera.WithTarget(mgl32.Vec3{}),
		camera.WithUp(mgl32.Vec3{0, 1, 0}),
		camera.WithFov(mgl32.DegToRad(cfg.Camera.FovDegrees)),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
	)

	stars := game_object.NewGameObject(
		game_object.WithName(ObjectField),
		game_object.WithModel(model.NewModel(model.WithName(ObjectField), model.WithPoints(field))),
		game_object.WithRotatable(true),
		game_object.WithBlend(game_object.BlendAdditive),
		game_object.WithPulseOpacity(true),
	)
	sphere := game_object.NewGameObject(
		game_object.WithName(ObjectSphere),
		game_object.WithModel(model.NewSphereModel(ObjectSphere, cfg.Spheres.Radius, cfg.Spheres.Segments)),
		game_object.WithRotatable(true),
		game_object.WithTint(sphereColor),
		game_object.WithOpacity(cfg.Spheres.Opacity),
	)
	glow := game_object.NewGameObject(
		game_object.WithName(ObjectGlow),
		game_object.WithModel(model.NewSphereModel(ObjectGlow, cfg.Spheres.Radius*cfg.Spheres.GlowScale, cfg.Spheres.Segments)),
		game_object.WithRotatable(true),
		game_object.WithTint(glowColor),
		game_object.WithOpacity(cfg.Spheres.GlowOpacity),
		game_object.WithBlend(game_object.BlendAdditive),
		game_object.WithPulseOpacity(true),
		game_object.WithRimStrength(1),
	)

	sc := scene.NewScene("starfield", cam,
		scene.WithClearColor(clearColor),
		scene.WithObjects(stars, sphere, glow),
	)
	return &Stage{
		Scene:          sc,
		Field:          field,
		Sphere:         sphere,
		Glow:           glow,
		glowColor:      glowColor,
		glowColorAlert: glowAlert,
	}, nil
}

// ApplyTheme records the theme state on the scene and switches the glow sphere
// between its normal and alert colors.
//
// Parameters:
//   - active: true when the warm theme is displayed
func (s *Stage) ApplyTheme(active bool) {
	s.Scene.SetThemeActive(active)
	if active {
		s.Glow.SetTint(s.glowColorAlert)
	} else {
		s.Glow.SetTint(s.glowColor)
	}
}

// Resize updates the camera aspect for a drawable of width x height units whose
// unit cells are cellAspect times taller than wide.
//
// Parameters:
//   - width, height: the drawable size
//   - cellAspect: 1 for pixels, the cell height/width ratio for terminals
func (s *Stage) Resize(width, height int, cellAspect float32) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Scene.Camera().SetAspect(float32(width) / (float32(height) * cellAspect))
}
