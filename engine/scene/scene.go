package scene

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/camera"
	"github.com/Carmen-Shannon/oxy-starfield/engine/game_object"
)

// Scene holds the camera and the ordered set of GameObjects a render sink draws,
// plus the per-frame shared state (pulse level and theme flag) the animation
// driver publishes for the sinks to read. Objects are drawn in insertion order.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Count returns the number of GameObjects in the scene.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// Add appends a GameObject to the draw order. Objects without an ID are assigned one.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the assigned object ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID, or nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Find retrieves the first GameObject with the given name, or nil if not found.
	//
	// Parameters:
	//   - name: the object name
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Find(name string) game_object.GameObject

	// Remove removes a GameObject by ID, preserving the order of the rest.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects from the scene.
	Clear()

	// Objects returns a snapshot of the enabled objects in draw order.
	//
	// Returns:
	//   - []game_object.GameObject: the enabled objects
	Objects() []game_object.GameObject

	// Rotatables returns a snapshot of the enabled objects marked rotatable.
	//
	// Returns:
	//   - []game_object.GameObject: the objects the animation driver rotates
	Rotatables() []game_object.GameObject

	// Pulse returns the current glow pulse level in [0, 1].
	//
	// Returns:
	//   - float32: the pulse level
	Pulse() float32

	// SetPulse stores the glow pulse level, clamped to [0, 1].
	//
	// Parameters:
	//   - level: the pulse level
	SetPulse(level float32)

	// ThemeActive reports whether the warm theme is currently applied.
	//
	// Returns:
	//   - bool: true when warm
	ThemeActive() bool

	// SetThemeActive records the theme state.
	//
	// Parameters:
	//   - active: true when warm
	SetThemeActive(active bool)

	// ClearColor returns the background color frames are cleared to.
	//
	// Returns:
	//   - common.Color: the clear color
	ClearColor() common.Color

	// Frustum returns the camera's view frustum for the current frame.
	//
	// Returns:
	//   - common.Frustum: the frustum extracted from the camera view-projection
	Frustum() common.Frustum
}

type scene struct {
	mu *sync.RWMutex

	name       string
	cam        camera.Camera
	objects    []game_object.GameObject
	nextID     uint64
	clearColor common.Color

	pulse       atomic.Uint32
	themeActive atomic.Bool
}

var _ Scene = &scene{}

// NewScene creates a new Scene around the given camera. Panics if cam is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	s := &scene{
		mu:     &sync.RWMutex{},
		name:   name,
		cam:    cam,
		nextID: 1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(obj)
}

func (s *scene) addLocked(obj game_object.GameObject) uint64 {
	if obj.ID() == 0 {
		obj.SetID(s.nextID)
		s.nextID++
	} else if obj.ID() >= s.nextID {
		s.nextID = obj.ID() + 1
	}
	s.objects = append(s.objects, obj)
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obj := range s.objects {
		if obj.ID() == id {
			return obj
		}
	}
	return nil
}

func (s *scene) Find(name string) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obj := range s.objects {
		if obj.Name() == name {
			return obj
		}
	}
	return nil
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, obj := range s.objects {
		if obj.ID() == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = nil
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, 0, len(s.objects))
	for _, obj := range s.objects {
		if obj.Enabled() {
			out = append(out, obj)
		}
	}
	return out
}

func (s *scene) Rotatables() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []game_object.GameObject
	for _, obj := range s.objects {
		if obj.Enabled() && obj.Rotatable() {
			out = append(out, obj)
		}
	}
	return out
}

func (s *scene) Pulse() float32 {
	return math.Float32frombits(s.pulse.Load())
}

func (s *scene) SetPulse(level float32) {
	s.pulse.Store(math.Float32bits(common.Clamp(level, 0, 1)))
}

func (s *scene) ThemeActive() bool {
	return s.themeActive.Load()
}

func (s *scene) SetThemeActive(active bool) {
	s.themeActive.Store(active)
}

func (s *scene) ClearColor() common.Color {
	return s.clearColor
}

func (s *scene) Frustum() common.Frustum {
	return common.ExtractFrustum(s.Camera().ViewProjectionMatrix())
}
