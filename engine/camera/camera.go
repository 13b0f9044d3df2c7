// Package camera holds the fixed viewer of a scene and derives its view and projection matrices.
package camera

import (
	"sync"

	"github.com/Carmen-Shannon/hellocube/common"
	"github.com/chewxy/math32"
)

// Projection holds the perspective settings of a camera.
// The aspect ratio is not stored; it is read from the drawable every frame.
type Projection struct {
	FovY float32 // vertical field of view in radians
	Near float32 // near clipping plane distance
	Far  float32 // far clipping plane distance
}

// DefaultProjection returns a 45 degree perspective with near 0.1 and far 100.
//
// Returns:
//   - Projection: the default projection
func DefaultProjection() Projection {
	return Projection{
		FovY: math32.Pi / 4,
		Near: 0.1,
		Far:  100,
	}
}

type cameraImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32
	up       [3]float32

	projection Projection
}

// Camera defines the interface for a viewer described by position, target and up vector.
// The camera performs no validation: a position equal to the target or an up vector parallel
// to the view direction yields an undefined view matrix.
type Camera interface {
	// Position returns the camera position in world space.
	Position() [3]float32

	// Target returns the point the camera looks at.
	Target() [3]float32

	// Up returns the approximate up direction.
	Up() [3]float32

	// Projection returns the perspective settings.
	Projection() Projection

	// SetPosition moves the camera.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position [3]float32)

	// SetTarget changes the point the camera looks at.
	//
	// Parameters:
	//   - target: the new world-space target
	SetTarget(target [3]float32)

	// SetUp changes the approximate up direction.
	//
	// Parameters:
	//   - up: the new up vector
	SetUp(up [3]float32)

	// SetProjection replaces the perspective settings.
	//
	// Parameters:
	//   - projection: the new settings
	SetProjection(projection Projection)

	// ViewMatrix returns the world-to-view matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the view-to-clip matrix for the given aspect ratio (column-major, [0,1] depth).
	//
	// Parameters:
	//   - aspect: the viewport width divided by its height
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix(aspect float32) [16]float32

	// ModelViewProjection returns projection x view x model.
	//
	// Parameters:
	//   - aspect: the viewport width divided by its height
	//   - model: the object-to-world matrix (column-major)
	//
	// Returns:
	//   - [16]float32: the combined matrix
	ModelViewProjection(aspect float32, model [16]float32) [16]float32
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at (2, 2, 3) looking at the origin with +y up and the default projection.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		position:   [3]float32{2, 2, 3},
		target:     [3]float32{0, 0, 0},
		up:         [3]float32{0, 1, 0},
		projection: DefaultProjection(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) SetPosition(position [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
}

func (c *cameraImpl) SetTarget(target [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
}

func (c *cameraImpl) SetUp(up [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
}

func (c *cameraImpl) SetProjection(projection Projection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = projection
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var view [16]float32
	common.LookAt(view[:], c.position, c.target, c.up)
	return view
}

func (c *cameraImpl) ProjectionMatrix(aspect float32) [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var proj [16]float32
	common.Perspective(proj[:], aspect, c.projection.FovY, c.projection.Near, c.projection.Far)
	return proj
}

func (c *cameraImpl) ModelViewProjection(aspect float32, model [16]float32) [16]float32 {
	view := c.ViewMatrix()
	proj := c.ProjectionMatrix(aspect)

	var out [16]float32
	common.Mul4(out[:], view[:], model[:])
	common.Mul4(out[:], proj[:], out[:])
	return out
}
