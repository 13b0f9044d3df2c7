package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/hellocube/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identity = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, [3]float32{2, 2, 3}, c.Position())
	assert.Equal(t, [3]float32{0, 0, 0}, c.Target())
	assert.Equal(t, [3]float32{0, 1, 0}, c.Up())
	assert.InDelta(t, math.Pi/4, c.Projection().FovY, 1e-6)
	assert.InDelta(t, 0.1, c.Projection().Near, 1e-6)
	assert.InDelta(t, 100, c.Projection().Far, 1e-6)
}

func TestCameraOptions(t *testing.T) {
	c := NewCamera(
		WithPosition(0, 0, -5),
		WithTarget(1, 0, 0),
		WithUp(0, 0, 1),
		WithFov(1),
		WithNear(0.5),
		WithFar(50),
	)
	assert.Equal(t, [3]float32{0, 0, -5}, c.Position())
	assert.Equal(t, [3]float32{1, 0, 0}, c.Target())
	assert.Equal(t, [3]float32{0, 0, 1}, c.Up())
	assert.Equal(t, Projection{FovY: 1, Near: 0.5, Far: 50}, c.Projection())

	c = NewCamera(WithProjection(Projection{FovY: 0.5, Near: 1, Far: 10}))
	assert.Equal(t, Projection{FovY: 0.5, Near: 1, Far: 10}, c.Projection())
}

func TestViewMatrixMatchesLookAt(t *testing.T) {
	c := NewCamera()
	var want [16]float32
	common.LookAt(want[:], [3]float32{2, 2, 3}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	assert.Equal(t, want, c.ViewMatrix())

	c.SetPosition([3]float32{0, 0, -4})
	view := c.ViewMatrix()
	p := common.TransformPoint4(view[:], [4]float32{0, 0, -4, 1})
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, 0, p[2], 1e-5)
}

func TestProjectionMatrixTracksAspect(t *testing.T) {
	c := NewCamera()
	square := c.ProjectionMatrix(1)
	wide := c.ProjectionMatrix(2)
	assert.InDelta(t, square[0]/2, wide[0], 1e-6)
	assert.Equal(t, square[5], wide[5])

	c.SetProjection(Projection{FovY: math.Pi / 2, Near: 1, Far: 2})
	proj := c.ProjectionMatrix(1)
	assert.InDelta(t, 1, proj[5], 1e-6)
	assert.InDelta(t, 2, proj[10], 1e-6)
	assert.InDelta(t, -2, proj[14], 1e-6)
}

func TestModelViewProjection(t *testing.T) {
	c := NewCamera()
	view := c.ViewMatrix()
	proj := c.ProjectionMatrix(1)
	var want [16]float32
	common.Mul4(want[:], proj[:], view[:])

	got := c.ModelViewProjection(1, identity)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}

	clip := common.TransformPoint4(got[:], [4]float32{0, 0, 0, 1})
	require.Greater(t, clip[3], float32(0))
	assert.InDelta(t, 0, clip[0]/clip[3], 1e-5)
	assert.InDelta(t, 0, clip[1]/clip[3], 1e-5)

	translated := identity
	translated[12] = 1
	moved := c.ModelViewProjection(1, translated)
	a := common.TransformPoint4(moved[:], [4]float32{0, 0, 0, 1})
	b := common.TransformPoint4(got[:], [4]float32{1, 0, 0, 1})
	for i := range a {
		assert.InDelta(t, b[i], a[i], 1e-5)
	}
}

func TestGPUUniformsMarshal(t *testing.T) {
	u := GPUUniforms{MVP: identity}
	u.MVP[13] = -2.5
	require.Equal(t, 64, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 64)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(0), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])))
	assert.Equal(t, float32(-2.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[13*4:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[15*4:])))
}
