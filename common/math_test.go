package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-5

func basisRows(m []float32) (right, up, forward [3]float32) {
	right = [3]float32{m[0], m[4], m[8]}
	up = [3]float32{m[1], m[5], m[9]}
	forward = [3]float32{m[2], m[6], m[10]}
	return
}

func TestLookAtBasisIsOrthonormal(t *testing.T) {
	cases := []struct {
		name            string
		eye, center, up [3]float32
	}{
		{"hello cube camera", [3]float32{2, 2, 3}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0}},
		{"looking down +z", [3]float32{0, 0, -5}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0}},
		{"off axis target", [3]float32{-3, 1, 7}, [3]float32{1, -2, 0.5}, [3]float32{0, 1, 0}},
		{"tilted up vector", [3]float32{4, 4, 4}, [3]float32{0, 1, 0}, [3]float32{1, 1, 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m [16]float32
			LookAt(m[:], tc.eye, tc.center, tc.up)
			right, up, forward := basisRows(m[:])

			assert.InDelta(t, 0, Dot3(right, up), epsilon)
			assert.InDelta(t, 0, Dot3(right, forward), epsilon)
			assert.InDelta(t, 0, Dot3(up, forward), epsilon)
			assert.InDelta(t, 1, Length3(right), epsilon)
			assert.InDelta(t, 1, Length3(up), epsilon)
			assert.InDelta(t, 1, Length3(forward), epsilon)
			assert.Equal(t, float32(1), m[15])
			assert.Equal(t, [3]float32{0, 0, 0}, [3]float32{m[3], m[7], m[11]})
		})
	}
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := [3]float32{2, 2, 3}
	var m [16]float32
	LookAt(m[:], eye, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})

	p := TransformPoint4(m[:], [4]float32{eye[0], eye[1], eye[2], 1})
	assert.InDelta(t, 0, p[0], epsilon)
	assert.InDelta(t, 0, p[1], epsilon)
	assert.InDelta(t, 0, p[2], epsilon)
	assert.InDelta(t, 1, p[3], epsilon)
}

func TestLookAtTargetLiesOnForwardAxis(t *testing.T) {
	eye := [3]float32{2, 2, 3}
	var m [16]float32
	LookAt(m[:], eye, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})

	p := TransformPoint4(m[:], [4]float32{0, 0, 0, 1})
	assert.InDelta(t, 0, p[0], epsilon)
	assert.InDelta(t, 0, p[1], epsilon)
	assert.InDelta(t, Length3(eye), p[2], epsilon)
}

func TestLookAtDegenerateUpProducesNonFiniteMatrix(t *testing.T) {
	var m [16]float32
	LookAt(m[:], [3]float32{0, 5, 0}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	assert.False(t, IsFinite4(m[:]))
}

func TestPerspectiveDepthRange(t *testing.T) {
	var p [16]float32
	near, far := float32(0.1), float32(100)
	Perspective(p[:], 1.5, math32.Pi/4, near, far)

	atNear := TransformPoint4(p[:], [4]float32{0, 0, near, 1})
	atFar := TransformPoint4(p[:], [4]float32{0, 0, far, 1})

	assert.InDelta(t, near, atNear[3], epsilon)
	assert.InDelta(t, far, atFar[3], 1e-3)
	assert.InDelta(t, 0, atNear[2]/atNear[3], epsilon)
	assert.InDelta(t, 1, atFar[2]/atFar[3], epsilon)
}

func TestPerspectiveLayout(t *testing.T) {
	var p [16]float32
	Perspective(p[:], 2, math32.Pi/2, 1, 3)

	// tan(pi/4) == 1, so yScale is 1 and xScale is 1/aspect.
	assert.InDelta(t, 0.5, p[0], epsilon)
	assert.InDelta(t, 1, p[5], epsilon)
	assert.InDelta(t, 1.5, p[10], epsilon)
	assert.Equal(t, float32(1), p[11])
	assert.InDelta(t, -1.5, p[14], epsilon)
	assert.Equal(t, float32(0), p[15])
	for _, i := range []int{1, 2, 3, 4, 6, 7, 8, 9, 12, 13} {
		assert.Equal(t, float32(0), p[i], "element %d", i)
	}
}

func TestCameraTargetProjectsToCenter(t *testing.T) {
	var view, proj, vp [16]float32
	LookAt(view[:], [3]float32{2, 2, 3}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	Perspective(proj[:], 1, math32.Pi/4, 0.1, 100)
	Mul4(vp[:], proj[:], view[:])

	clip := TransformPoint4(vp[:], [4]float32{0, 0, 0, 1})
	assert.InDelta(t, 0, clip[0], epsilon)
	assert.InDelta(t, 0, clip[1], epsilon)
	assert.Greater(t, clip[3], float32(0))
}

func TestHelloCubeMVP(t *testing.T) {
	var view, proj, model, vp, mvp [16]float32
	Identity(model[:])
	LookAt(view[:], [3]float32{2, 2, 3}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	Perspective(proj[:], 1, math32.Pi/4, 0.1, 100)
	Mul4(vp[:], proj[:], view[:])
	Mul4(mvp[:], vp[:], model[:])

	require.True(t, IsFinite4(mvp[:]))
	assert.NotZero(t, Determinant4(mvp[:]))

	for _, x := range []float32{-0.5, 0.5} {
		for _, y := range []float32{-0.5, 0.5} {
			for _, z := range []float32{-0.5, 0.5} {
				clip := TransformPoint4(mvp[:], [4]float32{x, y, z, 1})
				assert.Greater(t, clip[3], float32(0), "corner (%v, %v, %v)", x, y, z)
				depth := clip[2] / clip[3]
				assert.True(t, depth > 0 && depth < 1, "corner (%v, %v, %v) depth %v", x, y, z, depth)
			}
		}
	}
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i + 1)
	}
	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)
	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestInvert4RoundTrip(t *testing.T) {
	var view, inv, prod, id [16]float32
	LookAt(view[:], [3]float32{2, 2, 3}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	require.True(t, Invert4(inv[:], view[:]))
	Mul4(prod[:], view[:], inv[:])
	Identity(id[:])
	for i := range prod {
		assert.InDelta(t, id[i], prod[i], epsilon, "element %d", i)
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	out[0] = 42
	assert.False(t, Invert4(out[:], zero[:]))
	assert.Equal(t, float32(42), out[0])
	assert.Zero(t, Determinant4(zero[:]))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func TestPutFloat32s(t *testing.T) {
	buf := make([]byte, 12)
	n := PutFloat32s(buf, 1, -2.5, 3)
	assert.Equal(t, 12, n)
	assert.Equal(t, []float32{1, -2.5, 3}, Float32sFromBytes(buf))
}
