package common

import (
	"github.com/chewxy/math32"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order.
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements, may alias a or b)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// TransformPoint4 multiplies the column-major matrix m by the homogeneous point p.
//
// Parameters:
//   - m: the matrix (16 elements, column-major)
//   - p: the point as (x, y, z, w)
//
// Returns:
//   - [4]float32: the transformed point m * p
func TransformPoint4(m []float32, p [4]float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row]*p[0] + m[4+row]*p[1] + m[8+row]*p[2] + m[12+row]*p[3]
	}
	return out
}

// Perspective creates a left-handed perspective projection matrix for a [0, 1] clip-space depth range.
// View-space z is copied into clip-space w, so points in front of the camera have positive w.
// A point at view depth near maps to depth 0 and a point at view depth far maps to depth 1 after the divide.
// No validation is performed: a non-positive aspect, fovY outside (0, pi), or near >= far yields a malformed matrix.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - aspect: viewport aspect ratio (width/height)
//   - fovY: vertical field of view in radians
//   - near: near clipping plane distance
//   - far: far clipping plane distance
func Perspective(out []float32, aspect, fovY, near, far float32) {
	yScale := 1 / math32.Tan(fovY*0.5)
	xScale := yScale / aspect
	zScale := far / (far - near)
	wzScale := -near * zScale

	for i := range out[:16] {
		out[i] = 0
	}
	out[0] = xScale
	out[5] = yScale
	out[10] = zScale
	out[11] = 1
	out[14] = wzScale
}

// LookAt creates a view matrix that places the camera at the origin looking along +z.
// The basis is left-handed: forward points from eye to center, right is up x forward,
// and the corrected up is forward x right. Each basis vector forms one row of the
// rotation and the last column holds the negated projections of eye onto the basis.
// The result is undefined when eye equals center or up is parallel to the view direction.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: approximate up direction (typically 0,1,0)
func LookAt(out []float32, eye, center, up [3]float32) {
	forward := Normalize3(Sub3(center, eye))
	right := Normalize3(Cross3(up, forward))
	trueUp := Cross3(forward, right)

	out[0], out[4], out[8], out[12] = right[0], right[1], right[2], -Dot3(right, eye)
	out[1], out[5], out[9], out[13] = trueUp[0], trueUp[1], trueUp[2], -Dot3(trueUp, eye)
	out[2], out[6], out[10], out[14] = forward[0], forward[1], forward[2], -Dot3(forward, eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// Determinant4 returns the determinant of a 4x4 column-major matrix.
//
// Parameters:
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - float32: the determinant
func Determinant4(m []float32) float32 {
	s0, s1, s2, s3, s4, s5, c0, c1, c2, c3, c4, c5 := subDeterminants(m)
	return s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
}

// Invert4 computes the inverse of a 4x4 column-major matrix using the Laplace
// expansion (cofactor) method. If the matrix is singular (determinant == 0) the
// output is left unchanged and the function returns false.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(out, m []float32) bool {
	s0, s1, s2, s3, s4, s5, c0, c1, c2, c3, c4, c5 := subDeterminants(m)

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}

	invDet := 1.0 / det
	var buf [16]float32

	buf[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	buf[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	buf[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	buf[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	buf[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	buf[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	buf[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	buf[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	buf[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	buf[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	buf[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	buf[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	buf[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	buf[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	buf[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	buf[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	copy(out, buf[:])
	return true
}

// subDeterminants returns the 2x2 sub-determinants of the upper (s) and lower (c) row pairs.
func subDeterminants(m []float32) (s0, s1, s2, s3, s4, s5, c0, c1, c2, c3, c4, c5 float32) {
	s0 = m[0]*m[5] - m[4]*m[1]
	s1 = m[0]*m[6] - m[4]*m[2]
	s2 = m[0]*m[7] - m[4]*m[3]
	s3 = m[1]*m[6] - m[5]*m[2]
	s4 = m[1]*m[7] - m[5]*m[3]
	s5 = m[2]*m[7] - m[6]*m[3]

	c5 = m[10]*m[15] - m[14]*m[11]
	c4 = m[9]*m[15] - m[13]*m[11]
	c3 = m[9]*m[14] - m[13]*m[10]
	c2 = m[8]*m[15] - m[12]*m[11]
	c1 = m[8]*m[14] - m[12]*m[10]
	c0 = m[8]*m[13] - m[12]*m[9]
	return
}

// IsFinite4 reports whether every element of the matrix is neither NaN nor infinite.
//
// Parameters:
//   - m: the matrix to check
//
// Returns:
//   - bool: true if all elements are finite
func IsFinite4(m []float32) bool {
	for _, v := range m {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sub3 returns a - b.
func Sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Dot3 returns the dot product of a and b.
func Dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross3 returns the cross product a x b.
func Cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Length3 returns the euclidean length of v.
func Length3(v [3]float32) float32 {
	return math32.Sqrt(Dot3(v, v))
}

// Normalize3 scales v to unit length. A zero vector normalizes to NaN components,
// which is how a degenerate camera basis surfaces in the view matrix.
func Normalize3(v [3]float32) [3]float32 {
	inv := 1 / Length3(v)
	return [3]float32{v[0] * inv, v[1] * inv, v[2] * inv}
}
