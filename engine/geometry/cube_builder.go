package geometry

// CubeBuilderOption is a functional option applied to the cube during NewCube.
type CubeBuilderOption func(*cubeConfig)

// WithCubeLabel sets the debug label of the cube geometry.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - CubeBuilderOption: a function that sets the label
func WithCubeLabel(label string) CubeBuilderOption {
	return func(c *cubeConfig) {
		c.label = label
	}
}

// WithCubeSize sets the edge length of the cube. Defaults to 1.
//
// Parameters:
//   - size: the edge length in model units
//
// Returns:
//   - CubeBuilderOption: a function that sets the edge length
func WithCubeSize(size float32) CubeBuilderOption {
	return func(c *cubeConfig) {
		c.size = size
	}
}

// WithFaceColors replaces the per-face colors, indexed by Face.
//
// Parameters:
//   - colors: one RGBA color per face
//
// Returns:
//   - CubeBuilderOption: a function that sets the face colors
func WithFaceColors(colors [FaceCount][4]float32) CubeBuilderOption {
	return func(c *cubeConfig) {
		c.faceColors = colors
	}
}
