package geometry

// Face identifies one side of the cube. Faces are stored in this order, four vertices each.
type Face int

const (
	FaceFront  Face = iota // +z
	FaceBack               // -z
	FaceLeft               // -x
	FaceRight              // +x
	FaceTop                // +y
	FaceBottom             // -y
)

// FaceCount is the number of cube faces.
const FaceCount = 6

// Per-face vertex and index counts of the cube table.
const (
	CubeVerticesPerFace = 4
	CubeIndicesPerFace  = 6
	CubeVertexCount     = FaceCount * CubeVerticesPerFace
	CubeIndexCount      = FaceCount * CubeIndicesPerFace
)

// DefaultFaceColors are the per-face colors of the unit cube, indexed by Face.
var DefaultFaceColors = [FaceCount][4]float32{
	FaceFront:  {1, 0, 0, 1}, // red
	FaceBack:   {0, 1, 0, 1}, // green
	FaceLeft:   {0, 0, 1, 1}, // blue
	FaceRight:  {1, 1, 0, 1}, // yellow
	FaceTop:    {1, 0, 1, 1}, // magenta
	FaceBottom: {0, 1, 1, 1}, // cyan
}

// faceCorners holds the corner signs of each face quad. Every quad is ordered
// counter-clockwise when viewed from outside the cube in a right-handed frame.
var faceCorners = [FaceCount][CubeVerticesPerFace][3]float32{
	FaceFront:  {{1, 1, 1}, {-1, 1, 1}, {-1, -1, 1}, {1, -1, 1}},
	FaceBack:   {{-1, 1, -1}, {1, 1, -1}, {1, -1, -1}, {-1, -1, -1}},
	FaceLeft:   {{-1, 1, 1}, {-1, 1, -1}, {-1, -1, -1}, {-1, -1, 1}},
	FaceRight:  {{1, 1, -1}, {1, 1, 1}, {1, -1, 1}, {1, -1, -1}},
	FaceTop:    {{1, 1, -1}, {-1, 1, -1}, {-1, 1, 1}, {1, 1, 1}},
	FaceBottom: {{1, -1, 1}, {-1, -1, 1}, {-1, -1, -1}, {1, -1, -1}},
}

// FaceNormal returns the outward unit normal of the face.
//
// Parameters:
//   - f: the face
//
// Returns:
//   - [3]float32: the outward normal
func FaceNormal(f Face) [3]float32 {
	switch f {
	case FaceFront:
		return [3]float32{0, 0, 1}
	case FaceBack:
		return [3]float32{0, 0, -1}
	case FaceLeft:
		return [3]float32{-1, 0, 0}
	case FaceRight:
		return [3]float32{1, 0, 0}
	case FaceTop:
		return [3]float32{0, 1, 0}
	default:
		return [3]float32{0, -1, 0}
	}
}

type cubeConfig struct {
	label      string
	size       float32
	faceColors [FaceCount][4]float32
}

// NewCube builds the axis-aligned cube centered at the origin: 24 vertices (four per face,
// so faces never share a vertex color) and 36 indices (two triangles per face sharing
// the diagonal from the face's first to third vertex).
//
// Parameters:
//   - options: functional options overriding the label, edge length, or face colors
//
// Returns:
//   - Geometry: the cube geometry
func NewCube(options ...CubeBuilderOption) Geometry {
	cfg := &cubeConfig{
		label:      "Cube",
		size:       1,
		faceColors: DefaultFaceColors,
	}
	for _, opt := range options {
		opt(cfg)
	}

	half := cfg.size / 2
	vertices := make([]GPUVertex, 0, CubeVertexCount)
	indices := make([]uint32, 0, CubeIndexCount)

	for f := range FaceCount {
		base := uint32(len(vertices))
		for _, c := range faceCorners[f] {
			vertices = append(vertices, GPUVertex{
				Position: [3]float32{c[0] * half, c[1] * half, c[2] * half},
				Color:    cfg.faceColors[f],
			})
		}
		indices = append(indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}

	// The generated table is well formed by construction.
	g, err := NewGeometry(cfg.label, vertices, indices)
	if err != nil {
		panic(err)
	}
	return g
}
