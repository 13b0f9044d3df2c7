package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLibraryExportsEntryPoints(t *testing.T) {
	lib := DefaultLibrary()
	assert.Equal(t, "hello_cube", lib.Label())
	assert.Equal(t, []string{VertexFunctionName, FragmentFunctionName}, lib.FunctionNames())

	vs, err := lib.Function(VertexFunctionName)
	require.NoError(t, err)
	assert.Equal(t, gpu.ShaderStageVertex, vs.Stage)
	assert.Equal(t, HelloCubeSource, vs.Source)

	fs, err := lib.Function(FragmentFunctionName)
	require.NoError(t, err)
	assert.Equal(t, gpu.ShaderStageFragment, fs.Stage)
}

func TestFunctionNotFound(t *testing.T) {
	_, err := DefaultLibrary().Function("missing_main")
	assert.ErrorIs(t, err, ErrFunctionNotFound)
	assert.Contains(t, err.Error(), "missing_main")
}

func TestDefaultLibraryVertexInput(t *testing.T) {
	desc, ok := DefaultLibrary().VertexInput()
	require.True(t, ok)
	require.Len(t, desc.Attributes, 2)

	assert.Equal(t, gpu.VertexAttribute{Format: gpu.VertexFormatFloat3, Offset: 0, ShaderLocation: 0}, desc.Attributes[0])
	assert.Equal(t, gpu.VertexAttribute{Format: gpu.VertexFormatFloat4, Offset: 12, ShaderLocation: 1}, desc.Attributes[1])
	assert.Equal(t, uint64(28), desc.Layouts[0].Stride)
}

func TestDefaultLibraryBindings(t *testing.T) {
	bindings := DefaultLibrary().Bindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, gpu.BindingLayout{
		Slot:    1,
		Kind:    gpu.BindingKindUniformBuffer,
		Stages:  gpu.ShaderStageVertex | gpu.ShaderStageFragment,
		MinSize: 64,
	}, bindings[0])
}

func TestValidateVertexDescriptor(t *testing.T) {
	lib := DefaultLibrary()
	desc, _ := lib.VertexInput()
	assert.NoError(t, lib.ValidateVertexDescriptor(desc))

	wrongFormat := gpu.VertexDescriptor{
		Attributes: []gpu.VertexAttribute{
			{Format: gpu.VertexFormatFloat3, Offset: 0, ShaderLocation: 0},
			{Format: gpu.VertexFormatFloat3, Offset: 12, ShaderLocation: 1},
		},
		Layouts: []gpu.VertexBufferLayout{{Stride: 24}},
	}
	assert.ErrorIs(t, lib.ValidateVertexDescriptor(wrongFormat), ErrVertexLayoutMismatch)

	missing := gpu.VertexDescriptor{
		Attributes: []gpu.VertexAttribute{{Format: gpu.VertexFormatFloat3, ShaderLocation: 0}},
		Layouts:    []gpu.VertexBufferLayout{{Stride: 12}},
	}
	assert.ErrorIs(t, lib.ValidateVertexDescriptor(missing), ErrVertexLayoutMismatch)
}

func TestNewLibraryErrors(t *testing.T) {
	_, err := NewLibrary("empty", "struct A { x: f32, };")
	assert.ErrorIs(t, err, ErrNoEntryPoints)

	_, err = NewLibrary("dup", "@vertex fn a() {}\n@fragment fn a() {}")
	assert.ErrorIs(t, err, ErrDuplicateFunction)

	_, err = NewLibrary("tex", "@group(0) @binding(0) var t: texture_2d<f32>;\n@fragment fn f() {}")
	assert.ErrorIs(t, err, ErrUnsupportedBinding)

	_, err = NewLibrary("group", "@group(1) @binding(0) var<uniform> u: f32;\n@vertex fn v() {}")
	assert.ErrorIs(t, err, ErrUnsupportedBinding)
}

func TestParseIgnoresComments(t *testing.T) {
	src := `
// @vertex fn commented_out() {}
/* @fragment
   fn also_commented() {} */
@compute @workgroup_size(8, 8)
fn cs_main() {}
`
	lib, err := NewLibrary("cs", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"cs_main"}, lib.FunctionNames())

	fn, err := lib.Function("cs_main")
	require.NoError(t, err)
	assert.Equal(t, gpu.ShaderStageCompute, fn.Stage)
	_, ok := lib.VertexInput()
	assert.False(t, ok)
}

func TestStructLayoutSizes(t *testing.T) {
	src := `
struct Inner { a: vec3<f32>, b: f32, };
struct Outer { m: mat4x4<f32>, inner: Inner, tail: array<vec4<f32>, 2>, };
@group(0) @binding(2) var<storage, read> data: Outer;
@vertex fn v() {}
`
	lib, err := NewLibrary("layout", src)
	require.NoError(t, err)
	bindings := lib.Bindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, gpu.BindingKindStorageBuffer, bindings[0].Kind)
	assert.Equal(t, uint64(64+16+32), bindings[0].MinSize)
}

func TestNewLibraryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(HelloCubeSource), 0o644))

	lib, err := NewLibraryFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cube", lib.Label())

	_, err = NewLibraryFromFile(filepath.Join(t.TempDir(), "missing.wgsl"))
	assert.Error(t, err)
}
