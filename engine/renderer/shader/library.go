// Package shader loads WGSL shader libraries and resolves their entry points by name.
package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
)

// HelloCubeSource is the WGSL library drawing the colored cube.
// It exports vertex_main and fragment_main, reads VertexIn from vertex buffer slot 0,
// and reads the mvp matrix from binding-table slot 1.
//
//go:embed assets/hello_cube.wgsl
var HelloCubeSource string

// Entry point names exported by HelloCubeSource.
const (
	VertexFunctionName   = "vertex_main"
	FragmentFunctionName = "fragment_main"
)

var (
	// ErrFunctionNotFound is returned when a library does not export the requested entry point.
	ErrFunctionNotFound = errors.New("shader: function not found")

	// ErrNoEntryPoints is returned when a source declares no @vertex, @fragment or @compute function.
	ErrNoEntryPoints = errors.New("shader: no entry points")

	// ErrDuplicateFunction is returned when two entry points share a name.
	ErrDuplicateFunction = errors.New("shader: duplicate function")

	// ErrUnsupportedBinding is returned for resources the binding table cannot hold.
	ErrUnsupportedBinding = errors.New("shader: unsupported binding")

	// ErrVertexLayoutMismatch is returned when a vertex descriptor does not feed the vertex input struct.
	ErrVertexLayoutMismatch = errors.New("shader: vertex layout mismatch")
)

// library is the implementation of the Library interface.
type library struct {
	label       string
	source      string
	functions   map[string]gpu.ShaderFunction
	names       []string
	vertexInput gpu.VertexDescriptor
	hasVertex   bool
	bindings    []gpu.BindingLayout
}

// Library is a parsed WGSL module whose entry points are looked up by name.
// The library is immutable and safe to share.
type Library interface {
	// Label returns the debug label of the library.
	Label() string

	// Source returns the WGSL source.
	Source() string

	// Function resolves an entry point by name.
	//
	// Parameters:
	//   - name: the entry point name, e.g. "vertex_main"
	//
	// Returns:
	//   - gpu.ShaderFunction: the resolved function
	//   - error: wraps ErrFunctionNotFound if the library does not export name
	Function(name string) (gpu.ShaderFunction, error)

	// FunctionNames returns the entry point names in declaration order.
	FunctionNames() []string

	// VertexInput returns the packed layout of the vertex input struct.
	//
	// Returns:
	//   - gpu.VertexDescriptor: the layout
	//   - bool: false if the library declares no vertex input struct
	VertexInput() (gpu.VertexDescriptor, bool)

	// Bindings returns the buffer bindings declared in @group(0), sorted by slot.
	Bindings() []gpu.BindingLayout

	// ValidateVertexDescriptor checks that desc feeds every vertex input location with the declared format.
	//
	// Parameters:
	//   - desc: the vertex descriptor the pipeline will be built with
	//
	// Returns:
	//   - error: wraps ErrVertexLayoutMismatch naming the first mismatching location
	ValidateVertexDescriptor(desc gpu.VertexDescriptor) error
}

var _ Library = &library{}

// NewLibrary parses WGSL source into a Library.
//
// Parameters:
//   - label: the debug label of the library
//   - source: the WGSL source
//
// Returns:
//   - Library: the parsed library
//   - error: an error if the source has no entry points or declares an unsupported binding
func NewLibrary(label, source string) (Library, error) {
	entries := parseEntryPoints(source)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEntryPoints, label)
	}

	l := &library{
		label:     label,
		source:    source,
		functions: make(map[string]gpu.ShaderFunction, len(entries)),
		names:     make([]string, 0, len(entries)),
	}

	var renderStages gpu.ShaderStage
	for _, e := range entries {
		if _, exists := l.functions[e.name]; exists {
			return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateFunction, e.name, label)
		}
		l.functions[e.name] = gpu.ShaderFunction{
			Library: label,
			Name:    e.name,
			Stage:   e.stage,
			Source:  source,
		}
		l.names = append(l.names, e.name)
		if e.stage != gpu.ShaderStageCompute {
			renderStages |= e.stage
		}
	}

	l.vertexInput, l.hasVertex = parseVertexInput(source)

	structSizes := computeStructSizes(parseStructBlocks(stripComments(source)))
	for _, b := range parseBindings(source) {
		if b.group != 0 {
			return nil, fmt.Errorf("%w: %s uses group %d, only group 0 maps to the binding table", ErrUnsupportedBinding, b.varName, b.group)
		}
		kind, ok := classifyBinding(b.addressSpace)
		if !ok {
			return nil, fmt.Errorf("%w: %s (var<%s> %s)", ErrUnsupportedBinding, b.varName, b.addressSpace, b.typeName)
		}
		layout := gpu.BindingLayout{
			Slot:   uint32(b.binding),
			Kind:   kind,
			Stages: renderStages,
		}
		if tl, ok := resolveTypeLayout(b.typeName, structSizes); ok {
			layout.MinSize = tl.size
		}
		l.bindings = append(l.bindings, layout)
	}

	return l, nil
}

// NewLibraryFromFile reads and parses a WGSL file. The file's base name is used as the label.
//
// Parameters:
//   - path: the path of the .wgsl file
//
// Returns:
//   - Library: the parsed library
//   - error: an error if the file cannot be read or parsed
func NewLibraryFromFile(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: read %s: %w", path, err)
	}
	label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewLibrary(label, string(data))
}

// DefaultLibrary returns the embedded hello cube library.
//
// Returns:
//   - Library: the parsed HelloCubeSource
func DefaultLibrary() Library {
	l, err := NewLibrary("hello_cube", HelloCubeSource)
	if err != nil {
		panic(fmt.Sprintf("embedded shader library is invalid: %v", err))
	}
	return l
}

func (l *library) Label() string {
	return l.label
}

func (l *library) Source() string {
	return l.source
}

func (l *library) Function(name string) (gpu.ShaderFunction, error) {
	fn, ok := l.functions[name]
	if !ok {
		return gpu.ShaderFunction{}, fmt.Errorf("%w: %q in library %q", ErrFunctionNotFound, name, l.label)
	}
	return fn, nil
}

func (l *library) FunctionNames() []string {
	return append([]string(nil), l.names...)
}

func (l *library) VertexInput() (gpu.VertexDescriptor, bool) {
	return l.vertexInput, l.hasVertex
}

func (l *library) Bindings() []gpu.BindingLayout {
	return append([]gpu.BindingLayout(nil), l.bindings...)
}

func (l *library) ValidateVertexDescriptor(desc gpu.VertexDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	if !l.hasVertex {
		return nil
	}
	for _, want := range l.vertexInput.Attributes {
		got, ok := desc.Attribute(want.ShaderLocation)
		if !ok {
			return fmt.Errorf("%w: location %d is not fed", ErrVertexLayoutMismatch, want.ShaderLocation)
		}
		if got.Format != want.Format {
			return fmt.Errorf("%w: location %d is %s, shader expects %s", ErrVertexLayoutMismatch, want.ShaderLocation, got.Format, want.Format)
		}
	}
	return nil
}
