package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
)

// recorder collects the calls made against the fake device in order.
type recorder struct {
	calls []string
	live  map[string]int
}

func newRecorder() *recorder {
	return &recorder{live: make(map[string]int)}
}

func (r *recorder) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recorder) liveObjects() int {
	n := 0
	for _, v := range r.live {
		n += v
	}
	return n
}

type fakeDevice struct {
	rec *recorder

	// fail maps a creation call, e.g. "NewBuffer:hello_cube_indices", to the error it returns.
	fail map[string]error

	queue   *fakeQueue
	buffers []*fakeBuffer
	tables  []*fakeBindingTable
	depths  []*fakeTexture

	pipelineDesc gpu.RenderPipelineDescriptor
	cmdBuf       *fakeCommandBuffer
}

var _ gpu.Device = &fakeDevice{}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{rec: newRecorder(), fail: make(map[string]error)}
}

func (d *fakeDevice) failure(call string) error {
	if err, ok := d.fail[call]; ok {
		return err
	}
	return nil
}

func (d *fakeDevice) Name() string { return "fake" }

func (d *fakeDevice) NewCommandQueue() (gpu.CommandQueue, error) {
	if err := d.failure("NewCommandQueue"); err != nil {
		return nil, err
	}
	d.queue = &fakeQueue{rec: d.rec}
	d.rec.live["queue"]++
	return d.queue, nil
}

func (d *fakeDevice) NewCommandAllocator() (gpu.CommandAllocator, error) {
	if err := d.failure("NewCommandAllocator"); err != nil {
		return nil, err
	}
	d.rec.live["allocator"]++
	return &fakeAllocator{rec: d.rec}, nil
}

func (d *fakeDevice) NewCommandBuffer() (gpu.CommandBuffer, error) {
	if err := d.failure("NewCommandBuffer"); err != nil {
		return nil, err
	}
	d.rec.live["command_buffer"]++
	d.cmdBuf = &fakeCommandBuffer{rec: d.rec}
	return d.cmdBuf, nil
}

func (d *fakeDevice) NewBuffer(desc gpu.BufferDescriptor) (gpu.Buffer, error) {
	if err := d.failure("NewBuffer:" + desc.Label); err != nil {
		return nil, err
	}
	length := desc.Length
	if length == 0 {
		length = uint64(len(desc.Contents))
	}
	b := &fakeBuffer{
		rec:       d.rec,
		label:     desc.Label,
		usage:     desc.Usage,
		immutable: desc.Immutable,
		data:      make([]byte, length),
	}
	copy(b.data, desc.Contents)
	d.buffers = append(d.buffers, b)
	d.rec.live["buffer"]++
	return b, nil
}

func (d *fakeDevice) NewTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if err := d.failure("NewTexture:" + desc.Label); err != nil {
		return nil, err
	}
	d.rec.record("NewTexture:%dx%d", desc.Width, desc.Height)
	t := &fakeTexture{rec: d.rec, label: desc.Label, width: desc.Width, height: desc.Height, format: desc.Format, live: "texture"}
	d.depths = append(d.depths, t)
	d.rec.live["texture"]++
	return t, nil
}

func (d *fakeDevice) NewRenderPipelineState(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipelineState, error) {
	if err := d.failure("NewRenderPipelineState"); err != nil {
		return nil, err
	}
	d.pipelineDesc = desc
	d.rec.live["pipeline"]++
	return &fakePipeline{rec: d.rec, label: desc.Label, bindings: desc.Bindings}, nil
}

func (d *fakeDevice) NewBindingTable(desc gpu.BindingTableDescriptor) (gpu.BindingTable, error) {
	if err := d.failure("NewBindingTable:" + desc.Label); err != nil {
		return nil, err
	}
	t := &fakeBindingTable{
		rec:      d.rec,
		label:    desc.Label,
		bindings: desc.Pipeline.Bindings(),
		slots:    make([]gpu.Buffer, desc.MaxBufferBindCount),
	}
	d.tables = append(d.tables, t)
	d.rec.live["binding_table"]++
	return t, nil
}

// buffer returns the buffer created with label, or nil.
func (d *fakeDevice) buffer(label string) *fakeBuffer {
	for _, b := range d.buffers {
		if b.label == label {
			return b
		}
	}
	return nil
}

// fakeQueue issues serials from 1. Submitted work only completes when complete or WaitUntilCompleted is called,
// unless autoComplete is set.
type fakeQueue struct {
	rec          *recorder
	serial       uint64
	completed    uint64
	autoComplete bool
	waitErr      error
	commitErr    error
}

func (q *fakeQueue) WaitForDrawable(gpu.Drawable) { q.rec.record("WaitForDrawable") }

func (q *fakeQueue) Commit(cb gpu.CommandBuffer) (uint64, error) {
	q.rec.record("Commit")
	if q.commitErr != nil {
		return 0, q.commitErr
	}
	if fcb, ok := cb.(*fakeCommandBuffer); ok && fcb.open {
		return 0, gpu.ErrCommandBufferState
	}
	q.serial++
	if q.autoComplete {
		q.completed = q.serial
	}
	return q.serial, nil
}

func (q *fakeQueue) SignalDrawable(gpu.Drawable) { q.rec.record("SignalDrawable") }

func (q *fakeQueue) CompletedSerial() uint64 { return q.completed }

func (q *fakeQueue) WaitUntilCompleted(serial uint64) error {
	q.rec.record("WaitUntilCompleted:%d", serial)
	if q.waitErr != nil {
		return q.waitErr
	}
	q.completed = max(q.completed, serial)
	return nil
}

func (q *fakeQueue) Release() { q.rec.live["queue"]-- }

// complete marks every submitted serial as finished.
func (q *fakeQueue) complete() { q.completed = q.serial }

type fakeAllocator struct{ rec *recorder }

func (a *fakeAllocator) Reset() { a.rec.record("Reset") }
func (a *fakeAllocator) Release() { a.rec.live["allocator"]-- }

type fakeCommandBuffer struct {
	rec            *recorder
	open           bool
	encoderOpen    bool
	failEncoder    bool
	encoderNoError bool
	lastPass       gpu.RenderPassDescriptor
}

func (c *fakeCommandBuffer) Begin(gpu.CommandAllocator) error {
	c.rec.record("Begin")
	if c.open {
		return gpu.ErrCommandBufferState
	}
	c.open = true
	return nil
}

func (c *fakeCommandBuffer) RenderCommandEncoder(desc gpu.RenderPassDescriptor) (gpu.RenderCommandEncoder, error) {
	c.rec.record("RenderCommandEncoder")
	c.lastPass = desc
	if c.failEncoder {
		if c.encoderNoError {
			return nil, nil
		}
		return nil, gpu.ErrEncoderUnavailable
	}
	c.encoderOpen = true
	return &fakeEncoder{rec: c.rec, cb: c}, nil
}

func (c *fakeCommandBuffer) End() error {
	c.rec.record("End")
	if !c.open || c.encoderOpen {
		return gpu.ErrCommandBufferState
	}
	c.open = false
	return nil
}

func (c *fakeCommandBuffer) Discard() {
	c.rec.record("Discard")
	c.open = false
	c.encoderOpen = false
}

func (c *fakeCommandBuffer) Release() { c.rec.live["command_buffer"]-- }

type fakeEncoder struct {
	rec *recorder
	cb  *fakeCommandBuffer
}

func (e *fakeEncoder) SetRenderPipelineState(gpu.RenderPipelineState) {
	e.rec.record("SetRenderPipelineState")
}

func (e *fakeEncoder) SetBindingTable(t gpu.BindingTable, stages gpu.ShaderStage) {
	e.rec.record("SetBindingTable:%s:%s", t.(*fakeBindingTable).label, stages)
}

func (e *fakeEncoder) DrawIndexedPrimitives(_ gpu.PrimitiveType, indexCount int, _ gpu.IndexType, indexBuffer gpu.Buffer, _ uint64) {
	e.rec.record("DrawIndexedPrimitives:%d:%s", indexCount, indexBuffer.Label())
}

func (e *fakeEncoder) EndEncoding() {
	e.rec.record("EndEncoding")
	e.cb.encoderOpen = false
}

type fakeBuffer struct {
	rec       *recorder
	label     string
	usage     gpu.BufferUsage
	immutable bool
	data      []byte
	writes    int
}

func (b *fakeBuffer) Label() string { return b.label }
func (b *fakeBuffer) Length() uint64 { return uint64(len(b.data)) }
func (b *fakeBuffer) Usage() gpu.BufferUsage { return b.usage }

func (b *fakeBuffer) Write(offset uint64, data []byte) error {
	if b.immutable {
		return gpu.ErrImmutableBuffer
	}
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return gpu.ErrBufferOverflow
	}
	b.rec.record("Write:%s", b.label)
	b.writes++
	copy(b.data[offset:], data)
	return nil
}

func (b *fakeBuffer) Release() { b.rec.live["buffer"]-- }

type fakeTexture struct {
	rec      *recorder
	label    string
	width    uint32
	height   uint32
	format   gpu.PixelFormat
	live     string
	released bool
}

func (t *fakeTexture) Label() string { return t.label }
func (t *fakeTexture) Width() uint32 { return t.width }
func (t *fakeTexture) Height() uint32 { return t.height }
func (t *fakeTexture) Format() gpu.PixelFormat { return t.format }

func (t *fakeTexture) Release() {
	t.released = true
	if t.live != "" {
		t.rec.live[t.live]--
	}
}

type fakeDrawable struct {
	rec        *recorder
	texture    *fakeTexture
	presentErr error
	presented  bool
	released   bool
}

func (d *fakeDrawable) Texture() gpu.Texture { return d.texture }

func (d *fakeDrawable) Present() error {
	d.rec.record("Present")
	if d.presentErr != nil {
		return d.presentErr
	}
	d.presented = true
	return nil
}

func (d *fakeDrawable) Release() {
	d.rec.record("ReleaseDrawable")
	d.released = true
}

// fakeSurface hands out drawables of its configured size, or nextErr when set.
type fakeSurface struct {
	rec          *recorder
	width        int
	height       int
	nextErr      error
	configureErr error
	drawables    []*fakeDrawable
	presentErr   error
}

func newFakeSurface(rec *recorder, width, height int) *fakeSurface {
	return &fakeSurface{rec: rec, width: width, height: height}
}

func (s *fakeSurface) NextDrawable() (gpu.Drawable, error) {
	s.rec.record("NextDrawable")
	if s.nextErr != nil {
		return nil, fmt.Errorf("%w: %w", gpu.ErrNoDrawable, s.nextErr)
	}
	d := &fakeDrawable{
		rec:        s.rec,
		texture:    &fakeTexture{rec: s.rec, label: "drawable", width: uint32(s.width), height: uint32(s.height), format: gpu.PixelFormatBGRA8Unorm},
		presentErr: s.presentErr,
	}
	s.drawables = append(s.drawables, d)
	return d, nil
}

func (s *fakeSurface) PixelFormat() gpu.PixelFormat { return gpu.PixelFormatBGRA8Unorm }

func (s *fakeSurface) Configure(width, height int) error {
	s.rec.record("Configure:%dx%d", width, height)
	if s.configureErr != nil {
		return s.configureErr
	}
	s.width, s.height = width, height
	return nil
}

func (s *fakeSurface) Size() (int, int) { return s.width, s.height }
func (s *fakeSurface) Release() {}

type fakePipeline struct {
	rec      *recorder
	label    string
	bindings []gpu.BindingLayout
}

func (p *fakePipeline) Label() string { return p.label }
func (p *fakePipeline) Bindings() []gpu.BindingLayout { return p.bindings }
func (p *fakePipeline) Release() { p.rec.live["pipeline"]-- }

type fakeBindingTable struct {
	rec      *recorder
	label    string
	bindings []gpu.BindingLayout
	slots    []gpu.Buffer
}

func (t *fakeBindingTable) SetBuffer(slot int, buf gpu.Buffer) error {
	if slot < 0 || slot >= len(t.slots) {
		return gpu.ErrSlotOutOfRange
	}
	for _, b := range t.bindings {
		if int(b.Slot) != slot {
			continue
		}
		want := gpu.BufferUsageUniform
		if b.Kind == gpu.BindingKindVertexBuffer {
			want = gpu.BufferUsageVertex
		}
		if !buf.Usage().Has(want) {
			return gpu.ErrBindingMismatch
		}
		t.slots[slot] = buf
		return nil
	}
	return gpu.ErrBindingMismatch
}

func (t *fakeBindingTable) Buffer(slot int) gpu.Buffer {
	if slot < 0 || slot >= len(t.slots) {
		return nil
	}
	return t.slots[slot]
}

func (t *fakeBindingTable) Release() { t.rec.live["binding_table"]-- }

var errInjected = errors.New("injected failure")
