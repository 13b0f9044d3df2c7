package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRingFixture(t *testing.T) (*fakeDevice, gpu.RenderPipelineState, gpu.Buffer) {
	t.Helper()
	dev := newFakeDevice()
	pipeline, err := dev.NewRenderPipelineState(gpu.RenderPipelineDescriptor{
		Label: "ring_pipeline",
		Bindings: []gpu.BindingLayout{
			{Slot: 0, Kind: gpu.BindingKindVertexBuffer, Stages: gpu.ShaderStageVertex},
			{Slot: 2, Kind: gpu.BindingKindUniformBuffer, Stages: gpu.ShaderStageVertex, MinSize: 64},
		},
	})
	require.NoError(t, err)
	vb, err := dev.NewBuffer(gpu.BufferDescriptor{
		Label:     "ring_vertices",
		Usage:     gpu.BufferUsageVertex,
		Contents:  make([]byte, 28),
		Immutable: true,
	})
	require.NoError(t, err)
	return dev, pipeline, vb
}

func TestUniformRingBindsEachSlot(t *testing.T) {
	dev, pipeline, vb := newRingFixture(t)

	ring, err := newUniformRing(dev, pipeline, "ring", 3, 64, vb, 0, 2, 3)
	require.NoError(t, err)
	require.Len(t, ring.slots, 3)

	seen := make(map[gpu.Buffer]bool)
	for i, slot := range ring.slots {
		assert.Same(t, vb, slot.table.Buffer(0), "slot %d vertex binding", i)
		assert.Same(t, slot.buffer, slot.table.Buffer(2), "slot %d uniform binding", i)
		assert.Equal(t, uint64(64), slot.buffer.Length())
		assert.False(t, seen[slot.buffer], "slot %d shares a uniform buffer", i)
		seen[slot.buffer] = true
	}
}

func TestUniformRingAcquireWrapsAndWaits(t *testing.T) {
	dev, pipeline, vb := newRingFixture(t)
	ring, err := newUniformRing(dev, pipeline, "ring", 2, 64, vb, 0, 2, 3)
	require.NoError(t, err)
	queue := &fakeQueue{rec: dev.rec}

	first, waited, err := ring.acquire(queue)
	require.NoError(t, err)
	assert.False(t, waited)
	first.serial = 1

	second, waited, err := ring.acquire(queue)
	require.NoError(t, err)
	assert.False(t, waited)
	assert.NotSame(t, first, second)
	second.serial = 2

	again, waited, err := ring.acquire(queue)
	require.NoError(t, err)
	assert.True(t, waited)
	assert.Same(t, first, again)
	assert.Equal(t, 1, dev.rec.count("WaitUntilCompleted:1"))
}

func TestUniformRingWaitFailureKeepsPosition(t *testing.T) {
	dev, pipeline, vb := newRingFixture(t)
	ring, err := newUniformRing(dev, pipeline, "ring", 1, 64, vb, 0, 2, 3)
	require.NoError(t, err)
	ring.slots[0].serial = 5
	queue := &fakeQueue{rec: dev.rec, waitErr: errInjected}

	_, waited, err := ring.acquire(queue)
	assert.ErrorIs(t, err, errInjected)
	assert.True(t, waited)
	assert.Equal(t, 0, ring.next)
}

func TestUniformRingCreationFailureReleasesSlots(t *testing.T) {
	dev, pipeline, vb := newRingFixture(t)
	before := dev.rec.liveObjects()
	dev.fail["NewBindingTable:ring_bindings_1"] = errInjected

	ring, err := newUniformRing(dev, pipeline, "ring", 3, 64, vb, 0, 2, 3)
	assert.ErrorIs(t, err, errInjected)
	assert.Nil(t, ring)
	assert.Equal(t, before, dev.rec.liveObjects())
}

func TestUniformRingRejectsMismatchedSlot(t *testing.T) {
	dev, pipeline, vb := newRingFixture(t)
	before := dev.rec.liveObjects()

	_, err := newUniformRing(dev, pipeline, "ring", 2, 64, vb, 2, 0, 3)
	assert.ErrorIs(t, err, gpu.ErrBindingMismatch)
	assert.Equal(t, before, dev.rec.liveObjects())
}
