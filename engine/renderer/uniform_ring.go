package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
)

// uniformSlot is one uniform buffer of the ring with the binding table that points at it.
type uniformSlot struct {
	buffer gpu.Buffer
	table  gpu.BindingTable

	// serial is the submission that last read the buffer, zero if never submitted.
	serial uint64
}

// uniformRing hands out uniform slots round robin. A slot is only returned once the GPU
// has finished the submission that last read it, so the CPU never writes a buffer in flight.
type uniformRing struct {
	slots []uniformSlot
	next  int
}

// newUniformRing allocates count uniform buffers of size bytes, each with its own binding table
// holding vertexBuffer at vertexIndex and the uniform buffer at uniformIndex.
// Everything created before a failure is released.
//
// Parameters:
//   - device: the device to allocate from
//   - pipeline: the pipeline the binding tables are laid out for
//   - label: the debug label prefix
//   - count: the number of slots
//   - size: the byte size of each uniform buffer
//   - vertexBuffer: the buffer bound at vertexIndex in every table
//   - vertexIndex, uniformIndex: the binding-table slots of the vertex and uniform buffers
//   - maxBindCount: the table size
//
// Returns:
//   - *uniformRing: the ring
//   - error: the first allocation or binding error
func newUniformRing(device gpu.Device, pipeline gpu.RenderPipelineState, label string, count int, size uint64, vertexBuffer gpu.Buffer, vertexIndex, uniformIndex, maxBindCount int) (*uniformRing, error) {
	ring := &uniformRing{slots: make([]uniformSlot, 0, count)}
	for i := range count {
		buf, err := device.NewBuffer(gpu.BufferDescriptor{
			Label:  fmt.Sprintf("%s_uniforms_%d", label, i),
			Length: size,
			Usage:  gpu.BufferUsageUniform,
		})
		if err != nil {
			ring.release()
			return nil, fmt.Errorf("create uniform buffer %d: %w", i, err)
		}

		table, err := device.NewBindingTable(gpu.BindingTableDescriptor{
			Label:              fmt.Sprintf("%s_bindings_%d", label, i),
			Pipeline:           pipeline,
			MaxBufferBindCount: maxBindCount,
		})
		if err != nil {
			buf.Release()
			ring.release()
			return nil, fmt.Errorf("create binding table %d: %w", i, err)
		}
		ring.slots = append(ring.slots, uniformSlot{buffer: buf, table: table})

		if err := table.SetBuffer(vertexIndex, vertexBuffer); err != nil {
			ring.release()
			return nil, fmt.Errorf("bind vertex buffer in table %d: %w", i, err)
		}
		if err := table.SetBuffer(uniformIndex, buf); err != nil {
			ring.release()
			return nil, fmt.Errorf("bind uniform buffer in table %d: %w", i, err)
		}
	}
	return ring, nil
}

// acquire returns the next slot, blocking on the queue if its previous submission is still running.
//
// Parameters:
//   - queue: the queue the slot's serial was issued by
//
// Returns:
//   - *uniformSlot: the slot, safe to write
//   - bool: true if the call had to wait for the GPU
//   - error: an error if the wait failed, the ring does not advance
func (u *uniformRing) acquire(queue gpu.CommandQueue) (*uniformSlot, bool, error) {
	slot := &u.slots[u.next]
	waited := false
	if slot.serial > queue.CompletedSerial() {
		waited = true
		if err := queue.WaitUntilCompleted(slot.serial); err != nil {
			return nil, waited, err
		}
	}
	u.next = (u.next + 1) % len(u.slots)
	return slot, waited, nil
}

// release frees every binding table and buffer of the ring.
func (u *uniformRing) release() {
	for i := len(u.slots) - 1; i >= 0; i-- {
		u.slots[i].table.Release()
		u.slots[i].buffer.Release()
	}
	u.slots = nil
	u.next = 0
}
