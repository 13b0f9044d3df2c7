package wgpu_device

import (
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// maxBlockingPolls bounds WaitUntilCompleted so a hung device surfaces as an error.
const maxBlockingPolls = 64

// commandQueue numbers submissions from 1. WebGPU completes submissions in order, so the
// work-done callback of serial n proves every serial up to n has finished.
type commandQueue struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	submitted uint64
	completed atomic.Uint64
	lost      atomic.Bool
}

// WaitForDrawable is a no-op: GetCurrentTexture already blocked until the image was free.
func (q *commandQueue) WaitForDrawable(gpu.Drawable) {}

func (q *commandQueue) Commit(cb gpu.CommandBuffer) (uint64, error) {
	c, ok := cb.(*commandBuffer)
	if !ok {
		return 0, ErrForeignObject
	}
	if c.state != commandBufferClosed {
		return 0, fmt.Errorf("%w: commit of a buffer that was not ended", gpu.ErrCommandBufferState)
	}

	q.queue.Submit(c.finished)
	c.finished.Release()
	c.finished = nil
	c.state = commandBufferIdle

	q.submitted++
	serial := q.submitted
	q.queue.OnSubmittedWorkDone(func(status wgpu.QueueWorkDoneStatus) {
		if status != wgpu.QueueWorkDoneStatusSuccess {
			q.lost.Store(true)
		}
		for {
			cur := q.completed.Load()
			if cur >= serial || q.completed.CompareAndSwap(cur, serial) {
				return
			}
		}
	})
	return serial, nil
}

// SignalDrawable is a no-op: Surface.Present is ordered after every prior submission.
func (q *commandQueue) SignalDrawable(gpu.Drawable) {}

func (q *commandQueue) CompletedSerial() uint64 {
	q.device.Poll(false, nil)
	return q.completed.Load()
}

func (q *commandQueue) WaitUntilCompleted(serial uint64) error {
	for range maxBlockingPolls {
		if q.completed.Load() >= serial {
			return nil
		}
		if q.lost.Load() {
			return ErrDeviceLost
		}
		q.device.Poll(true, nil)
	}
	if q.completed.Load() >= serial {
		return nil
	}
	return fmt.Errorf("wgpu_device: submission %d not completed after %d polls", serial, maxBlockingPolls)
}

// Release is a no-op: the queue handle belongs to the device.
func (q *commandQueue) Release() {}
