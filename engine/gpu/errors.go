package gpu

import "errors"

var (
	// ErrNoDrawable is returned by Surface.NextDrawable when no image can be acquired this frame.
	ErrNoDrawable = errors.New("gpu: no drawable available")

	// ErrEncoderUnavailable is returned when a render command encoder cannot be opened.
	ErrEncoderUnavailable = errors.New("gpu: render command encoder unavailable")

	// ErrImmutableBuffer is returned when writing to a buffer created with immutable contents.
	ErrImmutableBuffer = errors.New("gpu: buffer is immutable")

	// ErrBufferOverflow is returned when a write does not fit in the buffer.
	ErrBufferOverflow = errors.New("gpu: write exceeds buffer length")

	// ErrSlotOutOfRange is returned when a binding-table slot is outside the table.
	ErrSlotOutOfRange = errors.New("gpu: binding slot out of range")

	// ErrBindingMismatch is returned when a buffer's usage does not match the slot's binding layout.
	ErrBindingMismatch = errors.New("gpu: buffer does not match binding layout")

	// ErrCommandBufferState is returned when a command buffer method is called out of order.
	ErrCommandBufferState = errors.New("gpu: command buffer used out of order")
)
