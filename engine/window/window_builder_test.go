package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowBuilderOptions(t *testing.T) {
	w := &engineWindow{width: 1280, height: 720}
	for _, opt := range []WindowBuilderOption{
		WithTitle("cube"),
		WithSize(800, 0),
		WithMinSize(320, 240),
		WithMaxSize(1920, 1080),
	} {
		opt(w)
	}

	assert.Equal(t, "cube", w.title)

	WithTitle("")(w)
	assert.Equal(t, "cube", w.title)
	assert.Equal(t, 800, w.width)
	assert.Equal(t, 720, w.height)
	assert.Equal(t, [2]int{320, 240}, [2]int{w.minWidth, w.minHeight})
	assert.Equal(t, [2]int{1920, 1080}, [2]int{w.maxWidth, w.maxHeight})
}

func TestUninitializedWindow(t *testing.T) {
	w := &engineWindow{}
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.ErrorIs(t, w.Close(), ErrNotOpen)
}
