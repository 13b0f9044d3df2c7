package renderer

// FrameState is the step of the per-frame protocol a renderer is in.
// A frame walks the states in declaration order and always returns to FrameStateIdle,
// whether it was presented or dropped.
type FrameState int32

const (
	FrameStateIdle FrameState = iota
	FrameStateAcquireDrawable
	FrameStateUpdateUniforms
	FrameStateBeginEncoding
	FrameStateRecordPass
	FrameStateEndEncoding
	FrameStateSubmit
	FrameStatePresent
)

var frameStateNames = [...]string{
	FrameStateIdle:            "Idle",
	FrameStateAcquireDrawable: "AcquireDrawable",
	FrameStateUpdateUniforms:  "UpdateUniforms",
	FrameStateBeginEncoding:   "BeginEncoding",
	FrameStateRecordPass:      "RecordPass",
	FrameStateEndEncoding:     "EndEncoding",
	FrameStateSubmit:          "Submit",
	FrameStatePresent:         "Present",
}

// String returns the name of the state.
func (s FrameState) String() string {
	if s < 0 || int(s) >= len(frameStateNames) {
		return "Unknown"
	}
	return frameStateNames[s]
}

// FrameStats counts what happened to the frames a renderer was asked to draw.
type FrameStats struct {
	// Drawn is the number of frames committed and presented.
	Drawn uint64

	// Dropped is the number of frames skipped before submission because of a transient error.
	Dropped uint64

	// FenceWaits is the number of frames that blocked on the GPU before reusing a uniform slot.
	FenceWaits uint64

	// LastMVP is the matrix written by the most recent frame that reached UpdateUniforms.
	LastMVP [16]float32
}
