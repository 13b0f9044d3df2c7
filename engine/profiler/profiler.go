// Package profiler logs frame rate, dropped frames and memory statistics at a fixed interval.
package profiler

import (
	"log"
	"runtime"
	"time"
)

// Profiler counts presented and dropped frames and logs a summary once per interval.
// It is driven from the render callback and is not safe for concurrent use.
type Profiler struct {
	drawn          int
	dropped        int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	// now is replaced in tests.
	now func() time.Time

	// last is the most recent summary logged.
	last Summary
}

// Summary is one logged interval.
type Summary struct {
	FPS        float64
	Drawn      int
	Dropped    int
	HeapMB     float64
	AllocMBps  float64
	GCCount    uint32
	MaxPauseUs uint64
}

// NewProfiler creates a new Profiler logging once per interval.
// Non-positive intervals default to 1 second.
//
// Parameters:
//   - interval: time between summaries
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick records one render callback. dropped reports whether the frame was skipped
// without presenting.
//
// Parameters:
//   - dropped: true if the frame was dropped
//
// Returns:
//   - bool: true if a summary was logged this tick
func (p *Profiler) Tick(dropped bool) bool {
	if dropped {
		p.dropped++
	} else {
		p.drawn++
	}

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
			maxPauseUs = pause
		}
	}

	p.last = Summary{
		FPS:        float64(p.drawn) / elapsed.Seconds(),
		Drawn:      p.drawn,
		Dropped:    p.dropped,
		HeapMB:     float64(p.memStats.Alloc) / 1024 / 1024,
		AllocMBps:  float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:    gcCount,
		MaxPauseUs: maxPauseUs,
	}
	log.Printf("[Profiler] FPS: %.2f | Drawn: %d | Dropped: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max: %d µs)",
		p.last.FPS, p.last.Drawn, p.last.Dropped, p.last.HeapMB, p.last.AllocMBps, p.last.GCCount, p.last.MaxPauseUs)

	p.drawn = 0
	p.dropped = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently logged summary.
func (p *Profiler) Last() Summary {
	return p.last
}
