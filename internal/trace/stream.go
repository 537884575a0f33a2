package trace

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// StreamTracer writes events immediately through a zerolog logger.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	log    zerolog.Logger
	level  Level
	format Format
}

// NewStreamTracer creates a StreamTracer writing to w.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{
		w:      w,
		log:    newLogger(w, format),
		level:  level,
		format: format,
	}
}

// Emit writes an event to the output. Write errors are dropped: tracing must
// never fail the run it is observing.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	writeEvent(t.log, ev, t.format)
}

// Flush flushes the writer if it buffers.
func (t *StreamTracer) Flush() error {
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close flushes and closes the writer if it implements io.Closer.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.Flush(); err != nil {
		return err
	}
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
