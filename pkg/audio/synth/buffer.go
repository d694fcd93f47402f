// ABOUTME: Mono sample buffers and looping buffer playback
// ABOUTME: BufferSource plays a Buffer once or in a loop until stopped
package synth

import "time"

// Buffer holds mono float samples at a fixed sample rate
type Buffer struct {
	SampleRate int
	Samples    []float32
}

// NewBuffer allocates a silent buffer of n samples
func NewBuffer(sampleRate, n int) *Buffer {
	return &Buffer{
		SampleRate: sampleRate,
		Samples:    make([]float32, n),
	}
}

// Len returns the number of samples
func (b *Buffer) Len() int {
	return len(b.Samples)
}

// Duration returns the playback length at the buffer's sample rate
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}

// BufferSource reads samples out of a Buffer
type BufferSource struct {
	buf     *Buffer
	pos     int
	loop    bool
	started bool
	stopped bool
}

// NewBufferSource creates a source for buf; it is silent until Start
func NewBufferSource(buf *Buffer, loop bool) *BufferSource {
	return &BufferSource{buf: buf, loop: loop}
}

// Buffer returns the buffer being played
func (s *BufferSource) Buffer() *Buffer {
	return s.buf
}

// Start begins playback from the first sample. A stopped source cannot be restarted.
func (s *BufferSource) Start() {
	if s.stopped {
		return
	}
	s.started = true
}

// Stop ends playback permanently
func (s *BufferSource) Stop() {
	s.stopped = true
}

// Playing reports whether the source is producing samples
func (s *BufferSource) Playing() bool {
	return s.started && !s.stopped
}

// Next returns the next sample, or 0 when not playing or exhausted
func (s *BufferSource) Next() float64 {
	if !s.Playing() || s.buf == nil || len(s.buf.Samples) == 0 {
		return 0
	}

	if s.pos >= len(s.buf.Samples) {
		if !s.loop {
			return 0
		}
		s.pos = 0
	}

	v := s.buf.Samples[s.pos]
	s.pos++
	return float64(v)
}
