// Package inflight tracks submitted GPU work and the resources it still
// references, so they are freed only once the queue reports the submission
// as completed.
package inflight

import "github.com/gogpu/wgpu/hal"

type frame struct {
	index   uint64
	cmd     hal.CommandBuffer
	release []func()
}

// Tracker is a FIFO of submissions ordered by submission index. The zero
// value is empty and ready to use. A Tracker is not safe for concurrent use.
type Tracker struct {
	frames []frame
}

// Track records a submission. cmd (which may be nil) and every release
// function are kept until index is reported as completed. Indices must be
// passed in submission order.
func (t *Tracker) Track(index uint64, cmd hal.CommandBuffer, release ...func()) {
	t.frames = append(t.frames, frame{index: index, cmd: cmd, release: release})
}

// Defer schedules fn to run once every submission tracked so far has
// completed. With nothing in flight fn runs immediately.
func (t *Tracker) Defer(fn func()) {
	if fn == nil {
		return
	}
	if len(t.frames) == 0 {
		fn()
		return
	}
	last := &t.frames[len(t.frames)-1]
	last.release = append(last.release, fn)
}

// Reclaim frees every submission with an index at or below completed,
// oldest first. free is called for each recorded command buffer before the
// submission's release functions run. It returns the number of
// submissions reclaimed.
func (t *Tracker) Reclaim(completed uint64, free func(hal.CommandBuffer)) int {
	n := 0
	for n < len(t.frames) && t.frames[n].index <= completed {
		t.frames[n].finish(free)
		n++
	}
	if n > 0 {
		clear(t.frames[:n])
		t.frames = t.frames[n:]
	}
	return n
}

// Drain frees everything regardless of completion. Call it only after the
// device is idle.
func (t *Tracker) Drain(free func(hal.CommandBuffer)) {
	for i := range t.frames {
		t.frames[i].finish(free)
	}
	t.frames = nil
}

// Len returns the number of submissions still in flight.
func (t *Tracker) Len() int { return len(t.frames) }

// Newest returns the index of the most recent tracked submission, or 0.
func (t *Tracker) Newest() uint64 {
	if len(t.frames) == 0 {
		return 0
	}
	return t.frames[len(t.frames)-1].index
}

func (f *frame) finish(free func(hal.CommandBuffer)) {
	if f.cmd != nil && free != nil {
		free(f.cmd)
	}
	for _, fn := range f.release {
		fn()
	}
}
