// Package haltest provides recording wrappers around hal.Device and
// hal.Queue for tests. Every resource the wrapped device creates gets a
// distinct handle carrying an ID, so tests can follow individual objects
// through their create and destroy events even on backends that hand out
// zero-sized placeholders.
package haltest

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gogpu/wgpu/hal"
)

// ErrInjected is returned by calls a test asked to fail.
var ErrInjected = errors.New("haltest: injected failure")

// Log is an ordered, concurrency-safe list of events. The zero value is
// ready to use.
type Log struct {
	mu      sync.Mutex
	entries []string
}

// Add appends a formatted event.
func (l *Log) Add(format string, args ...any) {
	l.mu.Lock()
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

// Entries returns a copy of all events in order.
func (l *Log) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Index returns the position of the first event equal to entry, or -1.
func (l *Log) Index(entry string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Index(l.entries, entry)
}

// Count returns the number of events starting with prefix.
func (l *Log) Count(prefix string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

// Reset drops all events.
func (l *Log) Reset() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}

// Texture is a texture created through Device.
type Texture struct {
	hal.Texture
	ID    int
	Label string
}

// Name returns "label#id", the form used in events.
func (t *Texture) Name() string { return fmt.Sprintf("%s#%d", t.Label, t.ID) }

// TextureView is a texture view created through Device.
type TextureView struct {
	hal.TextureView
	ID    int
	Label string
}

// Name returns "label#id", the form used in events.
func (v *TextureView) Name() string { return fmt.Sprintf("%s#%d", v.Label, v.ID) }

// BindGroup is a bind group created through Device.
type BindGroup struct {
	hal.BindGroup
	ID    int
	Label string
}

// Name returns "label#id", the form used in events.
func (g *BindGroup) Name() string { return fmt.Sprintf("%s#%d", g.Label, g.ID) }

// RenderPipeline is a render pipeline created through Device.
type RenderPipeline struct {
	hal.RenderPipeline
	ID    int
	Label string
}

// Name returns "label#id", the form used in events.
func (p *RenderPipeline) Name() string { return fmt.Sprintf("%s#%d", p.Label, p.ID) }

// Device records texture, view, bind group, pipeline, command buffer and
// synchronization calls before forwarding them to the wrapped device.
//
// Events have the form "op label#id", for example
// "create_view text_target_view#3" or "destroy_bind_group blit_bind_group#7".
// Calls without a resource are logged by name alone: "wait", "wait_idle",
// "free_command_buffer".
type Device struct {
	hal.Device
	Log *Log

	// FailTextures makes the next FailTextures CreateTexture calls fail
	// with ErrInjected.
	FailTextures int

	mu     sync.Mutex
	nextID int
}

// NewDevice wraps inner. Events go to log, which may be shared with other
// recorders so their relative order can be checked.
func NewDevice(inner hal.Device, log *Log) *Device {
	if log == nil {
		log = &Log{}
	}
	return &Device{Device: inner, Log: log}
}

func (d *Device) id() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	return d.nextID
}

func unwrapTexture(t hal.Texture) hal.Texture {
	if w, ok := t.(*Texture); ok {
		return w.Texture
	}
	return t
}

func (d *Device) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	d.mu.Lock()
	fail := d.FailTextures > 0
	if fail {
		d.FailTextures--
	}
	d.mu.Unlock()
	if fail {
		d.Log.Add("create_texture_failed %s", desc.Label)
		return nil, ErrInjected
	}

	inner, err := d.Device.CreateTexture(desc)
	if err != nil {
		return nil, err
	}
	t := &Texture{Texture: inner, ID: d.id(), Label: desc.Label}
	d.Log.Add("create_texture %s", t.Name())
	return t, nil
}

func (d *Device) DestroyTexture(texture hal.Texture) {
	if t, ok := texture.(*Texture); ok {
		d.Log.Add("destroy_texture %s", t.Name())
	}
	d.Device.DestroyTexture(unwrapTexture(texture))
}

func (d *Device) CreateTextureView(texture hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	inner, err := d.Device.CreateTextureView(unwrapTexture(texture), desc)
	if err != nil {
		return nil, err
	}
	v := &TextureView{TextureView: inner, ID: d.id(), Label: desc.Label}
	d.Log.Add("create_view %s", v.Name())
	return v, nil
}

func (d *Device) DestroyTextureView(view hal.TextureView) {
	if v, ok := view.(*TextureView); ok {
		d.Log.Add("destroy_view %s", v.Name())
		view = v.TextureView
	}
	d.Device.DestroyTextureView(view)
}

func (d *Device) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	inner, err := d.Device.CreateBindGroup(desc)
	if err != nil {
		return nil, err
	}
	g := &BindGroup{BindGroup: inner, ID: d.id(), Label: desc.Label}
	d.Log.Add("create_bind_group %s", g.Name())
	return g, nil
}

func (d *Device) DestroyBindGroup(group hal.BindGroup) {
	if g, ok := group.(*BindGroup); ok {
		d.Log.Add("destroy_bind_group %s", g.Name())
		group = g.BindGroup
	}
	d.Device.DestroyBindGroup(group)
}

func (d *Device) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	inner, err := d.Device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, err
	}
	p := &RenderPipeline{RenderPipeline: inner, ID: d.id(), Label: desc.Label}
	d.Log.Add("create_pipeline %s", p.Name())
	return p, nil
}

func (d *Device) DestroyRenderPipeline(pipeline hal.RenderPipeline) {
	if p, ok := pipeline.(*RenderPipeline); ok {
		d.Log.Add("destroy_pipeline %s", p.Name())
		pipeline = p.RenderPipeline
	}
	d.Device.DestroyRenderPipeline(pipeline)
}

func (d *Device) FreeCommandBuffer(cmd hal.CommandBuffer) {
	d.Log.Add("free_command_buffer")
	d.Device.FreeCommandBuffer(cmd)
}

func (d *Device) CreateFence() (hal.Fence, error) {
	d.Log.Add("create_fence")
	return d.Device.CreateFence()
}

func (d *Device) Wait(fence hal.Fence, value uint64, timeout time.Duration) (bool, error) {
	d.Log.Add("wait")
	return d.Device.Wait(fence, value, timeout)
}

func (d *Device) WaitIdle() error {
	d.Log.Add("wait_idle")
	return d.Device.WaitIdle()
}

// Queue records submissions and lets a test stall completion.
type Queue struct {
	hal.Queue
	Log *Log

	mu        sync.Mutex
	held      bool
	completed uint64
}

// NewQueue wraps inner. log may be shared with a Device.
func NewQueue(inner hal.Queue, log *Log) *Queue {
	if log == nil {
		log = &Log{}
	}
	return &Queue{Queue: inner, Log: log}
}

func (q *Queue) Submit(cmds []hal.CommandBuffer) (uint64, error) {
	index, err := q.Queue.Submit(cmds)
	if err != nil {
		return 0, err
	}
	q.Log.Add("submit #%d", index)
	return index, nil
}

// PollCompleted reports the wrapped queue's progress, or the value seen
// when Hold was called while completion is held.
func (q *Queue) PollCompleted() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.held {
		q.completed = q.Queue.PollCompleted()
	}
	return q.completed
}

// Hold freezes the completed index at its current value, as if the GPU
// stopped making progress.
func (q *Queue) Hold() {
	q.PollCompleted()
	q.mu.Lock()
	q.held = true
	q.mu.Unlock()
}

// Resume lets the completed index follow the wrapped queue again.
func (q *Queue) Resume() {
	q.mu.Lock()
	q.held = false
	q.mu.Unlock()
}
