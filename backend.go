package textcomp

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textcomp/internal/inflight"
	"github.com/gogpu/textcomp/internal/logging"
	"github.com/gogpu/textcomp/internal/textarget"
	"github.com/gogpu/textcomp/postprocess"
	"github.com/gogpu/textcomp/surface"
)

// FrameStatus reports what Flush did.
type FrameStatus uint8

const (
	// FrameIdle means nothing changed and no frame was produced.
	FrameIdle FrameStatus = iota

	// FrameSkipped means a frame was due but could not be produced this
	// tick, because no surface texture could be acquired or too many
	// frames are still in flight on the GPU. The frame stays due and is
	// attempted again on the next Flush.
	FrameSkipped

	// FramePresented means a frame was rendered and presented.
	FramePresented
)

// String returns the frame status name.
func (s FrameStatus) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameSkipped:
		return "skipped"
	case FramePresented:
		return "presented"
	default:
		return "unknown"
	}
}

// Backend drives frames: it owns the render surface, the intermediate text
// texture and the post-processor, and keeps them consistent across resizes.
//
// A Backend is not safe for concurrent use. All methods must be called from
// the goroutine that runs the frame loop.
type Backend struct {
	device hal.Device
	queue  hal.Queue
	opts   options

	surface   surface.RenderSurface
	builder   postprocess.Builder
	processor postprocess.Processor
	text      textarget.Target

	config surface.Config
	area   image.Rectangle

	// frames holds submitted frames and everything they reference until
	// the queue reports them completed.
	frames inflight.Tracker

	// dirty means the text layer must be re-rendered.
	dirty bool
	// pending is processor work that failed during the last rebuild and
	// must succeed before the next Process.
	pending pendingWork

	failures     int
	reconfigured bool
	presented    uint64
	destroyed    bool
}

type pendingWork uint8

const (
	pendingNone pendingWork = iota
	pendingResize
	pendingRecompile
)

// retirer is implemented by surfaces that can hand replaced GPU objects
// to the backend instead of destroying them while frames are in flight.
type retirer interface {
	SetRetire(retire func(release func()))
}

// acquireErrorer is implemented by surfaces that report why the last
// acquisition failed.
type acquireErrorer interface {
	AcquireErr() error
}

// New creates a Backend rendering to rs on device and queue.
//
// The surface is configured for dims, the text texture is allocated for the
// viewport area and builder is compiled once. The first Flush always
// produces a frame.
func New(
	device hal.Device,
	queue hal.Queue,
	rs surface.RenderSurface,
	builder postprocess.Builder,
	dims surface.Dimensions,
	opts ...Option,
) (*Backend, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if rs == nil {
		return nil, ErrNilSurface
	}
	if builder == nil {
		return nil, ErrNilBuilder
	}
	if dims.IsZero() {
		return nil, fmt.Errorf("textcomp: new backend %v: %w", dims, surface.ErrZeroDimensions)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := &Backend{
		device:  device,
		queue:   queue,
		opts:    o,
		surface: rs,
		builder: builder,
	}
	if r, ok := rs.(retirer); ok {
		r.SetRetire(b.frames.Defer)
	}

	cfg, err := b.configureSurface(dims)
	if err != nil {
		return nil, err
	}
	b.config = cfg
	b.area = o.viewport.Area(cfg.Dimensions())

	release, err := b.text.Ensure(device, uint32(b.area.Dx()), uint32(b.area.Dy()))
	if err != nil {
		rs.Destroy()
		return nil, err
	}
	release()

	processor, err := builder.Compile(device, b.inputs())
	if err != nil {
		b.text.Destroy(device)
		rs.Destroy()
		return nil, fmt.Errorf("textcomp: compile post-processor: %w", err)
	}
	b.processor = processor
	b.dirty = true

	logging.Logger().Info("textcomp: backend created",
		"size", cfg.Dimensions().String(), "format", cfg.Format, "viewport", o.viewport.String())
	return b, nil
}

// NewFromProvider is like New but takes the GPU device from a host
// provider, such as a gogpu window. The provider must also implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
// Its adapter is used for capability queries unless WithAdapter is given.
func NewFromProvider(
	provider gpucontext.DeviceProvider,
	rs surface.RenderSurface,
	builder postprocess.Builder,
	dims surface.Dimensions,
	opts ...Option,
) (*Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHalAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHalAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHalAccess)
	}

	all := make([]Option, 0, len(opts)+1)
	all = append(all, WithAdapter(provider.Adapter()))
	all = append(all, opts...)
	return New(device, queue, rs, builder, dims, all...)
}

// configureSurface queries the default configuration for dims and applies it.
func (b *Backend) configureSurface(dims surface.Dimensions) (surface.Config, error) {
	cfg, ok := b.surface.DefaultConfig(b.opts.adapter, dims.Width, dims.Height)
	if !ok {
		return surface.Config{}, fmt.Errorf("%w: %v", ErrSurfaceUnsupported, dims)
	}
	if err := b.surface.Configure(b.device, &cfg); err != nil {
		return surface.Config{}, fmt.Errorf("textcomp: configure surface: %w", err)
	}
	return cfg, nil
}

func (b *Backend) inputs() *postprocess.Inputs {
	return &postprocess.Inputs{
		Text:     b.text.View(),
		TextSize: b.text.Size(),
		Config:   &b.config,
		Area:     b.area,
		Retire:   b.frames.Defer,
	}
}

// reclaim frees every frame the queue reports as completed.
func (b *Backend) reclaim() {
	b.frames.Reclaim(b.queue.PollCompleted(), b.device.FreeCommandBuffer)
}

// Resize reconfigures the surface for dims and brings the text texture and
// the post-processor in line with it. The processor is recompiled only if
// the surface format changed; otherwise it is resized.
func (b *Backend) Resize(dims surface.Dimensions) error {
	if b.destroyed {
		return ErrDestroyed
	}
	if dims.IsZero() {
		return fmt.Errorf("textcomp: resize %v: %w", dims, surface.ErrZeroDimensions)
	}

	b.reclaim()
	prevFormat := b.config.Format
	cfg, err := b.configureSurface(dims)
	if err != nil {
		return err
	}
	b.config = cfg
	b.failures = 0
	b.reconfigured = false

	return b.rebuild(cfg.Format != prevFormat)
}

// SetViewport changes the drawing area and resizes the text texture and
// the post-processor to match.
func (b *Backend) SetViewport(v surface.Viewport) error {
	if b.destroyed {
		return ErrDestroyed
	}
	b.reclaim()
	b.opts.viewport = v
	return b.rebuild(false)
}

// rebuild recomputes the area, resizes the text texture and either
// recompiles or resizes the processor. The previous text texture is retired
// only once the processor no longer refers to it. Whatever fails stays
// pending and is retried by the next Flush.
func (b *Backend) rebuild(recompile bool) error {
	b.area = b.opts.viewport.Area(b.config.Dimensions())
	b.dirty = true

	work := pendingResize
	if recompile || b.pending == pendingRecompile {
		work = pendingRecompile
	}
	b.pending = work

	release, err := b.text.Ensure(b.device, uint32(b.area.Dx()), uint32(b.area.Dy()))
	if err != nil {
		return fmt.Errorf("textcomp: resize text target: %w", err)
	}
	defer b.frames.Defer(release)

	return b.syncProcessor(work)
}

// syncProcessor recompiles or resizes the processor onto the current
// inputs. On failure the work is remembered and retried by Flush.
func (b *Backend) syncProcessor(work pendingWork) error {
	b.pending = work
	if work == pendingRecompile {
		p, err := b.builder.Compile(b.device, b.inputs())
		if err != nil {
			return fmt.Errorf("textcomp: recompile post-processor: %w", err)
		}
		b.frames.Defer(b.processor.Destroy)
		b.processor = p
		b.pending = pendingNone
		logging.Logger().Info("textcomp: post-processor recompiled", "format", b.config.Format)
		return nil
	}

	if err := b.processor.Resize(b.device, b.inputs()); err != nil {
		return fmt.Errorf("textcomp: resize post-processor: %w", err)
	}
	b.pending = pendingNone
	return nil
}

// Invalidate marks the text layer as changed. The next Flush re-renders
// the text and produces a frame.
func (b *Backend) Invalidate() {
	b.dirty = true
}

// Flush produces a frame if one is due: the text layer changed, or the
// post-processor asks for one.
//
// Flush never waits for the GPU. Submitted frames are tracked and their
// command buffers and views are freed by a later Flush once the queue
// reports them completed. While the configured number of frames is still
// in flight, a due frame is skipped and stays due.
//
// A frame whose surface texture cannot be acquired is skipped and stays
// due. After the configured number of consecutive skipped frames the
// surface is reconfigured once; if frames keep failing afterwards, Flush
// returns ErrSurfaceLost. An acquisition that reports surface.ErrNotReady
// is skipped without counting as a failure.
func (b *Backend) Flush() (FrameStatus, error) {
	if b.destroyed {
		return FrameIdle, ErrDestroyed
	}
	b.reclaim()
	if b.pending != pendingNone {
		if err := b.rebuild(false); err != nil {
			return FrameSkipped, err
		}
	}
	if !b.dirty && !b.processor.NeedsUpdate() {
		return FrameIdle, nil
	}
	if n := b.frames.Len(); n >= b.opts.maxFramesInFlight {
		logging.Logger().Debug("textcomp: GPU busy, skipping frame", "in_flight", n)
		return FrameSkipped, nil
	}

	target := b.surface.CurrentTarget()
	if target == nil {
		if ae, ok := b.surface.(acquireErrorer); ok && errors.Is(ae.AcquireErr(), surface.ErrNotReady) {
			return FrameSkipped, nil
		}
		return b.acquireFailed()
	}
	target.Retain()

	if err := b.submit(target); err != nil {
		target.Discard()
		target.Release()
		return FrameSkipped, err
	}
	if err := target.Present(); err != nil {
		return FrameSkipped, fmt.Errorf("textcomp: present: %w", err)
	}

	b.dirty = false
	b.failures = 0
	b.reconfigured = false
	b.presented++
	return FramePresented, nil
}

// submit records the text stage and post-processing for target and
// submits them. On success the command buffer and the target view are
// owned by b.frames.
func (b *Backend) submit(target *surface.Target) error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "textcomp_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("textcomp: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("textcomp_frame"); err != nil {
		return fmt.Errorf("textcomp: begin encoding: %w", err)
	}

	if b.dirty && b.opts.textRenderer != nil {
		dst := TextDestination{
			Texture: b.text.Texture(),
			View:    b.text.View(),
			Size:    b.text.Size(),
		}
		if err := b.opts.textRenderer.RenderText(encoder, b.queue, dst); err != nil {
			encoder.DiscardEncoding()
			return fmt.Errorf("textcomp: render text: %w", err)
		}
	}

	if err := b.processor.Process(encoder, b.queue, b.inputs(), target.View()); err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("textcomp: post-process: %w", err)
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("textcomp: end encoding: %w", err)
	}
	index, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		b.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("textcomp: submit: %w", err)
	}
	b.frames.Track(index, cmdBuf, target.Release)
	return nil
}

// acquireFailed counts a skipped frame and escalates when the surface
// seems permanently unavailable.
func (b *Backend) acquireFailed() (FrameStatus, error) {
	b.failures++
	n := b.opts.maxAcquireFailures
	if n <= 0 || b.failures < n {
		return FrameSkipped, nil
	}

	if b.reconfigured {
		return FrameSkipped, fmt.Errorf("%w: %d consecutive frames failed after reconfiguring", ErrSurfaceLost, b.failures)
	}

	logging.Logger().Warn("textcomp: surface unavailable, reconfiguring", "failed_frames", b.failures)
	b.reconfigured = true
	b.failures = 0
	if err := b.surface.Configure(b.device, &b.config); err != nil {
		return FrameSkipped, fmt.Errorf("textcomp: reconfigure surface: %w", err)
	}
	return FrameSkipped, nil
}

// Config returns the active surface configuration.
func (b *Backend) Config() surface.Config { return b.config }

// Area returns the drawing area on the surface.
func (b *Backend) Area() image.Rectangle { return b.area }

// Viewport returns the active viewport.
func (b *Backend) Viewport() surface.Viewport { return b.opts.viewport }

// TextSize returns the size of the intermediate text texture.
func (b *Backend) TextSize() surface.Dimensions { return b.text.Size() }

// Surface returns the render surface.
func (b *Backend) Surface() surface.RenderSurface { return b.surface }

// Processor returns the active post-processor.
func (b *Backend) Processor() postprocess.Processor { return b.processor }

// FramesPresented returns the number of frames presented so far.
func (b *Backend) FramesPresented() uint64 { return b.presented }

// FramesInFlight returns the number of submitted frames the queue has not
// reported as completed yet.
func (b *Backend) FramesInFlight() int { return b.frames.Len() }

// Destroy waits for the device to go idle, then releases in-flight frames,
// the post-processor, the text texture and the surface. The device and
// queue belong to the caller. Destroy is idempotent.
func (b *Backend) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	if err := b.device.WaitIdle(); err != nil {
		logging.Logger().Warn("textcomp: wait for idle device failed", "err", err)
	}
	b.frames.Drain(b.device.FreeCommandBuffer)
	if b.processor != nil {
		b.processor.Destroy()
		b.processor = nil
	}
	b.text.Destroy(b.device)
	b.surface.Destroy()
	logging.Logger().Info("textcomp: backend destroyed", "frames", b.presented)
}
