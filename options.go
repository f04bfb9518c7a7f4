package textcomp

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/textcomp/surface"
)

// DefaultMaxAcquireFailures is the number of consecutive skipped frames
// after which the backend reconfigures the surface.
const DefaultMaxAcquireFailures = 60

// DefaultMaxFramesInFlight is the number of submitted frames the GPU may
// still be working on before Flush starts skipping frames.
const DefaultMaxFramesInFlight = 3

// Option configures a Backend during creation.
// Use functional options to customize Backend behavior.
//
// Example:
//
//	b, err := textcomp.New(device, queue, surface.NewSynthetic(),
//	    postprocess.NewBlit(postprocess.Options{}), dims,
//	    textcomp.WithViewport(surface.Shrink(0, 40)),
//	    textcomp.WithTextRenderer(renderer))
type Option func(*options)

// options holds optional configuration for Backend creation.
type options struct {
	viewport           surface.Viewport
	adapter            gpucontext.Adapter
	textRenderer       TextRenderer
	maxAcquireFailures int
	maxFramesInFlight  int
}

// defaultOptions returns the default backend options.
func defaultOptions() options {
	return options{
		viewport:           surface.Full(),
		maxAcquireFailures: DefaultMaxAcquireFailures,
		maxFramesInFlight:  DefaultMaxFramesInFlight,
	}
}

// WithViewport sets the initial viewport. The default is surface.Full().
func WithViewport(v surface.Viewport) Option {
	return func(o *options) {
		o.viewport = v
	}
}

// WithAdapter sets the adapter passed to RenderSurface.DefaultConfig.
// NewFromProvider uses the provider's adapter unless this option is given.
func WithAdapter(a gpucontext.Adapter) Option {
	return func(o *options) {
		o.adapter = a
	}
}

// WithTextRenderer sets the stage that draws text into the intermediate
// texture whenever the backend is invalidated.
func WithTextRenderer(r TextRenderer) Option {
	return func(o *options) {
		o.textRenderer = r
	}
}

// WithMaxAcquireFailures sets how many consecutive frames may fail to
// acquire a target before the backend reconfigures the surface, and again
// before Flush reports ErrSurfaceLost. Zero or negative disables escalation.
func WithMaxAcquireFailures(n int) Option {
	return func(o *options) {
		o.maxAcquireFailures = n
	}
}

// WithMaxFramesInFlight bounds how many submitted frames may be pending on
// the GPU. When the limit is reached Flush skips the frame instead of
// waiting; n below 1 is treated as 1.
func WithMaxFramesInFlight(n int) Option {
	return func(o *options) {
		o.maxFramesInFlight = max(n, 1)
	}
}
