// Package textcomp drives a text-composition frame pipeline on top of the
// gogpu HAL.
//
// # Overview
//
// A Backend owns three pieces:
//   - a RenderSurface that hands out one presentable Target per frame
//     (surface.Live for a window, surface.Synthetic for offscreen use)
//   - an intermediate text texture that a TextRenderer draws into
//   - a post-processing Processor, compiled from a postprocess.Builder,
//     that composites that texture onto the frame target
//
// # Quick Start
//
//	b, err := textcomp.New(device, queue, surface.NewSynthetic(),
//	    postprocess.NewBlit(postprocess.Options{}), dims,
//	    textcomp.WithTextRenderer(textcomp.NewImageText(img)))
//	if err != nil {
//	    return err
//	}
//	defer b.Destroy()
//
//	for running {
//	    status, err := b.Flush()
//	    ...
//	}
//
// # Frame Flow
//
// Flush does nothing when the backend is clean and the processor does not
// ask for another frame. Otherwise it acquires a target, runs the text stage
// if the backend was invalidated, records the post-processing pass, submits
// and presents. A frame whose target cannot be acquired is skipped; after
// too many consecutive skips the surface is reconfigured, and after that
// Flush reports ErrSurfaceLost.
//
// Flush never blocks on the GPU. Each submission is tracked together with
// its command buffer and frame view, and both are freed by a later Flush
// once Queue.PollCompleted has passed its submission index. Objects
// replaced by a resize are retired the same way. When
// WithMaxFramesInFlight frames are pending, Flush skips instead of
// waiting. Only Destroy waits for the device to go idle.
//
// # Viewport
//
// The viewport selects the part of the surface the text is composited into.
// The text texture always matches the viewport area, so a resize or a
// viewport change reallocates it and resizes the processor before the next
// frame is processed.
//
// # Logging
//
// The package is silent unless a logger is installed with SetLogger.
package textcomp
