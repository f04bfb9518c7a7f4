package textcomp

import "errors"

var (
	// ErrSurfaceUnsupported is returned when the surface reports that the
	// adapter cannot present to it at the requested size.
	ErrSurfaceUnsupported = errors.New("textcomp: surface not supported by adapter")

	// ErrSurfaceLost is returned by Flush when frames kept failing to
	// acquire even after the surface was reconfigured. The host should
	// recreate the surface or the backend.
	ErrSurfaceLost = errors.New("textcomp: surface lost")

	// ErrNilDevice is returned when no GPU device or queue is supplied.
	ErrNilDevice = errors.New("textcomp: device or queue is nil")

	// ErrNilSurface is returned when no render surface is supplied.
	ErrNilSurface = errors.New("textcomp: render surface is nil")

	// ErrNilBuilder is returned when no post-processor builder is supplied.
	ErrNilBuilder = errors.New("textcomp: post-processor builder is nil")

	// ErrNoHalAccess is returned by NewFromProvider when the provider does
	// not expose its HAL device and queue.
	ErrNoHalAccess = errors.New("textcomp: device provider does not expose HAL types")

	// ErrDestroyed is returned by operations on a destroyed backend.
	ErrDestroyed = errors.New("textcomp: backend destroyed")
)
