// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"

	"github.com/gogpu/wgpu/hal"
)

// Acquisition errors. They are the HAL sentinels themselves, so errors
// returned by hal.Surface.AcquireTexture match without translation. All of
// them are treated as transient by CurrentTarget: the frame is skipped and
// nothing is torn down.
var (
	// ErrSurfaceLost means the presentation surface was destroyed by the
	// platform and must be configured again.
	ErrSurfaceLost = hal.ErrSurfaceLost

	// ErrSurfaceOutdated means the surface no longer matches the window
	// (typically after a resize) and must be configured again.
	ErrSurfaceOutdated = hal.ErrSurfaceOutdated

	// ErrTimeout means no texture became available within the
	// presentation timeout, or a GPU wait ran out of time.
	ErrTimeout = hal.ErrTimeout

	// ErrNotReady means a non-blocking acquire found no free image. It is
	// not a failure; the frame is skipped without counting against the
	// acquire-failure budget.
	ErrNotReady = hal.ErrNotReady

	// ErrOutOfMemory means the presentation engine ran out of memory.
	ErrOutOfMemory = hal.ErrDeviceOutOfMemory
)

// Configuration errors.
var (
	// ErrZeroDimensions is returned when a zero width or height is requested.
	ErrZeroDimensions = errors.New("surface: zero-sized dimensions")

	// ErrUnsupportedFormat is returned when a synthetic surface is configured
	// with a format it cannot read back.
	ErrUnsupportedFormat = errors.New("surface: unsupported texture format")

	// ErrNotConfigured is returned by operations that need a configured surface.
	ErrNotConfigured = errors.New("surface: not configured")

	// ErrNilDevice is returned when Configure is called without a device.
	ErrNilDevice = errors.New("surface: device is nil")
)
