package textcomp

import (
	"fmt"
	"image"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textcomp/surface"
)

// TextDestination is the intermediate texture a TextRenderer draws into.
// The texture is RGBA8Unorm and can be used as a render attachment or a
// copy destination.
type TextDestination struct {
	Texture hal.Texture
	View    hal.TextureView
	Size    surface.Dimensions
}

// TextRenderer is the text stage: it draws the composited text layer into
// dst. It is called from Flush, before post-processing, only on frames that
// follow an Invalidate or a resize.
//
// Any commands must be recorded into encoder, which is submitted together
// with the post-processing pass.
type TextRenderer interface {
	RenderText(encoder hal.CommandEncoder, queue hal.Queue, dst TextDestination) error
}

// TextRendererFunc adapts a function to the TextRenderer interface.
type TextRendererFunc func(encoder hal.CommandEncoder, queue hal.Queue, dst TextDestination) error

// RenderText calls f(encoder, queue, dst).
func (f TextRendererFunc) RenderText(encoder hal.CommandEncoder, queue hal.Queue, dst TextDestination) error {
	return f(encoder, queue, dst)
}

// ImageText is a TextRenderer that uploads a CPU-rendered image.
//
// The image is anchored at the top-left of the destination. Pixels outside
// the image are transparent; pixels outside the destination are dropped.
// ImageText must only be used from the goroutine that calls Flush.
type ImageText struct {
	img     *image.RGBA
	staging []byte
}

// NewImageText returns an ImageText that uploads img. img may be nil.
func NewImageText(img *image.RGBA) *ImageText {
	return &ImageText{img: img}
}

// SetImage replaces the image. Call Backend.Invalidate afterwards.
func (t *ImageText) SetImage(img *image.RGBA) {
	t.img = img
}

// Image returns the current image.
func (t *ImageText) Image() *image.RGBA { return t.img }

// RenderText uploads the image into dst.
func (t *ImageText) RenderText(_ hal.CommandEncoder, queue hal.Queue, dst TextDestination) error {
	w, h := dst.Size.Width, dst.Size.Height
	rowBytes := int(w) * 4
	size := rowBytes * int(h)
	if cap(t.staging) < size {
		t.staging = make([]byte, size)
	}
	t.staging = t.staging[:size]
	packImage(t.staging, t.img, int(w), int(h))

	err := queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  dst.Texture,
			MipLevel: 0,
		},
		t.staging,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("upload text image: %w", err)
	}
	return nil
}

// packImage copies the overlap of img and a w×h destination into dst,
// tightly packed, and zeroes the rest.
func packImage(dst []byte, img *image.RGBA, w, h int) {
	clear(dst)
	if img == nil {
		return
	}
	b := img.Bounds()
	cw := min(b.Dx(), w)
	ch := min(b.Dy(), h)
	for y := 0; y < ch; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(dst[y*w*4:y*w*4+cw*4], src[:cw*4])
	}
}
