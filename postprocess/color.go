// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package postprocess

// ColorMatrix is an affine color transform applied to every premultiplied
// texel of the text layer: out = Matrix × in + Offset × in.a.
//
// Matrix is stored column-major, matching WGSL mat4x4: element (row r,
// column c) is Matrix[c*4+r]. Offset is scaled by the texel alpha so that
// transparent texels stay transparent.
type ColorMatrix struct {
	Matrix [16]float32
	Offset [4]float32
}

// IdentityMatrix leaves colors unchanged.
func IdentityMatrix() ColorMatrix {
	return ColorMatrix{Matrix: [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// ScaleMatrix multiplies each channel by the given factor.
func ScaleMatrix(r, g, b, a float32) ColorMatrix {
	return ColorMatrix{Matrix: [16]float32{
		r, 0, 0, 0,
		0, g, 0, 0,
		0, 0, b, 0,
		0, 0, 0, a,
	}}
}

// GrayscaleMatrix converts to Rec. 709 luma.
func GrayscaleMatrix() ColorMatrix {
	const lr, lg, lb = 0.2126, 0.7152, 0.0722
	return ColorMatrix{Matrix: [16]float32{
		lr, lr, lr, 0,
		lg, lg, lg, 0,
		lb, lb, lb, 0,
		0, 0, 0, 1,
	}}
}

// InvertMatrix inverts the color channels, keeping alpha. In premultiplied
// space the inverse of c is a - c, which is why the offset carries ones.
func InvertMatrix() ColorMatrix {
	return ColorMatrix{
		Matrix: [16]float32{
			-1, 0, 0, 0,
			0, -1, 0, 0,
			0, 0, -1, 0,
			0, 0, 0, 1,
		},
		Offset: [4]float32{1, 1, 1, 0},
	}
}

// Apply transforms a premultiplied color on the CPU, without clamping.
func (m ColorMatrix) Apply(c [4]float32) [4]float32 {
	var out [4]float32
	for r := 0; r < 4; r++ {
		var sum float32
		for k := 0; k < 4; k++ {
			sum += m.Matrix[k*4+r] * c[k]
		}
		out[r] = sum + m.Offset[r]*c[3]
	}
	return out
}
