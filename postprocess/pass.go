// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package postprocess

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textcomp/internal/logging"
)

// uniformSize is the size of the composite shader uniform block:
// rect (16) + color matrix (64) + color offset (16) + params (16).
const uniformSize = 112

var (
	// ErrNoConfig is returned when Inputs carries no surface configuration.
	ErrNoConfig = errors.New("postprocess: inputs have no surface config")

	// ErrNoText is returned when Inputs carries no text view.
	ErrNoText = errors.New("postprocess: inputs have no text view")

	// ErrNilView is returned when Process is called without a target view.
	ErrNilView = errors.New("postprocess: nil target view")
)

// pass is the fullscreen compositing pass shared by the built-in effects.
//
// The render pipeline depends only on the surface format; it is created
// once. The bind group depends on the text view and is rebuilt by bind.
type pass struct {
	device hal.Device
	label  string
	format gputypes.TextureFormat
	clear  gputypes.Color

	shader     hal.ShaderModule
	layout     hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
	uniform    hal.Buffer
	bindGroup  hal.BindGroup
}

// newPass compiles the compositing pipeline for in.Config.Format and binds
// in.Text.
func newPass(device hal.Device, in *Inputs, opts Options, label string) (*pass, error) {
	if in == nil || in.Config == nil {
		return nil, ErrNoConfig
	}
	p := &pass{
		device: device,
		label:  label,
		format: in.Config.Format,
		clear:  opts.ClearColor,
	}
	if err := p.createPipeline(opts.SPIRV); err != nil {
		p.destroy()
		return nil, err
	}
	if err := p.bind(in); err != nil {
		p.destroy()
		return nil, err
	}
	logging.Logger().Debug("postprocess: pipeline compiled", "label", label, "format", p.format)
	return p, nil
}

func (p *pass) createPipeline(spirv bool) error {
	shader, err := createShaderModule(p.device, p.label+"_shader", spirv)
	if err != nil {
		return err
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: Uniforms (uniform buffer, vertex+fragment)
	//   Binding 1: text layer (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	layout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: p.label + "_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create %s bind group layout: %w", p.label, err)
	}
	p.layout = layout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.layout},
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline layout: %w", p.label, err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        p.label + "_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create %s sampler: %w", p.label, err)
	}
	p.sampler = sampler

	uniform, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label + "_uniform",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create %s uniform buffer: %w", p.label, err)
	}
	p.uniform = uniform

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline: %w", p.label, err)
	}
	p.pipeline = pipeline
	return nil
}

// bind rebuilds the bind group on in.Text. The previous bind group is
// retired through in only after the new one exists.
func (p *pass) bind(in *Inputs) error {
	if in == nil || in.Text == nil {
		return ErrNoText
	}
	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.label + "_bind_group",
		Layout: p.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: p.uniform.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: in.Text.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: p.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create %s bind group: %w", p.label, err)
	}
	if old := p.bindGroup; old != nil {
		device := p.device
		in.retire(func() { device.DestroyBindGroup(old) })
	}
	p.bindGroup = bg
	return nil
}

// encode records the compositing render pass into view. Everything outside
// the drawing area keeps the clear color; an empty area only clears.
func (p *pass) encode(encoder hal.CommandEncoder, queue hal.Queue, in *Inputs, view hal.TextureView, cp colorParams) error {
	if view == nil {
		return ErrNilView
	}
	if in == nil || in.Config == nil {
		return ErrNoConfig
	}

	w, h := in.Config.Width, in.Config.Height
	area := in.Area.Intersect(image.Rect(0, 0, int(w), int(h)))
	draw := !area.Empty() && p.bindGroup != nil
	if draw {
		if err := queue.WriteBuffer(p.uniform, 0, makeUniforms(area, w, h, cp, in.Config.IsSRGB())); err != nil {
			return fmt.Errorf("write %s uniforms: %w", p.label, err)
		}
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: p.label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: p.clear,
		}},
	})
	if draw {
		rp.SetPipeline(p.pipeline)
		rp.SetBindGroup(0, p.bindGroup, nil)
		rp.Draw(6, 1, 0, 0)
	}
	rp.End()
	return nil
}

// destroy releases all pass resources in reverse creation order. Safe to
// call on a partially built pass.
func (p *pass) destroy() {
	if p.device == nil {
		return
	}
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.uniform != nil {
		p.device.DestroyBuffer(p.uniform)
		p.uniform = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.layout != nil {
		p.device.DestroyBindGroupLayout(p.layout)
		p.layout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// colorParams is the per-frame color transform of the pass.
type colorParams struct {
	matrix  ColorMatrix
	opacity float32
}

// ndcRect converts a pixel rectangle on a w×h surface to NDC corners
// (x0, y0) top-left and (x1, y1) bottom-right.
func ndcRect(r image.Rectangle, w, h uint32) [4]float32 {
	fw, fh := float32(w), float32(h)
	return [4]float32{
		float32(r.Min.X)/fw*2 - 1,
		1 - float32(r.Min.Y)/fh*2,
		float32(r.Max.X)/fw*2 - 1,
		1 - float32(r.Max.Y)/fh*2,
	}
}

// makeUniforms creates the uniform block for one frame.
func makeUniforms(area image.Rectangle, w, h uint32, cp colorParams, srgb bool) []byte {
	buf := make([]byte, uniformSize)
	off := 0
	put := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}

	for _, v := range ndcRect(area, w, h) {
		put(v)
	}
	for _, v := range cp.matrix.Matrix {
		put(v)
	}
	for _, v := range cp.matrix.Offset {
		put(v)
	}

	var srgbFlag float32
	if srgb {
		srgbFlag = 1
	}
	put(srgbFlag)
	put(cp.opacity)
	put(0)
	put(0)
	return buf
}
