package wgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/timewarp"
	"github.com/gogpu/timewarp/render"
)

//go:embed shaders/timewarp.wgsl
var timewarpShaderWGSL string

// warpUniformSize is the byte size of WarpUniforms in timewarp.wgsl:
// two mat4x4<f32> plus one vec4<f32>.
const warpUniformSize = 2*64 + 16

// WarpConfig configures the warp pass output frustum.
type WarpConfig struct {
	// TanHalfWidth and TanHalfHeight are the tangents of the display's
	// half field of view. The defaults correspond to 90 degrees.
	TanHalfWidth  float32
	TanHalfHeight float32
}

// DefaultWarpConfig returns a 90-degree symmetric output frustum.
func DefaultWarpConfig() WarpConfig {
	return WarpConfig{TanHalfWidth: 1, TanHalfHeight: 1}
}

// Warper submits the reprojection draw on a HAL device. It implements
// timewarp.Warper.
//
// Submissions are fenced but never waited on: per-submission buffers and
// bind groups are kept alive until a later call observes their fence value
// as complete, then destroyed. At the steady state this keeps at most a
// couple of refreshes of transient resources alive.
//
// Thread safety: safe for concurrent use, though the scheduler only ever
// calls it from the display worker.
type Warper struct {
	mu  sync.Mutex
	gpu *GPU
	cfg WarpConfig

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler

	fence      hal.Fence
	fenceValue uint64
	inflight   []inflightResources

	// defaultTarget receives submissions that carry no explicit target.
	// The display host updates it each cycle with the current swap image.
	defaultTarget render.RenderTarget
}

// inflightResources are per-submission GPU objects retired once the fence
// reaches their value.
type inflightResources struct {
	value      uint64
	buffer     hal.Buffer
	bindGroups []hal.BindGroup
}

// NewWarper creates the warp pipeline on gpu.
func NewWarper(gpu *GPU, cfg WarpConfig) (*Warper, error) {
	if gpu == nil || gpu.device == nil {
		return nil, fmt.Errorf("wgpu: nil GPU")
	}
	if cfg.TanHalfWidth <= 0 || cfg.TanHalfHeight <= 0 {
		cfg = DefaultWarpConfig()
	}
	w := &Warper{gpu: gpu, cfg: cfg}
	if err := w.init(); err != nil {
		w.Destroy()
		return nil, err
	}
	return w, nil
}

// init creates the shader, layouts, sampler, pipeline, and fence.
func (w *Warper) init() error {
	device := w.gpu.device

	shader, err := createShaderModule(device, "timewarp_shader", timewarpShaderWGSL)
	if err != nil {
		return fmt.Errorf("compile timewarp shader: %w", err)
	}
	w.shader = shader

	// Bind group layout:
	//   Binding 0: WarpUniforms (uniform buffer, vertex+fragment)
	//   Binding 1: eye texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "timewarp_bind_layout",
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
		return fmt.Errorf("create timewarp bind layout: %w", err)
	}
	w.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "timewarp_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{w.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create timewarp pipeline layout: %w", err)
	}
	w.pipeLayout = pipeLayout

	// Linear filtering with clamped edges: a warped sample that lands
	// outside the rendered eye image smears the border instead of
	// wrapping content from the far side.
	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "timewarp_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create timewarp sampler: %w", err)
	}
	w.sampler = sampler

	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "timewarp_pipeline",
		Layout: w.pipeLayout,
		Vertex: hal.VertexState{
			Module:     w.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     w.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
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
		return fmt.Errorf("create timewarp pipeline: %w", err)
	}
	w.pipeline = pipeline

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("create timewarp fence: %w", err)
	}
	w.fence = fence
	return nil
}

// SubmitReprojection encodes and submits one warp pass: two viewports, one
// per eye, each sampling its own eye texture with the bracketing transforms.
// The submission is fenced and not waited on.
func (w *Warper) SubmitReprojection(sub timewarp.WarpSubmission) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if sub.Target == nil {
		sub.Target = w.defaultTarget
	}
	if sub.Target == nil {
		return fmt.Errorf("wgpu: warp submission without target")
	}
	targetView, err := halTargetView(sub.Target)
	if err != nil {
		return err
	}
	eyes, err := eyeViews(sub.Textures)
	if err != nil {
		return err
	}

	device := w.gpu.device
	w.retireInflight()

	uniformBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "timewarp_uniform",
		Size:  warpUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create warp uniform buffer: %w", err)
	}
	w.gpu.queue.WriteBuffer(uniformBuf, 0, w.packUniforms(sub.TransformStart, sub.TransformEnd))

	bindGroups := make([]hal.BindGroup, 2)
	for eye := 0; eye < 2; eye++ {
		bg, bgErr := device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  fmt.Sprintf("timewarp_bind_eye%d", eye),
			Layout: w.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{
					Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: warpUniformSize,
				}},
				{Binding: 1, Resource: gputypes.TextureViewBinding{
					TextureView: eyes[eye].NativeHandle(),
				}},
				{Binding: 2, Resource: gputypes.SamplerBinding{
					Sampler: w.sampler.NativeHandle(),
				}},
			},
		})
		if bgErr != nil {
			device.DestroyBuffer(uniformBuf)
			for _, g := range bindGroups[:eye] {
				device.DestroyBindGroup(g)
			}
			return fmt.Errorf("create warp bind group: %w", bgErr)
		}
		bindGroups[eye] = bg
	}

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "timewarp_encoder",
	})
	if err != nil {
		return fmt.Errorf("create warp command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("timewarp_frame"); err != nil {
		return fmt.Errorf("begin warp encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "timewarp_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       targetView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})

	tw := float32(sub.Target.Width())
	th := float32(sub.Target.Height())
	halfW := tw / 2
	for eye := 0; eye < 2; eye++ {
		rp.SetViewport(float32(eye)*halfW, 0, halfW, th, 0, 1)
		rp.SetPipeline(w.pipeline)
		rp.SetBindGroup(0, bindGroups[eye], nil)
		rp.Draw(3, 1, 0, 0)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end warp encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	w.fenceValue++
	if err := w.gpu.queue.Submit([]hal.CommandBuffer{cmdBuf}, w.fence, w.fenceValue); err != nil {
		return fmt.Errorf("submit warp pass: %w", err)
	}
	w.inflight = append(w.inflight, inflightResources{
		value:      w.fenceValue,
		buffer:     uniformBuf,
		bindGroups: bindGroups,
	})
	return nil
}

// PollCompletion reports whether the GPU work behind c has finished.
func (w *Warper) PollCompletion(c render.Completion) bool {
	return pollCompletion(c)
}

// SetTarget sets the destination for submissions that carry no explicit
// target, typically the current swapchain image. Called by the display host
// before each RenderCycle.
func (w *Warper) SetTarget(target render.RenderTarget) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.defaultTarget = target
}

// retireInflight destroys transient resources whose fence value has passed.
// Called under w.mu.
func (w *Warper) retireInflight() {
	device := w.gpu.device
	kept := w.inflight[:0]
	for _, r := range w.inflight {
		done, err := device.Wait(w.fence, r.value, 0)
		if err != nil || !done {
			kept = append(kept, r)
			continue
		}
		for _, g := range r.bindGroups {
			device.DestroyBindGroup(g)
		}
		device.DestroyBuffer(r.buffer)
	}
	w.inflight = kept
}

// packUniforms serializes WarpUniforms. Matrix4 is row-major; WGSL mat4x4
// is column-major, so matrices are written transposed.
func (w *Warper) packUniforms(start, end timewarp.Matrix4) []byte {
	buf := make([]byte, warpUniformSize)
	off := packMatrixColumnMajor(buf, 0, start)
	off = packMatrixColumnMajor(buf, off, end)
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(w.cfg.TanHalfWidth))
	binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(w.cfg.TanHalfHeight))
	return buf
}

func packMatrixColumnMajor(buf []byte, off int, m timewarp.Matrix4) int {
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(m.M[row][col]))
			off += 4
		}
	}
	return off
}

// halTargetView extracts the HAL view from a render target.
func halTargetView(target render.RenderTarget) (hal.TextureView, error) {
	switch t := target.(type) {
	case *OffscreenTarget:
		return t.view, nil
	default:
		if hv, ok := target.TextureView().(halView); ok {
			return hv.view, nil
		}
		return nil, fmt.Errorf("wgpu: unsupported render target %T", target)
	}
}

// eyeViews extracts the HAL views of both eye textures.
func eyeViews(textures [2]render.Texture) ([2]hal.TextureView, error) {
	var views [2]hal.TextureView
	for i, tex := range textures {
		et, ok := tex.(*EyeTexture)
		if !ok {
			return views, fmt.Errorf("wgpu: eye texture %d is %T, want *EyeTexture", i, tex)
		}
		views[i] = et.view
	}
	return views, nil
}

// Destroy releases all pipeline resources. Outstanding submissions must
// have completed.
func (w *Warper) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	device := w.gpu.device
	for _, r := range w.inflight {
		for _, g := range r.bindGroups {
			device.DestroyBindGroup(g)
		}
		device.DestroyBuffer(r.buffer)
	}
	w.inflight = nil
	if w.fence != nil {
		device.DestroyFence(w.fence)
		w.fence = nil
	}
	if w.pipeline != nil {
		device.DestroyRenderPipeline(w.pipeline)
		w.pipeline = nil
	}
	if w.sampler != nil {
		device.DestroySampler(w.sampler)
		w.sampler = nil
	}
	if w.pipeLayout != nil {
		device.DestroyPipelineLayout(w.pipeLayout)
		w.pipeLayout = nil
	}
	if w.bindLayout != nil {
		device.DestroyBindGroupLayout(w.bindLayout)
		w.bindLayout = nil
	}
	if w.shader != nil {
		device.DestroyShaderModule(w.shader)
		w.shader = nil
	}
}

var _ timewarp.Warper = (*Warper)(nil)
