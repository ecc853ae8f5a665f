package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/timewarp"
	"github.com/gogpu/timewarp/internal/pattern"
	"github.com/gogpu/timewarp/render"
)

// texturePairCount is the depth of the eye-texture ring. The scheduler's
// single slot plus the consumer's adopted frame mean up to two frames of
// textures are borrowed at once while a third is being rendered.
const texturePairCount = 3

// PatternStereoRenderer implements timewarp.StereoRenderer by painting
// synthetic eye images on the CPU and uploading them. It stands in for a
// real scene renderer in demos and integration tests: each published pair
// carries a fresh fence value, so the admission policy's completion poll is
// exercised against real GPU progress.
//
// Thread safety: single caller (the scene worker).
type PatternStereoRenderer struct {
	mu  sync.Mutex
	gpu *GPU

	width  uint32
	height uint32

	pairs      [texturePairCount][2]*EyeTexture
	fence      hal.Fence
	fenceValue uint64
	next       int
	frame      int64
}

// NewPatternStereoRenderer creates the texture ring at the given per-eye
// resolution.
func NewPatternStereoRenderer(gpu *GPU, width, height uint32) (*PatternStereoRenderer, error) {
	if gpu == nil || gpu.device == nil {
		return nil, fmt.Errorf("wgpu: nil GPU")
	}
	r := &PatternStereoRenderer{gpu: gpu, width: width, height: height}

	fence, err := gpu.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create stereo fence: %w", err)
	}
	r.fence = fence

	for i := range r.pairs {
		for eye := 0; eye < 2; eye++ {
			desc := render.DefaultEyeTextureDescriptor(width, height)
			desc.Label = fmt.Sprintf("eye_tex_%d_%d", i, eye)
			tex, texErr := createEyeTexture(gpu.device, desc)
			if texErr != nil {
				r.Destroy()
				return nil, texErr
			}
			r.pairs[i][eye] = tex
		}
	}
	return r, nil
}

// RenderStereoPair paints both eye images for the pose, uploads them into
// the next ring slot, and fences the upload. The returned textures stay
// valid until the slot cycles back around, which the scheduler's
// back-pressure guarantees is after the frame has been superseded.
func (r *PatternStereoRenderer) RenderStereoPair(pose, projection timewarp.Matrix4) ([2]render.Texture, [2]render.Completion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var textures [2]render.Texture
	var completions [2]render.Completion

	slot := r.next
	r.next = (r.next + 1) % texturePairCount
	r.frame++

	for eye := 0; eye < 2; eye++ {
		img := pattern.EyeImage(int(r.width), int(r.height), eye, r.frame)
		tex := r.pairs[slot][eye]
		r.gpu.queue.WriteTexture(
			&hal.ImageCopyTexture{
				Texture:  tex.tex,
				MipLevel: 0,
			},
			img.Pix,
			&hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(img.Stride),
				RowsPerImage: r.height,
			},
			&hal.Extent3D{Width: r.width, Height: r.height, DepthOrArrayLayers: 1},
		)
		textures[eye] = tex
	}

	// Fence the uploads with an empty submission; queue operations
	// complete in submission order.
	encoder, err := r.gpu.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "stereo_upload_encoder",
	})
	if err != nil {
		return textures, completions, fmt.Errorf("create upload encoder: %w", err)
	}
	if err := encoder.BeginEncoding("stereo_upload"); err != nil {
		return textures, completions, fmt.Errorf("begin upload encoding: %w", err)
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return textures, completions, fmt.Errorf("end upload encoding: %w", err)
	}
	defer r.gpu.device.FreeCommandBuffer(cmdBuf)

	r.fenceValue++
	if err := r.gpu.queue.Submit([]hal.CommandBuffer{cmdBuf}, r.fence, r.fenceValue); err != nil {
		return textures, completions, fmt.Errorf("submit upload fence: %w", err)
	}

	c := fenceCompletion{device: r.gpu.device, fence: r.fence, value: r.fenceValue}
	completions[0] = c
	completions[1] = c
	return textures, completions, nil
}

// Destroy releases the texture ring and fence.
func (r *PatternStereoRenderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pairs {
		for eye := 0; eye < 2; eye++ {
			if r.pairs[i][eye] != nil {
				r.pairs[i][eye].destroy(r.gpu.device)
				r.pairs[i][eye] = nil
			}
		}
	}
	if r.fence != nil {
		r.gpu.device.DestroyFence(r.fence)
		r.fence = nil
	}
}

var _ timewarp.StereoRenderer = (*PatternStereoRenderer)(nil)
