package nn

import (
	"math/rand"

	"github.com/glance-ml/glance/internal/tensor"
)

// PatchEmbedding turns an image [batch, channels, H, W] into a token
// sequence [batch, nPatches, embedDim]. The image is tiled by
// non-overlapping patchSize×patchSize squares in row-major grid order;
// each patch is flattened to channels*patchSize² values and pushed
// through one shared affine projection.
//
// There is no padding and no overlap: H and W must be exact multiples
// of patchSize, otherwise Forward returns a ConfigError. Cropping or
// resizing is the preprocessing pipeline's job.
type PatchEmbedding struct {
	Proj       *Linear // [channels*patchSize² -> embedDim]
	InChannels int
	PatchSize  int
	EmbedDim   int
}

// NewPatchEmbedding creates the patch embedding layer.
func NewPatchEmbedding(inChannels, patchSize, embedDim int, rng *rand.Rand, b tensor.Backend) *PatchEmbedding {
	patchDim := inChannels * patchSize * patchSize
	return &PatchEmbedding{
		Proj:       NewLinear(patchDim, embedDim, rng, b),
		InChannels: inChannels,
		PatchSize:  patchSize,
		EmbedDim:   embedDim,
	}
}

// Forward embeds the image batch. Input [batch, channels, H, W],
// output [batch, (H/P)*(W/P), embedDim].
func (p *PatchEmbedding) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	shape := x.Shape()
	if len(shape) != 4 {
		return nil, NewConfigError("patch embedding: expected 4D input [batch, channels, height, width], got %v", shape)
	}
	batch, channels, height, width := shape[0], shape[1], shape[2], shape[3]
	if channels != p.InChannels {
		return nil, NewConfigError("patch embedding: expected %d input channels, got %d", p.InChannels, channels)
	}
	if height%p.PatchSize != 0 || width%p.PatchSize != 0 {
		return nil, NewConfigError("patch embedding: image %dx%d not divisible by patch size %d", height, width, p.PatchSize)
	}

	patches := p.unfold(x, batch, height, width)
	return p.Proj.Forward(patches), nil
}

// unfold rearranges [batch, C, H, W] into [batch, nPatches, C*P*P] with
// patches in row-major grid order and each patch flattened
// channel-major, then row, then column.
func (p *PatchEmbedding) unfold(x *tensor.Tensor, batch, height, width int) *tensor.Tensor {
	ps := p.PatchSize
	gridH := height / ps
	gridW := width / ps
	nPatches := gridH * gridW
	patchDim := p.InChannels * ps * ps

	out := tensor.Zeros(tensor.Shape{batch, nPatches, patchDim}, x.Backend())
	src, dst := x.Data(), out.Data()

	imgStride := p.InChannels * height * width
	chanStride := height * width

	for b := 0; b < batch; b++ {
		for gy := 0; gy < gridH; gy++ {
			for gx := 0; gx < gridW; gx++ {
				dstBase := (b*nPatches + gy*gridW + gx) * patchDim
				for c := 0; c < p.InChannels; c++ {
					for row := 0; row < ps; row++ {
						srcOff := b*imgStride + c*chanStride + (gy*ps+row)*width + gx*ps
						dstOff := dstBase + (c*ps+row)*ps
						copy(dst[dstOff:dstOff+ps], src[srcOff:srcOff+ps])
					}
				}
			}
		}
	}
	return out
}

// NumPatches returns the sequence length produced for an image of the
// given spatial size.
func (p *PatchEmbedding) NumPatches(height, width int) int {
	return (height / p.PatchSize) * (width / p.PatchSize)
}
