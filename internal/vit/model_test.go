package vit

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glance-ml/glance/internal/backend/cpu"
	"github.com/glance-ml/glance/internal/nn"
	"github.com/glance-ml/glance/internal/tensor"
)

// testConfig is small enough to run in milliseconds while exercising
// every component: multiple blocks, multiple heads, a non-trivial grid.
func testConfig() Config {
	return Config{
		ImageSize:  16,
		InChannels: 3,
		PatchSize:  4,
		EmbedDim:   32,
		MLPDim:     64,
		NumHeads:   4,
		NumLayers:  2,
		NumClasses: 10,
		Dropout:    0.1,
		Seed:       42,
	}
}

func TestNewValidatesConfig(t *testing.T) {
	b := cpu.NewSequential()

	cfg := testConfig()
	cfg.NumHeads = 7 // 32 % 7 != 0
	_, err := New(cfg, b)
	require.Error(t, err)
	var cfgErr *nn.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestForwardShape(t *testing.T) {
	b := cpu.NewSequential()
	m, err := New(testConfig(), b)
	require.NoError(t, err)

	x := tensor.Randn(tensor.Shape{3, 3, 16, 16}, rand.New(rand.NewSource(1)), b)
	logits, err := m.Forward(x, nn.Eval)
	require.NoError(t, err)

	assert.True(t, logits.Shape().Equal(tensor.Shape{3, 10}))
	for _, v := range logits.Data() {
		assert.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0))
	}
}

func TestForwardRejectsBadInput(t *testing.T) {
	b := cpu.NewSequential()
	m, err := New(testConfig(), b)
	require.NoError(t, err)

	var cfgErr *nn.ConfigError

	// Wrong spatial size.
	_, err = m.Forward(tensor.Zeros(tensor.Shape{1, 3, 32, 32}, b), nn.Eval)
	require.Error(t, err)
	assert.ErrorAs(t, err, &cfgErr)

	// Wrong channel count.
	_, err = m.Forward(tensor.Zeros(tensor.Shape{1, 1, 16, 16}, b), nn.Eval)
	require.Error(t, err)
	assert.ErrorAs(t, err, &cfgErr)

	// Wrong rank.
	_, err = m.Forward(tensor.Zeros(tensor.Shape{3, 16, 16}, b), nn.Eval)
	require.Error(t, err)
	assert.ErrorAs(t, err, &cfgErr)
}

func TestForwardDeterministicInEval(t *testing.T) {
	b := cpu.New()
	m, err := New(testConfig(), b)
	require.NoError(t, err)

	x := tensor.Randn(tensor.Shape{2, 3, 16, 16}, rand.New(rand.NewSource(2)), b)
	a, err := m.Forward(x, nn.Eval)
	require.NoError(t, err)
	c, err := m.Forward(x, nn.Eval)
	require.NoError(t, err)

	assert.Equal(t, a.Data(), c.Data())
}

func TestSeededModelsAreIdentical(t *testing.T) {
	b := cpu.NewSequential()
	m1, err := New(testConfig(), b)
	require.NoError(t, err)
	m2, err := New(testConfig(), b)
	require.NoError(t, err)

	x := tensor.Randn(tensor.Shape{1, 3, 16, 16}, rand.New(rand.NewSource(3)), b)
	y1, err := m1.Forward(x, nn.Eval)
	require.NoError(t, err)
	y2, err := m2.Forward(x, nn.Eval)
	require.NoError(t, err)

	assert.Equal(t, y1.Data(), y2.Data())
}

func TestBatchElementsAreIndependent(t *testing.T) {
	b := cpu.NewSequential()
	m, err := New(testConfig(), b)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(4))
	x := tensor.Randn(tensor.Shape{2, 3, 16, 16}, rng, b)

	// Per-image logits must not depend on what else is in the batch.
	full, err := m.Forward(x, nn.Eval)
	require.NoError(t, err)

	first, err := tensor.FromSlice(x.Data()[:3*16*16], tensor.Shape{1, 3, 16, 16}, b)
	require.NoError(t, err)
	solo, err := m.Forward(first, nn.Eval)
	require.NoError(t, err)

	for j := 0; j < 10; j++ {
		assert.InDelta(t, solo.At(0, j), full.At(0, j), 1e-5)
	}
}

// Swapping two patches keeps the multiset of tokens identical, so any
// change in the logits can only come from the positional encoding.
func TestPatchOrderAffectsLogits(t *testing.T) {
	b := cpu.NewSequential()
	m, err := New(testConfig(), b)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(10))
	x := tensor.Randn(tensor.Shape{1, 3, 16, 16}, rng, b)

	swapped := x.Clone()
	for c := 0; c < 3; c++ {
		for r := 0; r < 4; r++ {
			for col := 0; col < 4; col++ {
				a := swapped.At(0, c, r, col)
				d := swapped.At(0, c, 12+r, 12+col)
				swapped.Set(d, 0, c, r, col)
				swapped.Set(a, 0, c, 12+r, 12+col)
			}
		}
	}

	y1, err := m.Forward(x, nn.Eval)
	require.NoError(t, err)
	y2, err := m.Forward(swapped, nn.Eval)
	require.NoError(t, err)

	diff := false
	for i := range y1.Data() {
		if y1.Data()[i] != y2.Data()[i] {
			diff = true
			break
		}
	}
	assert.True(t, diff, "patch positions must influence the prediction")
}

func TestParameterContainer(t *testing.T) {
	b := cpu.NewSequential()
	cfg := testConfig()
	m, err := New(cfg, b)
	require.NoError(t, err)

	params := m.Parameters()

	// 2 (patch proj) + 1 (cls) + 1 (pos) + 12 per block + 2 (head).
	assert.Len(t, params, 2+1+1+cfg.NumLayers*12+2)

	for _, name := range []string{
		"patch.proj.weight", "patch.proj.bias",
		"cls_token", "pos_embed",
		"blocks.0.attn.wq.weight", "blocks.0.attn.wk.weight",
		"blocks.0.attn.wv.weight", "blocks.0.attn.wo.weight",
		"blocks.0.norm1.gamma", "blocks.0.norm2.beta",
		"blocks.1.mlp.fc1.weight", "blocks.1.mlp.fc2.bias",
		"head.weight", "head.bias",
	} {
		assert.Contains(t, params, name)
	}

	assert.True(t, params["cls_token"].Shape().Equal(tensor.Shape{1, 1, 32}))
	assert.True(t, params["pos_embed"].Shape().Equal(tensor.Shape{1, 17, 32}))
	assert.True(t, params["head.weight"].Shape().Equal(tensor.Shape{10, 32}))
}

func TestNumParameters(t *testing.T) {
	b := cpu.NewSequential()
	cfg := testConfig()
	m, err := New(cfg, b)
	require.NoError(t, err)

	e, mlp, seq := cfg.EmbedDim, cfg.MLPDim, cfg.SeqLen()
	patchDim := cfg.InChannels * cfg.PatchSize * cfg.PatchSize
	perBlock := 4*(e*e+e) + 2*2*e + (e*mlp + mlp) + (mlp*e + e)
	want := (patchDim*e + e) + e + seq*e + cfg.NumLayers*perBlock + (e*cfg.NumClasses + cfg.NumClasses)

	assert.Equal(t, want, m.NumParameters())
}

func TestParametersAreLive(t *testing.T) {
	b := cpu.NewSequential()
	m, err := New(testConfig(), b)
	require.NoError(t, err)

	x := tensor.Zeros(tensor.Shape{1, 3, 16, 16}, b)
	before, err := m.Forward(x, nn.Eval)
	require.NoError(t, err)

	bias := m.Parameters()["head.bias"]
	for i := range bias.Data() {
		bias.Data()[i] += 1
	}

	after, err := m.Forward(x, nn.Eval)
	require.NoError(t, err)
	for j := 0; j < 10; j++ {
		assert.InDelta(t, before.At(0, j)+1, after.At(0, j), 1e-6)
	}
}

func TestLoadStateDictErrors(t *testing.T) {
	b := cpu.NewSequential()
	m, err := New(testConfig(), b)
	require.NoError(t, err)

	// Unknown name.
	sd := map[string]*tensor.Tensor{"nonexistent": tensor.Ones(tensor.Shape{1}, b)}
	assert.Error(t, m.LoadStateDict(sd))

	// Missing parameters.
	assert.Error(t, m.LoadStateDict(map[string]*tensor.Tensor{}))

	// Shape mismatch.
	full := make(map[string]*tensor.Tensor, len(m.Parameters()))
	for name, p := range m.Parameters() {
		full[name] = p.Clone()
	}
	full["head.bias"] = tensor.Ones(tensor.Shape{11}, b)
	err = m.LoadStateDict(full)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shape mismatch")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := cpu.NewSequential()
	path := filepath.Join(t.TempDir(), "vit.glance")

	m1, err := New(testConfig(), b)
	require.NoError(t, err)
	require.NoError(t, m1.Save(path))

	// Fresh model with different parameters.
	cfg := testConfig()
	cfg.Seed = 7
	m2, err := New(cfg, b)
	require.NoError(t, err)
	require.NoError(t, m2.Load(path))

	x := tensor.Randn(tensor.Shape{1, 3, 16, 16}, rand.New(rand.NewSource(5)), b)
	y1, err := m1.Forward(x, nn.Eval)
	require.NoError(t, err)
	y2, err := m2.Forward(x, nn.Eval)
	require.NoError(t, err)

	assert.Equal(t, y1.Data(), y2.Data())
}

func TestViTBaseForward(t *testing.T) {
	if testing.Short() {
		t.Skip("full ViT-Base forward pass, minutes of CPU time")
	}

	cfg := Base(10)
	cfg.Seed = 1
	b := cpu.New()
	m, err := New(cfg, b)
	require.NoError(t, err)

	assert.Equal(t, 196, cfg.NumPatches())
	assert.Equal(t, 197, cfg.SeqLen())

	x := tensor.Randn(tensor.Shape{32, 3, 224, 224}, rand.New(rand.NewSource(6)), b)
	logits, err := m.Forward(x, nn.Eval)
	require.NoError(t, err)

	assert.True(t, logits.Shape().Equal(tensor.Shape{32, 10}))
	for _, v := range logits.Data() {
		assert.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0))
	}
}
