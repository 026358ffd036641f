// Package main provides the Glance CLI.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/glance-ml/glance/internal/backend/cpu"
	"github.com/glance-ml/glance/internal/nn"
	"github.com/glance-ml/glance/internal/tensor"
	"github.com/glance-ml/glance/internal/vit"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("Glance %s\n", version)
	case "describe":
		err = describe(os.Args[2:])
	case "bench":
		err = bench(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Glance - Vision Transformer inference in Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version                     Show version")
	fmt.Println("  describe -config <yaml>     Validate a config and print the model summary")
	fmt.Println("  bench -config <yaml>        Time one forward pass on random input")
}

func loadModel(args []string, cmd string) (*vit.VisionTransformer, error) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML model configuration")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *configPath == "" {
		return nil, fmt.Errorf("%s: -config is required", cmd)
	}

	cfg, err := vit.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	return vit.New(cfg, cpu.New())
}

func describe(args []string) error {
	model, err := loadModel(args, "describe")
	if err != nil {
		return err
	}

	cfg := model.Config
	fmt.Printf("VisionTransformer (%dx%d, %d channels)\n", cfg.ImageSize, cfg.ImageSize, cfg.InChannels)
	fmt.Printf("  patch size:   %d (%d patches, sequence length %d)\n", cfg.PatchSize, cfg.NumPatches(), cfg.SeqLen())
	fmt.Printf("  embed dim:    %d (%d heads x %d)\n", cfg.EmbedDim, cfg.NumHeads, cfg.HeadDim())
	fmt.Printf("  mlp dim:      %d\n", cfg.MLPDim)
	fmt.Printf("  layers:       %d\n", cfg.NumLayers)
	fmt.Printf("  classes:      %d\n", cfg.NumClasses)
	fmt.Printf("  parameters:   %d\n", model.NumParameters())
	return nil
}

func bench(args []string) error {
	model, err := loadModel(args, "bench")
	if err != nil {
		return err
	}

	cfg := model.Config
	rng := rand.New(rand.NewSource(0))
	input := tensor.Randn(tensor.Shape{1, cfg.InChannels, cfg.ImageSize, cfg.ImageSize}, rng, cpu.New())

	start := time.Now()
	logits, err := model.Forward(input, nn.Eval)
	if err != nil {
		return err
	}
	fmt.Printf("forward pass: %v, output shape %v\n", time.Since(start), logits.Shape())
	return nil
}
