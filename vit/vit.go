// Copyright 2026 The Glance Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package vit is the public API for the Glance Vision Transformer.
//
// Example:
//
//	cfg := vit.Base(10)
//	cfg.Seed = 42
//	model, err := vit.New(cfg, cpu.New())
//	if err != nil {
//		log.Fatal(err)
//	}
//	logits, err := model.Forward(images, nn.Eval) // [batch, 10]
package vit

import (
	"github.com/glance-ml/glance/internal/tensor"
	"github.com/glance-ml/glance/internal/vit"
)

// Config fixes the model architecture.
type Config = vit.Config

// VisionTransformer is the image classification model.
type VisionTransformer = vit.VisionTransformer

// NormEps is the LayerNorm variance epsilon used by every block.
const NormEps = vit.NormEps

// New constructs a VisionTransformer with random parameters.
func New(cfg Config, b tensor.Backend) (*VisionTransformer, error) {
	return vit.New(cfg, b)
}

// Base returns the ViT-Base/16 configuration for 224×224 RGB input.
func Base(numClasses int) Config {
	return vit.Base(numClasses)
}

// LoadConfig reads and validates a YAML model configuration.
func LoadConfig(path string) (Config, error) {
	return vit.LoadConfig(path)
}
