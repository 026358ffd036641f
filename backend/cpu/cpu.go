// Copyright 2026 The Glance Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu is the public API for the Glance CPU backend.
package cpu

import "github.com/glance-ml/glance/internal/backend/cpu"

// Backend implements tensor.Backend on the CPU.
type Backend = cpu.Backend

// New creates a CPU backend with default parallelism.
func New() *Backend {
	return cpu.New()
}

// NewSequential creates a CPU backend that never spawns goroutines.
func NewSequential() *Backend {
	return cpu.NewSequential()
}
