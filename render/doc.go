// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the GPU-facing collaborator interfaces used by the
// timewarp scheduler.
//
// The scheduler never owns GPU resources. Eye textures and completion
// handles flow through it as borrowed references: the scene worker renders
// into textures it owns, publishes non-owning handles to them, and the
// single-slot back-pressure protocol guarantees a published texture is not
// reused by the producer until the consumer has released it.
//
// A host application implements these interfaces on top of its own GPU
// stack, or uses the wgpu/hal implementation in backend/wgpu.
package render
