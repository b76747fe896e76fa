// Package gfx is the software graphics backend of lumen.
//
// It draws instanced particle geometry and full-frame layers into RGBA
// frames on the CPU. It is not a general engine and has no GPU
// abstraction: frames are plain pixel buffers the compositor reads and
// writes by name.
//
// Pipeline (fixed):
//
//	Vertices × Instance model → View/Projection → NDC → Rasterization → Frame.
//
// Particles are blended over the frame (source-over, alpha from instance
// life) with no depth test, so paint order is the only ordering.
package gfx
