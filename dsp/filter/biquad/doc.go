// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements single-precision Direct Form II Transposed
// processing for one second-order section. What a section does is described
// by a [Setting], which is either [Bypassed] or [Active] with a set of
// [Coefficients]. A bypassed section returns its input unchanged and keeps its
// delay state, so re-activating it continues from where it left off.
//
// This package provides the processing runtime only. Coefficient design
// (RBJ cookbook peaking, shelving and pass filters) lives in dsp/filter/design.
package biquad
