// Package eq implements the per-band parametric equalizer used for headphone
// correction.
//
// A [BiquadFilter] is one band: a filter type, centre frequency, Q and gain
// designed with the RBJ cookbook formulas from dsp/filter/design, plus an
// enabled flag. A disabled band is an exact passthrough and keeps its delay
// state.
//
// [StereoParametricEQ] owns two index-aligned banks of bands, one per
// channel. Bands are processed as a series cascade in index order, and the
// two channels never share state.
package eq
