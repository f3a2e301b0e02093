// Package design provides RBJ cookbook biquad coefficient designers.
//
// The functions in this package produce [biquad.Coefficients] consumable by
// dsp/filter/biquad for runtime processing: peaking and shelving filters for
// parametric equalization plus the second-order pass, notch and allpass
// families.
//
// Every designer accepts any parameter combination. The corner frequency is
// clamped to [1 Hz, sampleRate/2 - 1 Hz] and Q to at least [MinQ], so the
// result is always a finite, stable filter even when it is musically wrong.
//
// Gain follows the cookbook convention A = 10^(gainDB/40), so a peaking filter
// reaches exactly gainDB at its centre frequency.
package design
