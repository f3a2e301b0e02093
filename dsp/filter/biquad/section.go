package biquad

import "github.com/cwbudde/headstage/dsp/core"

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + z1
//	z1 = B1*x - A1*y + z2
//	z2 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Identity returns the coefficients of the unity passthrough filter.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// IsIdentity reports whether c is the unity passthrough filter.
func (c Coefficients) IsIdentity() bool {
	return c == Identity()
}

// IsStable reports whether both poles lie strictly inside the unit circle.
func (c Coefficients) IsStable() bool {
	return c.A2 < 1 && c.A2 > -1 && c.A1 < 1+c.A2 && c.A1 > -(1+c.A2)
}

// Setting is either bypassed or active with a set of coefficients.
// The zero value is bypassed.
type Setting struct {
	active bool
	coeffs Coefficients
}

// Bypassed returns the setting of a section that passes its input through.
func Bypassed() Setting {
	return Setting{}
}

// Active returns the setting of a section that filters with c.
func Active(c Coefficients) Setting {
	return Setting{active: true, coeffs: c}
}

// IsActive reports whether the setting filters its input.
func (s Setting) IsActive() bool {
	return s.active
}

// Coefficients returns the effective coefficients: the designed ones when
// active, the identity filter when bypassed.
func (s Setting) Coefficients() Coefficients {
	if !s.active {
		return Identity()
	}
	return s.coeffs
}

// Section is a single biquad filter with a setting and internal state.
// It implements Direct Form II Transposed processing in float32.
type Section struct {
	setting Setting

	b0, b1, b2 float32
	a1, a2     float32

	z1, z2 float32
}

// NewSection returns a Section initialized with the given setting and zero state.
func NewSection(setting Setting) *Section {
	s := &Section{}
	s.Apply(setting)
	return s
}

// Apply replaces the setting. The delay state is left untouched.
func (s *Section) Apply(setting Setting) {
	s.setting = setting
	c := setting.Coefficients()
	s.b0 = float32(c.B0)
	s.b1 = float32(c.B1)
	s.b2 = float32(c.B2)
	s.a1 = float32(c.A1)
	s.a2 = float32(c.A2)
}

// Setting returns the current setting.
func (s *Section) Setting() Setting {
	return s.setting
}

// ProcessSample filters one input sample and returns the output.
// A bypassed section returns x unchanged.
func (s *Section) ProcessSample(x float32) float32 {
	if !s.setting.active {
		return x
	}

	y := s.b0*x + s.z1
	s.z1 = s.b1*x - s.a1*y + s.z2
	s.z2 = s.b2*x - s.a2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float32) {
	if !s.setting.active {
		return
	}

	b0, b1, b2 := s.b0, s.b1, s.b2
	a1, a2 := s.a1, s.a2
	z1, z2 := s.z1, s.z2

	for i, x := range buf {
		y := b0*x + z1
		z1 = b1*x - a1*y + z2
		z2 = b2*x - a2*y
		buf[i] = y
	}

	s.z1, s.z2 = core.FlushDenormals32(z1), core.FlushDenormals32(z2)
}

// ProcessBlockTo filters src into dst. Both slices must have the same length.
// Zero-alloc.
func (s *Section) ProcessBlockTo(dst, src []float32) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1] // bounds check hint
	if !s.setting.active {
		copy(dst, src)
		return
	}
	for i, x := range src {
		y := s.b0*x + s.z1
		s.z1 = s.b1*x - s.a1*y + s.z2
		s.z2 = s.b2*x - s.a2*y
		dst[i] = y
	}
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.z1 = 0
	s.z2 = 0
}

// State returns the current delay-line state [z1, z2].
func (s *Section) State() [2]float32 {
	return [2]float32{s.z1, s.z2}
}

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [2]float32) {
	s.z1 = state[0]
	s.z2 = state[1]
}
