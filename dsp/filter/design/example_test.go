package design_test

import (
	"fmt"

	"github.com/cwbudde/headstage/dsp/filter/design"
)

func ExamplePeak() {
	c := design.Peak(1000, -6, 0.707, 48000)
	fmt.Printf("b0=%.4f b1=%.4f b2=%.4f a1=%.4f a2=%.4f\n", c.B0, c.B1, c.B2, c.A1, c.A2)
	fmt.Printf("at 1 kHz: %+.2f dB\n", c.MagnitudeDB(1000, 48000))
	// Output:
	// b0=0.9425 b1=-1.7542 b2=0.8268 a1=-1.7542 a2=0.7693
	// at 1 kHz: -6.00 dB
}
