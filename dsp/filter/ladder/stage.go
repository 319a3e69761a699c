package ladder

// Stage is one first-order section of the cascade. Its two fields are the
// only memory a stage carries between samples.
type Stage struct {
	PrevInput  float64
	PrevOutput float64
}

// Process advances the stage by one sample.
//
// The output is computed from the previous input and output before either is
// overwritten.
func (s *Stage) Process(input float64, c *Coefficients) float64 {
	out := c.B0*input + c.B1*s.PrevInput + c.A1*s.PrevOutput
	s.PrevInput = input
	s.PrevOutput = out

	return out
}

// Reset zeroes the stage memory.
func (s *Stage) Reset() {
	*s = Stage{}
}
