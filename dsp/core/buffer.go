package core

// EnsureLen returns buf resliced to n when its capacity allows, otherwise a
// fresh slice of length n. Contents are not preserved on growth.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// SanitizeInPlace replaces every non-finite value in buf with 0 and returns
// the number of replaced samples.
func SanitizeInPlace(buf []float64) int {
	replaced := 0
	for i, v := range buf {
		if !IsFinite(v) {
			buf[i] = 0
			replaced++
		}
	}
	return replaced
}
