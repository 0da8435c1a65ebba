// Package colorcode generates placeholder color codes for avatar-less profiles.
package colorcode

import (
	"math/rand/v2"
	"strings"
)

const digits = 6

// Random returns a string of the form "#dddddd" where every d is a decimal
// digit drawn uniformly at random. The result is not a full hex color: only
// the 000000-999999 space is reachable.
func Random() string {
	return build(rand.IntN)
}

// RandomFrom is Random drawing from r.
func RandomFrom(r *rand.Rand) string {
	return build(r.IntN)
}

func build(intN func(int) int) string {
	var b strings.Builder
	b.Grow(digits + 1)
	b.WriteByte('#')
	for range digits {
		b.WriteByte(byte('0' + intN(10)))
	}
	return b.String()
}
