package engine

import (
	"math/rand"
)

// randSource jitters sample positions inside a pixel. It is not safe for
// concurrent use, so each worker owns one. Seeding by tile keeps renders
// reproducible regardless of which worker picks a tile up.
type randSource struct {
	r *rand.Rand
}

func newRandSource(seed int64) *randSource {
	return &randSource{r: rand.New(rand.NewSource(seed))}
}

func (rs *randSource) reseed(seed int64) {
	rs.r.Seed(seed)
}

func (rs *randSource) Float32() float32 {
	return rs.r.Float32()
}

// offset returns the sub-pixel position of sample s out of n. The first
// sample is the pixel center so single-sample renders are stable.
func (rs *randSource) offset(s, n int) (float32, float32) {
	if s == 0 || n <= 1 {
		return 0.5, 0.5
	}
	return rs.Float32(), rs.Float32()
}
