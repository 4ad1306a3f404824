package qeeg

import (
	"sync"

	"github.com/cwbudde/algo-qeeg/dsp/core"
)

// scratch holds the per-call work buffers of the estimators. Contents are
// unspecified on return from getScratch.
type scratch struct {
	win1, win2 []float64
	bins       []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratch{} },
}

// getScratch returns buffers for two windows of size samples and one
// spectrum of bins values.
func getScratch(size, bins int) *scratch {
	s := scratchPool.Get().(*scratch)
	s.win1 = core.EnsureLen(s.win1, size)
	s.win2 = core.EnsureLen(s.win2, size)
	s.bins = core.EnsureLen(s.bins, bins)
	return s
}

func putScratch(s *scratch) {
	scratchPool.Put(s)
}
