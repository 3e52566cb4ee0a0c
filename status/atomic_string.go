package status

import (
	"sync/atomic"
)

// MaxLabelLen bounds label values so the status line stays on one row
const MaxLabelLen = 24

// AtomicString is a short label metric, zero value reads ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the label, truncated to MaxLabelLen bytes
func (s *AtomicString) Store(v string) {
	if len(v) > MaxLabelLen {
		v = v[:MaxLabelLen]
	}
	s.ptr.Store(&v)
}

// Load reads the label
func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
