package acquisition

import (
	"sync/atomic"

	"github.com/itohio/goetarget/pkg/shot"
)

// DefaultRingSize is the number of shots that may be pending before the
// consumer reads them.
const DefaultRingSize = 8

// Ring hands completed records from the tick handler to the scoring task.
// There is one producer and one consumer. A record is fully built before its
// slot pointer is published, so the consumer never sees a partial record.
type Ring struct {
	slots   []atomic.Pointer[slot]
	written atomic.Uint64
	read    uint64 // consumer only
}

// slot tags a record with its publish sequence so the consumer can tell a
// slot that was overwritten while it was polling.
type slot struct {
	seq uint64
	rec shot.Record
}

// NewRing creates a ring with n slots (DefaultRingSize when n <= 0).
func NewRing(n int) *Ring {
	if n <= 0 {
		n = DefaultRingSize
	}
	return &Ring{slots: make([]atomic.Pointer[slot], n)}
}

// Cap returns the number of slots.
func (r *Ring) Cap() int {
	return len(r.slots)
}

// Publish stores a record. Called by the producer only.
func (r *Ring) Publish(rec shot.Record) {
	w := r.written.Load()
	r.slots[w%uint64(len(r.slots))].Store(&slot{seq: w, rec: rec})
	r.written.Store(w + 1)
}

// Pending returns how many records are waiting.
func (r *Ring) Pending() int {
	n := r.written.Load() - r.read
	if n > uint64(len(r.slots)) {
		n = uint64(len(r.slots))
	}
	return int(n)
}

// Poll returns every record published since the last call, oldest first, and
// the number of records that were overwritten before they could be read.
// Called by the consumer only.
func (r *Ring) Poll() ([]shot.Record, uint64) {
	return r.poll(r.written.Load())
}

// poll reads up to sequence w. A slot whose sequence moved past the expected
// one was overwritten after w was taken and counts as lost; the newer record
// is left for the next poll.
func (r *Ring) poll(w uint64) ([]shot.Record, uint64) {
	if w == r.read {
		return nil, 0
	}

	var lost uint64
	size := uint64(len(r.slots))
	if w-r.read > size {
		lost = w - r.read - size
		r.read = w - size
	}

	out := make([]shot.Record, 0, w-r.read)
	for ; r.read < w; r.read++ {
		sl := r.slots[r.read%size].Load()
		if sl == nil || sl.seq != r.read {
			lost++
			continue
		}
		out = append(out, sl.rec)
	}
	return out, lost
}
