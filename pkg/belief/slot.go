// Package belief hands robot pose measurements from sensing goroutines to
// the control loop.
package belief

import (
	"sync/atomic"
	"time"

	"github.com/robotalks/trackdrive/pkg/geom"
)

// Sample is an immutable pose measurement.
type Sample struct {
	Pose  geom.Pose2D
	Stamp time.Time
	// Seq increases with every sample published to the same slot.
	Seq uint64
}

// Slot is a single-slot mailbox holding the latest unread sample.
// Publish never blocks and replaces an older unread sample; Latest never
// blocks. Any number of goroutines may publish, one goroutine reads.
type Slot struct {
	ch   chan Sample
	seq  uint64
	last Sample
	seen bool
}

// NewSlot creates an empty Slot.
func NewSlot() *Slot {
	return &Slot{ch: make(chan Sample, 1)}
}

// Publish posts a pose measured at stamp and returns its sequence number.
func (s *Slot) Publish(pose geom.Pose2D, stamp time.Time) uint64 {
	seq := atomic.AddUint64(&s.seq, 1)
	smp := Sample{Pose: pose, Stamp: stamp, Seq: seq}
	for {
		select {
		case s.ch <- smp:
			return seq
		default:
		}
		select {
		case unread := <-s.ch:
			// a concurrent publisher got a newer sample in first.
			if unread.Seq > smp.Seq {
				smp = unread
			}
		default:
		}
	}
}

// Latest returns the most recent sample and whether any sample was ever
// received. A sample is returned again until a newer one arrives.
func (s *Slot) Latest() (Sample, bool) {
	select {
	case smp := <-s.ch:
		if !s.seen || smp.Seq > s.last.Seq {
			s.last, s.seen = smp, true
		}
	default:
	}
	return s.last, s.seen
}
