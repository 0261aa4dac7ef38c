package belief

import (
	"sort"
	"sync"
	"time"

	"github.com/robotalks/trackdrive/pkg/geom"
)

// Board maps robot ids to their Slots.
type Board struct {
	lock  sync.RWMutex
	slots map[string]*Slot
}

// NewBoard creates an empty Board.
func NewBoard() *Board {
	return &Board{slots: make(map[string]*Slot)}
}

// Slot returns the slot of a robot, creating it if absent.
func (b *Board) Slot(id string) *Slot {
	b.lock.RLock()
	s, ok := b.slots[id]
	b.lock.RUnlock()
	if ok {
		return s
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	if s, ok = b.slots[id]; !ok {
		s = NewSlot()
		b.slots[id] = s
	}
	return s
}

// Lookup returns the slot of a robot if present.
func (b *Board) Lookup(id string) (*Slot, bool) {
	b.lock.RLock()
	defer b.lock.RUnlock()
	s, ok := b.slots[id]
	return s, ok
}

// Publish posts a pose for a robot.
func (b *Board) Publish(id string, pose geom.Pose2D, stamp time.Time) uint64 {
	return b.Slot(id).Publish(pose, stamp)
}

// Remove forgets a robot.
func (b *Board) Remove(id string) {
	b.lock.Lock()
	delete(b.slots, id)
	b.lock.Unlock()
}

// Robots lists known robot ids in order.
func (b *Board) Robots() []string {
	b.lock.RLock()
	ids := make([]string, 0, len(b.slots))
	for id := range b.slots {
		ids = append(ids, id)
	}
	b.lock.RUnlock()
	sort.Strings(ids)
	return ids
}
