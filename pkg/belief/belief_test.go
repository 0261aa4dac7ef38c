package belief

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/trackdrive/pkg/geom"
)

func TestSlotEmpty(t *testing.T) {
	_, ok := NewSlot().Latest()
	require.False(t, ok)
}

func TestSlotKeepsLatest(t *testing.T) {
	s := NewSlot()
	var stamp time.Time
	for i := 1; i <= 5; i++ {
		require.EqualValues(t, i, s.Publish(geom.NewPose(float64(i), 0, 0), stamp))
	}
	smp, ok := s.Latest()
	require.True(t, ok)
	require.Equal(t, 5.0, smp.Pose.X)
	require.EqualValues(t, 5, smp.Seq)

	// no new sample: the last one is repeated.
	smp, ok = s.Latest()
	require.True(t, ok)
	require.EqualValues(t, 5, smp.Seq)
}

func TestSlotConcurrentPublishers(t *testing.T) {
	s := NewSlot()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s.Publish(geom.NewPose(float64(i), 0, 0), time.Time{})
			}
		}()
	}
	var prev uint64
	for i := 0; i < 1000; i++ {
		if smp, ok := s.Latest(); ok {
			require.True(t, smp.Seq >= prev)
			prev = smp.Seq
		}
	}
	wg.Wait()
	smp, ok := s.Latest()
	require.True(t, ok)
	require.True(t, smp.Seq >= prev)
	// the newest sample survives racing publishers.
	require.EqualValues(t, 4000, smp.Seq)
}

func TestBoard(t *testing.T) {
	b := NewBoard()
	_, ok := b.Lookup("r1")
	require.False(t, ok)

	b.Publish("r2", geom.NewPose(2, 0, 0), time.Time{})
	b.Publish("r1", geom.NewPose(1, 0, 0), time.Time{})
	require.Equal(t, []string{"r1", "r2"}, b.Robots())

	s, ok := b.Lookup("r1")
	require.True(t, ok)
	require.True(t, s == b.Slot("r1"))
	smp, ok := s.Latest()
	require.True(t, ok)
	require.Equal(t, 1.0, smp.Pose.X)

	b.Remove("r1")
	require.Equal(t, []string{"r2"}, b.Robots())
	_, ok = b.Slot("r1").Latest()
	require.False(t, ok)
}
