package diffdrive

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
)

var testModel = kinematics.Model{WheelBase: 0.1}

func TestStraightDrive(t *testing.T) {
	testCases := []struct {
		name     string
		initial  float64
		speed    float64
		accel    float64
		ticks    int
		expectX  float64
		expectV  float64
		latency  int
		pending  int
		sendOnce bool
	}{
		{
			name:    "no accel",
			speed:   1,
			ticks:   10,
			expectX: 1,
			expectV: 1,
		},
		{
			name:    "no accel reverse",
			speed:   -1,
			ticks:   10,
			expectX: -1,
			expectV: -1,
		},
		{
			name:    "before accel ends",
			speed:   2,
			accel:   1,
			ticks:   10,
			expectX: 0.55,
			expectV: 1,
		},
		{
			name:    "after accel ends",
			speed:   1,
			accel:   5,
			ticks:   10,
			expectX: 0.95,
			expectV: 1,
		},
		{
			name:    "reduce speed",
			initial: 2,
			speed:   0,
			accel:   10,
			ticks:   10,
			expectX: 0.1,
			expectV: 0,
		},
		{
			name:    "latency delays command",
			speed:   1,
			ticks:   10,
			latency: 3,
			expectX: 0.7,
			expectV: 1,
			pending: 3,
		},
		{
			name:     "latency runs initial command",
			initial:  1,
			speed:    0,
			ticks:    10,
			latency:  3,
			expectX:  0.3,
			expectV:  0,
			sendOnce: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := New(Config{
				Model:    testModel,
				Initial:  kinematics.Command{Left: tc.initial, Right: tc.initial},
				Latency:  tc.latency,
				Tick:     100 * time.Millisecond,
				MaxAccel: tc.accel,
			})
			require.NoError(t, err)
			cmd := kinematics.Command{Left: tc.speed, Right: tc.speed}
			for i := 0; i < tc.ticks; i++ {
				if i == 0 || !tc.sendOnce {
					r.Send(cmd)
				}
				r.Step()
			}
			require.InDelta(t, tc.expectX, r.Pose().X, 1e-9)
			require.InDelta(t, 0, r.Pose().Y, 1e-12)
			require.InDelta(t, tc.expectV, r.Wheels().Left, 1e-12)
			require.Equal(t, tc.pending, r.Pending())
			require.Equal(t, tc.ticks, r.Ticks())
		})
	}
}

func TestTurnInPlace(t *testing.T) {
	r, err := New(Config{Model: testModel, Tick: 100 * time.Millisecond})
	require.NoError(t, err)
	// w = 2 rad/s
	r.Send(kinematics.Command{Left: -0.1, Right: 0.1})
	for i := 0; i < 5; i++ {
		r.Step()
	}
	require.InDelta(t, 0, r.Pose().X, 1e-12)
	require.InDelta(t, 1, r.Pose().Heading(), 1e-9)
}

func TestMeasureNoise(t *testing.T) {
	conf := Config{
		Model:        testModel,
		Start:        geom.NewPose(1, 2, 0.5),
		Tick:         time.Second,
		NoiseXY:      0.01,
		NoiseHeading: 0.01,
		Seed:         7,
	}
	r1, err := New(conf)
	require.NoError(t, err)
	r2, err := New(conf)
	require.NoError(t, err)

	var sum float64
	for i := 0; i < 100; i++ {
		m1, m2 := r1.Measure(), r2.Measure()
		require.Equal(t, m1, m2, "same seed gives same noise")
		sum += m1.DistanceTo(conf.Start.Pos2D)
		require.True(t, math.Abs(m1.Orientation.Sub(conf.Start.Orientation).Radians()) < 0.1)
	}
	require.True(t, sum > 0)
	require.True(t, sum/100 < 0.05)

	conf.NoiseXY, conf.NoiseHeading = 0, 0
	r3, err := New(conf)
	require.NoError(t, err)
	require.Equal(t, conf.Start, r3.Measure())
}

func TestNewErrors(t *testing.T) {
	_, err := New(Config{Model: testModel, Tick: time.Second, Latency: -1})
	require.Equal(t, ErrNegativeLatency, err)
	_, err = New(Config{Model: testModel})
	require.Equal(t, ErrInvalidTick, err)
	_, err = New(Config{Tick: time.Second})
	require.Equal(t, kinematics.ErrInvalidWheelBase, err)
}
