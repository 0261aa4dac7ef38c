package drive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/trackdrive/pkg/belief"
	"github.com/robotalks/trackdrive/pkg/control"
	"github.com/robotalks/trackdrive/pkg/control/delay"
	fx "github.com/robotalks/trackdrive/pkg/framework"
	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
)

var testModel = kinematics.Model{WheelBase: 0.1}

type fixture struct {
	clock   *clock.Mock
	loop    *fx.Loop
	slot    *belief.Slot
	driver  *Driver
	sent    []kinematics.Command
	seen    []Step
	targets []geom.Pose2D
}

func newFixture(t *testing.T, depth int) *fixture {
	f := &fixture{clock: clock.NewMock(), slot: belief.NewSlot()}
	law := control.PointLawFunc(func(est, target geom.Pose2D, prevSpeed, finalSpeed float64) (kinematics.Command, control.Telemetry) {
		f.targets = append(f.targets, target)
		return kinematics.Command{Left: 1, Right: 1}, control.Telemetry{"final": finalSpeed}
	})
	ctrl, err := delay.NewPoint(law, delay.Config{Depth: depth, Tick: 100 * time.Millisecond, Model: testModel})
	require.NoError(t, err)
	f.driver = &Driver{
		Controller: ctrl,
		Slot:       f.slot,
		Sink: SinkFunc(func(ctx context.Context, cmd kinematics.Command) error {
			f.sent = append(f.sent, cmd)
			return nil
		}),
		Observers: []Observer{ObserveFunc(func(s Step) { f.seen = append(f.seen, s) })},
	}
	f.loop = fx.NewLoop(100 * time.Millisecond)
	f.loop.Clock = f.clock
	f.loop.Add(f.driver)
	return f
}

func (f *fixture) tick() {
	f.loop.Step(context.Background())
	f.clock.Add(100 * time.Millisecond)
}

func TestDriverWaitsForPoseAndTarget(t *testing.T) {
	f := newFixture(t, 0)
	f.tick()
	require.Empty(t, f.sent)

	f.slot.Publish(geom.NewPose(1, 0, 0), f.clock.Now())
	f.tick()
	require.Empty(t, f.sent, "no target yet")

	f.driver.SetTarget(geom.NewPose(2, 0, 0), 0.5)
	f.tick()
	require.Len(t, f.sent, 1)
	require.Equal(t, []geom.Pose2D{geom.NewPose(2, 0, 0)}, f.targets)
	require.Len(t, f.seen, 1)
	require.Equal(t, 0.5, f.seen[0].Telemetry["final"])
	require.EqualValues(t, 3, f.seen[0].Tick)
	require.Equal(t, 1, f.driver.Steps())
}

func TestDriverEstimatesWithHistory(t *testing.T) {
	f := newFixture(t, 2)
	f.driver.SetTarget(geom.Pose2D{}, 0)
	for i := 0; i < 3; i++ {
		f.slot.Publish(geom.Pose2D{}, f.clock.Now())
		f.tick()
	}
	last, ok := f.driver.Last()
	require.True(t, ok)
	require.Equal(t, geom.Pose2D{}, last.Measured.Pose)
	require.InDelta(t, 0.2, last.Estimated.X, 1e-12)
	require.Len(t, f.sent, 3)
}

func TestDriverSkipsStalePose(t *testing.T) {
	f := newFixture(t, 0)
	f.driver.MaxAge = 150 * time.Millisecond
	f.driver.SetTarget(geom.Pose2D{}, 0)
	f.slot.Publish(geom.Pose2D{}, f.clock.Now())
	f.tick()
	f.tick()
	f.tick()
	require.Len(t, f.sent, 2)
}

func TestDriverSinkError(t *testing.T) {
	f := newFixture(t, 0)
	f.driver.Sink = SinkFunc(func(context.Context, kinematics.Command) error {
		return errors.New("offline")
	})
	f.driver.SetTarget(geom.Pose2D{}, 0)
	f.slot.Publish(geom.Pose2D{}, f.clock.Now())
	f.tick()
	require.Empty(t, f.seen)
	require.Equal(t, 1, f.driver.Steps())
}
