package laws

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/trackdrive/pkg/arclength"
	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/path"
	"github.com/robotalks/trackdrive/pkg/profile"
)

var testModel = kinematics.Model{WheelBase: 0.1}

func TestPolarCommands(t *testing.T) {
	testCases := []struct {
		name      string
		law       func() *Polar
		target    geom.Pose2D
		prevSpeed float64
		expect    kinematics.Command
	}{
		{
			name:   "ahead",
			law:    func() *Polar { return NewPolar(testModel, 2) },
			target: geom.NewPose(1, 0, 0),
			expect: kinematics.Command{Left: 1, Right: 1},
		},
		{
			name:   "behind drives in reverse",
			law:    func() *Polar { return NewPolar(testModel, 2) },
			target: geom.NewPose(-1, 0, 0),
			expect: kinematics.Command{Left: -1, Right: -1},
		},
		{
			name:   "saturated",
			law:    func() *Polar { return NewPolar(testModel, 0.5) },
			target: geom.NewPose(3, 0, 0),
			expect: kinematics.Command{Left: 0.5, Right: 0.5},
		},
		{
			name: "speed step limited",
			law: func() *Polar {
				l := NewPolar(testModel, 2)
				l.MaxSpeedStep = 0.1
				return l
			},
			target:    geom.NewPose(3, 0, 0),
			prevSpeed: 0.1,
			expect:    kinematics.Command{Left: 0.2, Right: 0.2},
		},
		{
			name:   "at target turns in place",
			law:    func() *Polar { return NewPolar(testModel, 2) },
			target: geom.NewPose(0, 0, 0.5),
			expect: testModel.Wheels(0, 1.5),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, tm := tc.law().PointCommand(geom.Pose2D{}, tc.target, tc.prevSpeed, 0)
			require.InDelta(t, tc.expect.Left, cmd.Left, 1e-12)
			require.InDelta(t, tc.expect.Right, cmd.Right, 1e-12)
			require.Contains(t, tm, "rho")
		})
	}
}

func TestPolarConverges(t *testing.T) {
	l := NewPolar(testModel, 1)
	target := geom.NewPose(2, 0.5, 0)
	pose := geom.Pose2D{}
	for i := 0; i < 3000; i++ {
		cmd, _ := l.PointCommand(pose, target, 0, 0)
		pose = testModel.Advance(pose, cmd, 0.01)
	}
	require.True(t, pose.DistanceTo(target.Pos2D) < 0.05, "ended at %v", pose)
}

func newTestTracker(t *testing.T, p path.Path, startSpeed float64) *Tracker {
	conf := DefaultTrackerConfig(testModel, profile.Limits{
		WheelBase:      testModel.WheelBase,
		MaxWheelSpeed:  1,
		MaxCentripetal: 2,
		MaxAccel:       1,
	})
	conf.StartSpeed = startSpeed
	tr := NewTracker(conf, arclength.NewWorkspace(0, 0))
	require.NoError(t, tr.SetPath(p))
	return tr
}

func TestTrackerFeedForwardOnPath(t *testing.T) {
	circle := path.NewCircle(geom.Pos2D{}, 1, 0, 1)
	tr := newTestTracker(t, circle, 0.5)
	cmd, tm := tr.TrackCommand(path.Pose(circle, 0), kinematics.Command{}, 0)
	expect := testModel.Wheels(0.5, -0.5)
	require.InDelta(t, expect.Left, cmd.Left, 1e-9)
	require.InDelta(t, expect.Right, cmd.Right, 1e-9)
	require.Equal(t, 0.0, tm["u"])
	require.InDelta(t, 0, tm["ex"], 1e-9)
}

func TestTrackerCorrectsLateralError(t *testing.T) {
	circle := path.NewCircle(geom.Pos2D{}, 1, 0, 1)
	tr := newTestTracker(t, circle, 0.5)
	// 10cm left of the path start.
	_, tm := tr.TrackCommand(geom.NewPose(0, 1.1, 0), kinematics.Command{}, 0)
	require.InDelta(t, -0.1, tm["ey"], 1e-9)
	wRef := tm["wRef"]
	cmd, _ := tr.TrackCommand(geom.NewPose(0, 1.1, 0), kinematics.Command{}, 0)
	_, w := testModel.Twist(cmd)
	require.True(t, w < wRef, "w=%v should turn harder than %v", w, wRef)
}

func TestTrackerReferenceAdvances(t *testing.T) {
	line := path.NewCubic(geom.NewPose(0, 0, 0), geom.NewPose(3, 0, 0))
	tr := newTestTracker(t, line, 0)
	prevU := -1.0
	for ms := 0; ms <= int(tr.Profile().Duration()*1000)+500; ms += 100 {
		_, _, _, u, iter := tr.Reference(time.Duration(ms) * time.Millisecond)
		require.True(t, u >= prevU)
		require.True(t, iter < tr.Parametrizer().MaxIterations)
		prevU = u
	}
	require.Equal(t, 1.0, prevU)
}

func TestTrackerWithoutPath(t *testing.T) {
	tr := NewTracker(DefaultTrackerConfig(testModel, profile.Limits{}), nil)
	cmd, tm := tr.TrackCommand(geom.Pose2D{}, kinematics.Command{}, time.Second)
	require.Equal(t, kinematics.Command{}, cmd)
	require.Empty(t, tm)
	require.Equal(t, arclength.ErrNoPath, tr.SetPath(nil))
	require.Error(t, tr.SetPath(path.NewCircle(geom.Pos2D{}, 1, 0, 1)))
	require.Nil(t, tr.Profile())
}

func TestTrackerKeepsPathOnRejectedSetPath(t *testing.T) {
	circle := path.NewCircle(geom.Pos2D{}, 1, 0, 1)
	tr := newTestTracker(t, circle, 0.5)
	pose := geom.NewPose(0, 1.1, 0)
	before, tmBefore := tr.TrackCommand(pose, kinematics.Command{}, time.Second)
	require.NotEqual(t, kinematics.Command{}, before)
	prof := tr.Profile()

	require.Equal(t, arclength.ErrNoPath, tr.SetPath(nil))
	tr.Config.ProfilePoints = 1
	require.Equal(t, profile.ErrTooFewPoints, tr.SetPath(path.NewCircle(geom.Pos2D{}, 2, 0, 1)))

	require.True(t, tr.Profile() == prof)
	require.True(t, tr.Parametrizer().Path() == path.Path(circle))
	after, tmAfter := tr.TrackCommand(pose, kinematics.Command{}, time.Second)
	require.Equal(t, before, after)
	require.Equal(t, tmBefore, tmAfter)
}

func TestSinc(t *testing.T) {
	require.Equal(t, 1.0, sinc(0))
	require.InDelta(t, math.Sin(0.5)/0.5, sinc(0.5), 1e-15)
}
