package path

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/trackdrive/pkg/geom"
)

func bezier(ctl []geom.Pos2D, u float64) geom.Pos2D {
	pts := append([]geom.Pos2D(nil), ctl...)
	for n := len(pts) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			pts[i] = pts[i].Scale(1 - u).Add(pts[i+1].Scale(u))
		}
	}
	return pts[0]
}

func TestCircle(t *testing.T) {
	c := NewCircle(geom.Pos2D{X: 1, Y: 2}, 3, 0, 1)
	require.InDelta(t, 1, c.Position(0).X, 1e-12)
	require.InDelta(t, 5, c.Position(0).Y, 1e-12)
	for _, u := range []float64{0, 0.1, 0.5, 0.77, 1} {
		require.InDelta(t, 2*math.Pi*3, c.Speed(u), 1e-9)
		require.InDelta(t, -1./3, c.Curvature(u), 1e-9)
	}
	// clockwise from the top.
	require.InDelta(t, 0, c.Heading(0).Radians(), 1e-12)
	require.InDelta(t, -math.Pi/2, c.Heading(0.25).Radians(), 1e-12)
}

func TestEllipseSpeedVaries(t *testing.T) {
	e := NewEllipse(geom.Pos2D{}, 2, 1, 0, 1)
	require.InDelta(t, 2*math.Pi*2, e.Speed(0), 1e-9)
	require.InDelta(t, 2*math.Pi*1, e.Speed(0.25), 1e-9)
}

func TestCubicBoundaries(t *testing.T) {
	start, end := geom.NewPose(0, 0, 0), geom.NewPose(1, 1, math.Pi/2)
	c := NewCubic(start, end)
	require.InDelta(t, 0, c.Position(0).DistanceTo(start.Pos2D), 1e-12)
	require.InDelta(t, 0, c.Position(1).DistanceTo(end.Pos2D), 1e-12)
	require.InDelta(t, 0, c.Heading(0).Radians(), 1e-12)
	require.InDelta(t, math.Pi/2, c.Heading(1).Radians(), 1e-12)
	require.InDelta(t, math.Sqrt2, c.Speed(0), 1e-12)
}

func TestCubicDegenerate(t *testing.T) {
	p := geom.NewPose(2, 3, 1)
	c := NewCubic(p, p)
	for _, u := range []float64{0, 0.3, 1} {
		require.Equal(t, 0.0, c.Speed(u))
		require.Equal(t, 0.0, c.Curvature(u))
		require.InDelta(t, 0, c.Position(u).DistanceTo(p.Pos2D), 1e-12)
	}
}

func TestQuinticBoundaries(t *testing.T) {
	start, end := geom.NewPose(-1, 0.5, 0.3), geom.NewPose(2, -1, -2)
	q := NewQuintic(start, end, 0.5, -0.25)
	require.NoError(t, q.Prepare())
	require.InDelta(t, 0, q.Position(0).DistanceTo(start.Pos2D), 1e-9)
	require.InDelta(t, 0, q.Position(1).DistanceTo(end.Pos2D), 1e-9)
	require.InDelta(t, 0, q.Heading(0).Sub(start.Orientation).Radians(), 1e-9)
	require.InDelta(t, 0, q.Heading(1).Sub(end.Orientation).Radians(), 1e-9)
	require.InDelta(t, 0.5, q.Curvature(0), 1e-9)
	require.InDelta(t, -0.25, q.Curvature(1), 1e-9)
}

func TestQuinticMatchesBezier(t *testing.T) {
	q := NewQuintic(geom.NewPose(0, 0, 1), geom.NewPose(3, 1, -0.5), 0.2, 0.1)
	g := q.Geometry.(*Quintic)
	for _, u := range []float64{0, 0.2, 0.5, 0.9, 1} {
		require.InDelta(t, 0, q.Position(u).DistanceTo(bezier(g.Control[:], u)), 1e-9)
	}
}

func TestQuinticEvaluatesWithoutPrepare(t *testing.T) {
	cases := []struct {
		name       string
		start, end geom.Pose2D
	}{
		{"degenerate", geom.NewPose(1, 2, 0.5), geom.NewPose(1, 2, 0.5)},
		{"regular", geom.NewPose(1, 2, 0), geom.NewPose(4, 2, 0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := NewQuintic(c.start, c.end, 0, 0)
			var p geom.Pos2D
			require.NotPanics(t, func() { p = q.Position(0) })
			require.InDelta(t, 0, p.DistanceTo(c.start.Pos2D), 1e-12)
			require.NoError(t, q.Prepare())
			require.InDelta(t, 0, q.Position(1).DistanceTo(c.end.Pos2D), 1e-9)
		})
	}
}

func TestPoseOnPath(t *testing.T) {
	c := NewCircle(geom.Pos2D{}, 1, math.Pi/2, 1)
	p := Pose(c, 0)
	require.InDelta(t, 1, p.X, 1e-12)
	require.InDelta(t, 0, p.Y, 1e-12)
	require.InDelta(t, -math.Pi/2, p.Heading(), 1e-12)
}

func TestParameterClamped(t *testing.T) {
	c := NewCubic(geom.NewPose(0, 0, 0), geom.NewPose(1, 0, 0))
	require.Equal(t, c.Speed(1), c.Speed(1.5))
	require.Equal(t, c.Heading(0), c.Heading(-1))
}

func TestParse(t *testing.T) {
	testCases := []struct {
		spec  string
		valid bool
		start geom.Pos2D
	}{
		{"circle:0,0,1", true, geom.Pos2D{X: 0, Y: 1}},
		{"circle:1,1,2,90,0.5", true, geom.Pos2D{X: 3, Y: 1}},
		{"ellipse:0,0,2,1", true, geom.Pos2D{X: 0, Y: 1}},
		{"cubic:0,0,0,1,1,90", true, geom.Pos2D{}},
		{"quintic:1,2,0,3,4,0", true, geom.Pos2D{X: 1, Y: 2}},
		{"quintic:1,2,0,3,4,0,0.5,-0.5", true, geom.Pos2D{X: 1, Y: 2}},
		{"quintic:1,2,0,3,4,0,0.5", false, geom.Pos2D{}},
		{"circle:0,0,-1", false, geom.Pos2D{}},
		{"circle:0,0", false, geom.Pos2D{}},
		{"circle:0,x,1", false, geom.Pos2D{}},
		{"spiral:1", false, geom.Pos2D{}},
		{"", false, geom.Pos2D{}},
	}
	for _, tc := range testCases {
		t.Run(tc.spec, func(t *testing.T) {
			p, err := Parse(tc.spec)
			if !tc.valid {
				require.Error(t, err)
				require.IsType(t, &ErrInvalidSpec{}, err)
				return
			}
			require.NoError(t, err)
			pos := p.Position(0)
			require.InDelta(t, tc.start.X, pos.X, 1e-9)
			require.InDelta(t, tc.start.Y, pos.Y, 1e-9)
		})
	}
}
