package arclength

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/path"
)

// cubeLine is x = u^3 on the X axis: speed 3u^2, zero at u = 0.
type cubeLine struct{}

func (cubeLine) Position(u float64) geom.Pos2D         { return geom.Pos2D{X: u * u * u} }
func (cubeLine) Derivative(u float64) geom.Pos2D       { return geom.Pos2D{X: 3 * u * u} }
func (cubeLine) SecondDerivative(u float64) geom.Pos2D { return geom.Pos2D{X: 6 * u} }

// pause is a straight line which stops for u in [0.375, 0.625], on the
// default panel grid.
type pause struct{}

func (pause) Position(u float64) geom.Pos2D {
	switch {
	case u < 0.375:
		return geom.Pos2D{X: u}
	case u < 0.625:
		return geom.Pos2D{X: 0.375}
	default:
		return geom.Pos2D{X: u - 0.25}
	}
}

func (pause) Derivative(u float64) geom.Pos2D {
	if u >= 0.375 && u < 0.625 {
		return geom.Pos2D{}
	}
	return geom.Pos2D{X: 1}
}

func (pause) SecondDerivative(u float64) geom.Pos2D { return geom.Pos2D{} }

func testPaths() map[string]path.Path {
	return map[string]path.Path{
		"circle":  path.NewCircle(geom.Pos2D{X: 1, Y: -1}, 2, 0.3, 1),
		"ellipse": path.NewEllipse(geom.Pos2D{}, 3, 1, 0, 1),
		"cubic":   path.NewCubic(geom.NewPose(0, 0, 0), geom.NewPose(2, 1, math.Pi/2)),
		"quintic": path.NewQuintic(geom.NewPose(-1, 0, 1), geom.NewPose(1, 2, -1), 0.3, -0.2),
		"cube":    path.New(cubeLine{}),
	}
}

func TestFullLength(t *testing.T) {
	a, err := ForPath(path.NewCircle(geom.Pos2D{}, 2, 0, 1))
	require.NoError(t, err)
	require.InDelta(t, 4*math.Pi, a.FullLength(), 1e-9)

	a, err = ForPath(path.New(cubeLine{}))
	require.NoError(t, err)
	require.InDelta(t, 1, a.FullLength(), 1e-14)
	require.InDelta(t, 0.125, a.Integrate(0, 0.5), 1e-14)
}

func TestBoundaryExactness(t *testing.T) {
	for name, p := range testPaths() {
		t.Run(name, func(t *testing.T) {
			a, err := ForPath(p)
			require.NoError(t, err)
			full := a.FullLength()
			u, iter := a.ArcLengthToParameter(0, full)
			require.Equal(t, 0.0, u)
			require.Equal(t, 0, iter)
			u, iter = a.ArcLengthToParameter(full, full)
			require.Equal(t, 1.0, u)
			require.Equal(t, 0, iter)
			u, iter = a.ArcLengthToParameter(-1, full)
			require.Equal(t, 0.0, u)
			require.Equal(t, 0, iter)
			u, iter = a.ArcLengthToParameter(full*2, full)
			require.Equal(t, 1.0, u)
			require.Equal(t, 0, iter)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for name, p := range testPaths() {
		if name == "cube" {
			// speed vanishes at u = 0, a distance tolerance does not bound u there.
			continue
		}
		t.Run(name, func(t *testing.T) {
			a, err := ForPath(p)
			require.NoError(t, err)
			full := a.FullLength()
			for i := 0; i < 200; i++ {
				u := rnd.Float64()
				d := a.Integrate(0, u)
				got, iter := a.ArcLengthToParameter(d, full)
				require.True(t, iter < a.MaxIterations, "u=%v not converged", u)
				require.InDelta(t, u, got, 1e-6, "u=%v", u)
			}
		})
	}
}

func TestMonotonic(t *testing.T) {
	for name, p := range testPaths() {
		t.Run(name, func(t *testing.T) {
			a, err := ForPath(p)
			require.NoError(t, err)
			full := a.FullLength()
			prev := -1.0
			for i := 0; i <= 500; i++ {
				u, _ := a.ArcLengthToParameter(full*float64(i)/500, full)
				require.True(t, u >= prev, "step %d: %v < %v", i, u, prev)
				prev = u
			}
		})
	}
}

func TestMonotonicNearbyTargets(t *testing.T) {
	for name, p := range testPaths() {
		t.Run(name, func(t *testing.T) {
			a, err := ForPath(p)
			require.NoError(t, err)
			full := a.FullLength()
			for _, f := range []float64{0.1, 0.37, 0.5, 0.73, 0.9} {
				d1 := full * f
				u1, _ := a.ArcLengthToParameter(d1, full)
				for _, delta := range []float64{1e-9, 1e-10, 1e-11, 1e-12} {
					u2, _ := a.ArcLengthToParameter(d1+delta, full)
					require.True(t, u2 >= u1, "d=%v+%v: %v < %v", d1, delta, u2, u1)
				}
			}
		})
	}

	a, err := ForPath(path.New(cubeLine{}))
	require.NoError(t, err)
	u1, _ := a.ArcLengthToParameter(0.5, 1)
	u2, _ := a.ArcLengthToParameter(0.5+1e-11, 1)
	require.True(t, u2 >= u1, "%v < %v", u2, u1)
	require.InDelta(t, math.Cbrt(0.5), u1, 1e-14)
}

func TestConvergedOnLastIteration(t *testing.T) {
	a, err := ForPath(path.New(cubeLine{}))
	require.NoError(t, err)
	used := a.Invert(0.5, 1).Iterations
	require.True(t, used > 1)

	a.MaxIterations = used
	inv := a.Invert(0.5, 1)
	require.True(t, inv.Converged)
	require.Equal(t, used, inv.Iterations)

	a.MaxIterations = 1
	a.Tolerance = 1e-15
	inv = a.Invert(0.5, 1)
	require.False(t, inv.Converged)
	require.Equal(t, 1, inv.Iterations)
}

func TestZeroSpeedInterval(t *testing.T) {
	a, err := ForPath(path.New(pause{}))
	require.NoError(t, err)
	require.InDelta(t, 0.75, a.FullLength(), 1e-12)
	// the first guess lands inside the pause where Newton has no slope.
	u, iter := a.ArcLengthToParameter(0.4, -1)
	require.True(t, iter < a.MaxIterations)
	require.InDelta(t, 0.65, u, 1e-6)
	u, iter = a.ArcLengthToParameter(0.2, -1)
	require.True(t, iter < a.MaxIterations)
	require.InDelta(t, 0.2, u, 1e-6)
}

func TestZeroLengthPath(t *testing.T) {
	p := geom.NewPose(1, 1, 0)
	a, err := ForPath(path.NewCubic(p, p))
	require.NoError(t, err)
	require.Equal(t, 0.0, a.FullLength())
	for _, d := range []float64{-1, 0, 0.5, 10} {
		u, iter := a.ArcLengthToParameter(d, a.FullLength())
		require.Equal(t, 0.0, u)
		require.Equal(t, 0, iter)
	}
}

func TestIterationCap(t *testing.T) {
	a, err := ForPath(path.NewEllipse(geom.Pos2D{}, 5, 1, 0, 1))
	require.NoError(t, err)
	a.MaxIterations = 1
	a.Tolerance = 1e-15
	full := a.FullLength()
	u, iter := a.ArcLengthToParameter(full*0.3, full)
	require.Equal(t, 1, iter)
	require.True(t, u > 0 && u < 1)
}

func TestNoPath(t *testing.T) {
	a := New(nil)
	require.Equal(t, ErrNoPath, a.SetPath(nil))
	u, iter := a.ArcLengthToParameter(1, 2)
	require.Equal(t, 0.0, u)
	require.Equal(t, 0, iter)
}

func TestSetPathReplacesCache(t *testing.T) {
	a, err := ForPath(path.NewCircle(geom.Pos2D{}, 1, 0, 1))
	require.NoError(t, err)
	require.InDelta(t, 2*math.Pi, a.FullLength(), 1e-9)
	require.NoError(t, a.SetPath(path.NewCircle(geom.Pos2D{}, 3, 0, 1)))
	require.InDelta(t, 6*math.Pi, a.FullLength(), 1e-9)
}

func TestSurvey(t *testing.T) {
	a, err := ForPath(path.NewQuintic(geom.NewPose(0, 0, 0), geom.NewPose(3, 3, 0), 0, 0))
	require.NoError(t, err)
	res := Survey(a, 100)
	require.Equal(t, 100, res.Queries)
	require.Equal(t, 0, res.NotConverged)
	require.True(t, res.MaxIter > 0 && res.MaxIter < a.MaxIterations)
	require.True(t, res.AvgIter > 0 && res.AvgIter <= float64(res.MaxIter))
}
