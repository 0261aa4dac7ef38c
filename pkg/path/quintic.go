package path

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/robotalks/trackdrive/pkg/geom"
)

const quinticDegree = 5

// Quintic is a quintic Bezier blend between two poses matching position,
// heading and curvature at both ends. The tangent magnitude at both ends
// is the straight line distance between the endpoints.
//
// Evaluation uses the power basis, obtained once per curve by inverting
// the power-to-Bernstein basis matrix against the control points.
type Quintic struct {
	Start, End   geom.Pose2D
	StartK, EndK float64
	Control      [quinticDegree + 1]geom.Pos2D
	prepareOnce  sync.Once
	poly2
}

// NewQuintic creates a quintic blend. startK and endK are the boundary
// curvatures, e.g. derived from the wheel speeds at both ends.
func NewQuintic(start, end geom.Pose2D, startK, endK float64) *Curve {
	q := &Quintic{Start: start, End: end, StartK: startK, EndK: endK}
	d := start.DistanceTo(end.Pos2D)
	t0, t1 := start.Orientation.Project(d), end.Orientation.Project(d)
	// p'' = k |p'|^2 n, n the left normal.
	a0 := start.Orientation.AddRadians(math.Pi / 2).Project(startK * d * d)
	a1 := end.Orientation.AddRadians(math.Pi / 2).Project(endK * d * d)
	q.Control = [quinticDegree + 1]geom.Pos2D{
		start.Pos2D,
		start.Pos2D.Add(t0.Scale(1. / 5)),
		start.Pos2D.Add(t0.Scale(2. / 5)).Add(a0.Scale(1. / 20)),
		end.Pos2D.Sub(t1.Scale(2. / 5)).Add(a1.Scale(1. / 20)),
		end.Pos2D.Sub(t1.Scale(1. / 5)),
		end.Pos2D,
	}
	return New(q)
}

// Prepare implements Preparer. It never fails: the basis matrix is lower
// triangular with a nonzero diagonal.
func (q *Quintic) Prepare() error {
	q.prepareOnce.Do(q.invertBasis)
	return nil
}

func (q *Quintic) invertBasis() {
	const n = quinticDegree + 1
	// control point i = sum_j C(i,j)/C(5,j) c_j
	basis := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			basis.Set(i, j, binomial(i, j)/binomial(quinticDegree, j))
		}
	}
	points := mat.NewDense(n, 2, nil)
	for i, p := range q.Control {
		points.Set(i, 0, p.X)
		points.Set(i, 1, p.Y)
	}
	var coeffs mat.Dense
	if err := coeffs.Solve(basis, points); err != nil {
		panic("path: quintic basis solve: " + err.Error())
	}
	q.poly2 = newPoly2(mat.Col(nil, 0, &coeffs), mat.Col(nil, 1, &coeffs))
}

func binomial(n, k int) float64 {
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}
	return r
}

// Position implements Geometry.
func (q *Quintic) Position(u float64) geom.Pos2D {
	q.prepareOnce.Do(q.invertBasis)
	return q.position(u)
}

// Derivative implements Geometry.
func (q *Quintic) Derivative(u float64) geom.Pos2D {
	q.prepareOnce.Do(q.invertBasis)
	return q.derivative(u)
}

// SecondDerivative implements Geometry.
func (q *Quintic) SecondDerivative(u float64) geom.Pos2D {
	q.prepareOnce.Do(q.invertBasis)
	return q.secondDerivative(u)
}
