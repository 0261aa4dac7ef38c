// Package arclength converts travelled distance along a parametric path
// into the path parameter.
package arclength

import (
	"errors"
	"math"

	"github.com/golang/glog"

	"github.com/robotalks/trackdrive/pkg/path"
)

// Defaults
const (
	DefaultTolerance     = 1e-9
	DefaultMaxIterations = 50

	// below this path speed a Newton step is replaced by bisection.
	minNewtonSpeed = 1e-9
	// steps after reaching the tolerance, stopping early once a step
	// moves u by at most polishUlps ulp.
	polishSteps = 3
	polishUlps  = 4
)

// ErrNoPath indicates the parametrizer has no associated path.
var ErrNoPath = errors.New("no path associated")

// Parametrizer answers arc-length queries for one path at a time. It
// owns a quadrature Workspace, so each controller (or each goroutine)
// needs its own Parametrizer.
type Parametrizer struct {
	// Tolerance is the accepted |s(u) - target| in path length units.
	Tolerance float64
	// MaxIterations caps the inversion.
	MaxIterations int

	ws   *Workspace
	path path.Path
	full float64
}

// New creates a Parametrizer using ws, or a default Workspace if nil.
func New(ws *Workspace) *Parametrizer {
	if ws == nil {
		ws = NewWorkspace(0, 0)
	}
	return &Parametrizer{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		ws:            ws,
	}
}

// ForPath creates a Parametrizer with a default Workspace bound to p.
func ForPath(p path.Path) (*Parametrizer, error) {
	a := New(nil)
	if err := a.SetPath(p); err != nil {
		return nil, err
	}
	return a, nil
}

// SetPath associates the parametrizer with p: the path's one-time setup
// runs and the cached full length is recomputed.
func (a *Parametrizer) SetPath(p path.Path) error {
	if p == nil {
		return ErrNoPath
	}
	if prep, ok := p.(path.Preparer); ok {
		if err := prep.Prepare(); err != nil {
			return err
		}
	}
	a.path = p
	a.full = a.Integrate(0, 1)
	return nil
}

// Path returns the associated path.
func (a *Parametrizer) Path() path.Path {
	return a.path
}

// Integrate returns the length of the path between uStart and uEnd.
func (a *Parametrizer) Integrate(uStart, uEnd float64) float64 {
	if a.path == nil {
		return 0
	}
	return a.ws.Integrate(a.path.Speed, clamp(uStart), clamp(uEnd))
}

// FullLength is the cached length over [0, 1].
func (a *Parametrizer) FullLength() float64 {
	return a.full
}

// Inversion is the result of one arc-length inversion.
type Inversion struct {
	U          float64
	Iterations int
	// Converged is false when MaxIterations ran out before the tolerance
	// was reached.
	Converged bool
}

// ArcLengthToParameter finds u with s(u) = target. full is the path
// length, FullLength() when negative. The returned iteration count equals
// MaxIterations when the tolerance was not reached, in which case u is the
// best estimate seen.
func (a *Parametrizer) ArcLengthToParameter(target, full float64) (u float64, iterations int) {
	inv := a.Invert(target, full)
	if !inv.Converged {
		return inv.U, a.maxIterations()
	}
	return inv.U, inv.Iterations
}

// Invert is ArcLengthToParameter reporting convergence explicitly.
//
// Newton's method on s(u) - target uses the path speed as derivative,
// within a shrinking [lo, hi] bracket; a step leaving the bracket or
// taken where the speed vanishes is replaced by bisection. Once within
// Tolerance, up to polishSteps more steps run until the step in u is a
// few ulp, so u follows the target down to rounding and nearby targets
// keep their order.
func (a *Parametrizer) Invert(target, full float64) Inversion {
	if full < 0 {
		full = a.full
	}
	if a.path == nil || full <= 0 || target <= 0 {
		return Inversion{Converged: true}
	}
	if target >= full {
		return Inversion{U: 1, Converged: true}
	}
	tol := a.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	maxIter := a.maxIterations()

	lo, hi := 0.0, 1.0
	u := target / full
	best, bestErr := u, math.Inf(1)
	polish := 0
	for iter := 1; iter <= maxIter; iter++ {
		diff := a.Integrate(0, u) - target
		if e := math.Abs(diff); e < bestErr {
			best, bestErr = u, e
		}
		if diff == 0 {
			return Inversion{U: u, Iterations: iter, Converged: true}
		}
		if diff > 0 {
			hi = u
		} else {
			lo = u
		}
		next := math.NaN()
		if v := a.path.Speed(u); v > minNewtonSpeed {
			next = u - diff/v
		}
		if !(next > lo && next < hi) {
			next = (lo + hi) / 2
		}
		if bestErr < tol {
			if polish >= polishSteps || math.Abs(next-u) <= polishUlps*ulp(u) {
				return Inversion{U: best, Iterations: iter, Converged: true}
			}
			polish++
		}
		u = next
	}
	if bestErr < tol {
		return Inversion{U: best, Iterations: maxIter, Converged: true}
	}
	if glog.V(2) {
		glog.Infof("arc length inversion not converged: target=%g err=%g after %d iterations", target, bestErr, maxIter)
	}
	return Inversion{U: best, Iterations: maxIter}
}

func ulp(u float64) float64 {
	return math.Nextafter(u, math.Inf(1)) - u
}

func (a *Parametrizer) maxIterations() int {
	if a.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return a.MaxIterations
}

func clamp(u float64) float64 {
	if u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}
