// Package profile generates speed profiles along a path.
//
// The path is sampled at stations equally spaced in arc length. Each
// station is capped by the speed the wheels can sustain at its curvature
// and by the centripetal acceleration limit, then forward and backward
// passes enforce the translational acceleration limit, reduced by the
// centripetal acceleration already in use. Station times follow from
// constant acceleration between stations.
package profile

import (
	"errors"
	"math"
	"sort"

	"github.com/robotalks/trackdrive/pkg/arclength"
)

// Limits bound the profile.
type Limits struct {
	// WheelBase is the distance between the wheels.
	WheelBase float64
	// MaxWheelSpeed is the saturation speed of a single wheel.
	MaxWheelSpeed float64
	// MaxCentripetal is the maximum centripetal acceleration v*w.
	MaxCentripetal float64
	// MaxAccel is the maximum translational acceleration.
	MaxAccel float64
}

// Datapoint is a profile station.
type Datapoint struct {
	U float64 // path parameter
	S float64 // arc length
	V float64 // speed
	T float64 // time to reach
}

// Profile is a generated speed profile.
type Profile struct {
	Points []Datapoint
}

var (
	// ErrTooFewPoints indicates less than two stations were requested.
	ErrTooFewPoints = errors.New("at least 2 profile points required")
	// ErrNegativeSpeed indicates a negative boundary speed.
	ErrNegativeSpeed = errors.New("boundary speeds must not be negative")
	// ErrInvalidLimits indicates a non-positive limit.
	ErrInvalidLimits = errors.New("profile limits must be positive")
	// ErrStalled indicates two consecutive stations with zero speed.
	ErrStalled = errors.New("profile stalls between stations")
)

// MaxSpeedAt is the highest speed sustainable at curvature k.
func (l Limits) MaxSpeedAt(k float64) float64 {
	v := l.MaxWheelSpeed / (1 + l.WheelBase*math.Abs(k)/2)
	if k != 0 {
		v = math.Min(v, math.Sqrt(l.MaxCentripetal/math.Abs(k)))
	}
	return v
}

// reachable is the highest speed reachable over distance ds from speed
// v at curvature k.
func (l Limits) reachable(v, k, ds float64) float64 {
	ratio := math.Min(math.Abs(v*v*k)/l.MaxCentripetal, 1)
	at := math.Sqrt(1-ratio*ratio) * l.MaxAccel
	return math.Sqrt(v*v + 2*at*ds)
}

func (l Limits) valid() bool {
	return l.WheelBase > 0 && l.MaxWheelSpeed > 0 && l.MaxCentripetal > 0 && l.MaxAccel > 0
}

// Generate builds a profile with n stations over the path associated
// with a, starting at vStart and ending at vEnd.
func Generate(a *arclength.Parametrizer, n int, vStart, vEnd float64, lim Limits) (*Profile, error) {
	if a.Path() == nil {
		return nil, arclength.ErrNoPath
	}
	if n < 2 {
		return nil, ErrTooFewPoints
	}
	if vStart < 0 || vEnd < 0 {
		return nil, ErrNegativeSpeed
	}
	if !lim.valid() {
		return nil, ErrInvalidLimits
	}
	full := a.FullLength()
	ds := full / float64(n-1)
	pts := make([]Datapoint, n)
	curv := make([]float64, n)
	for i := range pts {
		s := ds * float64(i)
		if i == n-1 {
			s = full
		}
		u, _ := a.ArcLengthToParameter(s, full)
		curv[i] = a.Path().Curvature(u)
		pts[i] = Datapoint{U: u, S: s, V: lim.MaxSpeedAt(curv[i])}
	}

	pts[0].V = vStart
	for i := 1; i < n; i++ {
		pts[i].V = math.Min(pts[i].V, lim.reachable(pts[i-1].V, curv[i-1], ds))
	}
	pts[n-1].V = vEnd
	for i := n - 2; i >= 0; i-- {
		pts[i].V = math.Min(pts[i].V, lim.reachable(pts[i+1].V, curv[i+1], ds))
	}

	for i := 1; i < n; i++ {
		sum := pts[i].V + pts[i-1].V
		if sum <= 0 {
			if ds == 0 {
				pts[i].T = pts[i-1].T
				continue
			}
			return nil, ErrStalled
		}
		pts[i].T = pts[i-1].T + 2*ds/sum
	}
	return &Profile{Points: pts}, nil
}

// Duration is the time to reach the last station.
func (p *Profile) Duration() float64 {
	return p.Points[len(p.Points)-1].T
}

// Length is the arc length covered.
func (p *Profile) Length() float64 {
	return p.Points[len(p.Points)-1].S
}

// At returns the arc length reached and the target speed at time t,
// holding the first station before 0 and the last station after the end.
func (p *Profile) At(t float64) (s, v float64) {
	pts := p.Points
	if t <= 0 {
		return pts[0].S, pts[0].V
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].T >= t })
	if i >= len(pts) {
		last := pts[len(pts)-1]
		return last.S, last.V
	}
	if i == 0 {
		return pts[0].S, pts[0].V
	}
	p0, p1 := pts[i-1], pts[i]
	dt := p1.T - p0.T
	if dt <= 0 {
		return p1.S, p1.V
	}
	// constant acceleration between stations.
	tau := t - p0.T
	acc := (p1.V - p0.V) / dt
	return p0.S + p0.V*tau + acc*tau*tau/2, p0.V + acc*tau
}
