package path

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/trackdrive/pkg/geom"
)

// ErrInvalidSpec indicates a malformed path spec.
type ErrInvalidSpec struct {
	Spec   string
	Reason string
}

// Error implements error.
func (e *ErrInvalidSpec) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Spec, e.Reason)
}

// Parse creates a path from a spec of the form kind:v1,v2,... with angles
// in degrees:
//
//	circle:cx,cy,r[,phase[,turns]]
//	ellipse:cx,cy,a,b[,phase[,turns]]
//	cubic:x0,y0,h0,x1,y1,h1
//	quintic:x0,y0,h0,x1,y1,h1[,k0,k1]
func Parse(spec string) (Path, error) {
	kind, args, _ := strings.Cut(spec, ":")
	var vals []float64
	if args != "" {
		for _, s := range strings.Split(args, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, &ErrInvalidSpec{Spec: spec, Reason: err.Error()}
			}
			vals = append(vals, v)
		}
	}
	arity := func(min, max int) error {
		if len(vals) < min || len(vals) > max {
			return &ErrInvalidSpec{Spec: spec, Reason: fmt.Sprintf("%s takes %d to %d values", kind, min, max)}
		}
		return nil
	}
	opt := func(i int, def float64) float64 {
		if i < len(vals) {
			return vals[i]
		}
		return def
	}
	pose := func(i int) geom.Pose2D {
		return geom.Pose2D{
			Pos2D:       geom.Pos2D{X: vals[i], Y: vals[i+1]},
			Orientation: geom.AngleFromDegrees(vals[i+2]),
		}
	}
	switch kind {
	case "circle":
		if err := arity(3, 5); err != nil {
			return nil, err
		}
		if vals[2] <= 0 {
			return nil, &ErrInvalidSpec{Spec: spec, Reason: "radius must be positive"}
		}
		return NewCircle(geom.Pos2D{X: vals[0], Y: vals[1]}, vals[2],
			geom.AngleFromDegrees(opt(3, 0)).Radians(), opt(4, 1)), nil
	case "ellipse":
		if err := arity(4, 6); err != nil {
			return nil, err
		}
		if vals[2] <= 0 || vals[3] <= 0 {
			return nil, &ErrInvalidSpec{Spec: spec, Reason: "axes must be positive"}
		}
		return NewEllipse(geom.Pos2D{X: vals[0], Y: vals[1]}, vals[2], vals[3],
			geom.AngleFromDegrees(opt(4, 0)).Radians(), opt(5, 1)), nil
	case "cubic":
		if err := arity(6, 6); err != nil {
			return nil, err
		}
		return NewCubic(pose(0), pose(3)), nil
	case "quintic":
		if err := arity(6, 8); err != nil {
			return nil, err
		}
		if len(vals) == 7 {
			return nil, &ErrInvalidSpec{Spec: spec, Reason: "both end curvatures required"}
		}
		return NewQuintic(pose(0), pose(3), opt(6, 0), opt(7, 0)), nil
	}
	return nil, &ErrInvalidSpec{Spec: spec, Reason: "unknown kind " + strconv.Quote(kind)}
}
