package laws

import (
	"math"
	"time"

	"github.com/robotalks/trackdrive/pkg/arclength"
	"github.com/robotalks/trackdrive/pkg/control"
	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/path"
	"github.com/robotalks/trackdrive/pkg/profile"
)

// TrackerConfig configures a Tracker.
type TrackerConfig struct {
	Model  kinematics.Model
	Limits profile.Limits
	// ProfilePoints is the number of profile stations.
	ProfilePoints int
	// StartSpeed and EndSpeed are the speeds at both ends of the path.
	StartSpeed, EndSpeed float64
	// Zeta and B are the damping and the gain of the nonlinear
	// tracking law.
	Zeta, B float64
}

// DefaultTrackerConfig returns gains and profile resolution suitable for
// small differential-drive robots.
func DefaultTrackerConfig(model kinematics.Model, limits profile.Limits) TrackerConfig {
	return TrackerConfig{
		Model:         model,
		Limits:        limits,
		ProfilePoints: 100,
		Zeta:          0.7,
		B:             30,
	}
}

// Tracker follows a path in time: the speed profile gives the reference
// arc length at the elapsed time, the parametrizer turns it into the
// path parameter, and the reference pose and speeds at that parameter
// feed the nonlinear unicycle tracking law
//
//	v = vr cos(eth) + k ex
//	w = wr + B vr sin(eth)/eth ey + k eth,  k = 2 Zeta sqrt(wr^2 + B vr^2)
//
// with (ex, ey, eth) the reference pose in the robot frame.
type Tracker struct {
	Config TrackerConfig

	ws      *arclength.Workspace
	param   *arclength.Parametrizer
	profile *profile.Profile
}

// NewTracker creates a Tracker using ws for arc-length integration.
func NewTracker(conf TrackerConfig, ws *arclength.Workspace) *Tracker {
	if ws == nil {
		ws = arclength.NewWorkspace(0, 0)
	}
	return &Tracker{Config: conf, ws: ws, param: arclength.New(ws)}
}

// SetPath implements control.TrackingLaw. A rejected path leaves the
// current path and profile in place.
func (t *Tracker) SetPath(p path.Path) error {
	param := arclength.New(t.ws)
	param.Tolerance, param.MaxIterations = t.param.Tolerance, t.param.MaxIterations
	if err := param.SetPath(p); err != nil {
		return err
	}
	prof, err := profile.Generate(param, t.Config.ProfilePoints, t.Config.StartSpeed, t.Config.EndSpeed, t.Config.Limits)
	if err != nil {
		return err
	}
	t.param, t.profile = param, prof
	return nil
}

// Profile returns the speed profile of the current path.
func (t *Tracker) Profile() *profile.Profile {
	return t.profile
}

// Parametrizer returns the arc-length parametrizer of the current path.
func (t *Tracker) Parametrizer() *arclength.Parametrizer {
	return t.param
}

// Reference returns the reference pose and speeds at elapsed time.
func (t *Tracker) Reference(elapsed time.Duration) (ref geom.Pose2D, vr, wr, u float64, iter int) {
	s, vr := t.profile.At(elapsed.Seconds())
	u, iter = t.param.ArcLengthToParameter(s, t.param.FullLength())
	p := t.param.Path()
	return path.Pose(p, u), vr, vr * p.Curvature(u), u, iter
}

// TrackCommand implements control.TrackingLaw.
func (t *Tracker) TrackCommand(estimated geom.Pose2D, prev kinematics.Command, elapsed time.Duration) (kinematics.Command, control.Telemetry) {
	tm := make(control.Telemetry)
	if t.profile == nil {
		return kinematics.Command{}, tm
	}
	ref, vr, wr, u, iter := t.Reference(elapsed)
	e := estimated.InFrame(ref.Pos2D)
	eth := ref.Orientation.Sub(estimated.Orientation).Radians()
	k := 2 * t.Config.Zeta * math.Sqrt(wr*wr+t.Config.B*vr*vr)
	v := vr*math.Cos(eth) + k*e.X
	w := wr + t.Config.B*vr*sinc(eth)*e.Y + k*eth
	cmd := saturate(t.Config.Model.Wheels(v, w), t.Config.Limits.MaxWheelSpeed)
	return cmd, tm.With("u", u).
		With("iterations", float64(iter)).
		With("vRef", vr).
		With("wRef", wr).
		With("ex", e.X).
		With("ey", e.Y).
		With("eTheta", eth).
		With("prevLeft", prev.Left).
		With("prevRight", prev.Right)
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-6 {
		return 1 - x*x/6
	}
	return math.Sin(x) / x
}
