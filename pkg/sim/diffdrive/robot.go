// Package diffdrive simulates a differential-drive robot whose commands
// take effect some ticks after they are sent.
package diffdrive

import (
	"errors"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
)

// Config defines the simulated robot.
type Config struct {
	Model kinematics.Model
	Start geom.Pose2D
	// Initial is the command in effect until the first sent command
	// arrives.
	Initial kinematics.Command
	// Latency is the number of ticks between sending a command and the
	// robot executing it.
	Latency int
	Tick    time.Duration
	// MaxAccel limits the change of each wheel speed, 0 for unlimited.
	MaxAccel float64
	// NoiseXY and NoiseHeading are the standard deviations of the
	// measurement noise.
	NoiseXY, NoiseHeading float64
	Seed                  uint64
}

var (
	// ErrNegativeLatency indicates a negative Latency.
	ErrNegativeLatency = errors.New("latency must not be negative")
	// ErrInvalidTick indicates a non-positive Tick.
	ErrInvalidTick = errors.New("tick must be positive")
)

// Robot is the ground truth of the simulation.
type Robot struct {
	model    kinematics.Model
	dt       float64
	latency  int
	maxDelta float64

	pose    geom.Pose2D
	wheels  kinematics.Command
	desired kinematics.Command
	pending []queued
	ticks   int

	noise *noise
}

type queued struct {
	cmd kinematics.Command
	due int
}

type noise struct {
	xy, heading distuv.Normal
}

// New creates a Robot.
func New(conf Config) (*Robot, error) {
	if conf.Latency < 0 {
		return nil, ErrNegativeLatency
	}
	if conf.Tick <= 0 {
		return nil, ErrInvalidTick
	}
	if !(conf.Model.WheelBase > 0) {
		return nil, kinematics.ErrInvalidWheelBase
	}
	r := &Robot{
		model:   conf.Model,
		dt:      conf.Tick.Seconds(),
		latency: conf.Latency,
		pose:    conf.Start,
		wheels:  conf.Initial,
		desired: conf.Initial,
	}
	if conf.MaxAccel > 0 {
		r.maxDelta = conf.MaxAccel * r.dt
	}
	if conf.NoiseXY > 0 || conf.NoiseHeading > 0 {
		src := rand.NewPCG(conf.Seed, conf.Seed^0x9e3779b97f4a7c15)
		r.noise = &noise{
			xy:      distuv.Normal{Sigma: conf.NoiseXY, Src: src},
			heading: distuv.Normal{Sigma: conf.NoiseHeading, Src: src},
		}
	}
	return r, nil
}

// Send queues a command.
func (r *Robot) Send(cmd kinematics.Command) {
	r.pending = append(r.pending, queued{cmd: cmd, due: r.ticks + r.latency})
}

// Step advances the simulation by one tick. The newest command sent at
// least Latency ticks ago is executed, with wheel speeds slewed toward it.
func (r *Robot) Step() geom.Pose2D {
	n := 0
	for ; n < len(r.pending) && r.pending[n].due <= r.ticks; n++ {
		r.desired = r.pending[n].cmd
	}
	r.pending = append(r.pending[:0], r.pending[n:]...)
	r.wheels.Left = slew(r.wheels.Left, r.desired.Left, r.maxDelta)
	r.wheels.Right = slew(r.wheels.Right, r.desired.Right, r.maxDelta)
	r.pose = r.model.Advance(r.pose, r.wheels, r.dt)
	r.ticks++
	return r.pose
}

// Pose is the true pose.
func (r *Robot) Pose() geom.Pose2D {
	return r.pose
}

// Wheels returns the wheel speeds currently executed.
func (r *Robot) Wheels() kinematics.Command {
	return r.wheels
}

// Pending returns the number of commands sent but not executed.
func (r *Robot) Pending() int {
	return len(r.pending)
}

// Ticks is the number of steps taken.
func (r *Robot) Ticks() int {
	return r.ticks
}

// Measure returns the true pose with measurement noise.
func (r *Robot) Measure() geom.Pose2D {
	if r.noise == nil {
		return r.pose
	}
	return geom.Pose2D{
		Pos2D: geom.Pos2D{
			X: r.pose.X + r.noise.xy.Rand(),
			Y: r.pose.Y + r.noise.xy.Rand(),
		},
		Orientation: r.pose.Orientation.AddRadians(r.noise.heading.Rand()),
	}
}

func slew(current, desired, maxDelta float64) float64 {
	if maxDelta <= 0 {
		return desired
	}
	switch d := desired - current; {
	case d > maxDelta:
		return current + maxDelta
	case d < -maxDelta:
		return current - maxDelta
	}
	return desired
}
