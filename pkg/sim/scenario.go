// Package sim runs controllers against simulated robots.
package sim

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/robotalks/trackdrive/pkg/belief"
	"github.com/robotalks/trackdrive/pkg/control"
	"github.com/robotalks/trackdrive/pkg/control/delay"
	"github.com/robotalks/trackdrive/pkg/drive"
	fx "github.com/robotalks/trackdrive/pkg/framework"
	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/path"
	"github.com/robotalks/trackdrive/pkg/sim/diffdrive"
)

// Config defines the robot and controller of a scenario.
type Config struct {
	Model kinematics.Model
	Start geom.Pose2D
	Tick  time.Duration
	// Latency is the command latency of the simulated robot in ticks.
	Latency int
	// Depth is the in-flight depth the controller compensates.
	Depth    int
	MaxAccel float64

	NoiseXY, NoiseHeading float64
	Seed                  uint64

	// Ticks bounds the number of ticks run.
	Ticks int
}

// ErrNoTicks indicates a scenario configured to run no tick.
var ErrNoTicks = errors.New("scenario must run at least one tick")

// Frame is the record of one tick.
type Frame struct {
	drive.Step
	// Truth is the true pose when the pose was measured.
	Truth geom.Pose2D
}

// Trace is the sequence of frames of a run.
type Trace []Frame

// Final returns the last frame.
func (t Trace) Final() Frame {
	if len(t) == 0 {
		return Frame{}
	}
	return t[len(t)-1]
}

// Scenario is a closed loop of a Delay-Compensated Controller and a
// simulated robot, driven by a tick loop on a mock clock.
type Scenario struct {
	Robot      *diffdrive.Robot
	Controller *delay.Controller
	Driver     *drive.Driver
	Clock      *clock.Mock
	// Done stops the run early when it returns true.
	Done func(Frame) bool

	ticks    int
	interval time.Duration
}

func (c Config) robot() (*diffdrive.Robot, error) {
	return diffdrive.New(diffdrive.Config{
		Model:        c.Model,
		Start:        c.Start,
		Latency:      c.Latency,
		Tick:         c.Tick,
		MaxAccel:     c.MaxAccel,
		NoiseXY:      c.NoiseXY,
		NoiseHeading: c.NoiseHeading,
		Seed:         c.Seed,
	})
}

func (c Config) controller(clk clock.Clock) delay.Config {
	return delay.Config{Depth: c.Depth, Tick: c.Tick, Model: c.Model, Clock: clk}
}

// NewPoint creates a scenario driving to target.
func NewPoint(conf Config, law control.PointLaw, target geom.Pose2D, finalSpeed float64) (*Scenario, error) {
	mock := clock.NewMock()
	ctrl, err := delay.NewPoint(law, conf.controller(mock))
	if err != nil {
		return nil, err
	}
	s, err := newScenario(conf, mock, ctrl)
	if err != nil {
		return nil, err
	}
	s.Driver.SetTarget(target, finalSpeed)
	return s, nil
}

// NewTrack creates a scenario following p.
func NewTrack(conf Config, law control.TrackingLaw, p path.Path) (*Scenario, error) {
	mock := clock.NewMock()
	ctrl, err := delay.NewTracking(law, p, conf.controller(mock))
	if err != nil {
		return nil, err
	}
	return newScenario(conf, mock, ctrl)
}

func newScenario(conf Config, mock *clock.Mock, ctrl *delay.Controller) (*Scenario, error) {
	if conf.Ticks <= 0 {
		return nil, ErrNoTicks
	}
	robot, err := conf.robot()
	if err != nil {
		return nil, err
	}
	return &Scenario{
		Robot:      robot,
		Controller: ctrl,
		Driver:     &drive.Driver{Controller: ctrl, Slot: belief.NewSlot()},
		Clock:      mock,
		ticks:      conf.Ticks,
		interval:   conf.Tick,
	}, nil
}

// Run runs the scenario until Done or the tick bound.
func (s *Scenario) Run(ctx context.Context) (Trace, error) {
	var trace Trace
	truth := s.Robot.Pose()
	s.Driver.Sink = drive.SinkFunc(func(_ context.Context, cmd kinematics.Command) error {
		s.Robot.Send(cmd)
		return nil
	})
	s.Driver.Observers = append(s.Driver.Observers, drive.ObserveFunc(func(step drive.Step) {
		trace = append(trace, Frame{Step: step, Truth: truth})
	}))

	loop := fx.NewLoop(s.interval)
	loop.Clock = s.Clock
	loop.AddStage(fx.PhaseSense, fx.StepFunc(func(tc fx.TickContext) error {
		truth = s.Robot.Pose()
		s.Driver.Slot.Publish(s.Robot.Measure(), tc.Time())
		return nil
	}))
	loop.Add(s.Driver)
	loop.AddStage(fx.PhaseActuate, fx.StepFunc(func(fx.TickContext) error {
		s.Robot.Step()
		return nil
	}))
	if s.Done != nil {
		loop.AddStage(fx.PhaseReport, fx.StepFunc(func(tc fx.TickContext) error {
			if len(trace) > 0 && s.Done(trace.Final()) {
				tc.Stop()
			}
			return nil
		}))
	}

	for i := 0; i < s.ticks && !loop.Stopped(); i++ {
		if err := ctx.Err(); err != nil {
			return trace, err
		}
		loop.Step(ctx)
		s.Clock.Add(s.interval)
	}
	return trace, nil
}
