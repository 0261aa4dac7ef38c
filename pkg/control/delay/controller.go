// Package delay implements the delay-compensated trajectory controller.
//
// Commands take Depth control ticks to affect the robot. Before each
// control law call, the measured pose is forward-simulated through the
// in-flight commands, so the law acts on where the robot will actually be
// when the new command lands.
//
// A Controller is a single-threaded per-tick state machine: it is driven
// by one control loop and performs no locking or I/O.
package delay

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"

	"github.com/robotalks/trackdrive/pkg/control"
	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/path"
)

// Mode is the controller mode, fixed at construction.
type Mode int

// Modes
const (
	ModePoint Mode = iota
	ModeTrack
)

func (m Mode) String() string {
	switch m {
	case ModePoint:
		return "point"
	case ModeTrack:
		return "track"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Config is the controller configuration.
type Config struct {
	// Depth is the number of in-flight commands k.
	Depth int
	// Tick is the duration each in-flight command is applied for during
	// forward simulation.
	Tick time.Duration
	// Start fills the history at construction.
	Start kinematics.Command
	// Model is the kinematic model used for forward simulation.
	Model kinematics.Model
	// Clock measures elapsed time in track mode, the wall clock if nil.
	Clock clock.Clock
}

var (
	// ErrNegativeDepth indicates Depth < 0.
	ErrNegativeDepth = errors.New("in-flight depth must not be negative")
	// ErrNegativeTick indicates Tick < 0.
	ErrNegativeTick = errors.New("tick duration must not be negative")
	// ErrNoLaw indicates a nil control law.
	ErrNoLaw = errors.New("control law required")
	// ErrNotTracking indicates a path operation on a point controller.
	ErrNotTracking = errors.New("controller is not in track mode")
)

func (c Config) validate() error {
	if c.Depth < 0 {
		return ErrNegativeDepth
	}
	if c.Tick < 0 {
		return ErrNegativeTick
	}
	if !(c.Model.WheelBase > 0) {
		return kinematics.ErrInvalidWheelBase
	}
	return nil
}

// request carries the per-call inputs to a strategy.
type request struct {
	estimated  geom.Pose2D
	target     geom.Pose2D
	finalSpeed float64
	prev       kinematics.Command
}

// strategy is the mode specific part of a control cycle.
type strategy interface {
	computeCommand(req request) (kinematics.Command, control.Telemetry)
	reset()
}

type pointStrategy struct {
	law control.PointLaw
}

func (s *pointStrategy) computeCommand(req request) (kinematics.Command, control.Telemetry) {
	return s.law.PointCommand(req.estimated, req.target, req.prev.Speed(), req.finalSpeed)
}

func (s *pointStrategy) reset() {}

type trackStrategy struct {
	law   control.TrackingLaw
	clock clock.Clock

	started   bool
	startTime time.Time
}

func (s *trackStrategy) computeCommand(req request) (kinematics.Command, control.Telemetry) {
	now := s.clock.Now()
	if !s.started {
		s.started, s.startTime = true, now
	}
	return s.law.TrackCommand(req.estimated, req.prev, now.Sub(s.startTime))
}

func (s *trackStrategy) reset() {
	s.started = false
}

// Controller is the delay-compensated controller.
type Controller struct {
	mode     Mode
	model    kinematics.Model
	dt       float64
	history  *History
	prev     kinematics.Command
	strategy strategy
}

func newController(conf Config, mode Mode, s strategy) *Controller {
	glog.V(1).Infof("%s controller: depth=%d tick=%v", mode, conf.Depth, conf.Tick)
	return &Controller{
		mode:     mode,
		model:    conf.Model,
		dt:       conf.Tick.Seconds(),
		history:  NewHistory(conf.Depth, conf.Start),
		strategy: s,
	}
}

// NewPoint creates a controller in point mode.
func NewPoint(law control.PointLaw, conf Config) (*Controller, error) {
	if err := conf.validate(); err != nil {
		return nil, err
	}
	if law == nil {
		return nil, ErrNoLaw
	}
	return newController(conf, ModePoint, &pointStrategy{law: law}), nil
}

// NewTracking creates a controller in track mode following p.
func NewTracking(law control.TrackingLaw, p path.Path, conf Config) (*Controller, error) {
	if err := conf.validate(); err != nil {
		return nil, err
	}
	if law == nil {
		return nil, ErrNoLaw
	}
	if err := law.SetPath(p); err != nil {
		return nil, err
	}
	clk := conf.Clock
	if clk == nil {
		clk = clock.New()
	}
	return newController(conf, ModeTrack, &trackStrategy{law: law, clock: clk}), nil
}

// Mode returns the controller mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Depth returns the in-flight depth k.
func (c *Controller) Depth() int {
	return c.history.Len()
}

// History returns the in-flight commands, oldest first.
func (c *Controller) History() []kinematics.Command {
	return c.history.Commands()
}

// Previous returns the last issued command.
func (c *Controller) Previous() kinematics.Command {
	return c.prev
}

// PredictPose forward-simulates measured through the in-flight commands,
// oldest first, without side effects.
func (c *Controller) PredictPose(measured geom.Pose2D) geom.Pose2D {
	pose := measured
	c.history.Each(func(cmd kinematics.Command) {
		pose = c.model.Advance(pose, cmd, c.dt)
	})
	return pose
}

// GenerateCommands runs one control cycle from the latest measured pose.
// target and finalSpeed are used in point mode only.
func (c *Controller) GenerateCommands(measured, target geom.Pose2D, finalSpeed float64) (kinematics.Command, control.Telemetry) {
	cmd, tm := c.strategy.computeCommand(request{
		estimated:  c.PredictPose(measured),
		target:     target,
		finalSpeed: finalSpeed,
		prev:       c.prev,
	})
	c.prev = cmd
	c.history.Push(cmd)
	return cmd, tm
}

// Track runs one control cycle in track mode.
func (c *Controller) Track(measured geom.Pose2D) (kinematics.Command, control.Telemetry) {
	return c.GenerateCommands(measured, geom.Pose2D{}, 0)
}

// Reset restarts the tracking epoch: the next cycle latches a new start
// time. The history is kept.
func (c *Controller) Reset() {
	c.strategy.reset()
}

// SetPath replaces the tracked path and resets the epoch. When the law
// rejects p, the current path and epoch are kept.
func (c *Controller) SetPath(p path.Path) error {
	ts, ok := c.strategy.(*trackStrategy)
	if !ok {
		return ErrNotTracking
	}
	if err := ts.law.SetPath(p); err != nil {
		return err
	}
	c.Reset()
	return nil
}
