// Package drive runs a delay-compensated controller inside a tick loop.
package drive

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/trackdrive/pkg/belief"
	"github.com/robotalks/trackdrive/pkg/control"
	"github.com/robotalks/trackdrive/pkg/control/delay"
	fx "github.com/robotalks/trackdrive/pkg/framework"
	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
)

// Sink receives the command generated each tick.
type Sink interface {
	SendCommand(context.Context, kinematics.Command) error
}

// SinkFunc is the func form of Sink.
type SinkFunc func(context.Context, kinematics.Command) error

// SendCommand implements Sink.
func (f SinkFunc) SendCommand(ctx context.Context, cmd kinematics.Command) error {
	return f(ctx, cmd)
}

// Step records one control cycle.
type Step struct {
	Tick      uint64
	Time      time.Time
	Measured  belief.Sample
	Estimated geom.Pose2D
	Command   kinematics.Command
	Telemetry control.Telemetry
}

// Observer is notified after a command is sent.
type Observer interface {
	Observe(Step)
}

// ObserveFunc is the func form of Observer.
type ObserveFunc func(Step)

// Observe implements Observer.
func (f ObserveFunc) Observe(s Step) {
	f(s)
}

// Driver feeds the latest pose from a belief slot into the controller in
// the control phase and sends the command in the actuate phase. Ticks
// without a usable pose, or in point mode without a target, send nothing.
type Driver struct {
	Controller *delay.Controller
	Slot       *belief.Slot
	Sink       Sink
	Observers  []Observer
	// MaxAge skips ticks whose latest pose is older, 0 to accept any age.
	MaxAge time.Duration

	lock       sync.Mutex
	target     geom.Pose2D
	finalSpeed float64
	hasTarget  bool

	step    Step
	pending bool
	steps   int
}

// SetTarget sets the goal in point mode. It is safe to call from any
// goroutine.
func (d *Driver) SetTarget(target geom.Pose2D, finalSpeed float64) {
	d.lock.Lock()
	d.target, d.finalSpeed, d.hasTarget = target, finalSpeed, true
	d.lock.Unlock()
}

// Target returns the goal in point mode.
func (d *Driver) Target() (target geom.Pose2D, finalSpeed float64, ok bool) {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.target, d.finalSpeed, d.hasTarget
}

// Last returns the most recent step.
func (d *Driver) Last() (Step, bool) {
	return d.step, d.steps > 0
}

// Steps is the number of commands sent.
func (d *Driver) Steps() int {
	return d.steps
}

// AddToLoop implements LoopAdder.
func (d *Driver) AddToLoop(l *fx.Loop) {
	l.AddStage(fx.PhaseControl, fx.StepFunc(d.Control))
	l.AddStage(fx.PhaseActuate, fx.StepFunc(d.Actuate))
}

// Control computes the command of this tick.
func (d *Driver) Control(tc fx.TickContext) error {
	d.pending = false
	smp, ok := d.Slot.Latest()
	if !ok {
		return nil
	}
	if age := tc.Time().Sub(smp.Stamp); d.MaxAge > 0 && age > d.MaxAge {
		glog.Warningf("pose %d is stale: %v", smp.Seq, age)
		return nil
	}
	target, finalSpeed, hasTarget := d.Target()
	if d.Controller.Mode() == delay.ModePoint && !hasTarget {
		return nil
	}
	est := d.Controller.PredictPose(smp.Pose)
	cmd, tm := d.Controller.GenerateCommands(smp.Pose, target, finalSpeed)
	d.step = Step{
		Tick:      tc.Tick(),
		Time:      tc.Time(),
		Measured:  smp,
		Estimated: est,
		Command:   cmd,
		Telemetry: tm,
	}
	d.pending = true
	return nil
}

// Actuate sends the command computed in the control phase.
func (d *Driver) Actuate(tc fx.TickContext) error {
	if !d.pending {
		return nil
	}
	d.pending = false
	d.steps++
	if d.Sink != nil {
		if err := d.Sink.SendCommand(tc.Context(), d.step.Command); err != nil {
			return err
		}
	}
	for _, o := range d.Observers {
		o.Observe(d.step)
	}
	return nil
}
