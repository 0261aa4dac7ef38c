// Package see is the adapter to visualize simulation traces in
// github.com/robotalks/see.
package see

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/path"
	"github.com/robotalks/trackdrive/pkg/sim"
)

// Object types.
const (
	TypeCorner   = "corner"
	TypeMarker   = "marker"
	TypeRobot    = "robot"
	TypeEstimate = "estimate"
)

// Adapter writes see messages, one JSON array per line.
type Adapter struct {
	Config *Config
	Out    io.Writer
	// Radius is the robot radius in meters.
	Radius float64

	initial bool
	frames  int
}

// NewAdapter creates the adapter.
func NewAdapter(config *Config, out io.Writer) *Adapter {
	return &Adapter{
		Config:  config,
		Out:     out,
		Radius:  0.05,
		initial: true,
	}
}

// Reset draws the area and the markers along p, which may be nil.
func (a *Adapter) Reset(p path.Path) error {
	w, h := a.Config.W/2, a.Config.H/2
	msgs := []Message{
		{Action: ActionReset},
		{Action: ActionObject, Object: NewObject(TypeCorner, "corner-lt").With("loc", "lt").At(-w, -h).Radius(1)},
		{Action: ActionObject, Object: NewObject(TypeCorner, "corner-lb").With("loc", "lb").At(-w, h).Radius(1)},
		{Action: ActionObject, Object: NewObject(TypeCorner, "corner-rt").With("loc", "rt").At(w, -h).Radius(1)},
		{Action: ActionObject, Object: NewObject(TypeCorner, "corner-rb").With("loc", "rb").At(w, h).Radius(1)},
	}
	if p != nil && a.Config.PathPoints > 1 {
		n := a.Config.PathPoints
		for i := 0; i < n; i++ {
			pose := path.Pose(p, float64(i)/float64(n-1))
			obj := ObjectAt(TypeMarker, fmt.Sprintf("path/%d", i), pose, a.Config.Scale).Radius(2)
			msgs = append(msgs, Message{Action: ActionObject, Object: obj})
		}
	}
	a.initial, a.frames = false, 0
	return a.write(msgs)
}

// Frame draws the true and the estimated pose of a frame.
func (a *Adapter) Frame(f sim.Frame) error {
	if a.initial {
		if err := a.Reset(nil); err != nil {
			return err
		}
	}
	a.frames++
	if every := a.Config.Every; every > 1 && (a.frames-1)%every != 0 {
		return nil
	}
	r := a.Radius * a.Config.Scale
	return a.write([]Message{
		{Action: ActionObject, Object: a.object(TypeRobot, "robot", f.Truth).Radius(r).With("tick", f.Tick)},
		{Action: ActionObject, Object: a.object(TypeEstimate, "estimate", f.Estimated).Radius(r)},
	})
}

// Render draws p and the whole trace.
func (a *Adapter) Render(p path.Path, trace sim.Trace) error {
	if err := a.Reset(p); err != nil {
		return err
	}
	for _, f := range trace {
		if err := a.Frame(f); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) object(typ, name string, pose geom.Pose2D) Object {
	return ObjectAt(typ, name, pose, a.Config.Scale)
}

func (a *Adapter) write(msgs []Message) error {
	encoded, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.Out, string(encoded))
	return err
}
