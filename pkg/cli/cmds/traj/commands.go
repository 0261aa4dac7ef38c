// Package traj adds path and simulation commands to the shell.
package traj

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/trackdrive/pkg/arclength"
	"github.com/robotalks/trackdrive/pkg/cli/sh"
	"github.com/robotalks/trackdrive/pkg/control/laws"
	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/path"
	"github.com/robotalks/trackdrive/pkg/sim"
	"github.com/robotalks/trackdrive/pkg/sim/visualization/see"
	"github.com/robotalks/trackdrive/pkg/trackd"
)

// ParamReport is the result of param.test.
type ParamReport struct {
	Path   string  `json:"path"`
	Length float64 `json:"length"`
	arclength.Convergence
}

func (r ParamReport) String() string {
	return fmt.Sprintf("%s length=%.6f queries=%d max=%d avg=%.2f not-converged=%d",
		r.Path, r.Length, r.Queries, r.MaxIter, r.AvgIter, r.NotConverged)
}

// ParamTest surveys arc-length inversion on one path.
func ParamTest(spec string, queries int) (ParamReport, error) {
	p, err := path.Parse(spec)
	if err != nil {
		return ParamReport{}, err
	}
	a, err := arclength.ForPath(p)
	if err != nil {
		return ParamReport{}, err
	}
	return ParamReport{Path: spec, Length: a.FullLength(), Convergence: arclength.Survey(a, queries)}, nil
}

// SurveyReport is the result of param.survey.
type SurveyReport []sim.ConvergenceReport

func (r SurveyReport) String() string {
	lines := make([]string, len(r))
	for i, rep := range r {
		lines[i] = fmt.Sprintf("%-8s paths=%d queries=%d max=%d avg=%.2f not-converged=%d",
			rep.Family, rep.Paths, rep.Queries, rep.MaxIter, rep.AvgIter, rep.NotConverged)
	}
	return strings.Join(lines, "\n")
}

// PoseResult prints a pose.
type PoseResult struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

func poseResult(p geom.Pose2D) PoseResult {
	return PoseResult{X: p.X, Y: p.Y, Heading: p.Orientation.Degrees()}
}

func (r PoseResult) String() string {
	return fmt.Sprintf("(%.4f, %.4f) %.2f°", r.X, r.Y, r.Heading)
}

// Predict advances a pose through commands given as LEFT,RIGHT pairs.
func Predict(model kinematics.Model, tick time.Duration, pose geom.Pose2D, cmds []string) (geom.Pose2D, error) {
	list := make([]kinematics.Command, 0, len(cmds))
	for _, s := range cmds {
		l, r, ok := strings.Cut(s, ",")
		if !ok {
			return pose, fmt.Errorf("invalid command %q, expect LEFT,RIGHT", s)
		}
		left, err := strconv.ParseFloat(l, 64)
		if err != nil {
			return pose, err
		}
		right, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return pose, err
		}
		list = append(list, kinematics.Command{Left: left, Right: right})
	}
	return model.AdvanceAll(pose, list, tick.Seconds()), nil
}

// SimReport is the result of a simulation.
type SimReport struct {
	Ticks int        `json:"ticks"`
	Final PoseResult `json:"final"`
	// MaxError is the largest distance between estimate and reference in
	// track mode, or the final distance to target in point mode.
	MaxError float64 `json:"max_error"`
}

func (r SimReport) String() string {
	return fmt.Sprintf("ticks=%d final=%s error=%.4f", r.Ticks, r.Final, r.MaxError)
}

func scenarioConfig(conf *trackd.Config, latency int) (sim.Config, error) {
	model, err := kinematics.NewModel(conf.WheelBase)
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		Model:   model,
		Tick:    conf.Tick,
		Latency: latency,
		Depth:   conf.Depth,
		Ticks:   int(2 * time.Minute / conf.Tick),
	}, nil
}

// SimPoint drives a simulated robot from the origin to target.
func SimPoint(conf *trackd.Config, target geom.Pose2D, latency int) (SimReport, error) {
	sc, err := scenarioConfig(conf, latency)
	if err != nil {
		return SimReport{}, err
	}
	law := laws.NewPolar(sc.Model, conf.MaxWheelSpeed)
	s, err := sim.NewPoint(sc, law, target, 0)
	if err != nil {
		return SimReport{}, err
	}
	s.Done = func(f sim.Frame) bool {
		return f.Truth.DistanceTo(target.Pos2D) < 0.005
	}
	trace, err := s.Run(context.Background())
	if err != nil {
		return SimReport{}, err
	}
	final := s.Robot.Pose()
	return SimReport{Ticks: len(trace), Final: poseResult(final), MaxError: final.DistanceTo(target.Pos2D)}, nil
}

// SimTrack follows a path with a simulated robot starting on the path.
func SimTrack(conf *trackd.Config, spec string, latency int) (SimReport, error) {
	_, trace, err := runTrack(conf, spec, latency)
	if err != nil {
		return SimReport{}, err
	}
	var maxErr float64
	for _, f := range trace {
		maxErr = math.Max(maxErr, math.Hypot(f.Telemetry["ex"], f.Telemetry["ey"]))
	}
	return SimReport{Ticks: len(trace), Final: poseResult(trace.Final().Truth), MaxError: maxErr}, nil
}

// SimSee follows a path with a simulated robot and renders the run.
func SimSee(conf *trackd.Config, spec string, latency int, out io.Writer) error {
	p, trace, err := runTrack(conf, spec, latency)
	if err != nil {
		return err
	}
	return see.NewConfig().NewAdapterTo(out).Render(p, trace)
}

func runTrack(conf *trackd.Config, spec string, latency int) (path.Path, sim.Trace, error) {
	p, err := path.Parse(spec)
	if err != nil {
		return nil, nil, err
	}
	sc, err := scenarioConfig(conf, latency)
	if err != nil {
		return nil, nil, err
	}
	sc.Start = path.Pose(p, 0)
	tc := laws.DefaultTrackerConfig(sc.Model, conf.Limits())
	tracker := laws.NewTracker(tc, arclength.NewWorkspace(0, 0))
	s, err := sim.NewTrack(sc, tracker, p)
	if err != nil {
		return nil, nil, err
	}
	s.Done = func(f sim.Frame) bool {
		return f.Telemetry["u"] >= 1 && f.Command == (kinematics.Command{})
	}
	trace, err := s.Run(context.Background())
	if err != nil {
		return nil, nil, err
	}
	return p, trace, nil
}

// ParsePose parses X Y HEADING(degrees).
func ParsePose(args []string) (geom.Pose2D, error) {
	if len(args) < 3 {
		return geom.Pose2D{}, fmt.Errorf("X Y HEADING required")
	}
	var v [3]float64
	for i := range v {
		val, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return geom.Pose2D{}, err
		}
		v[i] = val
	}
	return geom.Pose2D{Pos2D: geom.Pos2D{X: v[0], Y: v[1]}, Orientation: geom.AngleFromDegrees(v[2])}, nil
}

func intArg(args []string, i, def int) (int, error) {
	if i >= len(args) {
		return def, nil
	}
	return strconv.Atoi(args[i])
}

var (
	// ParamTestCmd surveys arc-length inversion on a path.
	ParamTestCmd = ishell.Cmd{
		Name: "param.test",
		Help: "PATH [QUERIES]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("PATH required"))
				return
			}
			n, err := intArg(c.Args, 1, 1000)
			if err != nil {
				c.Err(err)
				return
			}
			rep, err := ParamTest(c.Args[0], n)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Print(c, rep)
		},
	}

	// ParamSurveyCmd surveys arc-length inversion on random paths.
	ParamSurveyCmd = ishell.Cmd{
		Name: "param.survey",
		Help: "[PATHS] [QUERIES] [SEED]",
		Func: func(c *ishell.Context) {
			var vals [3]int
			for i, def := range []int{100, 100, 1} {
				v, err := intArg(c.Args, i, def)
				if err != nil {
					c.Err(err)
					return
				}
				vals[i] = v
			}
			reps, err := sim.SurveyConvergence(sim.ConvergenceConfig{
				Paths:   vals[0],
				Queries: vals[1],
				Extent:  1,
				Seed:    uint64(vals[2]),
			})
			if err != nil {
				c.Err(err)
				return
			}
			sh.Print(c, SurveyReport(reps))
		},
	}

	// PredictCmd forward simulates a pose.
	PredictCmd = ishell.Cmd{
		Name: "predict",
		Help: "X Y HEADING LEFT,RIGHT...",
		Func: func(c *ishell.Context) {
			conf := sh.ShellFrom(c).Config
			pose, err := ParsePose(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			model, err := kinematics.NewModel(conf.WheelBase)
			if err != nil {
				c.Err(err)
				return
			}
			pose, err = Predict(model, conf.Tick, pose, c.Args[3:])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Print(c, poseResult(pose))
		},
	}

	// SimPointCmd simulates driving to a pose.
	SimPointCmd = ishell.Cmd{
		Name: "sim.point",
		Help: "X Y HEADING [LATENCY]",
		Func: func(c *ishell.Context) {
			conf := sh.ShellFrom(c).Config
			target, err := ParsePose(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			latency, err := intArg(c.Args, 3, conf.Depth)
			if err != nil {
				c.Err(err)
				return
			}
			rep, err := SimPoint(conf, target, latency)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Print(c, rep)
		},
	}

	// SimTrackCmd simulates following a path.
	SimTrackCmd = ishell.Cmd{
		Name: "sim.track",
		Help: "PATH [LATENCY]",
		Func: func(c *ishell.Context) {
			conf := sh.ShellFrom(c).Config
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("PATH required"))
				return
			}
			latency, err := intArg(c.Args, 1, conf.Depth)
			if err != nil {
				c.Err(err)
				return
			}
			rep, err := SimTrack(conf, c.Args[0], latency)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Print(c, rep)
		},
	}

	// SimSeeCmd prints see messages of a simulated path following.
	SimSeeCmd = ishell.Cmd{
		Name: "sim.see",
		Help: "PATH [LATENCY]",
		Func: func(c *ishell.Context) {
			conf := sh.ShellFrom(c).Config
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("PATH required"))
				return
			}
			latency, err := intArg(c.Args, 1, conf.Depth)
			if err != nil {
				c.Err(err)
				return
			}
			if err := SimSee(conf, c.Args[0], latency, os.Stdout); err != nil {
				c.Err(err)
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&ParamTestCmd,
		&ParamSurveyCmd,
		&PredictCmd,
		&SimPointCmd,
		&SimTrackCmd,
		&SimSeeCmd,
	)
}
