// Package robot adds commands talking to robots through the broker.
package robot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/trackdrive/pkg/belief"
	"github.com/robotalks/trackdrive/pkg/cli/cmds/traj"
	"github.com/robotalks/trackdrive/pkg/cli/sh"
	"github.com/robotalks/trackdrive/pkg/transport/mqtt"
	"github.com/robotalks/trackdrive/pkg/wire"
)

// RobotPose is the latest pose of a robot.
type RobotPose struct {
	ID   string          `json:"id"`
	Seq  uint64          `json:"seq"`
	Pose traj.PoseResult `json:"pose"`
}

// RobotList lists the robots seen on the broker.
type RobotList []RobotPose

func (l RobotList) String() string {
	if len(l) == 0 {
		return "No robots seen"
	}
	lines := make([]string, len(l))
	for i, r := range l {
		lines[i] = fmt.Sprintf("%s #%d %s", r.ID, r.Seq, r.Pose)
	}
	return strings.Join(lines, "\n")
}

// ListRobots lists the robots with a pose on the board.
func ListRobots(board *belief.Board) RobotList {
	list := RobotList{}
	for _, id := range board.Robots() {
		if smp, ok := board.Slot(id).Latest(); ok {
			list = append(list, RobotPose{ID: id, Seq: smp.Seq, Pose: traj.PoseResult{
				X:       smp.Pose.X,
				Y:       smp.Pose.Y,
				Heading: smp.Pose.Orientation.Degrees(),
			}})
		}
	}
	return list
}

var (
	// RobotsCmd lists robots publishing poses.
	RobotsCmd = ishell.Cmd{
		Name:    "robots",
		Aliases: []string{"ls"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.Print(c, ListRobots(sh.ShellFrom(c).Conn.Board))
		}),
	}

	// TargetCmd sends a point mode target.
	TargetCmd = ishell.Cmd{
		Name:    "target",
		Aliases: []string{"t"},
		Help:    "X Y HEADING [FINAL-SPEED]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			conn := sh.ShellFrom(c).Conn
			pose, err := traj.ParsePose(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			var finalSpeed float64
			if len(c.Args) > 3 {
				if finalSpeed, err = strconv.ParseFloat(c.Args[3], 64); err != nil {
					c.Err(err)
					return
				}
			}
			id := conn.Bridge.RobotID
			data, err := wire.Marshal(wire.NewTarget(id, pose, finalSpeed))
			if err != nil {
				c.Err(err)
				return
			}
			token := conn.Queue.Pub(mqtt.Topic(id, mqtt.TopicTarget), data)
			token.Wait()
			if err := token.Error(); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}
)

func init() {
	sh.AddCmds(&RobotsCmd, &TargetCmd)
}
