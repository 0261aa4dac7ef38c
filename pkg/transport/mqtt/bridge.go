package mqtt

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/trackdrive/pkg/belief"
	"github.com/robotalks/trackdrive/pkg/drive"
	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/wire"
)

// Topic suffixes under <prefix><robot-id>/.
const (
	TopicPose    = "pose"
	TopicTarget  = "target"
	TopicCommand = "cmd"
	TopicStatus  = "status"
)

// ErrNotConnected indicates publishing while disconnected.
var ErrNotConnected = errors.New("not connected")

// Topic returns the topic of a robot.
func Topic(robotID, suffix string) string {
	return robotID + "/" + suffix
}

// Bridge moves pose measurements of all robots into a belief board, and
// targets, commands and status of one robot between the broker and a
// drive.Driver.
type Bridge struct {
	Queue   *Queue
	RobotID string
	Board   *belief.Board
	// Mode is reported in status messages.
	Mode string
	// OnTarget is called when a target for RobotID arrives.
	OnTarget func(target geom.Pose2D, finalSpeed float64)

	subs []*Subscription
	tick uint64
}

// Start subscribes the pose and target topics.
func (b *Bridge) Start() {
	b.subs = append(b.subs,
		b.Queue.Sub(Topic("+", TopicPose), b.handlePose),
		b.Queue.Sub(Topic(b.RobotID, TopicTarget), b.handleTarget))
}

// Close unsubscribes all topics.
func (b *Bridge) Close() error {
	subs := b.subs
	b.subs = nil
	var err error
	for _, sub := range subs {
		if e := sub.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

func (b *Bridge) handlePose(topic string, payload []byte) {
	robotID := strings.TrimSuffix(topic, "/"+TopicPose)
	msg, err := wire.Unmarshal(payload)
	if err != nil {
		glog.Warningf("%s: %v", topic, err)
		return
	}
	pose, ok := msg.(*wire.Pose)
	if !ok {
		glog.Warningf("%s: %v %x", topic, wire.ErrUnexpectedType, msg.TypeID())
		return
	}
	b.Board.Publish(robotID, pose.Pose2D(), pose.Stamp())
}

func (b *Bridge) handleTarget(topic string, payload []byte) {
	msg, err := wire.Unmarshal(payload)
	if err != nil {
		glog.Warningf("%s: %v", topic, err)
		return
	}
	target, ok := msg.(*wire.Target)
	if !ok {
		glog.Warningf("%s: %v %x", topic, wire.ErrUnexpectedType, msg.TypeID())
		return
	}
	glog.Infof("target %v final speed %g", target.Pose2D(), target.FinalSpeed)
	if b.OnTarget != nil {
		b.OnTarget(target.Pose2D(), target.FinalSpeed)
	}
}

// SendCommand implements drive.Sink.
func (b *Bridge) SendCommand(ctx context.Context, cmd kinematics.Command) error {
	if !b.Queue.Client.IsConnected() {
		return ErrNotConnected
	}
	data, err := wire.Marshal(wire.NewCommand(b.RobotID, atomic.AddUint64(&b.tick, 1), cmd))
	if err != nil {
		return err
	}
	b.Queue.Pub(Topic(b.RobotID, TopicCommand), data)
	return nil
}

// Observe implements drive.Observer, publishing the status.
func (b *Bridge) Observe(step drive.Step) {
	data, err := wire.Marshal(wire.NewStatus(b.RobotID, b.Mode, step))
	if err != nil {
		glog.Errorf("encode status: %v", err)
		return
	}
	b.Queue.Pub(Topic(b.RobotID, TopicStatus), data)
}
