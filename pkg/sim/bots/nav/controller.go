// Package nav is a simulated differential-drive bot speaking the trackd
// wire protocol.
package nav

import (
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/trackdrive/pkg/framework"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/sim/diffdrive"
	"github.com/robotalks/trackdrive/pkg/transport/mqtt"
	"github.com/robotalks/trackdrive/pkg/wire"
)

// Publisher publishes the bot's messages.
type Publisher interface {
	Publish(topic string, msg wire.Message) error
}

// PublishFunc is the func form of Publisher.
type PublishFunc func(topic string, msg wire.Message) error

// Publish implements Publisher.
func (f PublishFunc) Publish(topic string, msg wire.Message) error {
	return f(topic, msg)
}

// QueuePublisher publishes through a Queue.
func QueuePublisher(q *mqtt.Queue) Publisher {
	return PublishFunc(func(topic string, msg wire.Message) error {
		data, err := wire.Marshal(msg)
		if err != nil {
			return err
		}
		q.Pub(topic, data)
		return nil
	})
}

// Bot receives wheel commands, steps the simulated robot each tick and
// publishes the measured pose.
type Bot struct {
	ID        string
	Robot     *diffdrive.Robot
	Publisher Publisher

	lock  sync.Mutex
	inbox []kinematics.Command
}

// AddToLoop implements LoopAdder.
func (b *Bot) AddToLoop(l *fx.Loop) {
	l.AddStage(fx.PhaseActuate, fx.StepFunc(b.Execute))
	l.AddStage(fx.PhaseReport, fx.StepFunc(b.Report))
}

// Subscribe receives the bot's commands from q.
func (b *Bot) Subscribe(q *mqtt.Queue) *mqtt.Subscription {
	return q.Sub(mqtt.Topic(b.ID, mqtt.TopicCommand), b.HandleCommand)
}

// HandleCommand is the mqtt.Handler of command messages.
func (b *Bot) HandleCommand(topic string, payload []byte) {
	msg, err := wire.Unmarshal(payload)
	if err != nil {
		glog.Warningf("%s: %v", topic, err)
		return
	}
	cmd, ok := msg.(*wire.Command)
	if !ok {
		glog.Warningf("%s: %v %x", topic, wire.ErrUnexpectedType, msg.TypeID())
		return
	}
	b.lock.Lock()
	b.inbox = append(b.inbox, cmd.Wheels())
	b.lock.Unlock()
}

// Execute queues received commands and steps the robot.
func (b *Bot) Execute(tc fx.TickContext) error {
	b.lock.Lock()
	inbox := b.inbox
	b.inbox = nil
	b.lock.Unlock()
	for _, cmd := range inbox {
		b.Robot.Send(cmd)
	}
	b.Robot.Step()
	return nil
}

// Report publishes the measured pose.
func (b *Bot) Report(tc fx.TickContext) error {
	return b.Publisher.Publish(mqtt.Topic(b.ID, mqtt.TopicPose), wire.NewPose(b.ID, b.Robot.Measure(), tc.Time()))
}
