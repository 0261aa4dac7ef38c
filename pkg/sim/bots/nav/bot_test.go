package nav

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/trackdrive/pkg/framework"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/wire"
)

func TestBotExecutesCommands(t *testing.T) {
	var poses []*wire.Pose
	conf := NewConfig()
	conf.Tick = 100 * time.Millisecond
	conf.Latency = 1
	conf.MaxAccel = 0
	bot, err := conf.NewBot("r1", PublishFunc(func(topic string, msg wire.Message) error {
		require.Equal(t, "r1/pose", topic)
		poses = append(poses, msg.(*wire.Pose))
		return nil
	}))
	require.NoError(t, err)

	mock := clock.NewMock()
	loop := fx.NewLoop(conf.Tick)
	loop.Clock = mock
	loop.Add(bot)

	data, err := wire.Marshal(wire.NewCommand("r1", 1, kinematics.Command{Left: 1, Right: 1}))
	require.NoError(t, err)
	bot.HandleCommand("r1/cmd", data)
	bot.HandleCommand("r1/cmd", []byte{0xff})
	for i := 0; i < 3; i++ {
		loop.Step(context.Background())
		mock.Add(conf.Tick)
	}
	require.Len(t, poses, 3)
	require.InDelta(t, 0, poses[0].X, 1e-12)
	require.InDelta(t, 0.1, poses[1].X, 1e-12)
	require.InDelta(t, 0.2, poses[2].X, 1e-12)
	require.True(t, poses[2].Stamp().Equal(mock.Now().Add(-conf.Tick)))
}
