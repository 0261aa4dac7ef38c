package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"

	"github.com/golang/glog"

	fx "github.com/robotalks/trackdrive/pkg/framework"
	navbot "github.com/robotalks/trackdrive/pkg/sim/bots/nav"
	"github.com/robotalks/trackdrive/pkg/trackd"
	"github.com/robotalks/trackdrive/pkg/transport/mqtt"
)

func init() {
	trackd.SetupFlags()
	navbot.SetupFlags()
}

func main() {
	flag.Parse()

	conf := trackd.NewConfig()
	queue, err := mqtt.NewQueueFromURL(conf.MQTTBrokerURL)
	if err != nil {
		glog.Exitf("sim-bot: %v", err)
	}
	botConf := navbot.NewConfig()
	bot, err := botConf.NewBot(conf.RobotID, navbot.QueuePublisher(queue))
	if err != nil {
		glog.Exitf("sim-bot: %v", err)
	}
	loop := fx.NewLoop(botConf.Tick).Add(bot)

	run := fx.RunFunc(func(ctx context.Context) error {
		return queue.Run(ctx, func() error {
			sub := bot.Subscribe(queue)
			defer sub.Close()
			glog.Infof("simulating %s every %v, latency %d ticks", bot.ID, botConf.Tick, botConf.Latency)
			return loop.Run(ctx)
		})
	})
	if err := fx.NewRunner().HandleSignals().Go(fx.NamedRun("sim-bot", run)).Wait(); err != nil && err != fx.ErrForcedExit {
		glog.Exitf("sim-bot: %v", err)
	}
}
