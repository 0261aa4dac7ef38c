package trackd

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/trackdrive/pkg/arclength"
	"github.com/robotalks/trackdrive/pkg/belief"
	"github.com/robotalks/trackdrive/pkg/control/delay"
	"github.com/robotalks/trackdrive/pkg/control/laws"
	"github.com/robotalks/trackdrive/pkg/drive"
	fx "github.com/robotalks/trackdrive/pkg/framework"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/path"
	"github.com/robotalks/trackdrive/pkg/profile"
	"github.com/robotalks/trackdrive/pkg/transport/mqtt"
)

// Service wires the MQTT bridge, the driver and the tick loop.
type Service struct {
	Config *Config
	Queue  *mqtt.Queue
	Board  *belief.Board
	Bridge *mqtt.Bridge
	Driver *drive.Driver
	Loop   *fx.Loop
}

// NewController creates the controller configured by c.
func (c *Config) NewController() (*delay.Controller, error) {
	model, err := kinematics.NewModel(c.WheelBase)
	if err != nil {
		return nil, err
	}
	conf := delay.Config{Depth: c.Depth, Tick: c.Tick, Model: model}
	if c.Mode != delay.ModeTrack.String() {
		law := laws.NewPolar(model, c.MaxWheelSpeed)
		law.MaxSpeedStep = c.MaxAccel * c.Tick.Seconds()
		return delay.NewPoint(law, conf)
	}
	p, err := path.Parse(c.Path)
	if err != nil {
		return nil, err
	}
	tc := laws.DefaultTrackerConfig(model, c.Limits())
	tc.StartSpeed, tc.EndSpeed = c.StartSpeed, c.EndSpeed
	return delay.NewTracking(laws.NewTracker(tc, arclength.NewWorkspace(0, 0)), p, conf)
}

// Limits returns the velocity profile limits.
func (c *Config) Limits() profile.Limits {
	return profile.Limits{
		WheelBase:      c.WheelBase,
		MaxWheelSpeed:  c.MaxWheelSpeed,
		MaxCentripetal: c.MaxCentripetal,
		MaxAccel:       c.MaxAccel,
	}
}

// NewService creates the Service without connecting.
func (c *Config) NewService() (*Service, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ctrl, err := c.NewController()
	if err != nil {
		return nil, err
	}
	queue, err := mqtt.NewQueueFromURL(c.MQTTBrokerURL)
	if err != nil {
		return nil, err
	}
	s := &Service{
		Config: c,
		Queue:  queue,
		Board:  belief.NewBoard(),
		Loop:   fx.NewLoop(c.Tick),
	}
	s.Driver = &drive.Driver{
		Controller: ctrl,
		Slot:       s.Board.Slot(c.RobotID),
		MaxAge:     c.MaxPoseAge,
	}
	s.Bridge = &mqtt.Bridge{
		Queue:    queue,
		RobotID:  c.RobotID,
		Board:    s.Board,
		Mode:     ctrl.Mode().String(),
		OnTarget: s.Driver.SetTarget,
	}
	s.Driver.Sink = s.Bridge
	s.Driver.Observers = append(s.Driver.Observers, s.Bridge)
	s.Loop.Add(s.Driver)
	return s, nil
}

// Run implements Runnable.
func (s *Service) Run(ctx context.Context) error {
	return s.Queue.Run(ctx, func() error {
		s.Bridge.Start()
		defer s.Bridge.Close()
		glog.Infof("controlling %s in %s mode every %v, depth %d",
			s.Config.RobotID, s.Bridge.Mode, s.Config.Tick, s.Config.Depth)
		return s.Loop.Run(ctx)
	})
}
