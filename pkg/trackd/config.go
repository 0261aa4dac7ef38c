// Package trackd is the trajectory control daemon: it reads robot poses
// from MQTT, runs a Delay-Compensated Controller every tick and publishes
// the wheel commands.
package trackd

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"

	"github.com/robotalks/trackdrive/pkg/control/delay"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/path"
)

// Config defines the daemon.
type Config struct {
	// RobotID is the robot to control.
	RobotID string
	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string

	// Mode is point or track.
	Mode string
	// Path is the path spec followed in track mode, see path.Parse.
	Path string

	Tick  time.Duration
	Depth int
	// MaxPoseAge skips ticks with an older pose, 0 to disable.
	MaxPoseAge time.Duration

	WheelBase      float64
	MaxWheelSpeed  float64
	MaxCentripetal float64
	MaxAccel       float64
	StartSpeed     float64
	EndSpeed       float64
}

// Defaults
const (
	DefaultTick          = 100 * time.Millisecond
	DefaultDepth         = 3
	DefaultMaxWheelSpeed = 0.5
)

var (
	// ErrNoRobotID indicates the robot id is missing.
	ErrNoRobotID = errors.New("robot id must be specified")
	// ErrUnknownMode indicates a mode other than point or track.
	ErrUnknownMode = errors.New("mode must be point or track")
	// ErrNoPath indicates track mode without a path.
	ErrNoPath = errors.New("track mode requires a path")
)

var defaultConfig = Config{
	MQTTBrokerURL:  "mqtt://localhost:1883/trackd/",
	Mode:           delay.ModePoint.String(),
	Tick:           DefaultTick,
	Depth:          DefaultDepth,
	MaxPoseAge:     time.Second,
	WheelBase:      kinematics.DefaultWheelBase,
	MaxWheelSpeed:  DefaultMaxWheelSpeed,
	MaxCentripetal: 1,
	MaxAccel:       0.5,
}

func init() {
	if id, err := machineid.ProtectedID("trackd"); err == nil {
		defaultConfig.RobotID = id
	}
	if val := os.Getenv("TRACKD_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("TRACKD_ROBOT_ID"); val != "" {
		defaultConfig.RobotID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.RobotID, "id", defaultConfig.RobotID, "Robot ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.Mode, "mode", defaultConfig.Mode, "Controller mode: point or track")
	flag.StringVar(&defaultConfig.Path, "path", defaultConfig.Path, "Path to follow in track mode, e.g. circle:0,0,1")
	flag.DurationVar(&defaultConfig.Tick, "tick", defaultConfig.Tick, "Control tick duration")
	flag.IntVar(&defaultConfig.Depth, "depth", defaultConfig.Depth, "Number of in-flight commands to compensate")
	flag.DurationVar(&defaultConfig.MaxPoseAge, "max-pose-age", defaultConfig.MaxPoseAge, "Skip ticks with an older pose, 0 to disable")
	flag.Float64Var(&defaultConfig.WheelBase, "wheel-base", defaultConfig.WheelBase, "Distance (m) between the wheels")
	flag.Float64Var(&defaultConfig.MaxWheelSpeed, "max-wheel-speed", defaultConfig.MaxWheelSpeed, "Maximum wheel speed (m/s)")
	flag.Float64Var(&defaultConfig.MaxCentripetal, "max-centripetal", defaultConfig.MaxCentripetal, "Maximum centripetal acceleration (m/s^2)")
	flag.Float64Var(&defaultConfig.MaxAccel, "max-accel", defaultConfig.MaxAccel, "Maximum translational acceleration (m/s^2)")
	flag.Float64Var(&defaultConfig.StartSpeed, "start-speed", defaultConfig.StartSpeed, "Speed (m/s) at the start of the path")
	flag.Float64Var(&defaultConfig.EndSpeed, "end-speed", defaultConfig.EndSpeed, "Speed (m/s) at the end of the path")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.RobotID == "" {
		return ErrNoRobotID
	}
	switch c.Mode {
	case delay.ModePoint.String():
	case delay.ModeTrack.String():
		if c.Path == "" {
			return ErrNoPath
		}
		if _, err := path.Parse(c.Path); err != nil {
			return err
		}
	default:
		return ErrUnknownMode
	}
	if c.Tick <= 0 {
		return delay.ErrNegativeTick
	}
	if c.Depth < 0 {
		return delay.ErrNegativeDepth
	}
	_, err := kinematics.NewModel(c.WheelBase)
	return err
}
