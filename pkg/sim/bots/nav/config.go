package nav

import (
	"flag"
	"time"

	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/sim/diffdrive"
)

// Config defines the simulated bot.
type Config struct {
	WheelBase float64
	Tick      time.Duration
	// Latency is the number of ticks before a command is executed.
	Latency      int
	MaxAccel     float64
	NoiseXY      float64
	NoiseHeading float64
	Seed         uint64
}

// Defaults
const (
	DefaultTick    = 20 * time.Millisecond
	DefaultLatency = 15
)

var defaultConfig = Config{
	WheelBase: kinematics.DefaultWheelBase,
	Tick:      DefaultTick,
	Latency:   DefaultLatency,
	MaxAccel:  2,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.WheelBase, "bot-wheel-base", defaultConfig.WheelBase, "Distance (m) between the wheels of the bot.")
	flag.DurationVar(&defaultConfig.Tick, "bot-tick", defaultConfig.Tick, "Simulation step.")
	flag.IntVar(&defaultConfig.Latency, "bot-latency", defaultConfig.Latency, "Steps before a received command is executed.")
	flag.Float64Var(&defaultConfig.MaxAccel, "bot-max-accel", defaultConfig.MaxAccel, "Maximum wheel acceleration (m/s^2), 0 means unlimited.")
	flag.Float64Var(&defaultConfig.NoiseXY, "bot-noise-xy", defaultConfig.NoiseXY, "Standard deviation (m) of position measurements.")
	flag.Float64Var(&defaultConfig.NoiseHeading, "bot-noise-heading", defaultConfig.NoiseHeading, "Standard deviation (rad) of heading measurements.")
	flag.Uint64Var(&defaultConfig.Seed, "bot-seed", defaultConfig.Seed, "Seed of the measurement noise.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewBot creates the Bot.
func (c *Config) NewBot(id string, pub Publisher) (*Bot, error) {
	model, err := kinematics.NewModel(c.WheelBase)
	if err != nil {
		return nil, err
	}
	robot, err := diffdrive.New(diffdrive.Config{
		Model:        model,
		Latency:      c.Latency,
		Tick:         c.Tick,
		MaxAccel:     c.MaxAccel,
		NoiseXY:      c.NoiseXY,
		NoiseHeading: c.NoiseHeading,
		Seed:         c.Seed,
	})
	if err != nil {
		return nil, err
	}
	return &Bot{ID: id, Robot: robot, Publisher: pub}, nil
}
