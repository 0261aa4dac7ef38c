package see

import (
	"flag"
	"io"
	"os"
)

// Config represents configuration for see.
type Config struct {
	W float64
	H float64
	// Scale converts meters into visualization units.
	Scale float64
	// PathPoints is the number of markers drawn along the path.
	PathPoints int
	// Every renders one frame out of Every.
	Every int
}

var defaultConfig = Config{
	W:          4000,
	H:          4000,
	Scale:      1000,
	PathPoints: 64,
	Every:      1,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.W, "see-w", defaultConfig.W, "Width (mm) of visualization area")
	flag.Float64Var(&defaultConfig.H, "see-h", defaultConfig.H, "Height (mm) of visualization area")
	flag.IntVar(&defaultConfig.PathPoints, "see-path-points", defaultConfig.PathPoints, "Number of markers along the path")
	flag.IntVar(&defaultConfig.Every, "see-every", defaultConfig.Every, "Render one frame out of this many")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a default config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewAdapter creates adapter from config writing to stdout.
func (c *Config) NewAdapter() *Adapter {
	return NewAdapter(c, os.Stdout)
}

// NewAdapterTo creates adapter from config writing to w.
func (c *Config) NewAdapterTo(w io.Writer) *Adapter {
	return NewAdapter(c, w)
}
