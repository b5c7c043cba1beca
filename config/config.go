// Package config loads the YAML configuration of the g3ddemo command.
//
// A configuration file is optional: Default returns a complete
// configuration and Load overlays a file onto it, so a file only needs the
// keys it changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/g3d"
)

// ErrInvalidConfig is returned (wrapped) by Validate and Load.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the top-level configuration.
type Config struct {
	Demo        string `yaml:"demo"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	FPS         int    `yaml:"fps"`
	Assets      string `yaml:"assets"`
	ToneMapping string `yaml:"tone_mapping,omitempty"`

	Earth  Earth  `yaml:"earth"`
	Flight Flight `yaml:"flight"`
	Tunnel Tunnel `yaml:"tunnel"`
}

// Earth configures the rotating earth demo.
type Earth struct {
	Map    string `yaml:"map"`
	Clouds string `yaml:"clouds"`
}

// LatLon is a geographic coordinate in degrees.
type LatLon struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Route is a flight from one city to another.
type Route struct {
	Name string `yaml:"name"`
	From LatLon `yaml:"from"`
	To   LatLon `yaml:"to"`
}

// Flight configures the flight-route demo.
type Flight struct {
	Map string `yaml:"map"`
	// Speed is the progress added per frame. Negative speeds fly routes
	// backwards.
	Speed float64 `yaml:"speed"`
	// AutoAdvance switches to the next route each time a flight completes,
	// or to the previous one when flying backwards.
	AutoAdvance bool    `yaml:"auto_advance"`
	Routes      []Route `yaml:"routes"`
}

// Tunnel configures the spline tunnel flythrough.
type Tunnel struct {
	// LoopSeconds is the time for one trip around the loop.
	LoopSeconds float64 `yaml:"loop_seconds"`
	Radius      float64 `yaml:"radius"`
	Segments    int     `yaml:"segments"`
	// LookAhead is the arc-length distance of the camera target.
	LookAhead float64 `yaml:"look_ahead"`
	Fog       bool    `yaml:"fog"`
}

// DefaultRoutes are the routes flown when the configuration names none.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "New York - London", From: LatLon{40.7128, -74.0060}, To: LatLon{51.5074, -0.1278}},
		{Name: "Los Angeles - Tokyo", From: LatLon{34.0522, -118.2437}, To: LatLon{35.6895, 139.6917}},
		{Name: "Paris - Moscow", From: LatLon{48.8566, 2.3522}, To: LatLon{55.7558, 37.6173}},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Demo:   "earth",
		Width:  1280,
		Height: 720,
		FPS:    60,
		Assets: "assets",
		Earth: Earth{
			Map:    "earthmap1k.jpg",
			Clouds: "earthcloudmap.jpg",
		},
		Flight: Flight{
			Map:    "earth_lights.gif",
			Speed:  0.01,
			Routes: DefaultRoutes(),
		},
		Tunnel: Tunnel{
			LoopSeconds: 20,
			Radius:      0.65,
			Segments:    222,
			LookAhead:   0.03,
			Fog:         true,
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults and validates the result.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks every field and reports all problems at once, wrapped in
// ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(c.Demo) == "" {
		add("demo must be set")
	}
	if c.Width <= 0 || c.Height <= 0 {
		add("size %dx%d must be positive", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		add("fps %d must be positive", c.FPS)
	}
	if c.ToneMapping != "" {
		if _, ok := g3d.ParseToneMapping(c.ToneMapping); !ok {
			add("unknown tone_mapping %q", c.ToneMapping)
		}
	}

	if c.Flight.Speed == 0 {
		add("flight.speed must not be zero")
	}
	if len(c.Flight.Routes) == 0 {
		add("flight.routes must not be empty")
	}
	for i, r := range c.Flight.Routes {
		for _, p := range []LatLon{r.From, r.To} {
			if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
				add("flight.routes[%d]: coordinate (%v, %v) out of range", i, p.Lat, p.Lon)
			}
		}
	}

	if c.Tunnel.LoopSeconds <= 0 {
		add("tunnel.loop_seconds must be positive")
	}
	if c.Tunnel.Radius <= 0 {
		add("tunnel.radius must be positive")
	}
	if c.Tunnel.Segments < 3 {
		add("tunnel.segments %d must be at least 3", c.Tunnel.Segments)
	}
	if c.Tunnel.LookAhead <= 0 || c.Tunnel.LookAhead >= 1 {
		add("tunnel.look_ahead %v must be in (0, 1)", c.Tunnel.LookAhead)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ToneMappingMode returns the parsed tone mapping and whether the
// configuration sets one.
func (c *Config) ToneMappingMode() (g3d.ToneMapping, bool) {
	if c.ToneMapping == "" {
		return g3d.NoToneMapping, false
	}
	return g3d.ParseToneMapping(c.ToneMapping)
}
