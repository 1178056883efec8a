package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"DrawingApp/internal/state"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to wire the app.
type Config struct {
	Canvas    state.Bounds
	AlphaStep float64
	Seed      uint64
	FeedPort  int
	MDNS      bool
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] no .env file, using environment only")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment, applying defaults
// for unset keys.
func FromEnv() (*Config, error) {
	var errs []error
	intVar := func(key string, def int) int {
		v, err := getEnvAsInt(key, def)
		errs = append(errs, err)
		return v
	}

	def := state.DefaultBounds()
	cfg := &Config{
		Canvas: state.Bounds{
			XMax:         intVar("CANVAS_X_MAX", def.XMax),
			YMax:         intVar("CANVAS_Y_MAX", def.YMax),
			HeaderOffset: intVar("CANVAS_HEADER_OFFSET", def.HeaderOffset),
			RectangleSize: state.Size{
				Width:  intVar("RECT_WIDTH", def.RectangleSize.Width),
				Height: intVar("RECT_HEIGHT", def.RectangleSize.Height),
			},
			PhotoSize: state.Size{
				Width:  intVar("PHOTO_WIDTH", def.PhotoSize.Width),
				Height: intVar("PHOTO_HEIGHT", def.PhotoSize.Height),
			},
		},
		FeedPort: intVar("FEED_PORT", 8888),
	}

	var err error
	if cfg.AlphaStep, err = getEnvAsFloat("ALPHA_STEP", state.DefaultAlphaStep); err != nil {
		errs = append(errs, err)
	}
	if cfg.Seed, err = getEnvAsUint("RANDOM_SEED", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.MDNS, err = getEnvAsBool("MDNS_ENABLED", true); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Canvas.Validate(); err != nil {
		return fmt.Errorf("invalid canvas: %w", err)
	}
	if c.AlphaStep <= 0 || c.AlphaStep > 1 {
		return fmt.Errorf("ALPHA_STEP must be in (0, 1], got %v", c.AlphaStep)
	}
	if c.FeedPort <= 0 || c.FeedPort > 65535 {
		return fmt.Errorf("FEED_PORT out of range: %d", c.FeedPort)
	}
	return nil
}

// FeedAddr is the listen address of the live feed server.
func (c *Config) FeedAddr() string {
	return fmt.Sprintf(":%d", c.FeedPort)
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvAsUint(key string, defaultVal uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvAsFloat(key string, defaultVal float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
