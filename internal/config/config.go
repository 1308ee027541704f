// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	StrategyMinimax = "minimax"
	StrategyRandom  = "random"
)

type Config struct {
	Addr          string
	AllowedOrigin string
	AIDepth       int
	AIDelay       time.Duration
	AIStrategy    string
	LogLevel      log.Level
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowedOrigin: "http://localhost:5173",
		AIDepth:       4,
		AIDelay:       500 * time.Millisecond,
		AIStrategy:    StrategyMinimax,
		LogLevel:      log.LevelInfo,
	}
}

// Load reads CHECKERS_* variables on top of Default.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("CHECKERS_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("CHECKERS_ALLOWED_ORIGIN"); ok && v != "" {
		cfg.AllowedOrigin = v
	}
	if v, ok := lookup("CHECKERS_AI_DEPTH"); ok && v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil || depth < 1 {
			return Config{}, fmt.Errorf("invalid CHECKERS_AI_DEPTH %q: must be a positive integer", v)
		}
		cfg.AIDepth = depth
	}
	if v, ok := lookup("CHECKERS_AI_DELAY_MS"); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return Config{}, fmt.Errorf("invalid CHECKERS_AI_DELAY_MS %q: must be a non-negative integer", v)
		}
		cfg.AIDelay = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup("CHECKERS_AI_STRATEGY"); ok && v != "" {
		switch strings.ToLower(v) {
		case StrategyMinimax:
			cfg.AIStrategy = StrategyMinimax
		case StrategyRandom:
			cfg.AIStrategy = StrategyRandom
		default:
			return Config{}, fmt.Errorf("invalid CHECKERS_AI_STRATEGY %q: want %s or %s", v, StrategyMinimax, StrategyRandom)
		}
	}
	if v, ok := lookup("CHECKERS_LOG_LEVEL"); ok && v != "" {
		level, err := parseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func parseLevel(v string) (log.Level, error) {
	switch strings.ToLower(v) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("invalid CHECKERS_LOG_LEVEL %q", v)
}
