package config

import (
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/go-cmp/cmp"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(env(nil))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"CHECKERS_ADDR":           ":8080",
		"CHECKERS_ALLOWED_ORIGIN": "https://checkers.example",
		"CHECKERS_AI_DEPTH":       "6",
		"CHECKERS_AI_DELAY_MS":    "0",
		"CHECKERS_AI_STRATEGY":    "Random",
		"CHECKERS_LOG_LEVEL":      "debug",
	}))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	want := Config{
		Addr:          ":8080",
		AllowedOrigin: "https://checkers.example",
		AIDepth:       6,
		AIDelay:       0,
		AIStrategy:    StrategyRandom,
		LogLevel:      log.LevelDebug,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CHECKERS_AI_DEPTH", "zero"},
		{"CHECKERS_AI_DEPTH", "0"},
		{"CHECKERS_AI_DELAY_MS", "-5"},
		{"CHECKERS_AI_STRATEGY", "mcts"},
		{"CHECKERS_LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := load(env(map[string]string{tt.key: tt.value}))
			if err == nil {
				t.Fatal("load() error = nil; want error")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

func TestDefaultDelay(t *testing.T) {
	if got := Default().AIDelay; got != 500*time.Millisecond {
		t.Errorf("default AIDelay = %v; want 500ms", got)
	}
}
