package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "test-missing")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.PingPeriod != 54*time.Second || cfg.PongWait != 60*time.Second {
		t.Fatalf("unexpected keepalive defaults: ping=%v pong=%v", cfg.PingPeriod, cfg.PongWait)
	}
	if cfg.PingPeriod >= cfg.PongWait {
		t.Fatalf("ping period must be shorter than pong wait")
	}
	if cfg.SendBuffer <= 0 {
		t.Fatalf("expected positive send buffer, got %d", cfg.SendBuffer)
	}
	if len(cfg.ICEServers) != 1 || len(cfg.ICEServers[0].URLs) != 1 {
		t.Fatalf("expected one default stun server, got %+v", cfg.ICEServers)
	}
}
