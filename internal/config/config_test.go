package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Fatalf("server port want 8080 got %s", cfg.Server.Port)
	}
	if cfg.Order.SelfCancelWindowHours != 12 {
		t.Fatalf("self cancel window want 12 got %d", cfg.Order.SelfCancelWindowHours)
	}
	if cfg.Membership.WindowMonths != 12 {
		t.Fatalf("membership window want 12 got %d", cfg.Membership.WindowMonths)
	}
	if len(cfg.Membership.Tiers) != 4 {
		t.Fatalf("membership tiers want 4 got %d", len(cfg.Membership.Tiers))
	}
	if cfg.Membership.Tiers[3].Level != "bachkim" {
		t.Fatalf("top tier want bachkim got %s", cfg.Membership.Tiers[3].Level)
	}
	if cfg.Cart.SessionHeader != "X-Cart-Token" {
		t.Fatalf("cart header want X-Cart-Token got %s", cfg.Cart.SessionHeader)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ORDER_SELF_CANCEL_WINDOW_HOURS", "6")
	t.Setenv("SERVER_PORT", "9090")

	cfg := Load()
	if cfg.Order.SelfCancelWindowHours != 6 {
		t.Fatalf("env override want 6 got %d", cfg.Order.SelfCancelWindowHours)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("env override port want 9090 got %s", cfg.Server.Port)
	}
}

func TestServerLocationFallback(t *testing.T) {
	if loc := (ServerConfig{Timezone: "Not/AZone"}).Location(); loc != time.Local {
		t.Fatalf("invalid timezone should fall back to local, got %v", loc)
	}
	if loc := (ServerConfig{Timezone: "UTC"}).Location(); loc.String() != "UTC" {
		t.Fatalf("timezone want UTC got %v", loc)
	}
}
