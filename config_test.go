package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		adminPassword:  "Admin@123",
		adminUsername:  "admin",
		jwtExpires:     time.Hour,
		port:           5175,
		rateLimitBurst: 10,
		rateLimitRPS:   5,
		sessionStore:   "memory",
	}
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Config)
		wantErr string
	}{
		"defaults":            {func(*Config) {}, ""},
		"port too high":       {func(c *Config) { c.port = 70000 }, "invalid port"},
		"unknown store":       {func(c *Config) { c.sessionStore = "disk" }, "invalid session store"},
		"redis without url":   {func(c *Config) { c.sessionStore = "redis" }, "--redis-url"},
		"redis with url":      {func(c *Config) { c.sessionStore, c.redisURL = "redis", "redis://localhost:6379/0" }, ""},
		"zero expiry":         {func(c *Config) { c.jwtExpires = 0 }, "jwt expiry"},
		"zero rate":           {func(c *Config) { c.rateLimitRPS = 0 }, "rate limit"},
		"empty admin":         {func(c *Config) { c.adminPassword = "" }, "admin"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			err := c.validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want it to mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestEnvironmentFillsFlags(t *testing.T) {
	t.Setenv("GUESSWORD_PORT", "9090")
	t.Setenv("GUESSWORD_SESSION_STORE", "redis")
	t.Setenv("GUESSWORD_DB_PATH", "/tmp/other.db")

	cfg := &Config{}
	newCmd(cfg)
	if cfg.port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.port)
	}
	if cfg.sessionStore != "redis" {
		t.Errorf("session store = %q, want redis", cfg.sessionStore)
	}
	if cfg.dbPath != "/tmp/other.db" {
		t.Errorf("db path = %q", cfg.dbPath)
	}
	if cfg.cookieName != "guessword_token" || cfg.jwtExpires != 7*24*time.Hour {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.addr() != "0.0.0.0:9090" {
		t.Errorf("addr = %q", cfg.addr())
	}
}

func TestReportCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "data", "guessword.db")

	run := func(args ...string) *bytes.Buffer {
		t.Helper()
		var out bytes.Buffer
		cmd := newCmd(&Config{})
		cmd.SetOut(&out)
		cmd.SetArgs(append(args, "--db-path", db))
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return &out
	}

	out := run("report", "daily", "--date", "2001-01-01")
	var d struct {
		Date       string `json:"date"`
		TotalGames int    `json:"totalGames"`
	}
	if err := json.Unmarshal(out.Bytes(), &d); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if d.Date != "2001-01-01" || d.TotalGames != 0 {
		t.Errorf("unexpected report: %+v", d)
	}

	out = run("report", "players")
	if strings.TrimSpace(out.String()) != "[]" {
		t.Errorf("players = %q, want []", out.String())
	}

	cmd := newCmd(&Config{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"report", "user", "--id", "42", "--db-path", db})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("unknown user err = %v", err)
	}

	cmd = newCmd(&Config{})
	cmd.SetArgs([]string{"report", "daily", "--date", "17/10/2026", "--db-path", db})
	if err := cmd.Execute(); err == nil {
		t.Error("expected malformed date to fail")
	}
}
