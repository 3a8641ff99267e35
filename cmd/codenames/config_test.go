package main

import (
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		desc    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			desc:   "defaults",
			mutate: func(*Config) {},
		},
		{
			desc:   "tallest and widest buttons",
			mutate: func(c *Config) { c.Height, c.Width = 7, 29 },
		},
		{
			desc:    "short buttons",
			mutate:  func(c *Config) { c.Height = 1 },
			wantErr: true,
		},
		{
			desc:    "wide buttons",
			mutate:  func(c *Config) { c.Width = 30 },
			wantErr: true,
		},
		{
			desc:    "unknown history",
			mutate:  func(c *Config) { c.History = "postgres" },
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			cfg := defaultConfig()
			test.mutate(cfg)
			err := cfg.validate()
			if test.wantErr && err == nil {
				t.Error("expected an error, got none")
			}
			if !test.wantErr && err != nil {
				t.Errorf("validate: %v", err)
			}
		})
	}
}

func TestRootCmdArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"5"})
	cmd.SetOut(new(discard))
	cmd.SetErr(new(discard))
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error with a missing words file")
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("CODENAMES_ADDR", "0.0.0.0:9000")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("EMAIL_ADDR", "hq@example.com")

	cfg := defaultConfig()
	if cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q, want 0.0.0.0:9000", cfg.Addr)
	}
	if cfg.Mail.Port != 587 {
		t.Errorf("SMTP port = %d, want 587", cfg.Mail.Port)
	}
	if cfg.Mail.Addr != "hq@example.com" {
		t.Errorf("e-mail address = %q, want hq@example.com", cfg.Mail.Addr)
	}
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) { return len(p), nil }
