package config

import "testing"

func TestParseEnvDefaults(t *testing.T) {
	type cfg struct {
		Port int    `env:"CANDLEWICK_TEST_PORT" envDefault:"8080"`
		Addr string `env:"CANDLEWICK_TEST_ADDR"`
	}
	var c cfg
	if err := ParseEnv(&c); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if c.Port != 8080 {
		t.Fatalf("port = %d, want 8080", c.Port)
	}
	if c.Addr != "" {
		t.Fatalf("addr = %q, want empty", c.Addr)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	type cfg struct {
		Port int `env:"CANDLEWICK_TEST_PORT" envDefault:"8080"`
	}
	t.Setenv("CANDLEWICK_TEST_PORT", "9001")
	var c cfg
	if err := ParseEnv(&c); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if c.Port != 9001 {
		t.Fatalf("port = %d, want 9001", c.Port)
	}
}
