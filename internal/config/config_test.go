package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFallsBackToEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Database.Driver != "sqlite" || cfg.Auth.JWTSecret != "secret" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.HTTP.Address != ":3000" || cfg.HTTP.RequestTimeout != 10*time.Second {
		t.Fatalf("expected http defaults, got %+v", cfg.HTTP)
	}
	if cfg.Auth.TokenTTL != 168*time.Hour {
		t.Fatalf("expected default token ttl, got %s", cfg.Auth.TokenTTL)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `log_level: DEBUG
http:
  address: ":8080"
database:
  driver: postgres
  dsn: postgres://localhost/taskboard
auth:
  jwt_secret: from-file
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogLevel != "DEBUG" || cfg.HTTP.Address != ":8080" || cfg.Auth.JWTSecret != "from-file" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsBlankRequiredValues(t *testing.T) {
	tests := []struct {
		name   string
		dsn    string
		secret string
	}{
		{name: "empty secret", dsn: "postgres://localhost/taskboard", secret: ""},
		{name: "whitespace secret", dsn: "postgres://localhost/taskboard", secret: "   "},
		{name: "empty dsn", dsn: "", secret: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", tt.dsn)
			t.Setenv("JWT_SECRET", tt.secret)

			if _, err := Load(""); err == nil {
				t.Fatal("expected error for blank required value")
			}
		})
	}
}
