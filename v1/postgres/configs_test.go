package postgres

import "testing"

func TestConfig_DSNString(t *testing.T) {
	cfg := Config{Connection: Connection{
		Host:     "db",
		Port:     "5433",
		User:     "todo",
		Password: "secret",
		DbName:   "todos",
		SSLMode:  "disable",
	}}

	want := "host=db port=5433 user=todo password=secret dbname=todos sslmode=disable"
	if got := cfg.DSNString(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := cfg.Redacted(); got != "db:5433/todos" {
		t.Errorf("unexpected redacted target %q", got)
	}
}

func TestConfig_DSNOverride(t *testing.T) {
	cfg := Config{
		Connection: Connection{Host: "ignored"},
		DSN:        "postgres://todo:secret@db:5432/todos?sslmode=disable",
	}

	if got := cfg.DSNString(); got != cfg.DSN {
		t.Errorf("expected DSN override, got %q", got)
	}
	if got := cfg.Redacted(); got != "postgres://todo:xxxxx@db:5432/todos?sslmode=disable" {
		t.Errorf("password not redacted: %q", got)
	}

	cfg.DSN = "host=db password=secret"
	if got := cfg.Redacted(); got != "<dsn>" {
		t.Errorf("expected opaque placeholder, got %q", got)
	}
}
