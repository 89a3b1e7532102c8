package config

import "testing"

func TestLoad_MemoryDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverMemory)
	t.Setenv("UNITS_FILE", "config/units.yaml")
	t.Setenv("TIMEZONE", "Europe/Paris")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want default 8080", cfg.Port)
	}
	if cfg.Location.String() != "Europe/Paris" {
		t.Errorf("Location = %s", cfg.Location)
	}
	if cfg.Now().Location() != cfg.Location {
		t.Error("Now is not in the configured zone")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"STORE_DRIVER": DriverPostgres, "DATABASE_URL": ""}},
		{"memory without units", map[string]string{"STORE_DRIVER": DriverMemory, "UNITS_FILE": ""}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}},
		{"bad timezone", map[string]string{"STORE_DRIVER": DriverMemory, "UNITS_FILE": "u.yaml", "TIMEZONE": "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TIMEZONE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
