package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg := Load()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"ServerURL", cfg.ServerURL, "http://localhost:3000"},
		{"SocketURL", cfg.SocketURL, "ws://localhost:3000"},
		{"RequestTimeoutSeconds", cfg.RequestTimeoutSeconds, 10},
		{"Editor", cfg.Editor, ""},
		{"OplogPath", cfg.OplogPath, ""},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper()

	viper.SetEnvPrefix("ANVIL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	os.Setenv("ANVIL_SERVER_URL", "https://anvil.internal:8443")
	os.Setenv("ANVIL_REQUEST_TIMEOUT_SECONDS", "30")
	defer os.Unsetenv("ANVIL_SERVER_URL")
	defer os.Unsetenv("ANVIL_REQUEST_TIMEOUT_SECONDS")

	cfg := Load()
	if cfg.ServerURL != "https://anvil.internal:8443" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.RequestTimeoutSeconds != 30 {
		t.Errorf("RequestTimeoutSeconds = %d", cfg.RequestTimeoutSeconds)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout() = %v", cfg.RequestTimeout())
	}
}
