package main

import (
	"os"
	"path/filepath"
	"testing"

	"cnunits/logging"
)

func TestRun_Infotext(t *testing.T) {
	code := run([]string{"-infotext",
		"module: canny, model: control_v11p_sd15_canny, weight: 1, resize_mode: Crop and Resize, " +
			"processor_res: 512, threshold_a: 100, threshold_b: 200, guidance_start: 0, " +
			"guidance_end: 1, pixel_perfect: False, control_mode: Balanced"})
	if code != ExitCodeSuccess {
		t.Errorf("run = %d, want %d", code, ExitCodeSuccess)
	}
}

func TestRun_InvalidInfotext(t *testing.T) {
	code := run([]string{"-infotext", "module: canny, segment without separator"})
	if code != ExitCodeError {
		t.Errorf("run = %d, want %d", code, ExitCodeError)
	}
}

func TestRun_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.json")
	payload := `{"enabled": true, "module": "canny", "model": "control_v11p_sd15_canny"}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("writing payload: %v", err)
	}
	if code := run([]string{"-json", path}); code != ExitCodeSuccess {
		t.Errorf("run = %d, want %d", code, ExitCodeSuccess)
	}
}

func TestRun_ListModules(t *testing.T) {
	if code := run([]string{"-modules"}); code != ExitCodeSuccess {
		t.Errorf("run = %d, want %d", code, ExitCodeSuccess)
	}
}

func TestRun_NoInput(t *testing.T) {
	if code := run(nil); code != ExitCodeUsage {
		t.Errorf("run = %d, want %d", code, ExitCodeUsage)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"CNUNITS_LOG_LEVEL", "CNUNITS_LOG_FILE", "CNUNITS_REGISTRY_FILE", "CNUNITS_DEV_MODE"} {
		t.Setenv(key, "")
	}
	config := LoadConfig()
	if config.LogLevel != logging.InfoLevel {
		t.Errorf("LogLevel = %v, want info", config.LogLevel)
	}
	if config.LogFile != "" || config.RegistryFile != "" || config.DevMode {
		t.Errorf("unexpected non-default config: %+v", config)
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"YES", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"off", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("CNUNITS_TEST_BOOL", tt.value)
			if got := ParseBoolEnv("CNUNITS_TEST_BOOL", false); got != tt.want {
				t.Errorf("ParseBoolEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
