package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/rent-intel/internal/config"
	"github.com/iwvelando/rent-intel/pkg/validation"
)

const testConfigPath = "../../test/test_config.yaml"

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		logging   config.LoggingConfig
		override  string
		wantError bool
	}{
		{name: "Defaults", logging: config.LoggingConfig{}},
		{name: "Console debug", logging: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "Warning alias", logging: config.LoggingConfig{Level: "warning", Format: "json"}},
		{name: "Override wins", logging: config.LoggingConfig{Level: "bogus"}, override: "error"},
		{name: "Invalid level", logging: config.LoggingConfig{Level: "verbose"}, wantError: true},
		{name: "Invalid format", logging: config.LoggingConfig{Format: "xml"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.logging, tt.override)
			if tt.wantError {
				if err == nil {
					t.Errorf("initializeLogger() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			if logger == nil {
				t.Errorf("initializeLogger() returned nil logger")
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rent-intel.log")

	logger, err := initializeLogger(config.LoggingConfig{Level: "info", Format: "json", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCommandJSON(t *testing.T) {
	out, err := executeRoot(t, "report", "--config", testConfigPath, "--output-format", "json")
	if err != nil {
		t.Fatalf("report command error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("report output is not JSON: %v\n%s", err, out)
	}
	listings, ok := decoded["listings"].([]interface{})
	if !ok || len(listings) != 3 {
		t.Errorf("expected 3 listings in JSON output, got %v", decoded["listings"])
	}
}

func TestReportCommandPrettyFromConfig(t *testing.T) {
	out, err := executeRoot(t, "report", "--config", testConfigPath)
	if err != nil {
		t.Fatalf("report command error = %v", err)
	}
	if !strings.Contains(out, "=== Rent intelligence report as of 2024-06-01 ===") {
		t.Errorf("expected pretty output from config, got:\n%s", out)
	}
}

func TestReportCommandErrors(t *testing.T) {
	_, err := executeRoot(t, "report", "--config", testConfigPath, "--output-format", "xml")
	if !errors.Is(err, validation.ErrInvalidOutputFormat) {
		t.Errorf("expected ErrInvalidOutputFormat, got %v", err)
	}

	_, err = executeRoot(t, "report", "--config", "missing.yaml")
	if err == nil || !strings.Contains(err.Error(), "failed to load configuration") {
		t.Errorf("expected configuration load error, got %v", err)
	}

	_, err = executeRoot(t, "report", "--config", testConfigPath, "--log-level", "loud")
	if err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("expected log level error, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeRoot(t, "version")
	if err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if out != "rent-intel version: dev\n" {
		t.Errorf("version output = %q", out)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := loadDotEnv(); err != nil {
		t.Errorf("loadDotEnv() error = %v, expected none without a .env file", err)
	}
}

func TestRunServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runServe(ctx, &rootOptions{logLevel: "error"}, &serveOptions{
		serverConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		address:          "127.0.0.1:0",
	})
	if err != nil {
		t.Errorf("runServe() error = %v, expected clean shutdown", err)
	}
}
