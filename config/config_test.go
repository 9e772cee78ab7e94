package config

import (
	"encoding/json"
	"os"
	"testing"
)

func TestValidateAndAddDefaults(t *testing.T) {
	cnf := Configuration{
		ProjectName: "",
		Redis: RedisConfig{
			Dns: "",
		},
	}

	err := cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "redis DNS is required" {
		t.Errorf("Expected redis DNS required error, got %v", err)
	}

	cnf = Configuration{
		ProjectName: "Test Project",
		Redis: RedisConfig{
			Dns: "localhost:6379",
		},
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Test default port and derived submission endpoint
	cnf.Server.Port = ""
	cnf.Submission.Endpoint = ""
	err = cnf.validateAndAddDefaults()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cnf.Server.Port != DEFAULT_PORT {
		t.Errorf("Expected default port %s, got %s", DEFAULT_PORT, cnf.Server.Port)
	}
	if cnf.Submission.Endpoint != "http://localhost:"+DEFAULT_PORT+"/api/announcement" {
		t.Errorf("Unexpected default submission endpoint: %s", cnf.Submission.Endpoint)
	}
	if cnf.Upstream.BaseURL != DEFAULT_UPSTREAM_URL {
		t.Errorf("Expected default upstream url, got %s", cnf.Upstream.BaseURL)
	}
	if cnf.Ranking.DebounceMs != 300 {
		t.Errorf("Expected default debounce 300ms, got %d", cnf.Ranking.DebounceMs)
	}
	if cnf.Ranking.CacheTTLSec != 300 {
		t.Errorf("Expected default cache ttl 300s, got %d", cnf.Ranking.CacheTTLSec)
	}
	if cnf.Submission.SimulatedDelayMs != 1500 {
		t.Errorf("Expected default simulated delay 1500ms, got %d", cnf.Submission.SimulatedDelayMs)
	}

	// A negative delay disables it
	cnf.Submission.SimulatedDelayMs = -1
	if err := cnf.validateAndAddDefaults(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cnf.Submission.SimulatedDelayMs != 0 {
		t.Errorf("Expected disabled delay, got %d", cnf.Submission.SimulatedDelayMs)
	}

	// Failure rate must stay within [0, 1]
	cnf.Submission.FailureRate = 1.5
	if err := cnf.validateAndAddDefaults(); err == nil {
		t.Error("Expected failure rate validation error, got nil")
	}
}

func TestRateLimitDefaults(t *testing.T) {
	rps := 10.0
	cnf := Configuration{
		Redis:     RedisConfig{Dns: "localhost:6379"},
		RateLimit: RateLimitConfig{RequestsPerSecond: &rps},
	}

	if err := cnf.validateAndAddDefaults(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cnf.RateLimit.Burst == nil || *cnf.RateLimit.Burst != 20 {
		t.Errorf("Expected derived burst 20, got %v", cnf.RateLimit.Burst)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		t.Error("Expected default cleanup interval, got nil")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "milhas.json")
	if err != nil {
		t.Fatalf("Unable to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	sampleConfig := Configuration{
		ProjectName: "Temp Project",
		Redis: RedisConfig{
			Dns: "localhost:6379",
		},
		Server: ServerConfig{
			Port: "4100",
		},
	}

	if err := json.NewEncoder(tmpFile).Encode(&sampleConfig); err != nil {
		t.Fatalf("Unable to write to temporary file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("Unable to close temporary file: %v", err)
	}

	if err := loadConfigFromFile(tmpFile.Name()); err != nil {
		t.Fatalf("loadConfigFromFile returned error: %v", err)
	}

	loaded, err := Fetch()
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if loaded.ProjectName != "Temp Project" {
		t.Errorf("Expected project name to survive the round trip, got %s", loaded.ProjectName)
	}
	if loaded.Server.Port != "4100" {
		t.Errorf("Expected configured port 4100, got %s", loaded.Server.Port)
	}
}
