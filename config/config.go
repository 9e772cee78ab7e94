/*
Copyright 2025 MilhasPix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "3000"

	// Upstream MilhasPix API serving the ranking and offers simulations.
	DEFAULT_UPSTREAM_URL = "https://api.milhaspix.com"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"MILHAS_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"MILHAS_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"MILHAS_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"MILHAS_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"MILHAS_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"MILHAS_SERVER_PORT"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"MILHAS_REDIS_DNS"`
}

type UpstreamConfig struct {
	BaseURL    string `json:"base_url" envconfig:"MILHAS_UPSTREAM_BASE_URL"`
	TimeoutSec int    `json:"timeout_sec" envconfig:"MILHAS_UPSTREAM_TIMEOUT_SEC"`
}

// SubmissionConfig drives the announcement endpoint. The simulated delay and
// failure rate reproduce the latency and fallibility of the real partner
// integration; the failure rate defaults to zero and is only turned on for
// demos.
type SubmissionConfig struct {
	Endpoint         string  `json:"endpoint" envconfig:"MILHAS_SUBMISSION_ENDPOINT"`
	SimulatedDelayMs int     `json:"simulated_delay_ms" envconfig:"MILHAS_SUBMISSION_DELAY_MS"`
	FailureRate      float64 `json:"failure_rate" envconfig:"MILHAS_SUBMISSION_FAILURE_RATE"`
}

type RankingConfig struct {
	DebounceMs  int `json:"debounce_ms" envconfig:"MILHAS_RANKING_DEBOUNCE_MS"`
	CacheTTLSec int `json:"cache_ttl_sec" envconfig:"MILHAS_RANKING_CACHE_TTL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"MILHAS_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"MILHAS_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"MILHAS_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"MILHAS_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"MILHAS_PROJECT_NAME"`
	Server       ServerConfig     `json:"server"`
	Redis        RedisConfig      `json:"redis"`
	Upstream     UpstreamConfig   `json:"upstream"`
	Submission   SubmissionConfig `json:"submission"`
	Ranking      RankingConfig    `json:"ranking"`
	RateLimit    RateLimitConfig  `json:"rate_limit"`
	Notification Notification     `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("milhas", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called milhas.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		cnf.ProjectName = "Milhas Server"
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	cnf.Upstream.BaseURL = strings.TrimSpace(cnf.Upstream.BaseURL)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Upstream.BaseURL == "" {
		cnf.Upstream.BaseURL = DEFAULT_UPSTREAM_URL
	}
	if cnf.Upstream.TimeoutSec <= 0 {
		cnf.Upstream.TimeoutSec = 10
	}

	// The form submits against our own announcement endpoint unless an
	// external one is configured.
	if cnf.Submission.Endpoint == "" {
		cnf.Submission.Endpoint = fmt.Sprintf("http://localhost:%s/api/announcement", cnf.Server.Port)
	}
	// A zero delay means "unset" and takes the demo default; a negative
	// value disables the delay outright.
	if cnf.Submission.SimulatedDelayMs == 0 {
		cnf.Submission.SimulatedDelayMs = 1500
	}
	if cnf.Submission.SimulatedDelayMs < 0 {
		cnf.Submission.SimulatedDelayMs = 0
	}
	if cnf.Submission.FailureRate < 0 || cnf.Submission.FailureRate > 1 {
		return errors.New("submission failure rate must be between 0 and 1")
	}

	if cnf.Ranking.DebounceMs <= 0 {
		cnf.Ranking.DebounceMs = 300
	}
	if cnf.Ranking.CacheTTLSec <= 0 {
		cnf.Ranking.CacheTTLSec = 300
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	if err := mockConfig.validateAndAddDefaults(); err != nil {
		logrus.Warn(err)
	}
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
