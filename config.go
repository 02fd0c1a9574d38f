package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	BoltBackend  = "bolt"
	RedisBackend = "redis"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string           `yaml:"git_commit" envconfig:"LIBRARY_GIT_COMMIT"`
	GitTag             string           `yaml:"git_tag" envconfig:"LIBRARY_GIT_TAG"`
	BuildTime          string           `yaml:"build_time" envconfig:"LIBRARY_BUILD_TIME"`
	IsProduction       bool             `yaml:"is_production" envconfig:"LIBRARY_IS_PRODUCTION"`
	LogLevel           zapcore.Level    `yaml:"log_level" envconfig:"LIBRARY_LOG_LEVEL"`
	LogFolder          string           `yaml:"log_folder" envconfig:"LIBRARY_LOG_FOLDER"`
	LogMaxSize         int              `yaml:"log_max_size" envconfig:"LIBRARY_LOG_MAX_SIZE"` // in megabytes
	OpsEndpointsEnable bool             `yaml:"ops_endpoints_enable" envconfig:"LIBRARY_OPS_ENDPOINTS_ENABLE"`
	ProfilerEnable     bool             `yaml:"profiler_enable" envconfig:"LIBRARY_PROFILER_ENABLE"`
	Server             ServerConfig     `yaml:"server"`
	Storage            StorageConfig    `yaml:"storage"`
	Redis              RedisConfig      `yaml:"redis"`
	BoltDB             BoltDBConfig     `yaml:"boltdb"`
	Auth               AuthConfig       `yaml:"auth"`
	Seed               SeedConfig       `yaml:"seed"`
	Shell              ShellConfig      `yaml:"shell"`
	Resilience         ResilienceConfig `yaml:"resilience"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"LIBRARY_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"LIBRARY_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"LIBRARY_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"LIBRARY_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"LIBRARY_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"LIBRARY_SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects the document store backend and the cascade retry behavior.
// CascadeRetryBackoff is the wait after the first failed retry, doubled on each next one.
type StorageConfig struct {
	Backend             string        `yaml:"backend" envconfig:"LIBRARY_STORAGE_BACKEND"`
	CascadeRetry        bool          `yaml:"cascade_retry" envconfig:"LIBRARY_STORAGE_CASCADE_RETRY"`
	CascadeMaxAttempts  int           `yaml:"cascade_max_attempts" envconfig:"LIBRARY_STORAGE_CASCADE_MAX_ATTEMPTS"`
	CascadeRetryBackoff time.Duration `yaml:"cascade_retry_backoff" envconfig:"LIBRARY_STORAGE_CASCADE_RETRY_BACKOFF"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"LIBRARY_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"LIBRARY_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"LIBRARY_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"LIBRARY_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"LIBRARY_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"LIBRARY_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"LIBRARY_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"LIBRARY_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"LIBRARY_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"LIBRARY_REDIS_DATABASE_INDEX"`
	KeyPrefix     string        `yaml:"key_prefix" envconfig:"LIBRARY_REDIS_KEY_PREFIX"`
}

type BoltDBConfig struct {
	FilePath     string        `yaml:"filepath" envconfig:"LIBRARY_BOLTDB_FILE_PATH"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"LIBRARY_BOLTDB_TIMEOUT"`
	BucketPrefix string        `yaml:"bucket_prefix" envconfig:"LIBRARY_BOLTDB_BUCKET_PREFIX"`
}

// AuthConfig toggles the basic authentication of api calls.
type AuthConfig struct {
	Enable bool   `yaml:"enable" envconfig:"LIBRARY_AUTH_ENABLE"`
	Realm  string `yaml:"realm" envconfig:"LIBRARY_AUTH_REALM"`
}

// SeedConfig drives the startup data seeding.
type SeedConfig struct {
	Enable        bool   `yaml:"enable" envconfig:"LIBRARY_SEED_ENABLE"`
	UserPassword  string `yaml:"user_password" envconfig:"LIBRARY_SEED_USER_PASSWORD"`
	AdminPassword string `yaml:"admin_password" envconfig:"LIBRARY_SEED_ADMIN_PASSWORD"`
}

type ShellConfig struct {
	Enable      bool   `yaml:"enable" envconfig:"LIBRARY_SHELL_ENABLE"`
	Prompt      string `yaml:"prompt" envconfig:"LIBRARY_SHELL_PROMPT"`
	HistoryFile string `yaml:"history_file" envconfig:"LIBRARY_SHELL_HISTORY_FILE"`
}

// ResilienceConfig configures the read policy. Fault injection is meant
// for resilience testing only.
type ResilienceConfig struct {
	Enable                 bool          `yaml:"enable" envconfig:"LIBRARY_RESILIENCE_ENABLE"`
	Timeout                time.Duration `yaml:"timeout" envconfig:"LIBRARY_RESILIENCE_TIMEOUT"`
	FaultInjection         bool          `yaml:"fault_injection" envconfig:"LIBRARY_RESILIENCE_FAULT_INJECTION"`
	FaultLatency           time.Duration `yaml:"fault_latency" envconfig:"LIBRARY_RESILIENCE_FAULT_LATENCY"`
	FaultProbabilityFactor int           `yaml:"fault_probability_factor" envconfig:"LIBRARY_RESILIENCE_FAULT_PROBABILITY_FACTOR"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if config.Storage.Backend == "" {
		config.Storage.Backend = BoltBackend
	}

	switch config.Storage.Backend {
	case BoltBackend:
		if len(config.BoltDB.FilePath) == 0 {
			return errors.New("make sure to set valid boltdb file path in configuration file")
		}
	case RedisBackend:
	default:
		return fmt.Errorf("unsupported storage backend %q", config.Storage.Backend)
	}

	if config.Storage.Backend == RedisBackend || config.Storage.CascadeRetry {
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	}

	if config.Storage.CascadeMaxAttempts <= 0 {
		config.Storage.CascadeMaxAttempts = 3
	}

	if config.Storage.CascadeRetryBackoff <= 0 {
		config.Storage.CascadeRetryBackoff = 2 * time.Second
	}

	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}

	if config.LogFolder == "" {
		config.LogFolder = "./logs"
	}

	if config.Auth.Realm == "" {
		config.Auth.Realm = "library"
	}

	if config.Shell.Prompt == "" {
		config.Shell.Prompt = "library:> "
	}

	if config.Resilience.Timeout <= 0 {
		config.Resilience.Timeout = 2 * time.Second
	}

	if config.Resilience.FaultProbabilityFactor <= 0 {
		config.Resilience.FaultProbabilityFactor = 3
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration. The file is optional.
	err = godotenv.Load("./config.env")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `LIBRARY`.
	err = LoadConfigEnvs("LIBRARY", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
