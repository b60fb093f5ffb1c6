package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "test",
			Password: "test",
			Database: "test_db",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Scheduler: SchedulerConfig{
			MaxAttempts:       5,
			InitialRetryDelay: 30 * time.Second,
			MaxRetryDelay:     15 * time.Minute,
			RetryMultiplier:   2.0,
			LockTTL:           30 * time.Second,
			SubmitTimeout:     60 * time.Second,
		},
		Worker: WorkerConfig{
			JobPollInterval:     time.Second,
			JobBatchSize:        10,
			MaxConcurrentJobs:   8,
			OutboxDrainInterval: 30 * time.Second,
			OutboxMaxRetries:    10,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"port too low", 0},
		{"port negative", -1},
		{"port too high", 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_InvalidTimeouts(t *testing.T) {
	cfg := validConfig()
	cfg.Server.ReadTimeout = 0
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read_timeout")

	cfg = validConfig()
	cfg.Server.WriteTimeout = 0
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "write_timeout")
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")
}

func TestConfig_Validate_InvalidSchedulerMaxAttempts(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.MaxAttempts = 0
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler.max_attempts")
}

func TestConfig_Validate_InvalidRetryMultiplier(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.RetryMultiplier = 0.5
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler.retry_multiplier")
}

func TestConfig_Validate_InvalidLockTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.LockTTL = 0
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler.lock_ttl")
}

func TestConfig_Validate_InvalidWorkerSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Worker.JobBatchSize = 0
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "worker.job_batch_size")

	cfg = validConfig()
	cfg.Worker.MaxConcurrentJobs = 0
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "worker.max_concurrent_jobs")

	cfg = validConfig()
	cfg.Worker.OutboxMaxRetries = 0
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "worker.outbox_max_retries")
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "server.port")
	assert.Contains(t, errStr, "database.host")
	assert.Contains(t, errStr, "redis.port")
	assert.Contains(t, errStr, "scheduler.max_attempts")
	assert.Contains(t, errStr, "worker.job_batch_size")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "app",
		Password: "secret",
		Database: "schedpay",
		SSLMode:  "require",
	}

	dsn := cfg.DatabaseDSN()
	assert.Contains(t, dsn, "host=db.example.com")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "dbname=schedpay")
	assert.Contains(t, dsn, "sslmode=require")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.example.com", Port: 6379}
	assert.Equal(t, "redis.example.com:6379", cfg.RedisAddr())
}
