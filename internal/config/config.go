package config

import (
	"os"
	"strconv"
)

type Config struct {
	LogLevel string

	MatterName   string
	MatterNumber string
	OperatorName string

	HashWorkers   int
	HashQueueSize int

	OutputDir   string
	MetricsPort string
}

func Load() Config {
	return Config{
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		MatterName:   mustEnv("MATTER_NAME", "Smith & Smith"),
		MatterNumber: mustEnv("MATTER_NUMBER", "7729"),
		OperatorName: mustEnv("OPERATOR_NAME", "operator"),

		HashWorkers:   mustEnvInt("HASH_WORKERS", 4),
		HashQueueSize: mustEnvInt("HASH_QUEUE_SIZE", 64),

		OutputDir:   mustEnv("OUTPUT_DIR", "./out"),
		MetricsPort: mustEnv("METRICS_PORT", "9090"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
