package config

import (
	"os"
)

type Config struct {
	Port            string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	RedisHost       string
	RedisPort       string
	EventStream     string
	SessionSecret   string
	GinMode         string
	OpenAIAPIKey    string
	SpawnerInterval string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "todo"),
		DBPassword:      getEnv("DB_PASSWORD", "todo"),
		DBName:          getEnv("DB_NAME", "todo"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		EventStream:     getEnv("EVENT_STREAM", "task-events"),
		SessionSecret:   getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		SpawnerInterval: getEnv("SPAWNER_INTERVAL", "1m"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
