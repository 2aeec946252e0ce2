package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"weather-widget/providers"
)

type Config struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	ServerPort         string
	PrefsDB            string // путь к sqlite файлу с настройками
	SessionID          string // сессия командной строки
	HTTPTimeout        time.Duration
}

// Load читает конфигурацию из окружения и .env.
// Пустой API ключ не ошибка: виджет сообщит об этом при поиске.
func Load() *Config {
	// Загружаем .env файл если существует
	godotenv.Load()

	return &Config{
		OpenWeatherAPIKey:  getEnv("OPENWEATHER_API_KEY", ""),
		OpenWeatherBaseURL: getEnv("OPENWEATHER_BASE_URL", providers.DefaultBaseURL),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		PrefsDB:            getEnv("PREFS_DB", "weather.db"),
		SessionID:          getEnv("SESSION_ID", "cli"),
		HTTPTimeout:        time.Duration(getEnvAsInt("HTTP_TIMEOUT", 10)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil || intValue <= 0 {
		return defaultValue
	}
	return intValue
}
