package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config содержит настройки приложения
type Config struct {
	DBHost       string // Хост базы данных
	DBPort       string // Порт базы данных
	DBUser       string // Пользователь базы данных
	DBPassword   string // Пароль базы данных
	DBName       string // Имя базы данных
	ServerAddr   string // Адрес HTTP сервера
	RedisAddr    string // Адрес Redis (пустая строка отключает кэш в Redis)
	SnapshotCron string // Расписание снимков плана в формате cron
	NotifyEmail  string // Адрес для email уведомлений о снимках
	LogLevel     string // Уровень логирования
}

// LoadConfig загружает конфигурацию из .env файла
func LoadConfig() (*Config, error) {
	// Загружаем переменные окружения из .env файла
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Файл .env не найден")
	}

	// Создаем объект конфигурации
	config := &Config{
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBName:       getEnv("DB_NAME", "debtreduction"),
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		SnapshotCron: getEnv("SNAPSHOT_CRON", "0 6 * * *"),
		NotifyEmail:  os.Getenv("NOTIFY_EMAIL"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	return config, nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
