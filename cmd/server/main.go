package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/config"
	"github.com/kvenanzi/debtreduction/internal/handler"
	"github.com/kvenanzi/debtreduction/internal/repository"
	"github.com/kvenanzi/debtreduction/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Загрузка конфигурации приложения
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Уровень логирования из конфигурации
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Подключение к PostgreSQL
	db, err := sql.Open("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	))
	if err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Проверка соединения с БД
	if err := db.Ping(); err != nil {
		logger.Fatalf("Ошибка проверки соединения с БД: %v", err)
	}

	// Подготовка схемы
	if err := repository.Migrate(db); err != nil {
		logger.Fatalf("Ошибка миграции схемы: %v", err)
	}

	// Кэш планов: Redis при наличии адреса, иначе кэш в памяти
	var planCache repository.CacheRepository
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.WithError(err).Warn("Redis недоступен, используется кэш в памяти")
			planCache = repository.NewMemoryCache()
		} else {
			logger.Infof("Кэш планов в Redis: %s", cfg.RedisAddr)
			planCache = repository.NewRedisCache(client, logger)
		}
	} else {
		planCache = repository.NewMemoryCache()
	}

	// Инициализация репозиториев
	logger.Info("Инициализация репозиториев...")
	settingRepo := repository.NewSettingRepository(db, logger)
	debtRepo := repository.NewDebtRepository(db, logger)
	scheduleRepo := repository.NewScheduleOverrideRepository(db, logger)
	paymentRepo := repository.NewPaymentOverrideRepository(db, logger)
	snapshotRepo := repository.NewPlanSnapshotRepository(db, logger)
	emailSender := service.NewEmailSender(logger)

	// Инициализация сервисов
	logger.Info("Инициализация сервисов...")
	settingService := service.NewSettingService(settingRepo, logger)
	debtService := service.NewDebtService(debtRepo, logger)
	overrideService := service.NewOverrideService(scheduleRepo, paymentRepo, debtRepo, logger)
	planService := service.NewPlanService(settingRepo, debtRepo, scheduleRepo, paymentRepo, planCache, logger)
	snapshotService := service.NewSnapshotService(planService, settingRepo, snapshotRepo, emailSender, cfg.NotifyEmail, logger)

	// Инициализация HTTP обработчиков
	logger.Info("Инициализация обработчиков API...")
	settingHandler := handler.NewSettingHandler(settingService, logger)
	debtHandler := handler.NewDebtHandler(debtService, logger)
	overrideHandler := handler.NewOverrideHandler(overrideService, logger)
	planHandler := handler.NewPlanHandler(planService, logger)
	snapshotHandler := handler.NewSnapshotHandler(snapshotService, logger)

	// Настройка маршрутизатора
	router := mux.NewRouter()

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(handler.LoggingMiddleware(logger))

	// Маршруты настроек планировщика
	settingRouter := apiRouter.PathPrefix("/settings").Subrouter()
	settingHandler.RegisterRoutes(settingRouter)

	// Маршруты долгов
	debtRouter := apiRouter.PathPrefix("/debts").Subrouter()
	debtHandler.RegisterRoutes(debtRouter)

	// Маршруты переопределений (расписание и платежи)
	overrideHandler.RegisterRoutes(apiRouter)

	// Маршрут симуляции
	planRouter := apiRouter.PathPrefix("/simulation").Subrouter()
	planHandler.RegisterRoutes(planRouter)

	// Маршруты снимков плана
	snapshotRouter := apiRouter.PathPrefix("/snapshots").Subrouter()
	snapshotHandler.RegisterRoutes(snapshotRouter)

	// Настройка планировщика для периодических снимков плана
	logger.Info("Настройка планировщика снимков плана...")
	c := cron.New()
	_, err = c.AddFunc(cfg.SnapshotCron, func() {
		logger.Info("Запуск планового снимка плана погашения")
		if _, err := snapshotService.Capture(context.Background()); err != nil {
			logger.WithError(err).Error("Ошибка создания снимка плана")
		} else {
			logger.Info("Снимок плана создан успешно")
		}
	})
	if err != nil {
		logger.Fatalf("Ошибка настройки планировщика: %v", err)
	}
	c.Start()

	// Настройка и запуск HTTP сервера
	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	go func() {
		logger.Infof("Запуск сервера на %s", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание сигналов для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Завершение работы сервера...")
	c.Stop()
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Errorf("Ошибка при завершении работы сервера: %v", err)
	}
	logger.Info("Сервер успешно остановлен")
}
