package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/St1cky1/task-manager/internal/api"
	"github.com/St1cky1/task-manager/internal/config"
	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/St1cky1/task-manager/internal/infrastructure/client"
	"github.com/St1cky1/task-manager/internal/repository"
	"github.com/St1cky1/task-manager/internal/telemetry"
	"github.com/St1cky1/task-manager/internal/usecase"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	env, err := config.Process()
	if err != nil {
		log.Fatal("❌ Ошибка чтения конфигурации:", err)
	}

	// Запускаем миграции
	if err := runMigrations(env.MigrationsPath, env.DatabaseURL()); err != nil {
		log.Fatal("❌ Ошибка миграций:", err)
	}

	// Подключаемся к БД
	pg, err := client.NewPostgresClient(context.Background(), env.DatabaseURL())
	if err != nil {
		log.Fatal("❌ Ошибка подключения к БД:", err)
	}
	defer pg.Close()
	fmt.Println("✅ Подключение к БД установлено")

	// Логгер и отправка телеметрии
	logger, err := telemetry.NewConsoleLogger(env.LogLevel)
	if err != nil {
		log.Fatal("❌ Ошибка инициализации логгера:", err)
	}
	defer logger.Sync()

	var shipper *telemetry.Shipper
	if env.AMQPURL != "" {
		rabbit, err := client.NewRabbitMQClient(env.AMQPURL, env.TelemetryQueue)
		if err != nil {
			log.Fatal("❌ Ошибка подключения к RabbitMQ:", err)
		}
		defer rabbit.Close()
		fmt.Println("✅ Подключение к RabbitMQ установлено")

		shipper = telemetry.NewShipper(rabbit, env.ShipperBuffer, logger)
		logger = telemetry.WithShipper(logger, shipper)
	} else {
		logger.Warn("telemetry shipping disabled: AMQP_URL is not set")
	}

	// Инициализируем репозитории и сервисы
	taskRepo := repository.NewTaskRepository(pg.Pool)
	userRepo := repository.NewUserRepository(pg.Pool)
	taskService := usecase.NewTaskService(taskRepo, userRepo, logger)

	if env.SeedDemoUser {
		if err := ensureDemoUser(context.Background(), userRepo, logger); err != nil {
			log.Fatal("❌ Ошибка создания тестового пользователя:", err)
		}
	}

	router := api.NewRouter(taskService, pg, logger, env.RequestTimeout)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", env.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server started", zap.Int("port", env.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(server, shipper, logger)
}

func waitForShutdown(server *http.Server, shipper *telemetry.Shipper, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("Завершение работы...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// Дожидаемся отправки накопленной телеметрии. Отдельный таймаут,
	// чтобы Drain не получал контекст, частично съеденный Shutdown.
	if shipper != nil {
		drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer drainCancel()

		if err := shipper.Drain(drainCtx); err != nil {
			logger.Warn("telemetry drain interrupted", zap.Error(err))
		}
		if n := shipper.Dropped(); n > 0 {
			logger.Warn("telemetry entries dropped", zap.Int64("count", n))
		}
	}

	fmt.Println("✅ Приложение завершено корректно")
}

// ensureDemoUser создает пользователя для локальной разработки,
// если таблица users еще пуста.
func ensureDemoUser(ctx context.Context, userRepo repository.IUserRepository, logger *zap.Logger) error {
	user, err := userRepo.GetById(ctx, 1)
	if err != nil {
		return fmt.Errorf("поиск тестового пользователя: %w", err)
	}
	if user != nil {
		return nil
	}

	created, err := userRepo.Create(ctx, &entity.CreateUserRequest{Name: "demo"})
	if err != nil {
		return fmt.Errorf("создание тестового пользователя: %w", err)
	}

	logger.Info("demo user created", zap.Int("user_id", created.ID))
	return nil
}

func runMigrations(sourceURL, dbURL string) error {
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return fmt.Errorf("ошибка создания мигратора: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("ошибка выполнения миграций: %w", err)
	}

	fmt.Println("✅ Миграции выполнены успешно")
	return nil
}
