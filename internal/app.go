package internal

import (
	"context"
	"errors"
	"fmt"
	logger_adapter "listing-web/internal/adapters/logger"
	postgres_adapter "listing-web/internal/adapters/postgres"
	property_api_client "listing-web/internal/adapters/property_api_client"
	rabbitmq_adapter "listing-web/internal/adapters/rabbitmq"
	"listing-web/internal/adapters/redis_cache"
	"listing-web/internal/adapters/rest"
	"listing-web/internal/adapters/session"
	"listing-web/internal/configs"
	"listing-web/internal/core/port"
	"listing-web/internal/core/usecase"
	"listing-web/internal/core/view"
	fluentlogger "listing-web/pkg/fluent_logger"
	"listing-web/pkg/postgres"
	redisclient "listing-web/pkg/redis"
	"listing-web/pkg/rabbitmq/rabbitmq_common"
	"listing-web/pkg/rabbitmq/rabbitmq_consumer"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	redis     *redis.Client
	rabbit    *rabbitmq_common.ConnectionManager
	events    port.PropertyEventsListenerPort
	sessions  *session.Store
	apiServer *rest.Server

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
	baseLogger   port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	if err := app.initLoggers(); err != nil {
		return nil, err
	}
	appLogger := app.logger

	// --- 2. ИСТОЧНИК ДАННЫХ И КЭШ ---
	source, err := app.initSource()
	if err != nil {
		app.closeResources()
		return nil, err
	}

	cache, err := app.initCache()
	if err != nil {
		app.closeResources()
		return nil, err
	}
	appLogger.Info("All persistence and service adapters initialized.", port.Fields{
		"source":        appConfig.Source.Kind,
		"redis_enabled": appConfig.Redis.Enabled,
	})

	// --- 3. USE CASES ---
	loader := usecase.NewListingLoader(source, cache)
	listPropertiesUseCase := usecase.NewListPropertiesUseCase(loader)
	getListingPageUseCase := usecase.NewGetListingPageUseCase(loader)
	getPropertyDetailsUseCase := usecase.NewGetPropertyDetailsUseCase(loader)
	invalidatePropertyUseCase := usecase.NewInvalidatePropertyUseCase(cache, loader)

	// --- 4. СЕССИИ ПОСЕТИТЕЛЕЙ ---
	app.sessions = session.NewStore(session.Config{
		IdleTimeout: appConfig.Session.IdleTimeout,
		Listing: view.ListingConfig{
			InitialDelay:    appConfig.View.ListingInitialDelay,
			PageChangeDelay: appConfig.View.ListingPageChangeDelay,
		},
	}, getPropertyDetailsUseCase)
	if err := app.sessions.StartSweeper(appConfig.Session.SweepSchedule, app.baseLogger); err != nil {
		appLogger.Error("Failed to start session sweeper", err, nil)
		app.closeResources()
		return nil, err
	}

	// --- 5. СОБЫТИЯ ОБ ИЗМЕНЕНИИ ОБЪЯВЛЕНИЙ ---
	if appConfig.RabbitMQ.Enabled {
		if err := app.initEvents(invalidatePropertyUseCase); err != nil {
			app.closeResources()
			return nil, err
		}
	}

	// --- 6. HTTP ---
	renderer, err := rest.NewRenderer()
	if err != nil {
		appLogger.Error("Failed to parse page templates", err, nil)
		app.closeResources()
		return nil, err
	}
	serverCfg := rest.ServerConfig{
		Port:         appConfig.Rest.PORT,
		CORSOrigins:  appConfig.Rest.CORSOrigins,
		CookieSecure: appConfig.Session.CookieSecure,
	}
	pages := rest.NewPageHandler(listPropertiesUseCase, renderer, appConfig.View.DetailRenderWait)
	api := rest.NewAPIHandler(getListingPageUseCase, getPropertyDetailsUseCase)
	router := rest.NewRouter(serverCfg, pages, api, app.sessions, app.baseLogger)
	app.apiServer = rest.NewServer(serverCfg, router, app.baseLogger)
	appLogger.Info("HTTP server configured.", nil)

	return app, nil
}

func (a *App) initLoggers() error {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(a.config.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	if a.config.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      a.config.FluentBit.Host,
			Port:      a.config.FluentBit.Port,
			TagPrefix: a.config.AppName, // Используем имя приложения как префикс
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(a.config.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return err
		}
		a.fluentClient = fluentClient
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return fmt.Errorf("failed to create multi-logger: %w", err)
	}

	a.baseLogger = multiLogger.WithFields(port.Fields{"service_name": a.config.AppName})
	a.logger = a.baseLogger.WithFields(port.Fields{"component": "app"})
	a.logger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": a.config.FluentBit.Enabled,
	})
	return nil
}

func (a *App) initSource() (port.PropertySourcePort, error) {
	switch a.config.Source.Kind {
	case configs.SourcePostgres:
		dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: a.config.Database.URL})
		if err != nil {
			a.logger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		a.dbPool = dbPool
		a.logger.Info("Successfully connected to PostgreSQL pool!", nil)

		repo, err := postgres_adapter.NewPostgresPropertyRepository(dbPool)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres property repository: %w", err)
		}
		return repo, nil
	default:
		a.logger.Info("Using property API as data source", port.Fields{"url": a.config.Source.APIURL})
		return property_api_client.NewPropertyAPIClient(a.config.Source.APIURL, a.config.Source.Timeout), nil
	}
}

func (a *App) initCache() (port.PropertyCachePort, error) {
	if !a.config.Redis.Enabled {
		a.logger.Info("Redis cache disabled, using noop cache", nil)
		return redis_cache.NoopCache{}, nil
	}

	client, err := redisclient.NewClient(context.Background(), redisclient.Config{
		Addr:     a.config.Redis.Addr,
		Password: a.config.Redis.Password,
		DB:       a.config.Redis.DB,
	})
	if err != nil {
		a.logger.Error("Failed to connect to Redis", err, port.Fields{"addr": a.config.Redis.Addr})
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	a.redis = client
	a.logger.Info("Successfully connected to Redis!", port.Fields{"ttl": a.config.Redis.TTL.String()})
	return redis_cache.NewPropertyCache(client, a.config.Redis.TTL), nil
}

func (a *App) initEvents(invalidate *usecase.InvalidatePropertyUseCase) error {
	cfg := a.config.RabbitMQ
	commonCfg := rabbitmq_common.Config{URL: cfg.URL}

	rabbitLogger := a.baseLogger.WithFields(port.Fields{"component": "rabbitmq_connection"})
	connManager, err := rabbitmq_common.NewConnectionManager(commonCfg, rabbitmq_adapter.NewPkgLoggerBridge(rabbitLogger))
	if err != nil {
		a.logger.Error("Failed to connect to RabbitMQ", err, nil)
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	a.rabbit = connManager

	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:          commonCfg,
		QueueName:       cfg.Queue,
		Durable:         true,
		Exchange:        cfg.Exchange,
		ExchangeType:    "topic",
		DeclareExchange: true,
		RoutingKey:      cfg.RoutingKey,
		PrefetchCount:   10,
		ConsumerTag:     a.config.AppName,

		EnableRetry:        cfg.MaxRetries > 0,
		RetryExchange:      cfg.Queue + ".retry",
		RetryQueue:         cfg.Queue + ".wait",
		RetryTTLMillis:     int(cfg.RetryTTL.Milliseconds()),
		FinalDLXExchange:   cfg.Queue + ".dlx",
		FinalDLQ:           cfg.Queue + ".dlq",
		FinalDLQRoutingKey: cfg.Queue,
		MaxRetries:         cfg.MaxRetries,
	}

	adapter, err := rabbitmq_adapter.NewPropertyUpdatesConsumerAdapter(consumerCfg, invalidate, a.baseLogger, connManager)
	if err != nil {
		a.logger.Error("Failed to create property updates consumer", err, nil)
		return err
	}
	a.events = adapter
	a.logger.Info("Property updates consumer configured.", port.Fields{"queue": cfg.Queue, "exchange": cfg.Exchange})
	return nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Создаем единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Rest.ShutdownTimeout)
		defer cancel()

		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error during HTTP server shutdown", err, nil)
		}

		// Шаг 1: останавливаем потребителя событий и ждем его горутину
		cancelApp()
		if a.events != nil {
			if err := a.events.Close(); err != nil {
				a.logger.Error("Error closing property updates consumer", err, nil)
			}
		}
		wg.Wait()

		// Шаг 2: размонтируем сессии, это отменяет фоновые загрузки
		if err := a.sessions.Close(shutdownCtx); err != nil {
			a.logger.Error("Error closing session store", err, nil)
		}

		a.closeResources()
		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errCh := make(chan error, 2)
	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if a.events != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.logger.Info("Starting property updates consumer...", nil)
			if err := a.events.Start(appCtx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("property updates consumer stopped: %w", err)
			}
		}()
	}

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-errCh:
		a.logger.Error("Component failed, shutting down", err, nil)
		return err
	}
}

// closeResources закрывает внешние подключения, которые успели открыться
func (a *App) closeResources() {
	if a.sessions != nil {
		_ = a.sessions.Close(context.Background())
	}
	if a.rabbit != nil {
		if err := a.rabbit.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
		a.rabbit = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
		a.redis = nil
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.dbPool = nil
		a.logger.Info("PostgreSQL pool closed.", nil)
	}
}
