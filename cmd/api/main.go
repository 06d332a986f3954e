package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/waqas1412/ReAgentWABot-sub001/config"
	appointmentrepo "github.com/waqas1412/ReAgentWABot-sub001/internal/repositories/appointment"
	preferencerepo "github.com/waqas1412/ReAgentWABot-sub001/internal/repositories/preference"
	propertyrepo "github.com/waqas1412/ReAgentWABot-sub001/internal/repositories/property"
	refdatarepo "github.com/waqas1412/ReAgentWABot-sub001/internal/repositories/refdata"
	timeslotrepo "github.com/waqas1412/ReAgentWABot-sub001/internal/repositories/timeslot"
	userrepo "github.com/waqas1412/ReAgentWABot-sub001/internal/repositories/user"
	bookingsvc "github.com/waqas1412/ReAgentWABot-sub001/internal/services/booking"
	propertysvc "github.com/waqas1412/ReAgentWABot-sub001/internal/services/property"
	seedsvc "github.com/waqas1412/ReAgentWABot-sub001/internal/services/seed"
	statssvc "github.com/waqas1412/ReAgentWABot-sub001/internal/services/stats"
	usersvc "github.com/waqas1412/ReAgentWABot-sub001/internal/services/user"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/database"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/dedup"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/intent"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/middleware"
	appointmentroutes "github.com/waqas1412/ReAgentWABot-sub001/pkg/routes/appointment"
	healthroutes "github.com/waqas1412/ReAgentWABot-sub001/pkg/routes/health"
	messageroutes "github.com/waqas1412/ReAgentWABot-sub001/pkg/routes/message"
	propertyroutes "github.com/waqas1412/ReAgentWABot-sub001/pkg/routes/property"
	statsroutes "github.com/waqas1412/ReAgentWABot-sub001/pkg/routes/stats"
	userroutes "github.com/waqas1412/ReAgentWABot-sub001/pkg/routes/user"
	webhookroutes "github.com/waqas1412/ReAgentWABot-sub001/pkg/routes/webhook"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/startup"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/whatsapp"
)

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("api exited with error")
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) (ectologger.Logger, error) {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return zapadapter.NewZapEctoLogger(zapLogger.With(zap.String("app", cfg.AppName)), nil), nil
}

func run(cfg config.Config, logger ectologger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracerProvider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tracerProvider)
	tracing.SetTracer(otel.Tracer(cfg.AppName))
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("failed to shut down tracer provider")
		}
	}()

	storeTimeout := time.Duration(cfg.StoreTimeoutSeconds) * time.Second

	// Repositories hold this pointer; the pools connect during startup.
	handles := database.NewHandles(nil, nil)

	users := userrepo.NewRepository(handles, logger, storeTimeout)
	properties := propertyrepo.NewRepository(handles, logger, storeTimeout)
	preferences := preferencerepo.NewRepository(handles, logger, storeTimeout)
	timeSlots := timeslotrepo.NewRepository(handles, logger, storeTimeout)
	appointments := appointmentrepo.NewRepository(handles, logger, storeTimeout)
	refData := refdatarepo.NewRepository(handles, logger, storeTimeout)

	userService := usersvc.NewService(users, refData, preferences, logger)
	propertyService := propertysvc.NewService(properties, preferences, refData, logger)
	bookingService := bookingsvc.NewService(users, timeSlots, appointments, logger, cfg.UpcomingWindowDays, cfg.PastWindowDays)
	statsService := statssvc.NewService(users, properties, appointments, logger, cfg.UpcomingWindowDays, cfg.PastWindowDays)
	seedService := seedsvc.NewService(refData, timeSlots, logger)

	router := intent.NewRouter(propertyService, userService, bookingService, refData, logger, cfg.SearchResultLimit)

	sender := whatsapp.NewClient(whatsapp.Config{
		BaseURL:    cfg.WhatsAppBaseURL,
		AuthToken:  cfg.WhatsAppAuthToken,
		FromNumber: cfg.WhatsAppFromNumber,
		Timeout:    cfg.WhatsAppTimeoutSeconds,
	}, logger)

	dbDep := &databaseDependency{cfg: cfg, logger: logger, handles: handles}
	redisDep := &redisDependency{cfg: cfg, logger: logger}

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	boot.AddDependency(dbDep)
	boot.AddDependency(redisDep)
	boot.AddDependency(seedService)
	if err := boot.Start(ctx); err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	defer func() {
		if err := boot.Stop(context.Background()); err != nil {
			logger.WithError(err).Error("failed to stop dependencies")
		}
	}()

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return fmt.Errorf("failed to create dependency container: %w", err)
	}
	registrations := []error{
		ectoinject.RegisterInstance[ectologger.Logger](container, logger),
		ectoinject.RegisterInstance[*database.Handles](container, handles),
		ectoinject.RegisterInstance[dedup.Deduper](container, redisDep.store),
		ectoinject.RegisterInstance[*intent.Router](container, router),
		ectoinject.RegisterInstance[whatsapp.Sender](container, sender),
		ectoinject.RegisterInstance[*usersvc.Service](container, userService),
		ectoinject.RegisterInstance[*propertysvc.Service](container, propertyService),
		ectoinject.RegisterInstance[*bookingsvc.Service](container, bookingService),
		ectoinject.RegisterInstance[*statssvc.Service](container, statsService),
	}
	for _, err := range registrations {
		if err != nil {
			return fmt.Errorf("failed to register dependency: %w", err)
		}
	}

	e := newServer(cfg, logger, container.GetContainerID())

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("http server stopped")
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Infof("Received signal %s, shutting down", sig)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}

func newServer(cfg config.Config, logger ectologger.Logger, containerID string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.DI(containerID))
	e.Use(middleware.Logger(logger))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	healthroutes.Register(api)
	propertyroutes.Register(api)
	messageroutes.Register(api)
	statsroutes.Register(api)
	userroutes.Register(api)
	appointmentroutes.Register(api)

	hook := e.Group("", middleware.VerifySignature(cfg.WebhookSecret))
	webhookroutes.Register(hook)

	return e
}

// databaseDependency connects both pools and applies migrations.
type databaseDependency struct {
	cfg     config.Config
	logger  ectologger.Logger
	handles *database.Handles
}

func (d *databaseDependency) GetName() string {
	return "database"
}

func (d *databaseDependency) DependsOn() []string {
	return nil
}

func (d *databaseDependency) Start(ctx context.Context) error {
	base := database.Config{
		Driver:          d.cfg.DatabaseDriver,
		Host:            d.cfg.DatabaseHost,
		Port:            d.cfg.DatabasePort,
		Name:            d.cfg.DatabaseName,
		SSLMode:         d.cfg.DatabaseSSLMode,
		MaxOpenConns:    d.cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    d.cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: d.cfg.DatabaseConnMaxLifetime,
	}

	restrictedCfg := base
	restrictedCfg.UserName = d.cfg.DatabaseUserName
	restrictedCfg.Password = d.cfg.DatabasePassword

	elevatedCfg := base
	elevatedCfg.UserName = d.cfg.DatabaseElevatedUserName
	elevatedCfg.Password = d.cfg.DatabaseElevatedPassword
	if elevatedCfg.UserName == "" {
		elevatedCfg = restrictedCfg
	}

	restricted, err := database.Connect(restrictedCfg, d.logger)
	if err != nil {
		return err
	}
	elevated, err := database.Connect(elevatedCfg, d.logger)
	if err != nil {
		_ = restricted.Close()
		return err
	}

	if err := database.Migrate(d.logger, d.cfg.DatabaseMigrationFolderPath, d.cfg.DatabaseName, elevated); err != nil {
		_ = restricted.Close()
		_ = elevated.Close()
		return err
	}

	d.handles.Set(restricted, elevated)
	return nil
}

func (d *databaseDependency) Stop(ctx context.Context) error {
	return d.handles.Close()
}

// redisDependency connects the webhook dedup store. When dedup is disabled
// it installs a pass-through store.
type redisDependency struct {
	cfg    config.Config
	logger ectologger.Logger
	store  dedup.Deduper
}

func (d *redisDependency) GetName() string {
	return "redis"
}

func (d *redisDependency) DependsOn() []string {
	return nil
}

func (d *redisDependency) Start(ctx context.Context) error {
	if !d.cfg.DedupEnabled {
		d.logger.Warn("Webhook dedup is disabled, provider retries will be processed twice")
		d.store = dedup.Disabled{}
		return nil
	}

	store, err := dedup.NewStore(dedup.Config{
		Host:     d.cfg.RedisHost,
		Port:     d.cfg.RedisPort,
		Password: d.cfg.RedisPassword,
		DB:       d.cfg.RedisDB,
		TTL:      d.cfg.DedupTTLSeconds,
	}, d.logger)
	if err != nil {
		return err
	}
	d.store = store
	return nil
}

func (d *redisDependency) Stop(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}
