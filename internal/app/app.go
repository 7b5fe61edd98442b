package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"suru/internal/config"
	"suru/internal/handlers"
	"suru/internal/logger"
	"suru/internal/middleware"
	"suru/internal/oauth"
	"suru/internal/repository/orm"
	"suru/internal/repository/postgres"
	"suru/internal/service"
	"suru/internal/worker"
	"time"

	notificationmem "suru/internal/repository/notification/inmemory"
	notificationpg "suru/internal/repository/notification/postgres"
	projectmem "suru/internal/repository/project/inmemory"
	projectorm "suru/internal/repository/project/orm"
	sessionmem "suru/internal/repository/session/inmemory"
	sessionredis "suru/internal/repository/session/redis"
	taskmem "suru/internal/repository/task/inmemory"
	taskpg "suru/internal/repository/task/postgres"
	teammem "suru/internal/repository/team/inmemory"
	teamorm "suru/internal/repository/team/orm"
	usermem "suru/internal/repository/user/inmemory"
	userorm "suru/internal/repository/user/orm"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	repos     repositories
	sweeper   *worker.SessionSweeper
	shutdowns []func() // функции для graceful shutdown
}

// repositories - выбранная реализация хранилищ, сервисы видят только порты
type repositories struct {
	tasks         service.TaskRepository
	teams         service.TeamRepository
	projects      service.ProjectRepository
	users         service.UserRepository
	sessions      service.SessionRepository
	notifications service.NotificationRepository
	health        []handlers.HealthChecker
}

// healthFunc позволяет отдать в /health проверку, у которой нет своего типа
type healthFunc func(ctx context.Context) error

func (f healthFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
	})

	var err error
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		err = a.initPostgres(ctx)
	default:
		a.initInMemory()
	}
	if err != nil {
		a.Shutdown()
		return err
	}

	a.initRouter()
	a.sweeper = worker.NewSessionSweeper(a.repos.sessions, a.config.Sessions.SweepInterval, a.config.Sessions.SweepBatch)
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(a.router, "suru"),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("App: Инициализация завершена",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr),
	)
	return nil
}

func (a *App) initInMemory() {
	tasks := taskmem.NewTaskStorage()
	a.repos = repositories{
		tasks:         tasks,
		teams:         teammem.NewTeamStorage(),
		projects:      projectmem.NewProjectStorage(),
		users:         usermem.NewUserStorage(),
		sessions:      sessionmem.NewSessionStorage(),
		notifications: notificationmem.NewNotificationStorage(),
		health:        []handlers.HealthChecker{tasks},
	}
}

func (a *App) initPostgres(ctx context.Context) error {
	if err := postgres.Migrate(a.config.Database.URL); err != nil {
		return fmt.Errorf("миграции: %w", err)
	}

	db, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
		MaxConns:        int32(a.config.Database.MaxConnections),
		MinConns:        int32(a.config.Database.MinConnections),
		MaxConnIdleTime: a.config.Database.IdleTimeout,
	})
	if err != nil {
		return fmt.Errorf("подключение к postgres: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Закрытие пула postgres...")
		db.Close()
	})

	gdb, err := orm.Open(a.config.ORM.Driver, a.config.ORM.DSN)
	if err != nil {
		return fmt.Errorf("подключение orm: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Закрытие соединения orm...")
		if err := orm.Close(gdb); err != nil {
			logger.Warn("App: Ошибка закрытия orm", zap.Error(err))
		}
	})
	// схему postgres ведут миграции, sqlite поднимается через AutoMigrate
	if a.config.ORM.Driver == orm.DriverSQLite {
		if err := orm.AutoMigrate(gdb); err != nil {
			return fmt.Errorf("схема orm: %w", err)
		}
	}

	rdb, err := sessionredis.Connect(ctx, a.config.Redis.Addr, a.config.Redis.Password, a.config.Redis.DB)
	if err != nil {
		return fmt.Errorf("подключение к redis: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Закрытие соединения redis...")
		if err := rdb.Close(); err != nil {
			logger.Warn("App: Ошибка закрытия redis", zap.Error(err))
		}
	})

	sessions := sessionredis.NewSessionStorage(rdb)
	a.repos = repositories{
		tasks:         taskpg.NewTaskStorage(db),
		teams:         teamorm.NewTeamStorage(gdb),
		projects:      projectorm.NewProjectStorage(gdb),
		users:         userorm.NewUserStorage(gdb),
		sessions:      sessions,
		notifications: notificationpg.NewNotificationStorage(db),
		health: []handlers.HealthChecker{
			db,
			sessions,
			healthFunc(func(ctx context.Context) error { return orm.HealthCheck(ctx, gdb) }),
		},
	}
	return nil
}

func (a *App) initRouter() {
	providers := make(map[string]oauth.ProviderConfig, len(a.config.OAuth.Providers))
	for name, p := range a.config.OAuth.Providers {
		providers[name] = oauth.ProviderConfig{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			AuthURL:      p.AuthURL,
			TokenURL:     p.TokenURL,
			UserInfoURL:  p.UserInfoURL,
			RedirectURL:  p.RedirectURL,
			Scopes:       p.Scopes,
		}
	}

	authService := service.NewAuthService(
		a.repos.users,
		a.repos.sessions,
		service.NewBcryptHasher(bcrypt.DefaultCost),
		oauth.NewRegistry(providers),
		service.WithSessionTTL(a.config.Sessions.TTL),
	)

	h := handlers.Handlers{
		Tasks:         handlers.NewTaskHandler(service.NewTaskService(a.repos.tasks, a.repos.projects)),
		Teams:         handlers.NewTeamHandler(service.NewTeamService(a.repos.teams, a.repos.projects)),
		Projects:      handlers.NewProjectHandler(service.NewProjectService(a.repos.projects, a.repos.teams)),
		Auth:          handlers.NewAuthHandler(authService),
		Notifications: handlers.NewNotificationHandler(service.NewNotificationService(a.repos.notifications)),
		Health:        a.repos.health,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(a.config.Server.RateLimitRPM))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", middleware.UserIDHeader},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	h.Mount(r)

	a.router = r
}

// Router отдаёт собранный маршрутизатор без otel-обёртки
func (a *App) Router() http.Handler {
	return a.router
}

// Run обслуживает HTTP и фоновую очистку сессий до отмены ctx или первой ошибки
func (a *App) Run(ctx context.Context) error {
	defer a.Shutdown()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.sweeper.Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: Остановка сервера...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown освобождает ресурсы в обратном порядке
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
