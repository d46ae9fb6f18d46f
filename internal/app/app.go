package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz_backend/internal/config"
	"quiz_backend/internal/controller"
	"quiz_backend/internal/middleware"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/service"
	"quiz_backend/internal/session"
	"quiz_backend/pkg/configwatcher"
	"quiz_backend/pkg/database"
	"quiz_backend/pkg/logger"
	"quiz_backend/pkg/monitoring"
	"quiz_backend/pkg/security"
	"quiz_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Sessions        session.Store
	services        *services
	limiter         *security.Limiter
	configCallbacks []func(*config.Config)
	shutdownHooks   []func(context.Context) error
	cancel          context.CancelFunc
}

type repositories struct {
	test          *repository.TestRepository
	question      *repository.QuestionRepository
	answer        *repository.AnswerRepository
	studentTest   *repository.StudentTestRepository
	studentAnswer *repository.StudentAnswerRepository
}

type services struct {
	quiz    *service.QuizService
	results *service.ResultsService
	admin   *service.AdminService
}

type controllers struct {
	quiz    *controller.QuizController
	results *controller.ResultsController
	admin   *controller.AdminController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		test:          repository.NewTestRepository(db),
		question:      repository.NewQuestionRepository(db),
		answer:        repository.NewAnswerRepository(db),
		studentTest:   repository.NewStudentTestRepository(db),
		studentAnswer: repository.NewStudentAnswerRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, sessions session.Store) *services {
	s := &services{}

	s.quiz = service.NewQuizService(
		repos.test,
		repos.question,
		repos.answer,
		repos.studentTest,
		repos.studentAnswer,
		sessions,
		service.NewTimeSeededRandomizer(),
	)
	s.results = service.NewResultsService(repos.test, repos.studentTest, cfg.Quiz.ResultsPageSize)
	s.admin = service.NewAdminService(repos.test, repos.question, repos.studentTest, repos.studentAnswer)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, sessions session.Store) *controllers {
	return &controllers{
		quiz:    controller.NewQuizController(s.quiz, s.results, sessions),
		results: controller.NewResultsController(s.results),
		admin:   controller.NewAdminController(s.admin),
		health:  controller.NewHealthController(db, sessions),
	}
}

// initSessionStore 根据配置选择 Redis 或进程内会话存储
func (a *App) initSessionStore(cfg *config.Config) session.Store {
	if cfg.Session.Store == config.SessionStoreMemory {
		logger.Log.Warn("Using in-memory session store, sessions are lost on restart")
		return session.NewMemoryStore(cfg.Session.TTL)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	a.Redis = rdb
	a.shutdownHooks = append(a.shutdownHooks, func(context.Context) error {
		return rdb.Close()
	})
	return session.NewRedisStore(rdb, cfg.Session.TTL)
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.limiter = security.NewLimiter(cfg.RateLimit)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.SessionMiddleware(cfg.Session))
}

func (a *App) startBackgroundTasks(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.limiter.Cleanup(10 * time.Minute)
				if ms, ok := a.Sessions.(*session.MemoryStore); ok {
					ms.Purge()
				}
			}
		}
	}()

	if a.Config.FilePath == "" {
		return
	}
	go func() {
		if err := configwatcher.WatchConfig(ctx, a.Config.FilePath, a.applyConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	if cfg.MigrateOnly {
		return app
	}

	app.Sessions = app.initSessionStore(cfg)

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, app.Sessions)
	app.services = services
	controllers := app.initControllers(services, db, app.Sessions)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.shutdownHooks = append(app.shutdownHooks, tp.Shutdown)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetLevel(newCfg.Server.Mode)
		services.results.SetPageSize(newCfg.Quiz.ResultsPageSize)
		logger.Log.Info("Runtime settings updated",
			zap.String("mode", newCfg.Server.Mode),
			zap.Int("results_page_size", newCfg.Quiz.ResultsPageSize))
	})

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.cancel != nil {
		a.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	for _, hook := range a.shutdownHooks {
		if err := hook(ctx); err != nil {
			logger.Log.Error("Shutdown hook failed", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
