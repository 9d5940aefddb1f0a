package initialize

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/leykun-gizaw/temar-sub000/app/controllers"
	"github.com/leykun-gizaw/temar-sub000/app/db"
	"github.com/leykun-gizaw/temar-sub000/app/dto"
	jwtutil "github.com/leykun-gizaw/temar-sub000/app/jwt"
	"github.com/leykun-gizaw/temar-sub000/app/locks"
	"github.com/leykun-gizaw/temar-sub000/app/middleware"
	"github.com/leykun-gizaw/temar-sub000/app/models"
	"github.com/leykun-gizaw/temar-sub000/app/notion"
	"github.com/leykun-gizaw/temar-sub000/app/queue"
	"github.com/leykun-gizaw/temar-sub000/app/repo"
	"github.com/leykun-gizaw/temar-sub000/app/services"
	"github.com/leykun-gizaw/temar-sub000/config"
	"github.com/leykun-gizaw/temar-sub000/global"
	"github.com/leykun-gizaw/temar-sub000/router"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Cfg       *config.Config
	DB        *gorm.DB
	Router    http.Handler
	Queue     *queue.Queue
	Workers   *queue.WorkerPool
	Users     *services.UserService
	Reconcile *services.ReconcileService
	Subjects  *services.SubjectService
	Topics    *services.TopicService
	Notes     *services.NoteService
}

func Build(configPath string) (*App, error) {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	global.Config = cfg

	// Connect DB
	gdb, err := db.Connect(db.Config{Host: cfg.DB.Host, Port: cfg.DB.Port, User: cfg.DB.User, Password: cfg.DB.Pass, DBName: cfg.DB.Name})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	global.Mdb = gdb

	// Migrate
	if err := gdb.AutoMigrate(&models.User{}, &models.Subject{}, &models.Topic{}, &models.Note{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Redis backs the per-parent reconcile lock; without it the lock is
	// process-local only.
	var locker locks.Locker = locks.NewLocalLocker()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Pass, DB: cfg.Redis.DB})
		global.Rdb = rdb
		locker = locks.NewRedisLocker(rdb, "temar:lock:")
	}

	// Per-user Notion clients share transport settings from config
	clients := notion.Factory(func(token string) notion.API {
		return notion.NewClient(notion.Options{
			BaseURL:    cfg.Notion.BaseURL,
			Token:      token,
			APIVersion: cfg.Notion.APIVersion,
			HTTPClient: &http.Client{Timeout: time.Duration(cfg.Notion.TimeoutSec) * time.Second},
			MaxRetries: cfg.Notion.MaxRetries,
		})
	})

	// Repos and services
	userRepo := repo.NewUserRepository(gdb)
	mirrorRepo := repo.NewMirrorRepository(gdb)
	classifier := services.NewClassifierService(userRepo, mirrorRepo)
	materializer := services.NewMaterializerService()
	userSvc := services.NewUserService(userRepo, clients)
	reconcileSvc := services.NewReconcileService(userRepo, mirrorRepo, classifier, materializer, clients, locker, time.Duration(cfg.Queue.LockTTLSec)*time.Second)
	subjectSvc := services.NewSubjectService(userRepo, mirrorRepo, materializer, clients)
	topicSvc := services.NewTopicService(userRepo, mirrorRepo, materializer, clients)
	noteSvc := services.NewNoteService(userRepo, mirrorRepo, materializer, clients, nil)
	if err := userSvc.EnsureAdmin("admin", "admin123"); err != nil {
		global.Logger.Warn().Err(err).Msg("ensure admin account")
	}

	// Queue and workers
	q := queue.New(cfg.Queue.Capacity)
	workers := queue.NewWorkerPool(q, cfg.Queue.Workers, time.Duration(cfg.Queue.RunTimeoutSec)*time.Second, func(ctx context.Context, ev dto.NotionEvent) {
		runID := uuid.NewString()
		start := time.Now()
		outcome, err := reconcileSvc.HandlePageCreated(ctx, ev)
		evt := global.Logger.Info()
		if !outcome.Benign() {
			evt = global.Logger.Error()
		}
		evt.Str("run_id", runID).Str("page_id", ev.Entity.ID).Str("outcome", string(outcome)).Dur("duration", time.Since(start)).Err(err).Msg("reconcile run")
	})

	// Controllers
	httpCtrl := controllers.NewHTTPController()
	signer := &jwtutil.Signer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, ExpMin: cfg.JWT.ExpMin}
	authCtrl := controllers.NewAuthController(userSvc, signer)
	adminCtrl := controllers.NewAdminController(userSvc)
	webhookCtrl := controllers.NewWebhookController(q)
	workspaceCtrl := controllers.NewWorkspaceController(userSvc)
	subjectCtrl := controllers.NewSubjectController(subjectSvc)
	topicCtrl := controllers.NewTopicController(topicSvc)
	noteCtrl := controllers.NewNoteController(noteSvc)
	mw := &middleware.Auth{Signer: signer}

	// Router
	h := router.NewRouter(httpCtrl, authCtrl, adminCtrl, webhookCtrl, workspaceCtrl, subjectCtrl, topicCtrl, noteCtrl, mw)
	h = middleware.Logging(h)

	return &App{
		Cfg:       cfg,
		DB:        gdb,
		Router:    h,
		Queue:     q,
		Workers:   workers,
		Users:     userSvc,
		Reconcile: reconcileSvc,
		Subjects:  subjectSvc,
		Topics:    topicSvc,
		Notes:     noteSvc,
	}, nil
}
