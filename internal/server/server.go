package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/semaphore"

	_ "xraychat/docs"
	"xraychat/internal/ai"
	"xraychat/internal/config"
	"xraychat/internal/handler"
	chatHandler "xraychat/internal/handler/chat"
	"xraychat/internal/model"
	"xraychat/internal/pkg/cache"
	"xraychat/internal/pkg/id"
	"xraychat/internal/pkg/jwt"
	"xraychat/internal/pkg/mongodb"
	"xraychat/internal/pkg/storage"
	"xraychat/internal/pkg/storagefactory"
	"xraychat/internal/repository"
	"xraychat/internal/server/middleware"
	"xraychat/internal/service"
	"xraychat/internal/session"
)

const (
	shutdownTimeout  = 10 * time.Second
	defaultCookieTTL = 30 * 24 * time.Hour
)

// Server HTTP 服务器
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	ictx    *ai.InferenceContext
	mongo   *mongodb.Client
	redis   *cache.RedisCache
	storage storage.Storage
}

// New 创建服务器实例：加载模型、连接可选依赖并注册路由
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &Server{
		cfg:    cfg,
		engine: gin.New(),
	}

	// 初始化 MongoDB (可选，用于推理审计记录)
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(ctx, &cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without inference records")
		} else {
			srv.mongo = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			if err := mongodb.EnsureIndexes(client.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// 初始化 Redis (可选，用于共享会话)
	if cfg.Redis.Addr != "" && cfg.Session.Store == "redis" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, falling back to in-memory sessions")
		} else {
			srv.redis = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	st, err := storagefactory.NewStorage(&cfg.Storage)
	if err != nil {
		srv.close()
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	srv.storage = st

	ictx, err := ai.Load(ctx, ai.LoadOptions{
		FromPretrained: cfg.Model.FromPretrained,
		Provider:       cfg.Model.Provider,
		APIKey:         cfg.Model.APIKey,
		BaseURL:        cfg.Model.BaseURL,
		Tokenizer:      cfg.Model.Tokenizer,
		Precision:      cfg.Model.Precision,
		Device:         cfg.Model.Device,
		Quant:          cfg.Model.Quant,
	})
	if err != nil {
		srv.close()
		return nil, err
	}
	srv.ictx = ictx

	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	gateway := ai.NewGateway(s.ictx, samplingDefaults(s.cfg.Model.Sampling), s.cfg.Model.RequestTimeout)

	chatOpts := []service.ChatOption{
		service.WithDefaultPrompt(s.cfg.Chat.DefaultPrompt),
		service.WithErrorMode(service.ErrorMode(s.cfg.Chat.ErrorMode)),
	}
	if s.mongo != nil {
		chatOpts = append(chatOpts, service.WithRecordSaver(repository.NewInferenceRepo(s.mongo.Database())))
	}
	chatSvc := service.NewChatService(gateway, chatOpts...)

	var store session.Store
	if s.redis != nil {
		store = session.NewRedisStore(s.redis, s.cfg.Session.TTL)
	} else {
		store = session.NewMemoryStore(s.cfg.Session.TTL)
	}
	sessions := session.NewManager(store, chatSvc.Reset)

	secret := s.cfg.Session.Secret
	if secret == "" {
		secret = id.New()
		log.Warn().Msg("session secret not configured, using a random one (sessions reset on restart)")
	}
	cookieTTL := s.cfg.Session.TTL
	if cookieTTL <= 0 {
		cookieTTL = defaultCookieTTL
	}
	jwtUtil := jwt.NewJWT(secret, cookieTTL)

	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	checkers := map[string]handler.Checker{}
	if s.mongo != nil {
		checkers["mongo"] = s.mongo
	}
	if s.redis != nil {
		checkers["redis"] = s.redis
	}
	healthHandler := handler.NewHealthHandler(s.ictx.Model, checkers)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 对话页面与静态资源
	page, err := handler.NewPageHandler(chatSvc.DefaultPrompt())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to render chat page")
	}
	s.engine.GET("/", page.Index)
	s.engine.Static("/examples", s.cfg.Chat.ExamplesDir)
	if s.storage.Type() == string(storage.TypeLocal) && s.cfg.Storage.Local != nil {
		s.engine.Static("/files", s.cfg.Storage.Local.BasePath)
	}

	chatHdl := chatHandler.NewHandler(chatHandler.Options{
		ChatService:   chatSvc,
		Sessions:      sessions,
		Storage:       s.storage,
		Slots:         semaphore.NewWeighted(s.cfg.Server.MaxConcurrency),
		ExamplesDir:   s.cfg.Chat.ExamplesDir,
		MaxUploadSize: s.cfg.Server.MaxUploadSize,
	})

	// API v1
	v1 := s.engine.Group("/api/v1")
	v1.Use(middleware.Session(jwtUtil, s.cfg.Session.CookieName))
	{
		v1.GET("/chat", chatHdl.GetChat)
		v1.POST("/chat/submit", chatHdl.Submit)
		v1.POST("/chat/clear", chatHdl.Clear)

		v1.POST("/image", chatHdl.UploadImage)
		v1.DELETE("/image", chatHdl.DeleteImage)

		v1.GET("/examples", chatHdl.ListExamples)
		v1.POST("/examples/:name", chatHdl.SelectExample)
	}
}

// Run 启动服务器，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info().
		Str("addr", addr).
		Str("mode", s.cfg.Server.Mode).
		Bool("share", s.cfg.Server.Share).
		Int64("max_concurrency", s.cfg.Server.MaxConcurrency).
		Msg("server started")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		s.close()
		return err
	case err := <-errCh:
		s.close()
		return err
	}
}

// close 释放模型与外部连接
func (s *Server) close() {
	if s.ictx != nil {
		if err := s.ictx.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close inference context")
		}
	}
	if s.mongo != nil {
		if err := s.mongo.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis connection")
		}
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// samplingDefaults 配置中的采样参数，未配置的字段使用内置默认值
func samplingDefaults(cfg config.SamplingConfig) model.SamplingParameters {
	p := model.DefaultSampling()
	if cfg.MaxLength > 0 {
		p.MaxLength = cfg.MaxLength
	}
	if cfg.MinLength > 0 {
		p.MinLength = cfg.MinLength
	}
	if cfg.Temperature > 0 {
		p.Temperature = cfg.Temperature
	}
	if cfg.TopP > 0 {
		p.TopP = cfg.TopP
	}
	if cfg.TopK > 0 {
		p.TopK = cfg.TopK
	}
	if cfg.RepetitionPenalty > 0 {
		p.RepetitionPenalty = cfg.RepetitionPenalty
	}
	return p
}
