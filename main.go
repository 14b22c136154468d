package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/itil-bridge/backend/internal/client"
	"github.com/itil-bridge/backend/internal/config"
	"github.com/itil-bridge/backend/internal/db"
	"github.com/itil-bridge/backend/internal/handler"
	"github.com/itil-bridge/backend/internal/model"
	"github.com/itil-bridge/backend/internal/service"
)

// @title ITIL Bridge API
// @version 1.0
// @description Alert ingestion, CMDB enrichment and ITIL ticket management backend
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env 파일 로드 (없으면 무시)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres 연결 및 스키마/시드 준비
	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pool.Close()

	store := &db.Store{Pool: pool}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	defaultPolicy := model.SLAPolicy{
		CriticalMinutes:      cfg.SLA.CriticalMinutes,
		HighMinutes:          cfg.SLA.HighMinutes,
		MediumMinutes:        cfg.SLA.MediumMinutes,
		LowMinutes:           cfg.SLA.LowMinutes,
		SweepIntervalMinutes: cfg.SLA.SweepIntervalMinutes,
	}
	if err := store.SeedSLAPolicy(ctx, defaultPolicy); err != nil {
		log.Fatalf("Failed to seed SLA policy: %v", err)
	}

	// 외부 연동 클라이언트
	cmdbClient := client.NewCMDBClient(cfg.CMDB)
	if !cmdbClient.IsConfigured() {
		log.Println("CMDB integration not configured; enrichment disabled")
	}
	slackClient := client.NewSlackClient(cfg.Slack)

	// 서비스 레이어 조립
	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}

	ticketService := service.NewTicketService(store, cfg.Ticket.ProjectKey, cfg.Ticket.AssignmentMap)
	linkingService := service.NewLinkingService(store)
	alertService := service.NewAlertService(ticketService, linkingService, cmdbClient, store, cfg.Ticket.DedupWindowMinutes)
	webhookAuth := service.NewWebhookAuthenticator(cfg.Webhook.SourceSecrets, cfg.Webhook.IPAllowlist)
	validator := service.NewWebhookValidator(cfg.Webhook.MaxPayloadBytes)

	// SLA 에스컬레이션 스윕 루프 (종료 시그널까지 동작)
	escalationService := service.NewEscalationService(store, slackClient, defaultPolicy, cfg.SLA.EscalationTiers)
	go escalationService.Run(ctx)

	// 핸들러 조립
	webhookHandler := handler.NewAlertWebhookHandler(webhookAuth, validator, alertService)
	authHandler := handler.NewAuthHandler(authService)
	ticketHandler := handler.NewTicketHandler(store)
	changeHandler := handler.NewChangeHandler(ticketService)
	contextHandler := handler.NewCIContextHandler(store, cmdbClient)
	settingsHandler := handler.NewSettingsHandler(store)

	router := gin.Default()
	router.Use(handler.CORSMiddleware(cfg.Server.AllowedOrigins))

	// 건강 체크 및 문서 엔드포인트
	router.GET("/ping", handler.Ping)
	router.GET("/", handler.Root)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	// 모니터링 웹훅 수신 (자체 인증 사용)
	router.POST("/webhook/alert", webhookHandler.Webhook)

	router.POST("/api/v1/auth/login", authHandler.Login)

	// 운영자 API (JWT 필요)
	api := router.Group("/api/v1", handler.AuthMiddleware(authService))
	{
		api.GET("/tickets", ticketHandler.List)
		api.GET("/tickets/:id", ticketHandler.Get)
		api.GET("/tickets/:id/ci-context", contextHandler.Get)
		api.POST("/problems/:id/change", changeHandler.CreateFromProblem)
		api.POST("/changes/:id/close", changeHandler.Close)
		api.GET("/settings/sla", settingsHandler.GetSLA)
		api.PUT("/settings/sla", settingsHandler.UpdateSLA)
	}

	log.Printf("Starting server on :%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	if err := serve(ctx, srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
	log.Printf("Server stopped")
}

// serve - 리스너를 백그라운드로 돌리고 ctx 취소 시 graceful shutdown
// 종료 시그널이 오면 진행 중인 요청을 마무리할 시간을 준 뒤 반환됨
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
