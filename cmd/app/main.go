// File: cmd/app/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"aslan-support-client/internal/config"
	"aslan-support-client/internal/domain"
	"aslan-support-client/internal/domain/model"
	"aslan-support-client/internal/infra/backend"
	pg "aslan-support-client/internal/infra/db/postgres"
	"aslan-support-client/internal/infra/logging"
	"aslan-support-client/internal/infra/metrics"
	"aslan-support-client/internal/infra/realtime"
	red "aslan-support-client/internal/infra/redis"
	"aslan-support-client/internal/infra/sched"
	"aslan-support-client/internal/infra/tokens"
	"aslan-support-client/internal/infra/web"
	"aslan-support-client/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no sampling)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	ctx = logging.WithUserID(ctx, cfg.Session.UserID)
	metrics.MustRegister()

	// ---- Postgres (local chat history) ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 5)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis (session/quota snapshots) ----
	var (
		sessionCache usecase.SessionCache
		quotaCache   usecase.QuotaSnapshotCache
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		sessionCache = red.NewSessionCache(redisClient, cfg.Redis.TTL)
		quotaCache = red.NewQuotaCache(redisClient, cfg.Redis.TTL)
	} else {
		logger.Warn().Msg("redis.url not set; running without snapshot caches")
	}

	// ---- Repositories ----
	sessionRepo := pg.NewSessionRepo(pool)
	messageRepo := pg.NewMessageRepo(pool)
	alertRepo := pg.NewAlertRepo(pool)

	// ---- Backend adapter ----
	api, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout, cfg.Runtime.Dev, logger)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}

	// ---- Use cases ----
	quotaUC := usecase.NewQuotaTracker(api, quotaCache, cfg.Session.UserID, logger)

	// The ticker context ends exactly when the session leaves Active.
	tickCtx, tickCancel := context.WithCancel(ctx)
	onExpired := func(session *model.Session, reason model.EndReason) {
		tickCancel()
		fmt.Printf("\n[session ended: %s]\n", reason)
	}
	limits := usecase.SessionLimits{
		MaxDuration:       cfg.Session.MaxDuration,
		InactivityTimeout: cfg.Session.InactivityTimeout,
	}
	sessionMgr := usecase.NewSessionManager(api, sessionRepo, sessionCache, limits, onExpired, logger)

	estimator := tokens.NewEstimator()
	pipeline := usecase.NewMessagePipeline(api, messageRepo, alertRepo, quotaUC, sessionMgr, estimator, logger)

	surface := usecase.AlertSurfaceFunc(func(ev model.AlertEvent) {
		fmt.Printf("\n[support alert] %s: %s\n", ev.AlertType, ev.Description)
	})
	dispatcher := usecase.NewDispatcher(quotaUC, messageRepo, pipeline, surface, logger)

	// ---- Realtime channel ----
	channel := realtime.NewChannel(cfg.Realtime.URL, cfg.Backend.Token, cfg.Realtime.ReconnectDelay, dispatcher, logger)
	go func() { _ = channel.Run(ctx) }()

	// ---- Observability server ----
	webSrv := web.NewServer(sessionMgr, quotaUC, alertRepo, logger)
	httpSrv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Web.Port), Handler: webSrv.Router()}
	go func() {
		logger.Info().Str("addr", httpSrv.Addr).Msg("observability server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Workers ----
	go func() { _ = sched.NewQuotaRefresher(cfg.Quota.RefreshInterval, quotaUC, logger).Run(ctx) }()

	// ---- Session ----
	session, err := sessionMgr.Start(ctx, cfg.Session.UserID)
	if err != nil {
		log.Fatalf("session start: %v", err)
	}
	go func() { _ = sched.NewSessionTicker(cfg.Session.TickInterval, sessionMgr, logger).Run(tickCtx) }()

	if greeting, err := pipeline.Greet(ctx); err == nil {
		fmt.Printf("aslan> %s\n", greeting.Text)
	}
	logger.Info().Str("session_id", session.ID).Msg("chat ready")

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		fmt.Println("\nshutdown requested")
		cancel()
	}()

	runChatLoop(ctx, pipeline, quotaUC)

	// End the session explicitly on the way out; transport failures are
	// logged inside and never block shutdown.
	tickCancel()
	endCtx, endCancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = sessionMgr.End(endCtx)
	endCancel()

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 3*time.Second)
	_ = httpSrv.Shutdown(shutCtx)
	shutCancel()
}

// runChatLoop reads user input line by line. "/mood <value>" submits a mood
// check-in, "/quit" ends the session.
func runChatLoop(ctx context.Context, pipeline usecase.MessagePipeline, quota usecase.QuotaTracker) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	fmt.Print("you> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "/quit":
			return
		case strings.HasPrefix(line, "/mood "):
			mood := usecase.Mood(strings.TrimSpace(strings.TrimPrefix(line, "/mood ")))
			printResult(pipeline.SubmitMood(ctx, mood))
		case line == "":
			// fall through to prompt
		default:
			printResult(pipeline.Submit(ctx, line))
		}
		fmt.Print("you> ")
	}
}

func printResult(res *usecase.SubmitResult, err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrMessageTooLong):
		fmt.Println("[message must be between 1 and 2000 characters]")
		return
	case errors.Is(err, domain.ErrClassificationUnavailable):
		fmt.Println("[the companion is unreachable right now, please try again]")
		return
	case errors.Is(err, domain.ErrNoActiveSession):
		fmt.Println("[no active session]")
		return
	default:
		fmt.Printf("[error: %v]\n", err)
		return
	}

	if res.Reply != nil {
		fmt.Printf("aslan> %s\n", res.Reply.Text)
	}
	if res.Verdict.NeedsAlert {
		fmt.Printf("[alert raised: %s]\n", res.Verdict.AlertType)
	}
	switch res.Usage.Band {
	case model.BandWarning:
		fmt.Printf("[token quota warning: %.0f%% used]\n", res.Usage.Percentage)
	case model.BandCritical:
		fmt.Printf("[token quota critical: %.0f%% used]\n", res.Usage.Percentage)
	}
}
