package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wonny/finhealth/backend/internal/api"
	"github.com/wonny/finhealth/backend/internal/api/handlers"
	"github.com/wonny/finhealth/backend/internal/scheduler"
	"github.com/wonny/finhealth/backend/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 종목 분석 / 검색 / 뉴스 / Buffett 지표 엔드포인트 제공
- (SCHEDULER_ENABLED=true) 거시 지표 캐시 갱신 스케줄러 실행

Endpoints:
  GET  /health                     - Health check (redis / database / scheduler)
  GET  /api/analyze/{input}        - 종목 재무 분석
  GET  /api/search/{query}         - 종목 검색
  GET  /api/news/{ticker}          - 종목 뉴스
  GET  /api/buffett-indicator      - 국가별 Buffett 지표

Example:
  go run ./cmd/finhealth api
  go run ./cmd/finhealth api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== finhealth API Server ===")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Wire dependencies
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	// 2. Scheduler
	var sched *scheduler.Scheduler
	if a.cfg.SchedulerEnabled {
		sched, err = newScheduler(a)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	// 3. Handlers + router
	analysisHandler := handlers.NewAnalysisHandler(a.service, log)
	macroHandler := handlers.NewMacroHandler(a.engine, log)
	router := api.NewRouter(analysisHandler, macroHandler, a.healthHandler(sched), log)

	// 4. Start server with graceful shutdown
	server := api.New(a.cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	PrintList([]string{
		"GET  /health",
		"GET  /api/analyze/{input}",
		"GET  /api/search/{query}",
		"GET  /api/news/{ticker}",
		"GET  /api/buffett-indicator",
	})
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// newScheduler registers the background jobs for the wired app
func newScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log).WithRetry(2, 30*time.Second)

	refresh := jobs.NewMacroRefreshJob(a.macroCache, a.engine.Countries(), a.log)
	if err := sched.AddJob(refresh); err != nil {
		return nil, fmt.Errorf("register %s: %w", refresh.Name(), err)
	}

	// Redis는 TTL을 자체 관리, 메모리 캐시만 정리 필요
	if a.memoryStore != nil {
		cleanup := jobs.NewCacheCleanupJob(a.memoryStore, a.log)
		if err := sched.AddJob(cleanup); err != nil {
			return nil, fmt.Errorf("register %s: %w", cleanup.Name(), err)
		}
	}

	return sched, nil
}
