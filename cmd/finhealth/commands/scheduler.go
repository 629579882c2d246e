package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wonny/finhealth/backend/internal/scheduler"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 데몬 시작 (API 서버 없이)
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/finhealth scheduler start
  go run ./cmd/finhealth scheduler list
  go run ./cmd/finhealth scheduler run macro_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- macro_refresh: 매일 06:00 (Buffett 지표 거시 데이터 갱신)
- cache_cleanup: 5분마다 (메모리 캐시 정리, Redis 미사용 시)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runSchedulerDaemon,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobOnce,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runSchedulerDaemon(cmd *cobra.Command, args []string) error {
	fmt.Println("=== finhealth Scheduler ===")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, sched, err := initScheduler(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sched.Start()

	PrintSuccess("Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	PrintList(sched.GetAllJobs())
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	PrintJobStats(sched.GetJobStats())
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	PrintJobStats(sched.GetJobStats())
	return nil
}

func runJobOnce(cmd *cobra.Command, args []string) error {
	jobName := args[0]
	ctx := cmd.Context()

	a, sched, err := initScheduler(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Running job: %s\n", jobName)

	result, err := sched.RunJob(ctx, jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	history, err := sched.GetJobHistory(jobName)
	if err != nil {
		return err
	}
	for _, r := range history.GetLatestResults(1) {
		PrintJobResult(r)
	}

	if !result.Success {
		return fmt.Errorf("job %s failed: %s", jobName, result.Error)
	}
	return nil
}

// initScheduler wires the app and registers every background job
func initScheduler(ctx context.Context) (*app, *scheduler.Scheduler, error) {
	a, err := bootstrap(ctx)
	if err != nil {
		return nil, nil, err
	}

	sched, err := newScheduler(a)
	if err != nil {
		a.Close()
		return nil, nil, fmt.Errorf("init scheduler: %w", err)
	}

	return a, sched, nil
}

// PrintJobResult prints one run of a job
func PrintJobResult(r scheduler.JobResult) {
	PrintDoubleSeparator()
	fmt.Fprintf(out, "  %s\n", r.JobName)
	PrintSeparator()
	PrintKeyValue("Started", r.StartTime.Format("2006-01-02 15:04:05"), 10)
	PrintKeyValue("Duration", r.Duration.Round(time.Millisecond).String(), 10)
	PrintKeyValue("Attempts", fmt.Sprintf("%d", r.Attempts), 10)
	if r.TimedOut {
		PrintWarning("last attempt timed out")
	}
	PrintSeparator()

	if r.Success {
		PrintSuccess("Job completed")
		return
	}
	PrintError(r.Error)
}

// PrintJobStats prints per-job statistics in name order
func PrintJobStats(stats map[string]scheduler.JobStats) {
	if len(stats) == 0 {
		PrintInfo("No jobs registered")
		return
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	widths := []int{16, 14, 6, 9}
	PrintTableHeader([]string{"Job", "Schedule", "Runs", "Success"}, widths)
	for _, name := range names {
		s := stats[name]
		rate := "N/A"
		if s.TotalRuns > 0 {
			rate = fmt.Sprintf("%.1f%%", s.SuccessRate*100)
		}
		PrintTableRow([]string{name, s.Schedule, fmt.Sprintf("%d", s.TotalRuns), rate}, widths)
	}

	for _, name := range names {
		s := stats[name]
		if s.LastFailure != nil {
			PrintWarning(fmt.Sprintf("%s last failed at %s", name, s.LastFailure.Format("2006-01-02 15:04:05")))
		}
	}
}
