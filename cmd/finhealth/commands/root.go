package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "finhealth",
	Short: "finhealth - 기업 재무 건전성 분석 엔진",
	Long: `finhealth Unified CLI

재무제표 기반 비율 계산, Piotroski F-Score, KPI 집계와
국가별 Buffett 지표(시가총액/GDP)를 제공합니다.

Usage:
  go run ./cmd/finhealth [command]

Examples:
  go run ./cmd/finhealth api
  go run ./cmd/finhealth analyze AAPL
  go run ./cmd/finhealth buffett
  go run ./cmd/finhealth search apple`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 플래그는 환경변수로 전달 (config.Load가 유일한 env 리더)
		if cmd.Flags().Changed("env") {
			if err := os.Setenv("ENV", env); err != nil {
				return err
			}
		}
		if verbose {
			return os.Setenv("LOG_LEVEL", "debug")
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
