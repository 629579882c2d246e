package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wonny/finhealth/backend/internal/contracts"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <ticker|company>",
	Short: "종목 재무 건전성 분석",
	Long: `종목의 KPI와 Piotroski F-Score를 계산합니다.
티커로 조회 실패 시 회사명 검색 결과 첫 번째 종목을 사용합니다.

Example:
  go run ./cmd/finhealth analyze AAPL
  go run ./cmd/finhealth analyze "microsoft" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeJSON bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "JSON 응답 그대로 출력")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.service.Resolve(ctx, args[0])
	if err != nil {
		PrintError(err.Error())
		return err
	}

	if analyzeJSON {
		return PrintJSON(result)
	}

	PrintAnalysis(result)
	return nil
}

// PrintAnalysis prints the human-readable analysis summary
func PrintAnalysis(r *contracts.AnalysisResult) {
	const keyWidth = 16

	fmt.Fprintln(out)
	PrintDoubleSeparator()
	fmt.Fprintf(out, "  %s (%s)\n", r.Name, r.Ticker)
	PrintSeparator()
	PrintKeyValue("Sector", r.Sector, keyWidth)
	PrintKeyValue("Market", r.Market, keyWidth)
	PrintKeyValue("Fiscal Period", r.FiscalPeriod, keyWidth)
	PrintSeparator()

	k := r.Kpis
	PrintKeyValue("Price", FormatOptional(k.CurrentPrice, " "+r.Currency), keyWidth)
	PrintKeyValue("Change", FormatOptional(k.PriceChange, "%"), keyWidth)
	PrintKeyValue("Market Cap", FormatOptional(k.MarketCap, "B"), keyWidth)
	PrintKeyValue("P/E", FormatOptional(k.PERatio, ""), keyWidth)
	PrintKeyValue("Dividend Yield", FormatOptional(k.DividendYield, "%"), keyWidth)
	PrintKeyValue("ROE", FormatOptional(k.ROE, "%"), keyWidth)
	PrintKeyValue("Debt/Equity", FormatOptional(k.DebtToEquity, ""), keyWidth)
	PrintKeyValue("Current Ratio", FormatOptional(k.CurrentRatio, ""), keyWidth)
	PrintKeyValue("Profit Margin", FormatOptional(k.ProfitMargin, "%"), keyWidth)
	PrintSeparator()

	s := r.PiotroskiScore
	fmt.Fprintf(out, "  Piotroski F-Score: %d/%d (%s)\n", s.TotalScore, contracts.PiotroskiMaxScore, s.Tier)
	fmt.Fprintln(out)

	widths := []int{4, 36, 40}
	PrintTableHeader([]string{"Pass", "Criterion", "Detail"}, widths)
	for _, c := range s.Criteria() {
		mark := "✗"
		if c.Passed() {
			mark = "✓"
		}
		PrintTableRow([]string{mark, c.Criterion, c.Detail}, widths)
	}
	fmt.Fprintln(out)
	PrintInfo(s.Interpretation)
	PrintDoubleSeparator()
}
