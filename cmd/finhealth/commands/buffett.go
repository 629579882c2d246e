package commands

import (
	"github.com/spf13/cobra"
	"github.com/wonny/finhealth/backend/internal/contracts"
)

// buffettCmd represents the buffett command
var buffettCmd = &cobra.Command{
	Use:   "buffett",
	Short: "국가별 Buffett 지표 (시가총액/GDP)",
	Long: `설정된 국가들의 Buffett 지표를 계산합니다.
데이터가 없는 국가는 오류 항목으로 표시되며 나머지 국가는 정상 출력됩니다.

Example:
  go run ./cmd/finhealth buffett
  go run ./cmd/finhealth buffett --json`,
	RunE: runBuffett,
}

var (
	buffettJSON bool
)

func init() {
	rootCmd.AddCommand(buffettCmd)

	buffettCmd.Flags().BoolVar(&buffettJSON, "json", false, "JSON 응답 그대로 출력")
}

func runBuffett(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.engine.Compute(ctx)

	if buffettJSON {
		return PrintJSON(result)
	}

	PrintBuffett(result)
	return nil
}

// PrintBuffett prints one row per country
func PrintBuffett(r *contracts.BuffettIndicatorResult) {
	widths := []int{18, 10, 10, 8, 20, 10}

	PrintDoubleSeparator()
	PrintTableHeader([]string{"Country", "MarketCap", "GDP", "Ratio", "Label", "Year"}, widths)

	failed := 0
	for _, e := range r.Countries {
		name := e.Flag + " " + e.Country
		if e.Error {
			failed++
			PrintTableRow([]string{name, "-", "-", "-", e.Message, "-"}, widths)
			continue
		}
		year := e.Year
		if e.GDPYear != "" {
			year += "/" + e.GDPYear // 시총/GDP 연도 불일치
		}
		PrintTableRow([]string{
			name,
			FormatOptional(e.MarketCap, e.Unit),
			FormatOptional(e.GDP, e.Unit),
			FormatOptionalInt(e.Ratio, "%"),
			e.Label,
			year,
		}, widths)
	}
	PrintDoubleSeparator()

	if failed > 0 {
		PrintWarning("일부 국가 데이터를 가져오지 못했습니다")
	}
}
