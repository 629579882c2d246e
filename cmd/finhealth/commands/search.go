package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wonny/finhealth/backend/internal/contracts"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "종목 검색",
	Long: `회사명 또는 티커로 종목을 검색합니다.

Example:
  go run ./cmd/finhealth search apple
  go run ./cmd/finhealth search apple --limit 10
  go run ./cmd/finhealth search AAPL --news`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var (
	searchLimit int
	searchNews  bool
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 5, "최대 결과 수")
	searchCmd.Flags().BoolVar(&searchNews, "news", false, "검색어를 티커로 보고 뉴스 조회")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if searchNews {
		items, err := a.service.News(ctx, args[0], searchLimit)
		if err != nil {
			return err
		}
		PrintNews(items)
		return nil
	}

	results, err := a.service.Search(ctx, args[0], searchLimit)
	if err != nil {
		return err
	}
	PrintSearchResults(results)
	return nil
}

// PrintSearchResults prints ticker lookup hits as a table
func PrintSearchResults(results []contracts.SearchResult) {
	if len(results) == 0 {
		PrintInfo("검색 결과 없음")
		return
	}

	widths := []int{10, 40, 10, 10}
	PrintTableHeader([]string{"Symbol", "Name", "Exchange", "Type"}, widths)
	for _, r := range results {
		PrintTableRow([]string{r.Symbol, r.Name, r.Exchange, r.Type}, widths)
	}
}

// PrintNews prints headlines, newest as returned by the provider
func PrintNews(items []contracts.NewsItem) {
	if len(items) == 0 {
		PrintInfo("뉴스 없음")
		return
	}

	for i, item := range items {
		fmt.Fprintf(out, "   %d. %s\n", i+1, item.Title)
		fmt.Fprintf(out, "      %s · %s\n", item.Publisher, item.PublishedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "      %s\n", item.URL)
	}
}
