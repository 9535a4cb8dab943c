package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/chrisdamba/foodiq/internal/service"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Search as you type; newer queries replace older ones",
	Long: `Reads one query per line. A line starting with ":d " shows the details of
the given id, ":q" quits. Searches run in the background; when a newer query
finishes first, the older result is discarded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, cleanup, err := newQueryService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		session := service.NewSession(svc)
		out := cmd.OutOrStdout()
		var mu sync.Mutex
		var wg sync.WaitGroup
		defer wg.Wait()

		fmt.Fprintf(out, "Searching %s near %s. Type a query, \":d <id>\" for details, \":q\" to quit.\n", svc.ProviderName(), orDefault(location, cfg.DefaultLocation))

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch {
			case line == ":q":
				return nil
			case strings.HasPrefix(line, ":d "):
				id := strings.TrimSpace(strings.TrimPrefix(line, ":d "))
				detail, found, err := svc.GetByID(cmd.Context(), id)
				mu.Lock()
				switch {
				case err != nil:
					fmt.Fprintln(out, models.UserMessage(err))
				case !found:
					fmt.Fprintf(out, "No restaurant with id %q\n", id)
				default:
					printDetail(out, detail)
				}
				mu.Unlock()
			default:
				wg.Add(1)
				go func(term string) {
					defer wg.Done()
					results, stale, err := session.Search(cmd.Context(), term, location, -1)
					if stale {
						return
					}
					mu.Lock()
					defer mu.Unlock()
					printSearchOutcome(out, term, results, err)
				}(line)
			}
		}
		return scanner.Err()
	},
}

func printSearchOutcome(w io.Writer, term string, results []models.RestaurantSummary, err error) {
	if err != nil {
		fmt.Fprintln(w, models.UserMessage(err))
		return
	}
	fmt.Fprintf(w, "Results for %q:\n", term)
	printSummaries(w, results)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func init() {
	interactiveCmd.Flags().String("location", "", "location to search near")
	rootCmd.AddCommand(interactiveCmd)
}
