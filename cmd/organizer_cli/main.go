package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/planday-app/organizer_backend/internal/adapters/notify"
	"github.com/planday-app/organizer_backend/internal/adapters/widget"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/core/services"
	"github.com/planday-app/organizer_backend/internal/dto"
	"github.com/planday-app/organizer_backend/internal/platform/config"
	"github.com/planday-app/organizer_backend/internal/repositories/database/pgsql"
	"github.com/planday-app/organizer_backend/internal/utils/bankcsv"
	"github.com/planday-app/organizer_backend/pkg/database"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "organizer",
		Short: "Recurring expense engine tools",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newSuggestCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connectedServices loads config, connects to the database and wires the
// full service container for commands that persist their results.
func connectedServices(ctx context.Context) (func(), *portssvc.ServiceContainer, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	notifier := notify.NewPgxScheduler(dbPool)
	widgetSync := widget.NewPgxWidgetSync(dbPool)
	container := services.NewServiceContainer(cfg, repos, notifier, widgetSync)

	return dbPool.Close, container, nil
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <statement.csv>",
		Short: "Import a bank statement and print recurring suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}

			closePool, container, err := connectedServices(cmd.Context())
			if err != nil {
				return err
			}
			defer closePool()

			result, err := container.Importer.ImportStatement(cmd.Context(), dto.ImportStatementRequest{
				FileName: filepath.Base(args[0]),
				Content:  string(content),
			})
			if err != nil {
				return fmt.Errorf("importing statement: %w", err)
			}

			fmt.Printf("Imported %d transactions (%d rows skipped, %d duplicates)\n",
				result.TransactionCount, result.SkippedRows, result.DuplicatesFound)
			printSuggestions(result.Suggestions)
			return nil
		},
	}
}

func newGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Materialize upcoming expenses from active templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			closePool, container, err := connectedServices(cmd.Context())
			if err != nil {
				return err
			}
			defer closePool()

			summary, err := container.Generation.GenerateUpcoming(cmd.Context(), time.Now())
			if err != nil {
				return fmt.Errorf("running generation: %w", err)
			}

			fmt.Printf("Processed %d templates, created %d expenses\n",
				summary.TemplatesProcessed, summary.ExpensesCreated)
			for _, e := range summary.Created {
				fmt.Printf("  %s  %s  %s\n", e.Date.Format("2006-01-02"), e.Amount.StringFixed(2), e.Title)
			}
			return nil
		},
	}
}

func newSuggestCommand() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "suggest <statement.csv>",
		Short: "Detect recurring patterns in a statement without touching the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}

			parsed, err := bankcsv.Parse(content, currency)
			if err != nil {
				return fmt.Errorf("parsing statement: %w", err)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if currency != "" {
				cfg.Engine.DefaultCurrency = currency
			}

			detection := services.NewDetectionService(cfg.Engine)
			suggestions := detection.DetectPatterns(cmd.Context(), parsed.Transactions, time.Now())

			fmt.Printf("Parsed %d transactions (%d rows skipped)\n",
				len(parsed.Transactions), parsed.SkippedRows)
			responses := make([]dto.SuggestionResponse, 0, len(suggestions))
			for _, s := range suggestions {
				responses = append(responses, dto.ToSuggestionResponse(s))
			}
			printSuggestions(responses)
			return nil
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "UAH", "currency assumed when the statement has no currency column")

	return cmd
}

func printSuggestions(suggestions []dto.SuggestionResponse) {
	if len(suggestions) == 0 {
		fmt.Println("No recurring patterns detected")
		return
	}
	fmt.Printf("%d recurring pattern(s) detected:\n", len(suggestions))
	for _, s := range suggestions {
		fmt.Printf("  %-30s %-8s %s  (%d occurrences, confidence %.2f)\n",
			s.Merchant, s.Frequency, s.SuggestedAmount.StringFixed(2), len(s.OccurrenceDates), s.Confidence)
	}
}
