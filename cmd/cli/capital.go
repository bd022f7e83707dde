package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/coopledger/internal/adapter/http/dto"
)

func capitalCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capital",
		Short: "Capital obligation operations",
	}

	cmd.AddCommand(capitalGenerateCmd(opts), capitalScheduleCmd(opts))
	return cmd
}

func capitalGenerateCmd(opts *options) *cobra.Command {
	var (
		year   int
		amount string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Ensure every active member has a capital for the year",
		RunE: func(cmd *cobra.Command, args []string) error {
			perMember, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}

			report, err := generateCapitals(cmd.Context(), newAPIClient(opts), year, perMember)
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Target year (defaults to the current year)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount per member")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func capitalScheduleCmd(opts *options) *cobra.Command {
	var (
		amount string
		at     string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run capital generation for the current year every day at a fixed time",
		RunE: func(cmd *cobra.Command, args []string) error {
			perMember, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}
			if _, err := time.Parse("15:04", at); err != nil {
				return fmt.Errorf("invalid --at %q, expected HH:MM: %w", at, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := newAPIClient(opts)
			out := cmd.OutOrStdout()
			job := func() {
				report, err := generateCapitals(ctx, client, 0, perMember)
				if err != nil {
					fmt.Fprintf(out, "capital generation failed: %v\n", err)
					return
				}
				printReport(out, report)
			}

			s := gocron.NewScheduler()
			s.Every(1).Day().At(at).Do(job)

			fmt.Fprintf(out, "capital generation scheduled daily at %s\n", at)
			stopped := s.Start()
			<-ctx.Done()
			stopped <- true
			s.Clear()

			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount per member")
	cmd.Flags().StringVar(&at, "at", "00:05", "Time of day to run (HH:MM, local time)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func generateCapitals(ctx context.Context, client *apiClient, year int, amount decimal.Decimal) (*dto.GenerationReportResponse, error) {
	var report dto.GenerationReportResponse
	err := client.do(ctx, http.MethodPost, "/capitals/generate", dto.GenerateCapitalsRequest{Year: year, Amount: amount}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func printReport(w io.Writer, report *dto.GenerationReportResponse) {
	fmt.Fprintf(w, "year %d: created %d, skipped %d (amount %s)\n",
		report.Year, len(report.Created), len(report.Skipped), report.Amount.StringFixed(2))
}
