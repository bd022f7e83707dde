package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/iho/coopledger/internal/adapter/http/dto"
)

var errWalletsInconsistent = errors.New("wallet reconciliation found discrepancies")

func walletCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check every wallet balance against its credit history",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ReconciliationReportResponse
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/admin/reconciliation", nil, &report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "members checked: %d, reconciled: %d\n", report.TotalMembers, report.ReconciledMembers)
			for _, d := range report.Discrepancies {
				fmt.Fprintf(out, "  %s recorded=%s calculated=%s difference=%s\n",
					d.MemberID, d.RecordedBalance.StringFixed(2), d.CalculatedBalance.StringFixed(2), d.Difference.StringFixed(2))
			}

			if len(report.Discrepancies) > 0 || !report.WalletsConsistent {
				return errWalletsInconsistent
			}

			fmt.Fprintln(out, "Reconciliation PASSED")
			return nil
		},
	}

	cmd.AddCommand(reconcileCmd)
	return cmd
}
