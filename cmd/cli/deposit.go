package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/iho/coopledger/internal/adapter/http/dto"
)

func depositCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit operations",
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <deposit-id>",
		Short: "Verify a pending deposit and credit the member's wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result dto.VerifyResponse
			path := "/deposits/" + url.PathEscape(args[0]) + "/verify"
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, path, nil, &result); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deposit %s verified: credited %s to member %s, wallet balance %s\n",
				result.Deposit.ID, result.Deposit.Amount.StringFixed(2), result.Deposit.MemberID, result.WalletBalance.StringFixed(2))
			return nil
		},
	}

	cmd.AddCommand(verifyCmd)
	return cmd
}
