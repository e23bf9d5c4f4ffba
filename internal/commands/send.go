package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSendCommand(open func(context.Context) (Wallet, error)) *cobra.Command {
	var to string
	var amount string
	var wait bool

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send tokens to an address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			h, err := w.SubmitTransfer(cmd.Context(), to, amount)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			tx := h.Transfer()
			fmt.Fprintf(out, "submitted %s: %s %s to %s\n", tx.ID, tx.Value, w.Token().Symbol, tx.ToLabel)

			if !wait {
				return nil
			}

			if err := h.Wait(cmd.Context()); err != nil {
				return fmt.Errorf("transfer %s: %w", tx.ID, err)
			}

			tx = h.Transfer()
			fmt.Fprintf(out, "confirmed after %s sec\n", tx.LatencySeconds())
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient address (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in token units, e.g. 1.5 (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the transfer to be confirmed")

	return cmd
}
