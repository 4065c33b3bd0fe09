package main

import (
	"github.com/spf13/cobra"
	"payroute.backend/internal/domain/entities"
)

func newParseCmd(svc *services) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <recipient[@chain]> [amount[token]]",
		Short: "Parse a payment link without validating it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent, err := svc.parser.Parse(cmd.Context(), linkSegments(args))
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), intent)
			}
			printIntent(cmd, intent)
			return nil
		},
	}
}

func newValidateCmd(svc *services) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <recipient[@chain]> [amount[token]]",
		Short: "Parse and validate a payment link, resolving the recipient",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent, err := svc.parser.Parse(cmd.Context(), linkSegments(args))
			if err != nil {
				return err
			}
			payment, err := svc.validator.Validate(cmd.Context(), intent)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), payment)
			}
			printPayment(cmd, payment)
			return nil
		},
	}
}

func printIntent(cmd *cobra.Command, intent *entities.ParsedPaymentIntent) {
	w := cmd.OutOrStdout()
	printHeader(w, "PAYMENT LINK")
	printField(w, "Recipient", intent.RecipientIdentifier)
	printField(w, "Recipient type", string(intent.RecipientType))
	printField(w, "Chain", intent.ChainIdentifier.String)
	printField(w, "Amount", intent.AmountLiteral.String)
	printField(w, "Token", intent.TokenSymbol.String)
}

func printPayment(cmd *cobra.Command, payment *entities.ValidatedPayment) {
	w := cmd.OutOrStdout()
	printHeader(w, "VALIDATED PAYMENT")
	printField(w, "Recipient", payment.ResolvedRecipientAddress)
	if payment.ValidatedChain != nil {
		printField(w, "Chain", payment.ValidatedChain.Name+" ("+payment.ValidatedChain.ChainID+")")
	}
	if payment.ValidatedToken != nil {
		printField(w, "Token", payment.ValidatedToken.Symbol)
		printField(w, "Token address", payment.ValidatedToken.Address)
	}
	if payment.ValidatedAmount != nil {
		printField(w, "Amount", payment.ValidatedAmount.FormattedDecimalString)
		printField(w, "Base units", payment.ValidatedAmount.RawIntegerValueAsString)
	}
}
