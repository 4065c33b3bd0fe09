package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"payroute.backend/internal/domain/entities"
	"payroute.backend/internal/usecases"
)

type routeFlags struct {
	fromChain, fromToken, fromAddress string
	toChain, toToken, toAddress       string
	fromAmount, toAmount              string
	fromUSD, toUSD                    string
	disableCoral                      bool
}

func newRouteCmd(svc *services) *cobra.Command {
	var f routeFlags
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Resolve a cross-chain route plan",
		Long: `Resolve a cross-chain route plan. Chains accept a chain id, CAIP-2 id,
hex id or name; tokens accept a registry symbol or a contract address.
Exactly one of --from-amount, --to-amount, --from-usd or --to-usd is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(cmd.Context(), svc.chains)
			if err != nil {
				return err
			}

			result := svc.routes.GetRoute(cmd.Context(), req, usecases.RouteOptions{DisableCoral: f.disableCoral})
			if jsonOutput(cmd) {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				printRoute(cmd, result)
			}
			if !result.OK() {
				return errors.New(result.Error)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.fromChain, "from-chain", "", "Source chain")
	flags.StringVar(&f.fromToken, "from-token", "", "Source token symbol or address")
	flags.StringVar(&f.fromAddress, "from-address", "", "Sender address")
	flags.StringVar(&f.toChain, "to-chain", "", "Destination chain")
	flags.StringVar(&f.toToken, "to-token", "", "Destination token symbol or address")
	flags.StringVar(&f.toAddress, "to-address", "", "Recipient address")
	flags.StringVar(&f.fromAmount, "from-amount", "", "Exact input in source base units")
	flags.StringVar(&f.toAmount, "to-amount", "", "Target output in destination base units")
	flags.StringVar(&f.fromUSD, "from-usd", "", "Exact input worth this many USD")
	flags.StringVar(&f.toUSD, "to-usd", "", "Target output worth this many USD")
	flags.BoolVar(&f.disableCoral, "disable-coral", false, "Exclude the rfq liquidity source")
	for _, name := range []string{"from-chain", "from-token", "from-address", "to-chain", "to-token", "to-address"} {
		_ = cmd.MarkFlagRequired(name)
	}
	cmd.MarkFlagsMutuallyExclusive("from-amount", "to-amount", "from-usd", "to-usd")
	cmd.MarkFlagsOneRequired("from-amount", "to-amount", "from-usd", "to-usd")
	return cmd
}

func (f routeFlags) request(ctx context.Context, chains chainLookup) (entities.RouteRequest, error) {
	from, err := endpoint(ctx, chains, f.fromChain, f.fromToken, f.fromAddress)
	if err != nil {
		return entities.RouteRequest{}, err
	}
	to, err := endpoint(ctx, chains, f.toChain, f.toToken, f.toAddress)
	if err != nil {
		return entities.RouteRequest{}, err
	}

	var amount entities.RouteAmount
	switch {
	case f.fromAmount != "":
		units, ok := new(big.Int).SetString(f.fromAmount, 10)
		if !ok {
			return entities.RouteRequest{}, fmt.Errorf("--from-amount must be an integer in base units")
		}
		amount = entities.FromAmount(units)
	case f.toAmount != "":
		units, ok := new(big.Int).SetString(f.toAmount, 10)
		if !ok {
			return entities.RouteRequest{}, fmt.Errorf("--to-amount must be an integer in base units")
		}
		amount = entities.ToAmount(units)
	case f.fromUSD != "":
		amount = entities.FromUSD(f.fromUSD)
	default:
		amount = entities.ToUSD(f.toUSD)
	}

	return entities.RouteRequest{From: from, To: to, Amount: amount}, nil
}

func endpoint(ctx context.Context, chains chainLookup, chain, token, address string) (entities.RouteEndpoint, error) {
	resolved, err := chains.ResolveFromAny(ctx, chain)
	if err != nil {
		return entities.RouteEndpoint{}, err
	}
	if !common.IsHexAddress(address) {
		return entities.RouteEndpoint{}, fmt.Errorf("invalid address %q", address)
	}

	tokenAddress := strings.TrimSpace(token)
	if !common.IsHexAddress(tokenAddress) {
		tokenAddress, err = chains.TokenAddress(ctx, tokenAddress, resolved.ChainID)
		if err != nil {
			return entities.RouteEndpoint{}, err
		}
	}

	return entities.RouteEndpoint{
		Address:      common.HexToAddress(address).Hex(),
		TokenAddress: tokenAddress,
		ChainID:      resolved.ChainID,
	}, nil
}

func printRoute(cmd *cobra.Command, result entities.RouteResult) {
	w := cmd.OutOrStdout()
	if !result.OK() {
		color.New(color.FgRed).Fprintf(w, "Route failed: %s\n", result.Error)
		return
	}

	printHeader(w, "ROUTE PLAN")
	printField(w, "Type", string(result.ActionType))
	printField(w, "From amount", result.FromAmount)
	printField(w, "Fees (USD)", fmt.Sprintf("%.4f", result.FeeCostsUSD))
	printField(w, "Expiry", result.Expiry)
	for i, tx := range result.Transactions {
		fmt.Fprintf(w, "\n  %s %s\n", color.YellowString("#%d", i+1), tx.To)
		fmt.Fprintf(w, "     value %s\n", tx.Value)
		fmt.Fprintf(w, "     data  %s\n", abbreviate(tx.Data, 74))
	}
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
