package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRootCmd(svc *services) *cobra.Command {
	root := &cobra.Command{
		Use:   "payctl",
		Short: "Inspect payment links and cross-chain routes",
		Long: `payctl parses and validates payment links and resolves cross-chain
swap routes against the live aggregator.

Examples:
  payctl parse vitalik.eth/500usdc
  payctl validate 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045@base 12.5usdc
  payctl route --from-chain arbitrum --from-token USDC --from-address 0x... \
    --to-chain base --to-token USDC --to-address 0x... --to-usd 5`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")

	root.AddCommand(newParseCmd(svc), newValidateCmd(svc), newRouteCmd(svc))
	return root
}

// linkSegments accepts either separate segments or a single "a/b" path
func linkSegments(args []string) []string {
	if len(args) == 1 && strings.Contains(args[0], "/") {
		return strings.Split(strings.Trim(args[0], "/"), "/")
	}
	return args
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	color.New(color.FgGreen, color.Bold).Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func printField(w io.Writer, label, value string) {
	if value == "" {
		value = color.New(color.Faint).Sprint("-")
	}
	fmt.Fprintf(w, "  %-18s %s\n", color.CyanString(label+":"), value)
}
