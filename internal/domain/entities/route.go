package entities

import (
	"math/big"
)

// RouteEndpoint identifies one side of a swap: the wallet, the token and its chain
type RouteEndpoint struct {
	Address      string `json:"address"`
	TokenAddress string `json:"tokenAddress"`
	ChainID      string `json:"chainId"`
}

// AmountMode selects how the amount of a RouteRequest is expressed
type AmountMode string

const (
	AmountModeFromAmount AmountMode = "fromAmount"
	AmountModeToAmount   AmountMode = "toAmount"
	AmountModeFromUSD    AmountMode = "fromUsd"
	AmountModeToUSD      AmountMode = "toUsd"
)

// RouteAmount holds exactly one amount specification. Build it with
// FromAmount, ToAmount, FromUSD or ToUSD.
type RouteAmount struct {
	mode  AmountMode
	units *big.Int
	usd   string
}

// FromAmount requests an exact input in source token base units
func FromAmount(units *big.Int) RouteAmount {
	return RouteAmount{mode: AmountModeFromAmount, units: new(big.Int).Set(units)}
}

// ToAmount requests an exact output in destination token base units
func ToAmount(units *big.Int) RouteAmount {
	return RouteAmount{mode: AmountModeToAmount, units: new(big.Int).Set(units)}
}

// FromUSD requests an input worth usd dollars
func FromUSD(usd string) RouteAmount {
	return RouteAmount{mode: AmountModeFromUSD, usd: usd}
}

// ToUSD requests an output worth usd dollars
func ToUSD(usd string) RouteAmount {
	return RouteAmount{mode: AmountModeToUSD, usd: usd}
}

func (a RouteAmount) Mode() AmountMode { return a.mode }

// Units returns a copy of the base-unit amount, nil for the USD modes
func (a RouteAmount) Units() *big.Int {
	if a.units == nil {
		return nil
	}
	return new(big.Int).Set(a.units)
}

func (a RouteAmount) USD() string { return a.usd }

// RouteRequest asks for a route between two endpoints
type RouteRequest struct {
	From   RouteEndpoint
	To     RouteEndpoint
	Amount RouteAmount
}

// QuoteParams is a forward quote request for the aggregator. FromAmount is
// in source token base units.
type QuoteParams struct {
	FromChain   string
	FromToken   string
	FromAmount  *big.Int
	FromAddress string
	ToChain     string
	ToToken     string
	ToAddress   string
}

// QuoteActionType tags how the aggregator executes a leg
type QuoteActionType string

const (
	QuoteActionSwap QuoteActionType = "swap"
	QuoteActionRFQ  QuoteActionType = "rfq"
)

// QuoteCost is a fee or gas cost reported by the aggregator
type QuoteCost struct {
	AmountUSD float64 `json:"amountUsd"`
}

// QuoteTransaction is the aggregator's executable swap call
type QuoteTransaction struct {
	Target string `json:"target"`
	Data   string `json:"data"`
	Value  string `json:"value"`
	Expiry string `json:"expiry"`
}

// Quote is a forward route quote
type Quote struct {
	FromAmount   *big.Int
	ToAmount     *big.Int
	ToAmountMin  *big.Int
	ExchangeRate string
	FeeCosts     []QuoteCost
	GasCosts     []QuoteCost
	Actions      []QuoteActionType
	Transaction  QuoteTransaction
}

// ActionType reports rfq when the first execution action is an rfq leg
func (q *Quote) ActionType() QuoteActionType {
	if len(q.Actions) > 0 && q.Actions[0] == QuoteActionRFQ {
		return QuoteActionRFQ
	}
	return QuoteActionSwap
}

// TotalCostsUSD sums fee and gas costs
func (q *Quote) TotalCostsUSD() float64 {
	total := 0.0
	for _, c := range q.FeeCosts {
		total += c.AmountUSD
	}
	for _, c := range q.GasCosts {
		total += c.AmountUSD
	}
	return total
}

// PlannedTransaction is one call the sender must submit, in list order
type PlannedTransaction struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

// RoutePlan is the resolver output
type RoutePlan struct {
	Expiry       string               `json:"expiry"`
	ActionType   QuoteActionType      `json:"type"`
	FromAmount   string               `json:"fromAmount"`
	Transactions []PlannedTransaction `json:"transactions"`
	FeeCostsUSD  float64              `json:"feeCostsUsd"`
}

// RouteResult carries either a plan or an error message. Route resolution
// reports failures here instead of returning a Go error.
type RouteResult struct {
	*RoutePlan
	Error string `json:"error,omitempty"`
}

// OK reports whether the result carries a plan
func (r RouteResult) OK() bool {
	return r.Error == "" && r.RoutePlan != nil
}
