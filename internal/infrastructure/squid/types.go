package squid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"payroute.backend/internal/domain/entities"
)

type routeRequest struct {
	FromChain   string `json:"fromChain"`
	FromToken   string `json:"fromToken"`
	FromAmount  string `json:"fromAmount"`
	FromAddress string `json:"fromAddress"`
	ToChain     string `json:"toChain"`
	ToToken     string `json:"toToken"`
	ToAddress   string `json:"toAddress"`
}

type routeResponse struct {
	Route struct {
		Estimate           routeEstimate      `json:"estimate"`
		TransactionRequest transactionRequest `json:"transactionRequest"`
	} `json:"route"`
}

type routeEstimate struct {
	FromAmount   string        `json:"fromAmount"`
	ToAmount     string        `json:"toAmount"`
	ToAmountMin  string        `json:"toAmountMin"`
	ExchangeRate flexString    `json:"exchangeRate"`
	FeeCosts     []routeCost   `json:"feeCosts"`
	GasCosts     []routeCost   `json:"gasCosts"`
	Actions      []routeAction `json:"actions"`
}

type routeCost struct {
	AmountUSD decimal.NullDecimal `json:"amountUsd"`
}

type routeAction struct {
	Type string `json:"type"`
}

type transactionRequest struct {
	Target string     `json:"target"`
	Data   string     `json:"data"`
	Value  flexString `json:"value"`
	Expiry flexString `json:"expiry"`
}

type errorResponse struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	for _, item := range e.Errors {
		if item.Message != "" {
			return item.Message
		}
	}
	return ""
}

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		*f = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (r *routeResponse) toQuote() (*entities.Quote, error) {
	est := r.Route.Estimate
	fromAmount, err := parseUnits("fromAmount", est.FromAmount)
	if err != nil {
		return nil, err
	}
	toAmount, err := parseUnits("toAmount", est.ToAmount)
	if err != nil {
		return nil, err
	}
	toAmountMin := toAmount
	if strings.TrimSpace(est.ToAmountMin) != "" {
		if toAmountMin, err = parseUnits("toAmountMin", est.ToAmountMin); err != nil {
			return nil, err
		}
	}

	quote := &entities.Quote{
		FromAmount:   fromAmount,
		ToAmount:     toAmount,
		ToAmountMin:  toAmountMin,
		ExchangeRate: string(est.ExchangeRate),
		FeeCosts:     toCosts(est.FeeCosts),
		GasCosts:     toCosts(est.GasCosts),
		Transaction: entities.QuoteTransaction{
			Target: r.Route.TransactionRequest.Target,
			Data:   r.Route.TransactionRequest.Data,
			Value:  string(r.Route.TransactionRequest.Value),
			Expiry: string(r.Route.TransactionRequest.Expiry),
		},
	}
	for _, a := range est.Actions {
		quote.Actions = append(quote.Actions, entities.QuoteActionType(strings.ToLower(a.Type)))
	}
	return quote, nil
}

func parseUnits(field, value string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(value), 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s in route response: %q", field, value)
	}
	return n, nil
}

func toCosts(in []routeCost) []entities.QuoteCost {
	out := make([]entities.QuoteCost, 0, len(in))
	for _, c := range in {
		if !c.AmountUSD.Valid {
			continue
		}
		out = append(out, entities.QuoteCost{AmountUSD: c.AmountUSD.Decimal.InexactFloat64()})
	}
	return out
}
