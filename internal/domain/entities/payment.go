package entities

import (
	"math/big"

	"github.com/volatiletech/null/v8"
)

// RecipientType classifies the recipient segment of a payment URL
type RecipientType string

const (
	RecipientTypeENS      RecipientType = "ENS"
	RecipientTypeAddress  RecipientType = "ADDRESS"
	RecipientTypeUsername RecipientType = "USERNAME"
)

// ParsedPaymentIntent is the unvalidated result of parsing payment URL segments
type ParsedPaymentIntent struct {
	RecipientIdentifier string        `json:"recipient"`
	RecipientType       RecipientType `json:"recipientType"`
	ChainIdentifier     null.String   `json:"chain"`
	TokenSymbol         null.String   `json:"token"`
	AmountLiteral       null.String   `json:"amount"`
	// UnresolvedChain holds an explicit "@chain" that matched no supported
	// chain. Validation rejects the intent when it is set.
	UnresolvedChain string `json:"unresolvedChain,omitempty"`
}

// ValidatedAmount is an amount scaled to token base units
type ValidatedAmount struct {
	RawIntegerValue         *big.Int `json:"-"`
	FormattedDecimalString  string   `json:"formatted"`
	RawIntegerValueAsString string   `json:"raw"`
}

// NewValidatedAmount builds a ValidatedAmount keeping the JSON view in sync
func NewValidatedAmount(raw *big.Int, formatted string) *ValidatedAmount {
	return &ValidatedAmount{
		RawIntegerValue:         raw,
		FormattedDecimalString:  formatted,
		RawIntegerValueAsString: raw.String(),
	}
}

// ValidatedToken is a registry token in the context of the validated chain.
// Address is empty when no chain was resolved.
type ValidatedToken struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int32  `json:"decimals"`
	Address  string `json:"address,omitempty"`
}

// ValidatedPayment is a fully resolved payment intent
type ValidatedPayment struct {
	ResolvedRecipientAddress string           `json:"recipientAddress"`
	ValidatedChain           *ResolvedChain   `json:"chain,omitempty"`
	ValidatedToken           *ValidatedToken  `json:"token,omitempty"`
	ValidatedAmount          *ValidatedAmount `json:"amount,omitempty"`
}
