package models

// Token is a registry record for a supported token. ContractAddresses is keyed
// by decimal chain id; the zero address marks the chain's native currency.
type Token struct {
	Symbol            string
	Name              string
	Decimals          int
	ContractAddresses map[string]string
	MinAmount         string // decimal, token units
	MaxAmount         string // decimal, token units, empty means unbounded
}

// ChainIDs returns the chains the token is deployed on
func (t Token) ChainIDs() []string {
	ids := make([]string, 0, len(t.ContractAddresses))
	for id := range t.ContractAddresses {
		ids = append(ids, id)
	}
	return ids
}
