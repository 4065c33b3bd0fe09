package models

// Chain is a registry record for a supported network. Aliases are the human
// spellings that resolve to ShortName.
type Chain struct {
	ChainID      uint64
	Name         string
	ShortName    string
	NativeSymbol string
	ChainType    string
	Aliases      []string
}
