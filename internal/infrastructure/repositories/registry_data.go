package repositories

import "payroute.backend/internal/infrastructure/models"

const zeroAddress = "0x0000000000000000000000000000000000000000"

// SupportedChains is the built-in chain table
var SupportedChains = []models.Chain{
	{
		ChainID: 1, Name: "Ethereum", ShortName: "eth", NativeSymbol: "ETH", ChainType: "EVM",
		Aliases: []string{"ethereum", "mainnet", "ethereum mainnet", "homestead", "ether"},
	},
	{
		ChainID: 10, Name: "OP Mainnet", ShortName: "optimism", NativeSymbol: "ETH", ChainType: "EVM",
		Aliases: []string{"op", "oeth", "op mainnet", "optimism mainnet", "op-mainnet"},
	},
	{
		ChainID: 56, Name: "BNB Smart Chain", ShortName: "bsc", NativeSymbol: "BNB", ChainType: "EVM",
		Aliases: []string{"bnb", "binance", "bnb chain", "bnb smart chain", "binance smart chain"},
	},
	{
		ChainID: 137, Name: "Polygon", ShortName: "polygon", NativeSymbol: "POL", ChainType: "EVM",
		Aliases: []string{"matic", "pol", "polygon pos", "polygon mainnet"},
	},
	{
		ChainID: 8453, Name: "Base", ShortName: "base", NativeSymbol: "ETH", ChainType: "EVM",
		Aliases: []string{"base mainnet"},
	},
	{
		ChainID: 42161, Name: "Arbitrum One", ShortName: "arbitrum", NativeSymbol: "ETH", ChainType: "EVM",
		Aliases: []string{"arb", "arb1", "arbitrum one", "arbitrum mainnet"},
	},
	{
		ChainID: 43114, Name: "Avalanche", ShortName: "avalanche", NativeSymbol: "AVAX", ChainType: "EVM",
		Aliases: []string{"avax", "avalanche c-chain", "avalanche mainnet", "c-chain"},
	},
}

// SupportedTokens is the built-in token table
var SupportedTokens = []models.Token{
	{
		Symbol: "ETH", Name: "Ether", Decimals: 18, MinAmount: "0.000001",
		ContractAddresses: map[string]string{
			"1": zeroAddress, "10": zeroAddress, "8453": zeroAddress, "42161": zeroAddress,
		},
	},
	{
		Symbol: "POL", Name: "Polygon Ecosystem Token", Decimals: 18,
		ContractAddresses: map[string]string{"137": zeroAddress},
	},
	{
		Symbol: "BNB", Name: "BNB", Decimals: 18,
		ContractAddresses: map[string]string{"56": zeroAddress},
	},
	{
		Symbol: "AVAX", Name: "Avalanche", Decimals: 18,
		ContractAddresses: map[string]string{"43114": zeroAddress},
	},
	{
		Symbol: "USDC", Name: "USD Coin", Decimals: 6, MinAmount: "0.01", MaxAmount: "1000000",
		ContractAddresses: map[string]string{
			"1":     "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			"10":    "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85",
			"137":   "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359",
			"8453":  "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
			"42161": "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
			"43114": "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E",
		},
	},
	{
		Symbol: "USDT", Name: "Tether USD", Decimals: 6, MinAmount: "0.01", MaxAmount: "1000000",
		ContractAddresses: map[string]string{
			"1":     "0xdAC17F958D2ee523a2206206994597C13D831ec7",
			"10":    "0x94b008aA00579c1307B0EF2c499aD98a8ce58e58",
			"137":   "0xc2132D05D31c914a87C6611C10748AEb04B58e8F",
			"42161": "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9",
		},
	},
	{
		Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18, MinAmount: "0.01", MaxAmount: "1000000",
		ContractAddresses: map[string]string{
			"1":     "0x6B175474E89094C44Da98b954EedeAC495271d0F",
			"10":    "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1",
			"137":   "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063",
			"8453":  "0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb",
			"42161": "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1",
		},
	},
	{
		Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18, MinAmount: "0.000001",
		ContractAddresses: map[string]string{
			"1":     "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
			"10":    "0x4200000000000000000000000000000000000006",
			"137":   "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619",
			"8453":  "0x4200000000000000000000000000000000000006",
			"42161": "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1",
		},
	},
}
