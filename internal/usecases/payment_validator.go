package usecases

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"payroute.backend/internal/domain/entities"
	domainerrors "payroute.backend/internal/domain/errors"
	"payroute.backend/internal/domain/repositories"
	"payroute.backend/pkg/logger"
)

// NameResolver resolves ENS names to addresses
type NameResolver interface {
	ResolveName(ctx context.Context, name string) (string, error)
}

// UsernameResolver resolves platform usernames to addresses
type UsernameResolver interface {
	ResolveUsername(ctx context.Context, username string) (string, error)
}

// PaymentValidator checks a parsed payment intent against the registry and
// resolves its recipient. Checks run chain, recipient, token, then amount.
type PaymentValidator struct {
	chains    *ChainResolver
	tokenRepo repositories.TokenRepository
	names     NameResolver
	usernames UsernameResolver
}

// NewPaymentValidator creates a validator. usernames may be nil, in which case
// username recipients are rejected.
func NewPaymentValidator(chains *ChainResolver, tokenRepo repositories.TokenRepository, names NameResolver, usernames UsernameResolver) *PaymentValidator {
	return &PaymentValidator{
		chains:    chains,
		tokenRepo: tokenRepo,
		names:     names,
		usernames: usernames,
	}
}

func (v *PaymentValidator) Validate(ctx context.Context, parsed *entities.ParsedPaymentIntent) (*entities.ValidatedPayment, error) {
	if parsed == nil {
		return nil, domainerrors.NewParseError("missing payment intent")
	}
	result := &entities.ValidatedPayment{}

	if parsed.UnresolvedChain != "" {
		return nil, domainerrors.NewChainValidationError(parsed.UnresolvedChain, "unsupported chain: %s", parsed.UnresolvedChain)
	}
	if parsed.ChainIdentifier.Valid {
		chain, err := v.chains.ResolveFromAny(ctx, parsed.ChainIdentifier.String)
		if err != nil {
			return nil, err
		}
		result.ValidatedChain = chain
	}

	addr, err := v.resolveRecipient(ctx, parsed)
	if err != nil {
		return nil, err
	}
	result.ResolvedRecipientAddress = addr

	var token *entities.ChainToken
	if parsed.TokenSymbol.Valid {
		token, err = v.lookupToken(ctx, parsed.TokenSymbol.String, result.ValidatedChain)
		if err != nil {
			return nil, err
		}
		validated := &entities.ValidatedToken{
			Symbol:   token.Symbol,
			Name:     token.Name,
			Decimals: token.Decimals,
		}
		if result.ValidatedChain != nil {
			validated.Address, _ = token.AddressOn(result.ValidatedChain.ChainID)
		}
		result.ValidatedToken = validated
	}

	if parsed.AmountLiteral.Valid {
		amount, err := validateAmount(parsed.AmountLiteral.String, token)
		if err != nil {
			return nil, err
		}
		result.ValidatedAmount = amount
	}

	return result, nil
}

func (v *PaymentValidator) resolveRecipient(ctx context.Context, parsed *entities.ParsedPaymentIntent) (string, error) {
	recipient := strings.TrimSpace(parsed.RecipientIdentifier)
	if recipient == "" {
		return "", domainerrors.NewRecipientValidationError(recipient, "recipient is required")
	}

	switch parsed.RecipientType {
	case entities.RecipientTypeENS:
		if v.names == nil {
			return "", domainerrors.NewRecipientValidationError(recipient, "ENS resolution is not available")
		}
		addr, err := v.names.ResolveName(ctx, recipient)
		if err != nil {
			logger.Warn(ctx, "ENS resolution failed", zap.String("name", recipient), zap.Error(err))
			return "", domainerrors.NewRecipientValidationError(recipient, "could not resolve ENS name %s", recipient)
		}
		return checksumAddress(recipient, addr)
	case entities.RecipientTypeAddress:
		return checksumAddress(recipient, recipient)
	case entities.RecipientTypeUsername:
		if v.usernames == nil {
			return "", domainerrors.NewRecipientValidationError(recipient, "username recipients are not supported: %s", recipient)
		}
		addr, err := v.usernames.ResolveUsername(ctx, recipient)
		if err != nil {
			return "", domainerrors.NewRecipientValidationError(recipient, "could not resolve username %s", recipient)
		}
		return checksumAddress(recipient, addr)
	default:
		return "", domainerrors.NewRecipientValidationError(recipient, "unknown recipient type %q", parsed.RecipientType)
	}
}

func checksumAddress(recipient, addr string) (string, error) {
	if !common.IsHexAddress(addr) || common.HexToAddress(addr) == (common.Address{}) {
		return "", domainerrors.NewRecipientValidationError(recipient, "invalid recipient address: %s", addr)
	}
	return common.HexToAddress(addr).Hex(), nil
}

func (v *PaymentValidator) lookupToken(ctx context.Context, symbol string, chain *entities.ResolvedChain) (*entities.ChainToken, error) {
	if chain == nil {
		token, err := v.tokenRepo.GetBySymbol(ctx, symbol)
		if err != nil {
			return nil, domainerrors.NewTokenValidationError(symbol, "token %s is not supported", symbol)
		}
		return token, nil
	}
	token, err := v.tokenRepo.GetBySymbolOnChain(ctx, symbol, chain.ChainID)
	if err != nil {
		return nil, domainerrors.NewTokenValidationError(symbol, "token %s is not supported on %s", symbol, chain.Name)
	}
	return token, nil
}

// validateAmount parses literal and scales it to base units of token, or of an
// 18-decimal unit when token is nil
func validateAmount(literal string, token *entities.ChainToken) (*entities.ValidatedAmount, error) {
	value := strings.TrimSpace(literal)
	if value == "" {
		return nil, domainerrors.NewAmountValidationError(literal, "amount is required")
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return nil, domainerrors.NewAmountValidationError(literal, "amount %q is not a number", literal)
	}
	if !amount.IsPositive() {
		return nil, domainerrors.NewAmountValidationError(literal, "amount must be greater than zero")
	}

	decimals := int32(DefaultAmountDecimals)
	if token != nil {
		decimals = token.Decimals
		if token.MinAmount != "" {
			minAmount, err := decimal.NewFromString(token.MinAmount)
			if err == nil && amount.LessThan(minAmount) {
				return nil, domainerrors.NewAmountValidationError(literal, "amount %s is below the minimum of %s %s", amount.String(), minAmount.String(), token.Symbol)
			}
		}
		if token.MaxAmount != "" {
			maxAmount, err := decimal.NewFromString(token.MaxAmount)
			if err == nil && amount.GreaterThan(maxAmount) {
				return nil, domainerrors.NewAmountValidationError(literal, "amount %s is above the maximum of %s %s", amount.String(), maxAmount.String(), token.Symbol)
			}
		}
	}

	scaled := amount.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, domainerrors.NewAmountValidationError(literal, "amount %s has more than %d decimal places", amount.String(), decimals)
	}
	return entities.NewValidatedAmount(scaled.BigInt(), amount.String()), nil
}
