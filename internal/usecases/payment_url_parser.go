package usecases

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"payroute.backend/internal/domain/entities"
	domainerrors "payroute.backend/internal/domain/errors"
	"payroute.backend/pkg/logger"
)

var (
	// amount with an optional trailing token symbol: "500usdc", "12.5", ".5eth"
	amountTokenPattern = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)([a-zA-Z]+)?$`)
	ensNamePattern     = regexp.MustCompile(`^([^\s./@]+\.)+eth$`)
	usernamePattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	hexAddressPattern  = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// PaymentURLParser turns payment link path segments into a ParsedPaymentIntent.
//
//	/vitalik.eth/500usdc
//	/0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045@base/12.5
type PaymentURLParser struct {
	chains         *ChainResolver
	defaultChainID string
}

// NewPaymentURLParser creates a parser. defaultChainID is applied to links
// that do not name a chain.
func NewPaymentURLParser(chains *ChainResolver, defaultChainID string) *PaymentURLParser {
	return &PaymentURLParser{chains: chains, defaultChainID: strings.TrimSpace(defaultChainID)}
}

func (p *PaymentURLParser) Parse(ctx context.Context, segments []string) (*entities.ParsedPaymentIntent, error) {
	if len(segments) == 0 {
		return nil, domainerrors.NewParseError("payment url has no path segments")
	}
	if len(segments) > 2 {
		return nil, domainerrors.NewParseError("payment url has too many path segments: expected recipient and optional amount")
	}

	first, err := url.PathUnescape(segments[0])
	if err != nil {
		return nil, domainerrors.NewParseError("invalid url encoding in recipient: %s", segments[0])
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return nil, domainerrors.NewParseError("payment url is missing a recipient")
	}

	intent := &entities.ParsedPaymentIntent{}
	if user, chain, ok := splitChainSpecific(first); ok {
		intent.RecipientIdentifier = user
		chainID, err := p.chains.ResolveChainID(ctx, chain)
		if err != nil {
			logger.Debug(ctx, "Unresolvable chain in payment url", zap.String("chain", chain), zap.Error(err))
			intent.UnresolvedChain = chain
		} else {
			intent.ChainIdentifier = null.StringFrom(chainID)
		}
	} else {
		if !isRecipientSyntax(first) {
			return nil, domainerrors.NewParseError("invalid recipient: %s", first)
		}
		intent.RecipientIdentifier = first
		if p.defaultChainID != "" {
			intent.ChainIdentifier = null.StringFrom(p.defaultChainID)
		}
	}
	intent.RecipientType = detectRecipientType(intent.RecipientIdentifier)

	if len(segments) > 1 {
		if err := parseAmountSegment(segments[1], intent); err != nil {
			return nil, err
		}
	}

	return intent, nil
}

// splitChainSpecific detects "user@chain" with exactly one "@" and a
// syntactically valid user part
func splitChainSpecific(segment string) (string, string, bool) {
	if strings.Count(segment, "@") != 1 {
		return "", "", false
	}
	user, chain, _ := strings.Cut(segment, "@")
	user = strings.TrimSpace(user)
	if !isRecipientSyntax(user) {
		return "", "", false
	}
	return user, strings.TrimSpace(chain), true
}

func parseAmountSegment(raw string, intent *entities.ParsedPaymentIntent) error {
	segment, err := url.PathUnescape(raw)
	if err != nil {
		return domainerrors.NewParseError("invalid url encoding in amount: %s", raw)
	}
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return nil
	}

	m := amountTokenPattern.FindStringSubmatch(segment)
	if m == nil {
		return domainerrors.NewParseError("invalid amount and token: %s", segment)
	}

	amount := m[1]
	if strings.HasPrefix(amount, ".") {
		amount = "0" + amount
	}
	amount = strings.TrimSuffix(amount, ".")
	intent.AmountLiteral = null.StringFrom(amount)
	if m[2] != "" {
		intent.TokenSymbol = null.StringFrom(strings.ToUpper(m[2]))
	}
	return nil
}

func isRecipientSyntax(value string) bool {
	return hexAddressPattern.MatchString(value) || isENSName(value) || usernamePattern.MatchString(value)
}

func isENSName(value string) bool {
	return ensNamePattern.MatchString(strings.ToLower(value))
}

// isStrictAddress accepts a 0x-prefixed 40 hex digit address whose mixed-case
// form, if any, carries a valid EIP-55 checksum
func isStrictAddress(value string) bool {
	if !hexAddressPattern.MatchString(value) || !common.IsHexAddress(value) {
		return false
	}
	body := value[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return common.HexToAddress(value).Hex() == value
}

func detectRecipientType(recipient string) entities.RecipientType {
	switch {
	case strings.HasSuffix(strings.ToLower(recipient), ensSuffix):
		return entities.RecipientTypeENS
	case isStrictAddress(recipient):
		return entities.RecipientTypeAddress
	default:
		return entities.RecipientTypeUsername
	}
}
