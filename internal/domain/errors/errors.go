package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrUnsupportedToken = errors.New("unsupported token")

	// ErrParse is matched by every ParseError.
	ErrParse = errors.New("invalid payment url")
	// ErrValidation is matched by every payment validation error.
	ErrValidation = errors.New("payment validation failed")
	// ErrQuote is matched by every QuoteError.
	ErrQuote = errors.New("quote failed")
)

// Error codes
const (
	CodeInvalidInput      = "ERR_INVALID_INPUT"
	CodeNotFound          = "ERR_NOT_FOUND"
	CodeInternalError     = "ERR_INTERNAL"
	CodeInvalidPaymentURL = "ERR_INVALID_PAYMENT_URL"
	CodeInvalidChain      = "ERR_INVALID_CHAIN"
	CodeInvalidRecipient  = "ERR_INVALID_RECIPIENT"
	CodeInvalidToken      = "ERR_INVALID_TOKEN"
	CodeInvalidAmount     = "ERR_INVALID_AMOUNT"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// ParseError reports a malformed payment URL.
type ParseError struct {
	Message string
}

func NewParseError(format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

func (e *ParseError) Error() string { return e.Message }

func (e *ParseError) Unwrap() error { return ErrParse }

// ChainValidationError reports an unknown or malformed chain identifier.
type ChainValidationError struct {
	Identifier string
	Message    string
}

func NewChainValidationError(identifier, format string, args ...interface{}) *ChainValidationError {
	return &ChainValidationError{Identifier: identifier, Message: fmt.Sprintf(format, args...)}
}

func (e *ChainValidationError) Error() string { return e.Message }

func (e *ChainValidationError) Unwrap() []error { return []error{ErrValidation, ErrUnsupportedChain} }

// RecipientValidationError reports a recipient that cannot be resolved to an address.
type RecipientValidationError struct {
	Recipient string
	Message   string
}

func NewRecipientValidationError(recipient, format string, args ...interface{}) *RecipientValidationError {
	return &RecipientValidationError{Recipient: recipient, Message: fmt.Sprintf(format, args...)}
}

func (e *RecipientValidationError) Error() string { return e.Message }

func (e *RecipientValidationError) Unwrap() error { return ErrValidation }

// TokenValidationError reports a token that is not supported in context.
type TokenValidationError struct {
	Symbol  string
	Message string
}

func NewTokenValidationError(symbol, format string, args ...interface{}) *TokenValidationError {
	return &TokenValidationError{Symbol: symbol, Message: fmt.Sprintf(format, args...)}
}

func (e *TokenValidationError) Error() string { return e.Message }

func (e *TokenValidationError) Unwrap() []error { return []error{ErrValidation, ErrUnsupportedToken} }

// AmountValidationError reports an amount that is malformed, out of range or
// not representable at the token precision.
type AmountValidationError struct {
	Amount  string
	Message string
}

func NewAmountValidationError(amount, format string, args ...interface{}) *AmountValidationError {
	return &AmountValidationError{Amount: amount, Message: fmt.Sprintf(format, args...)}
}

func (e *AmountValidationError) Error() string { return e.Message }

func (e *AmountValidationError) Unwrap() error { return ErrValidation }

// QuoteError reports a failed aggregator route request. Message is the
// aggregator's own text when it sent one.
type QuoteError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *QuoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("failed to get route: %d", e.StatusCode)
}

func (e *QuoteError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrQuote, e.Err}
	}
	return []error{ErrQuote}
}

// FromValidation maps parser and validator errors onto HTTP-facing AppErrors.
func FromValidation(err error) *AppError {
	var (
		appErr       *AppError
		parseErr     *ParseError
		chainErr     *ChainValidationError
		recipientErr *RecipientValidationError
		tokenErr     *TokenValidationError
		amountErr    *AmountValidationError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &parseErr):
		return NewAppError(http.StatusBadRequest, CodeInvalidPaymentURL, parseErr.Message, err)
	case errors.As(err, &chainErr):
		return NewAppError(http.StatusUnprocessableEntity, CodeInvalidChain, chainErr.Message, err)
	case errors.As(err, &recipientErr):
		return NewAppError(http.StatusUnprocessableEntity, CodeInvalidRecipient, recipientErr.Message, err)
	case errors.As(err, &tokenErr):
		return NewAppError(http.StatusUnprocessableEntity, CodeInvalidToken, tokenErr.Message, err)
	case errors.As(err, &amountErr):
		return NewAppError(http.StatusUnprocessableEntity, CodeInvalidAmount, amountErr.Message, err)
	default:
		return InternalError(err)
	}
}
