package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"payroute.backend/internal/domain/entities"
	domainerrors "payroute.backend/internal/domain/errors"
	"payroute.backend/internal/infrastructure/metrics"
	"payroute.backend/internal/interfaces/http/response"
	"payroute.backend/pkg/logger"
)

// PaymentLinkParser parses payment link path segments
type PaymentLinkParser interface {
	Parse(ctx context.Context, segments []string) (*entities.ParsedPaymentIntent, error)
}

// PaymentLinkValidator validates a parsed payment intent
type PaymentLinkValidator interface {
	Validate(ctx context.Context, parsed *entities.ParsedPaymentIntent) (*entities.ValidatedPayment, error)
}

// PaymentHandler handles payment link endpoints
type PaymentHandler struct {
	parser    PaymentLinkParser
	validator PaymentLinkValidator
	metrics   *metrics.Metrics
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(parser PaymentLinkParser, validator PaymentLinkValidator, m *metrics.Metrics) *PaymentHandler {
	return &PaymentHandler{parser: parser, validator: validator, metrics: m}
}

// ResolvePaymentLink parses and validates a payment link
// GET /api/v1/pay/*segments
func (h *PaymentHandler) ResolvePaymentLink(c *gin.Context) {
	ctx := c.Request.Context()
	segments := pathSegments(rawWildcard(c, "segments"))

	parsed, err := h.parser.Parse(ctx, segments)
	if err != nil {
		h.fail(c, err)
		return
	}

	validated, err := h.validator.Validate(ctx, parsed)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.metrics.ObservePaymentLink("ok")
	response.Success(c, http.StatusOK, gin.H{
		"intent":  parsed,
		"payment": validated,
	})
}

// ParsePaymentLink parses a payment link without validating it
// GET /api/v1/pay-parse/*segments
func (h *PaymentHandler) ParsePaymentLink(c *gin.Context) {
	parsed, err := h.parser.Parse(c.Request.Context(), pathSegments(rawWildcard(c, "segments")))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"intent": parsed})
}

func (h *PaymentHandler) fail(c *gin.Context, err error) {
	appErr := domainerrors.FromValidation(err)
	h.metrics.ObservePaymentLink(appErr.Code)
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Payment link resolution failed", zap.Error(err))
	}
	response.Error(c, appErr)
}

// rawWildcard returns a trailing wildcard still percent-encoded. The parser
// decodes each segment once, so "%2540" stays a literal "%40".
func rawWildcard(c *gin.Context, name string) string {
	prefix := strings.TrimSuffix(c.FullPath(), "*"+name)
	escaped := c.Request.URL.EscapedPath()
	if prefix == "" || prefix == c.FullPath() || !strings.HasPrefix(escaped, prefix) {
		return c.Param(name)
	}
	return "/" + strings.TrimPrefix(escaped, prefix)
}

// pathSegments splits a wildcard path into segments, keeping an empty
// trailing amount segment
func pathSegments(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
