package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const defaultTransportTimeout = 10 * time.Second

func newRestyClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTransportTimeout).
		SetHeader("Content-Type", "application/json")
}

// retryAfter читает заголовок Retry-After в секундах
func retryAfter(resp *resty.Response) time.Duration {
	seconds, _ := strconv.Atoi(resp.Header().Get("Retry-After"))
	return time.Duration(seconds) * time.Second
}

// HTTPRateSource получает курс USDT/INR из внешнего сервиса
type HTTPRateSource struct {
	client *resty.Client
}

// NewHTTPRateSource создает новый HTTPRateSource
func NewHTTPRateSource(baseURL string) *HTTPRateSource {
	return &HTTPRateSource{client: newRestyClient(baseURL)}
}

type rateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

// FetchRate получает текущий курс
func (s *HTTPRateSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	resp, err := s.client.R().SetContext(ctx).Get("/api/rate")
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate client: failed to execute request: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		var body rateResponse
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return decimal.Zero, fmt.Errorf("rate client: failed to decode response: %w", err)
		}
		if !body.Rate.IsPositive() {
			return decimal.Zero, fmt.Errorf("rate client: %w: %s", ErrInvalidRate, body.Rate)
		}
		return body.Rate, nil

	case http.StatusTooManyRequests:
		return decimal.Zero, NewRateLimitError(retryAfter(resp))

	default:
		return decimal.Zero, fmt.Errorf("rate client: unexpected status code: %d", resp.StatusCode())
	}
}

// HTTPVerifier проверяет референсы во внешнем сервисе
type HTTPVerifier struct {
	client *resty.Client
}

// NewHTTPVerifier создает новый HTTPVerifier
func NewHTTPVerifier(baseURL string) *HTTPVerifier {
	return &HTTPVerifier{client: newRestyClient(baseURL)}
}

type verifyRequest struct {
	domain.VerificationRequest
	UsedReferences []string `json:"used_references"`
}

// Verify отправляет референс на проверку.
// Отказ в проверке возвращается результатом, а не ошибкой.
func (v *HTTPVerifier) Verify(ctx context.Context, req domain.VerificationRequest, usedReferences []string) (domain.VerificationResult, error) {
	if usedReferences == nil {
		usedReferences = []string{}
	}

	resp, err := v.client.R().
		SetContext(ctx).
		SetBody(verifyRequest{VerificationRequest: req, UsedReferences: usedReferences}).
		Post("/api/verify")
	if err != nil {
		return domain.VerificationResult{}, fmt.Errorf("verifier client: failed to execute request: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		var result domain.VerificationResult
		if err := json.Unmarshal(resp.Body(), &result); err != nil {
			return domain.VerificationResult{}, fmt.Errorf("verifier client: failed to decode response: %w", err)
		}
		return result, nil

	case http.StatusTooManyRequests:
		return domain.VerificationResult{}, NewRateLimitError(retryAfter(resp))

	default:
		return domain.VerificationResult{}, fmt.Errorf("verifier client: unexpected status code: %d", resp.StatusCode())
	}
}

// HTTPSettler подтверждает выплату мерчанту во внешнем сервисе
type HTTPSettler struct {
	client *resty.Client
}

// NewHTTPSettler создает новый HTTPSettler
func NewHTTPSettler(baseURL string) *HTTPSettler {
	return &HTTPSettler{client: newRestyClient(baseURL)}
}

type settlementRequest struct {
	OrderID string `json:"order_id"`
}

// FinalizeSettlement подтверждает выплату по заказу
func (s *HTTPSettler) FinalizeSettlement(ctx context.Context, orderID string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(settlementRequest{OrderID: orderID}).
		Post("/api/settlements")
	if err != nil {
		return fmt.Errorf("settlement client: failed to execute request: %w", err)
	}

	switch code := resp.StatusCode(); {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return NewRateLimitError(retryAfter(resp))
	default:
		return fmt.Errorf("settlement client: unexpected status code: %d", code)
	}
}
