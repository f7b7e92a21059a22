package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chaikhana/backend/internal/config"
)

// Result is the outcome of a charge attempt. Declines, timeouts and
// transport failures are all delivered here, not as errors, so the caller
// can show the message and let the shopper retry.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Gateway interface {
	AttemptCharge(ctx context.Context, orderID uuid.UUID, amount int64, description string) (Result, error)
}

type chargeRequest struct {
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

type chargeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HTTPGateway relays charge requests to the payment processor. The API key
// lives in server config; it is never exposed to the storefront client.
type HTTPGateway struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPGateway(cfg config.PaymentConfig) *HTTPGateway {
	return &HTTPGateway{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *HTTPGateway) AttemptCharge(ctx context.Context, orderID uuid.UUID, amount int64, description string) (Result, error) {
	payload, err := json.Marshal(chargeRequest{
		OrderID:     orderID.String(),
		Amount:      amount,
		Currency:    "RUB",
		Description: description,
	})
	if err != nil {
		return Result{}, fmt.Errorf("gateway: failed to marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("gateway: failed to build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		// Timeout and transport failures are failure outcomes, not errors.
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			log.Warn().Err(err).Stringer("order_id", orderID).Msg("gateway: charge attempt timed out")
			return Result{Success: false, Message: "payment service did not respond in time, please try again"}, nil
		}
		log.Warn().Err(err).Stringer("order_id", orderID).Msg("gateway: charge attempt failed to reach processor")
		return Result{Success: false, Message: "payment service is unreachable, please try again"}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Success: false, Message: "payment service returned an unreadable response"}, nil
	}

	var chargeResp chargeResponse
	if err := json.Unmarshal(body, &chargeResp); err != nil {
		log.Warn().Err(err).Int("status", resp.StatusCode).Msg("gateway: failed to parse processor response")
		return Result{Success: false, Message: fmt.Sprintf("payment service error (%d)", resp.StatusCode)}, nil
	}

	if resp.StatusCode != http.StatusOK || !chargeResp.Success {
		message := chargeResp.Message
		if message == "" {
			message = fmt.Sprintf("payment declined (%d)", resp.StatusCode)
		}
		return Result{Success: false, Message: message}, nil
	}

	log.Info().Stringer("order_id", orderID).Int64("amount", amount).Msg("gateway: charge succeeded")
	return Result{Success: true, Message: chargeResp.Message}, nil
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
