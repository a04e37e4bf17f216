package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"givehub-backend/internal/domain"
)

// chargeStatusSucceeded is the gateway's terminal success status.
const chargeStatusSucceeded = "succeeded"

type paymentGateway struct {
	baseURL string
	client  *http.Client
}

// NewPaymentGateway returns a client for the external charge authority. All
// calls carry a bounded timeout; transport failures surface as
// domain.ErrExternalFailure so callers can distinguish them from rejections.
func NewPaymentGateway(baseURL string, timeout time.Duration) PaymentGateway {
	return &paymentGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type chargeResponse struct {
	Status      string `json:"status"`
	AmountCents int32  `json:"amount_cents"`
}

func (g *paymentGateway) fetchCharge(ctx context.Context, paymentRef string) (*chargeResponse, error) {
	url := fmt.Sprintf("%s/charges/%s", g.baseURL, paymentRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, domain.ErrExternalFailure.WithDetail("charge authority unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrExternalFailure.WithDetail("charge authority returned status %d", resp.StatusCode)
	}

	var charge chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, domain.ErrExternalFailure.WithDetail("malformed charge response: %v", err)
	}
	return &charge, nil
}

func (g *paymentGateway) ChargeSucceeded(ctx context.Context, paymentRef string) (bool, error) {
	charge, err := g.fetchCharge(ctx, paymentRef)
	if err != nil {
		return false, err
	}
	return charge.Status == chargeStatusSucceeded, nil
}

func (g *paymentGateway) Amount(ctx context.Context, paymentRef string) (int32, error) {
	charge, err := g.fetchCharge(ctx, paymentRef)
	if err != nil {
		return 0, err
	}
	return charge.AmountCents, nil
}
