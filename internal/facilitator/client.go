package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/latinum-ai/mercator/internal/models"
	"github.com/latinum-ai/mercator/pkg/logger"
)

// verifyRequest is the JSON body sent to the facilitator. The amount travels
// as a decimal string, matching the facilitator's wire format.
type verifyRequest struct {
	SignedTransactionHex string `json:"signedTransactionHex"`
	ExpectedRecipient    string `json:"expectedRecipient"`
	ExpectedAmountWei    string `json:"expectedAmountWei"`
}

// Client talks to the external payment facilitator. The facilitator validates
// a signed transaction against the expected recipient and amount; it never
// holds funds itself.
type Client struct {
	logger *logger.Logger

	url    string
	client *http.Client
}

// NewClient creates a new facilitator client with a bounded request timeout.
func NewClient(url string, timeout time.Duration, logger *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		logger: logger,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// VerifyPayment asks the facilitator whether the signed transaction pays
// expectedAmountWei to expectedRecipient.
func (c *Client) VerifyPayment(ctx context.Context, signedTxHex, expectedRecipient string, expectedAmountWei int64) (*models.PaymentVerdict, error) {
	body, err := json.Marshal(verifyRequest{
		SignedTransactionHex: signedTxHex,
		ExpectedRecipient:    expectedRecipient,
		ExpectedAmountWei:    strconv.FormatInt(expectedAmountWei, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode verification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach facilitator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected facilitator status code %d: %s", resp.StatusCode, string(respBody))
	}

	var verdict models.PaymentVerdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return nil, fmt.Errorf("failed to decode facilitator response: %w", err)
	}

	c.logger.Debug("Facilitator verdict ", "allowed ", verdict.Allowed, " tx_hash ", verdict.TxHash)
	return &verdict, nil
}
