package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// CreditsClient reads customer credit balances from the external balance
// service. It is a thin pass-through: no ledger arithmetic happens here.
type CreditsClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *log.Logger
}

// NewCreditsClient creates a balance service client.
func NewCreditsClient(baseURL, token string, logger *log.Logger) *CreditsClient {
	return &CreditsClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		logger:     logger,
	}
}

type balanceEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Balance float64 `json:"balance"`
	} `json:"data"`
}

// GetBalance returns the current credit balance for a customer.
func (c *CreditsClient) GetBalance(customerID string) (float64, error) {
	if customerID == "" {
		return 0, fmt.Errorf("customer id is required")
	}

	reqURL := fmt.Sprintf("%s/api/credits/balance?customerId=%s", c.baseURL, url.QueryEscape(customerID))
	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", ordersUserAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("balance service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope balanceEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = "balance request rejected"
		}
		return 0, fmt.Errorf("balance service: %s", msg)
	}

	if c.logger != nil {
		c.logger.Debug("balance fetched", "customer", customerID, "balance", envelope.Data.Balance)
	}
	return envelope.Data.Balance, nil
}
