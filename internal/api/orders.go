package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/publicsuffix"

	"github.com/orderdeck/orderdeck/internal/models"
)

const (
	ordersTimeout   = 30 * time.Second
	ordersUserAgent = "orderdeck/1.0"
)

// OrdersClient talks to the backend's paginated order list API.
type OrdersClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *log.Logger
}

// NewOrdersClient creates an orders API client. The backend keeps admin
// sessions in cookies, so the client carries a public-suffix-aware jar.
// Pass a nil logger to silence logging (e.g. while a TUI owns the screen).
func NewOrdersClient(baseURL, token string, logger *log.Logger) *OrdersClient {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &OrdersClient{
		httpClient: &http.Client{
			Timeout: ordersTimeout,
			Jar:     jar,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		logger:  logger,
	}
}

// listOrdersEnvelope mirrors the wire format of the list endpoint.
// Pagination and summary blocks are optional.
type listOrdersEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Items      []models.Order `json:"items"`
		Pagination *struct {
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
		Summary *models.OrderSummary `json:"summary"`
	} `json:"data"`
}

// BuildOrdersQuery constructs the query string for a list request. Empty
// filter fields are omitted so the server treats them as unconstrained.
func BuildOrdersQuery(q models.OrderQuery) string {
	params := url.Values{}
	if q.Status != "" && !strings.EqualFold(q.Status, "all") {
		params.Set("status", q.Status)
	}
	if q.PaymentMethod != "" {
		params.Set("paymentMethod", q.PaymentMethod)
	}
	if q.CustomerID != "" {
		params.Set("customerId", q.CustomerID)
	}
	if q.DateFrom != "" {
		params.Set("dateFrom", q.DateFrom)
	}
	if q.DateTo != "" {
		params.Set("dateTo", q.DateTo)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(q.Limit))
	return params.Encode()
}

// ListOrders fetches one page of orders (or, with a large limit, the whole
// scope) and returns the items plus whatever pagination/summary blocks the
// server included.
func (c *OrdersClient) ListOrders(q models.OrderQuery) (*models.ListResult, error) {
	reqURL := fmt.Sprintf("%s/api/orders?%s", c.baseURL, BuildOrdersQuery(q))

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", ordersUserAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("orders API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope listOrdersEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = "order list request rejected"
		}
		return nil, fmt.Errorf("orders API: %s", msg)
	}

	result := &models.ListResult{
		Items:   envelope.Data.Items,
		Summary: envelope.Data.Summary,
	}
	if envelope.Data.Pagination != nil {
		result.TotalPages = envelope.Data.Pagination.TotalPages
	}

	if c.logger != nil {
		c.logger.Info("orders page fetched", "page", q.Page, "limit", q.Limit, "items", len(result.Items), "totalPages", result.TotalPages)
	}

	return result, nil
}
