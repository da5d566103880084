// Package fiscaldata resolves historical exchange rates from the U.S. Treasury
// Fiscal Data "rates of exchange" endpoint.
package fiscaldata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/purchase_transactions/internal/apperrors"
	"github.com/SscSPs/purchase_transactions/internal/core/domain"
	"github.com/SscSPs/purchase_transactions/internal/middleware"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public rates of exchange dataset.
const DefaultBaseURL = "https://api.fiscaldata.treasury.gov/services/api/fiscal_service/v1/accounting/od/rates_of_exchange"

const (
	fieldRecordDate   = "record_date"
	fieldExchangeRate = "exchange_rate"
)

// Config holds the settings of the rate source.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements services.ExchangeRateResolver over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client. When httpClient is nil a client with cfg.Timeout is used.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// ratesResponse mirrors the parts of the payload we read. Records keep raw
// values so a missing field can be told apart from an empty one.
type ratesResponse struct {
	Data []map[string]json.RawMessage `json:"data"`
}

// ResolveRate returns the most recent rate for currencyCode recorded on or
// before transactionDate. The upstream sorts by record date descending and
// only the first record is considered.
func (c *Client) ResolveRate(ctx context.Context, currencyCode string, transactionDate time.Time) (*domain.ExchangeRate, error) {
	currency := strings.TrimSpace(currencyCode)
	if currency == "" {
		return nil, apperrors.NewCurrencyCodeRequiredError()
	}

	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("currency", currency))
	until := transactionDate.Format(domain.RecordDateLayout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(currency, until), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build exchange rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("Exchange rate source returned an error status", slog.Int("status", resp.StatusCode))
		return nil, apperrors.NewUpstreamError(resp.StatusCode)
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewMalformedUpstreamDataError("body", err)
	}
	if len(payload.Data) == 0 {
		return nil, apperrors.NewNoRatesFoundError(currency, until)
	}

	rate, err := parseRecord(payload.Data[0])
	if err != nil {
		return nil, err
	}
	rate.CurrencyCode = strings.ToUpper(currency)

	if domain.IsRateStale(rate.RecordDate, transactionDate) {
		logger.Info("Most recent exchange rate is outside the staleness window",
			slog.String("record_date", rate.RecordDate.Format(domain.RecordDateLayout)),
			slog.String("transaction_date", until),
		)
		return nil, apperrors.NewRateOutdatedError(currency)
	}

	logger.Debug("Resolved exchange rate",
		slog.String("rate", rate.Rate.String()),
		slog.String("record_date", rate.RecordDate.Format(domain.RecordDateLayout)),
	)
	return rate, nil
}

// buildURL asks for the single newest record of the currency up to the given date.
// The record_date bound keeps rates published after the purchase out of the result.
func (c *Client) buildURL(currency, until string) string {
	q := url.Values{}
	q.Set("filter", fmt.Sprintf("currency:eq:%s,record_date:lte:%s", currency, until))
	q.Set("sort", "-"+fieldRecordDate)
	q.Set("format", "json")
	q.Set("page[size]", "1")

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + q.Encode()
}

func parseRecord(record map[string]json.RawMessage) (*domain.ExchangeRate, error) {
	rawDate, ok := record[fieldRecordDate]
	if !ok {
		return nil, apperrors.NewFieldMissingError(fieldRecordDate)
	}
	rawRate, ok := record[fieldExchangeRate]
	if !ok {
		return nil, apperrors.NewFieldMissingError(fieldExchangeRate)
	}

	var dateStr, rateStr string
	if err := json.Unmarshal(rawDate, &dateStr); err != nil {
		return nil, apperrors.NewMalformedUpstreamDataError(fieldRecordDate, err)
	}
	if err := json.Unmarshal(rawRate, &rateStr); err != nil {
		return nil, apperrors.NewMalformedUpstreamDataError(fieldExchangeRate, err)
	}

	recordDate, err := time.Parse(domain.RecordDateLayout, dateStr)
	if err != nil {
		return nil, apperrors.NewMalformedUpstreamDataError(fieldRecordDate, err)
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, apperrors.NewMalformedUpstreamDataError(fieldExchangeRate, err)
	}

	return &domain.ExchangeRate{Rate: rate, RecordDate: recordDate}, nil
}
