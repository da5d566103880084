package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/purchase_transactions/internal/core/domain"
	"github.com/shopspring/decimal"
)

// transactionDateLayouts are tried in order when reading a transaction date from JSON.
var transactionDateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseTransactionDate accepts a calendar date or an RFC 3339 timestamp.
func ParseTransactionDate(value string) (time.Time, error) {
	for _, layout := range transactionDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid transaction date %q: expected YYYY-MM-DD or RFC 3339", value)
}

// CreateTransactionPayload is the JSON body accepted by POST /transactions.
// Description and amount rules are enforced by the service so that the
// API reports the same messages as every other creation path.
type CreateTransactionPayload struct {
	Description     string          `json:"description" example:"Office supplies"`
	TransactionDate string          `json:"transactionDate" binding:"required,transactiondate" example:"2024-06-30"`
	AmountUSD       decimal.Decimal `json:"amountUsd" swaggertype:"string" example:"123.45"`
}

// ToRequest converts the payload once binding has validated the date.
func (p CreateTransactionPayload) ToRequest() (CreateTransactionRequest, error) {
	date, err := ParseTransactionDate(p.TransactionDate)
	if err != nil {
		return CreateTransactionRequest{}, err
	}
	return CreateTransactionRequest{
		Description:     p.Description,
		TransactionDate: date,
		AmountUSD:       p.AmountUSD,
	}, nil
}

// CreateTransactionRequest defines the data needed to create a new transaction.
type CreateTransactionRequest struct {
	Description     string
	TransactionDate time.Time
	AmountUSD       decimal.Decimal
}

// GetTransactionParams holds the optional query parameters of GET /transactions/{id}.
type GetTransactionParams struct {
	Currency string `form:"currency"`
}

// Amount is a USD or converted amount that is always written with two fractional digits.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.StringFixed(domain.AmountPrecision) + `"`), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	ID              string    `json:"id"`
	Description     string    `json:"description"`
	TransactionDate time.Time `json:"transactionDate"`
	AmountUSD       Amount    `json:"amountUsd" swaggertype:"string" example:"123.45"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TransactionWithConversionResponse defines the data returned for a converted transaction.
type TransactionWithConversionResponse struct {
	ID               string          `json:"id"`
	Description      string          `json:"description"`
	TransactionDate  time.Time       `json:"transactionDate"`
	AmountUSD        Amount          `json:"amountUsd" swaggertype:"string" example:"100.00"`
	TargetCurrency   string          `json:"targetCurrency"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate" swaggertype:"string"`
	ExchangeRateDate time.Time       `json:"exchangeRateDate"`
	ConvertedAmount  Amount          `json:"convertedAmount" swaggertype:"string" example:"550.00"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              txn.ID.String(),
		Description:     txn.Description,
		TransactionDate: txn.TransactionDate,
		AmountUSD:       NewAmount(txn.AmountUSD),
		CreatedAt:       txn.CreatedAt,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to a slice of TransactionResponse DTOs
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ToTransactionWithConversionResponse converts a domain.ConversionResult to its response DTO
func ToTransactionWithConversionResponse(result *domain.ConversionResult) TransactionWithConversionResponse {
	return TransactionWithConversionResponse{
		ID:               result.ID.String(),
		Description:      result.Description,
		TransactionDate:  result.TransactionDate,
		AmountUSD:        NewAmount(result.AmountUSD),
		TargetCurrency:   result.TargetCurrency,
		ExchangeRate:     result.ExchangeRate,
		ExchangeRateDate: result.ExchangeRateDate,
		ConvertedAmount:  NewAmount(result.ConvertedAmount),
	}
}
