package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateStalenessWindowDays is the largest allowed gap between a transaction date
// and the record date of the rate used to convert it.
const RateStalenessWindowDays = 183

// RecordDateLayout is the calendar date layout used by the rate source.
const RecordDateLayout = "2006-01-02"

// ExchangeRate is a resolved rate; it is never persisted.
type ExchangeRate struct {
	CurrencyCode string          `json:"currencyCode"`
	Rate         decimal.Decimal `json:"rate"`
	RecordDate   time.Time       `json:"recordDate"`
}

// ConversionResult is a transaction together with its amount in another currency.
type ConversionResult struct {
	ID               uuid.UUID       `json:"id"`
	Description      string          `json:"description"`
	TransactionDate  time.Time       `json:"transactionDate"`
	AmountUSD        decimal.Decimal `json:"amountUsd"`
	TargetCurrency   string          `json:"targetCurrency"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	ExchangeRateDate time.Time       `json:"exchangeRateDate"`
	ConvertedAmount  decimal.Decimal `json:"convertedAmount"`
}

// NewConversionResult converts txn with rate. The converted amount follows the
// same rounding policy as USD amounts.
func NewConversionResult(txn Transaction, currency string, rate ExchangeRate) ConversionResult {
	return ConversionResult{
		ID:               txn.ID,
		Description:      txn.Description,
		TransactionDate:  txn.TransactionDate,
		AmountUSD:        txn.AmountUSD,
		TargetCurrency:   strings.ToUpper(strings.TrimSpace(currency)),
		ExchangeRate:     rate.Rate,
		ExchangeRateDate: rate.RecordDate,
		ConvertedAmount:  RoundAmount(txn.AmountUSD.Mul(rate.Rate)),
	}
}

// DaysBetween counts whole calendar days from earlier to later, ignoring time of day.
func DaysBetween(earlier, later time.Time) int {
	e := time.Date(earlier.Year(), earlier.Month(), earlier.Day(), 0, 0, 0, 0, time.UTC)
	l := time.Date(later.Year(), later.Month(), later.Day(), 0, 0, 0, 0, time.UTC)
	return int(l.Sub(e).Hours() / 24)
}

// IsRateStale reports whether a rate recorded on recordDate is too old for transactionDate.
func IsRateStale(recordDate, transactionDate time.Time) bool {
	return DaysBetween(recordDate, transactionDate) > RateStalenessWindowDays
}
