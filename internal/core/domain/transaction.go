package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/purchase_transactions/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxDescriptionLength is counted in characters after trimming.
	MaxDescriptionLength = 50
	// AmountPrecision is the number of fractional digits kept for USD amounts and converted amounts.
	AmountPrecision int32 = 2
)

// Transaction represents a recorded purchase in USD.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transactionDate"`
	AmountUSD       decimal.Decimal `json:"amountUsd"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ValidateTransactionFields checks the field invariants shared by every creation path.
// The description is checked first; the first violation wins.
func ValidateTransactionFields(description string, amountUSD decimal.Decimal) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxDescriptionLength {
		return apperrors.NewInvalidDescriptionError("Invalid description")
	}
	// amounts that round to zero would be stored as zero
	if !RoundAmount(amountUSD).IsPositive() {
		return apperrors.NewNonPositiveAmountError("Purchase value must be positive")
	}
	return nil
}

// Validate checks the transaction against the storage invariants.
func (t *Transaction) Validate() error {
	return ValidateTransactionFields(t.Description, t.AmountUSD)
}

// Normalize trims the description, rounds the amount and assigns an ID when none is set.
// Call it only after Validate succeeded.
func (t *Transaction) Normalize() {
	t.Description = strings.TrimSpace(t.Description)
	t.AmountUSD = RoundAmount(t.AmountUSD)
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
}

// RoundAmount rounds half away from zero to AmountPrecision digits.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(AmountPrecision)
}

// TruncateToDate drops the time of day, keeping the calendar date in t's location.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
