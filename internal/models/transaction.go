package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the row stored in the transactions table.
type Transaction struct {
	ID              uuid.UUID       `db:"id"`
	Description     string          `db:"description"`      // VARCHAR(50)
	TransactionDate time.Time       `db:"transaction_date"` // TIMESTAMP, time of day kept
	AmountUSD       decimal.Decimal `db:"amount_usd"`       // NUMERIC(18,2)
	CreatedAt       time.Time       `db:"created_at"`
}
