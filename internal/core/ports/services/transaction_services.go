package services

import (
	"context"
	"time"

	"github.com/SscSPs/purchase_transactions/internal/core/domain"
	"github.com/SscSPs/purchase_transactions/internal/dto"
	"github.com/google/uuid"
)

// TransactionReaderSvc defines read operations for purchase transactions
type TransactionReaderSvc interface {
	// GetTransactionOrFail returns a TransactionNotFound error when the record is absent.
	GetTransactionOrFail(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)

	// TryGetTransaction returns (nil, false, nil) when the record is absent.
	TryGetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, bool, error)

	// ListTransactions returns all transactions.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines write operations for purchase transactions
type TransactionWriterSvc interface {
	// CreateTransaction validates an API request and stores it, dropping the time of day.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// RecordTransaction validates and stores a directly constructed transaction, keeping the time of day.
	RecordTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)

	// DeleteTransaction reports whether a record was removed; absence is not an error.
	DeleteTransaction(ctx context.Context, id uuid.UUID) (bool, error)
}

// TransactionConverterSvc converts stored transactions into other currencies
type TransactionConverterSvc interface {
	GetTransactionWithConversion(ctx context.Context, id uuid.UUID, currency string) (*domain.ConversionResult, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	TransactionConverterSvc
}

// ExchangeRateResolver looks up the most recent rate for a currency at or before a date.
type ExchangeRateResolver interface {
	ResolveRate(ctx context.Context, currencyCode string, transactionDate time.Time) (*domain.ExchangeRate, error)
}
