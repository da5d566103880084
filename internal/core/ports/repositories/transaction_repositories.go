package repositories

import (
	"context"

	"github.com/SscSPs/purchase_transactions/internal/core/domain"
	"github.com/google/uuid"
)

// TransactionReader defines read operations for purchase transactions
type TransactionReader interface {
	// FindTransactionByID returns apperrors.ErrNotFound when no record matches.
	FindTransactionByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)

	// ListTransactions returns every stored transaction in insertion order.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for purchase transactions
type TransactionWriter interface {
	// SaveTransaction persists a new transaction, assigning an ID if none is set.
	SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction and reports whether one was removed.
	DeleteTransaction(ctx context.Context, id uuid.UUID) (bool, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
