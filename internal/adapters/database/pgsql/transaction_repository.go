package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/purchase_transactions/internal/apperrors"
	"github.com/SscSPs/purchase_transactions/internal/core/domain"
	"github.com/SscSPs/purchase_transactions/internal/models"
	"github.com/SscSPs/purchase_transactions/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxTransactionRepository implements repositories.TransactionRepositoryFacade using pgx.
type PgxTransactionRepository struct {
	BaseRepository
}

// NewPgxTransactionRepository creates a new repository for purchase transactions.
func NewPgxTransactionRepository(pool PgxPool) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// SaveTransaction inserts a new transaction. An ID is assigned when none is set.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	modelTxn := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (id, description, transaction_date, amount_usd, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelTxn.ID,
		modelTxn.Description,
		modelTxn.TransactionDate,
		modelTxn.AmountUSD,
		modelTxn.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation
				return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.ID)
			case "23514": // check_violation
				return nil, fmt.Errorf("%w: transaction %s violates %s", apperrors.ErrValidation, txn.ID, pgErr.ConstraintName)
			}
		}
		return nil, fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
	}

	return &txn, nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	var m models.Transaction
	err := r.Pool.QueryRow(ctx, selectTransactionColumns+" WHERE id = $1;", id).Scan(
		&m.ID,
		&m.Description,
		&m.TransactionDate,
		&m.AmountUSD,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by id %s: %w", id, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

const selectTransactionColumns = `
		SELECT id, description, transaction_date, amount_usd, created_at
		FROM transactions
	`

// Insertion order, with id breaking ties between rows created in the same instant.
const orderTransactions = `ORDER BY created_at, id`

// ListTransactions retrieves all transactions in insertion order.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, selectTransactionColumns+" "+orderTransactions+";")
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTransactions(txns), nil
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		var m models.Transaction
		err := row.Scan(
			&m.ID,
			&m.Description,
			&m.TransactionDate,
			&m.AmountUSD,
			&m.CreatedAt,
		)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return txns, nil
}

// DeleteTransaction removes a transaction, reporting whether a row was deleted.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1;`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
