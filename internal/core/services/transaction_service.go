package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/purchase_transactions/internal/apperrors"
	"github.com/SscSPs/purchase_transactions/internal/core/domain"
	portsrepo "github.com/SscSPs/purchase_transactions/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/purchase_transactions/internal/core/ports/services"
	"github.com/SscSPs/purchase_transactions/internal/dto"
	"github.com/google/uuid"
)

// transactionService implements portssvc.TransactionSvcFacade
type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	rateResolver    portssvc.ExchangeRateResolver
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactionRepo portsrepo.TransactionRepositoryFacade, rateResolver portssvc.ExchangeRateResolver) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
		rateResolver:    rateResolver,
	}
}

// CreateTransaction handles the creation of a transaction from an API request.
// Only the calendar date of the request is kept.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	return s.save(ctx, domain.Transaction{
		Description:     req.Description,
		TransactionDate: domain.TruncateToDate(req.TransactionDate),
		AmountUSD:       req.AmountUSD,
	})
}

// RecordTransaction stores a transaction built by the caller, keeping its time of day and ID.
func (s *transactionService) RecordTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	return s.save(ctx, txn)
}

func (s *transactionService) save(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	if err := txn.Validate(); err != nil {
		return nil, err
	}
	txn.Normalize()

	saved, err := s.transactionRepo.SaveTransaction(ctx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.ID.String()))
		return nil, fmt.Errorf("failed to create transaction in service: %w", err)
	}

	s.LogInfo(ctx, "Transaction created", slog.String("transaction_id", saved.ID.String()))
	return saved, nil
}

// GetTransactionOrFail retrieves a transaction, failing with TransactionNotFound when absent.
func (s *transactionService) GetTransactionOrFail(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewTransactionNotFoundError(id.String())
		}
		return nil, fmt.Errorf("failed to get transaction in service: %w", err)
	}
	return txn, nil
}

// TryGetTransaction retrieves a transaction, reporting absence through the boolean.
func (s *transactionService) TryGetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, bool, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get transaction in service: %w", err)
	}
	return txn, true, nil
}

// ListTransactions retrieves all transactions.
func (s *transactionService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.transactionRepo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions in service: %w", err)
	}
	return txns, nil
}

// DeleteTransaction removes a transaction; a missing record yields false without error.
func (s *transactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.transactionRepo.DeleteTransaction(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction in service: %w", err)
	}
	if deleted {
		s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", id.String()))
	}
	return deleted, nil
}

// GetTransactionWithConversion converts a stored transaction using the rate
// in effect on its transaction date.
func (s *transactionService) GetTransactionWithConversion(ctx context.Context, id uuid.UUID, currency string) (*domain.ConversionResult, error) {
	txn, err := s.GetTransactionOrFail(ctx, id)
	if err != nil {
		return nil, err
	}

	rate, err := s.rateResolver.ResolveRate(ctx, currency, txn.TransactionDate)
	if err != nil {
		translated := s.translateRateError(currency, txn, err)
		s.LogWarn(ctx, err, "Exchange rate lookup failed",
			slog.String("transaction_id", id.String()),
			slog.String("currency", currency),
			slog.String("kind", apperrors.KindOf(err).String()),
			slog.String("translated_kind", translated.Kind.String()),
		)
		return nil, translated
	}

	result := domain.NewConversionResult(*txn, currency, *rate)
	s.LogDebug(ctx, "Transaction converted",
		slog.String("transaction_id", id.String()),
		slog.String("currency", result.TargetCurrency),
		slog.String("rate", result.ExchangeRate.String()),
	)
	return &result, nil
}

// translateRateError maps resolver failures onto the errors API callers see.
func (s *transactionService) translateRateError(currency string, txn *domain.Transaction, err error) *apperrors.AppError {
	switch apperrors.KindOf(err) {
	case apperrors.KindCurrencyCodeRequired:
		return apperrors.NewInvalidConversionRequestError("Currency code is required for conversion", err)
	case apperrors.KindUpstreamError:
		return apperrors.NewRateServiceUnavailableError("Error communicating with exchange rate service", err)
	case apperrors.KindNoRatesFound, apperrors.KindRateOutdated:
		return apperrors.NewRateNotFoundError(currency, txn.TransactionDate.Format(domain.RecordDateLayout), err)
	case apperrors.KindFieldMissing, apperrors.KindMalformedUpstreamData:
		return apperrors.NewRateServiceUnavailableError("Invalid response from exchange rate service", err)
	default:
		return apperrors.NewRateServiceUnavailableError("Unexpected error retrieving exchange rate", err)
	}
}
