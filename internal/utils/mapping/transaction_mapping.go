package mapping

import (
	"github.com/SscSPs/purchase_transactions/internal/core/domain"
	"github.com/SscSPs/purchase_transactions/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		ID:              d.ID,
		Description:     d.Description,
		TransactionDate: d.TransactionDate,
		AmountUSD:       d.AmountUSD,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		ID:              m.ID,
		Description:     m.Description,
		TransactionDate: m.TransactionDate,
		AmountUSD:       m.AmountUSD,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainTransactions converts a slice of model Transactions
func ToDomainTransactions(ms []models.Transaction) []domain.Transaction {
	res := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		res[i] = ToDomainTransaction(m)
	}
	return res
}
