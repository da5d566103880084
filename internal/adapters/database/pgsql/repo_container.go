package pgsql

import (
	portsrepo "github.com/SscSPs/purchase_transactions/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool PgxPool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: NewPgxTransactionRepository(dbPool),
	}
}
