package services

import (
	portsrepo "github.com/SscSPs/purchase_transactions/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/purchase_transactions/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, rates portssvc.ExchangeRateResolver) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Transaction: NewTransactionService(repos.TransactionRepo, rates),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TransactionSvcFacade = (*transactionService)(nil)
)
