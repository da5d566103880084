package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/purchase_transactions/internal/apperrors"
	portssvc "github.com/SscSPs/purchase_transactions/internal/core/ports/services"
	"github.com/SscSPs/purchase_transactions/internal/dto"
	"github.com/SscSPs/purchase_transactions/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// transactionHandler handles HTTP requests related to purchase transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// RegisterTransactionRoutes registers routes related to purchase transactions.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}
}

// createTransaction godoc
// @Summary Create a purchase transaction
// @Description Stores a purchase with a description, a transaction date and an amount in US dollars
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionPayload true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Header  201 {string} Location "/transactions/{id}"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "An unexpected error occurred"
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var payload dto.CreateTransactionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	req, err := payload.ToRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		h.respondWithError(c, logger, err)
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.ID.String()))
	c.Header("Location", "/transactions/"+txn.ID.String())
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a purchase transaction
// @Description Retrieves a transaction. With a currency the amount is converted using the Treasury rate in effect on the transaction date.
// @Tags transactions
// @Produce  json
// @Param   id       path  string true  "Transaction ID" Format(uuid)
// @Param   currency query string false "Treasury currency name, e.g. Euro or Canada-Dollar"
// @Success 200 {object} dto.TransactionResponse "Without currency"
// @Success 200 {object} dto.TransactionWithConversionResponse "With currency"
// @Failure 400 {object} map[string]string "Invalid ID, or no usable rate for the currency"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Exchange rate service unavailable"
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	var params dto.GetTransactionParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	if strings.TrimSpace(params.Currency) != "" {
		logger = logger.With(slog.String("transaction_id", id.String()), slog.String("currency", params.Currency))
		result, err := h.transactionService.GetTransactionWithConversion(c.Request.Context(), id, params.Currency)
		if err != nil {
			h.respondWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, dto.ToTransactionWithConversionResponse(result))
		return
	}

	txn, found, err := h.transactionService.TryGetTransaction(c.Request.Context(), id)
	if err != nil {
		h.respondWithError(c, logger, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.NewTransactionNotFoundError(id.String()).Message})
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List purchase transactions
// @Description Retrieves every stored transaction in creation order
// @Tags transactions
// @Produce  json
// @Success 200 {array} dto.TransactionResponse
// @Failure 500 {object} map[string]string "An unexpected error occurred"
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	txns, err := h.transactionService.ListTransactions(c.Request.Context())
	if err != nil {
		h.respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// deleteTransaction godoc
// @Summary Delete a purchase transaction
// @Tags transactions
// @Param   id path string true "Transaction ID" Format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "An unexpected error occurred"
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	deleted, err := h.transactionService.DeleteTransaction(c.Request.Context(), id)
	if err != nil {
		h.respondWithError(c, logger, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.NewTransactionNotFoundError(id.String()).Message})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseTransactionID(c *gin.Context) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// respondWithError writes the response for a service error. Internal details
// of unexpected failures are logged, never returned.
func (h *transactionHandler) respondWithError(c *gin.Context, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = &apperrors.AppError{Kind: apperrors.KindUnknown, Message: unexpectedErrorMessage}
	}
	message := appErr.Message

	switch appErr.Kind {
	case apperrors.KindInvalidDescription, apperrors.KindNonPositiveAmount:
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
	case apperrors.KindTransactionNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": message})
	case apperrors.KindInvalidConversionRequest, apperrors.KindRateNotFound:
		logger.Warn("Conversion request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
	case apperrors.KindRateServiceUnavailable:
		logger.Error("Exchange rate service unavailable",
			slog.String("error", err.Error()),
			slog.Int("upstream_status", appErr.StatusCode),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	case apperrors.KindCurrencyCodeRequired,
		apperrors.KindUpstreamError,
		apperrors.KindNoRatesFound,
		apperrors.KindFieldMissing,
		apperrors.KindMalformedUpstreamData,
		apperrors.KindRateOutdated,
		apperrors.KindUnknown:
		// resolver kinds are translated by the service before reaching here
		logger.Error("Unexpected error", slog.String("error", err.Error()), slog.String("kind", appErr.Kind.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": unexpectedErrorMessage})
	default:
		logger.Error("Unhandled error kind", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": unexpectedErrorMessage})
	}
}
