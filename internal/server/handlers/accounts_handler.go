package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

// AccountsService is the slice of the accounts service used over HTTP.
type AccountsService interface {
	Counterparties(ctx context.Context) ([]models.Counterparty, error)
	CreateCounterparty(ctx context.Context, cp models.Counterparty) (models.Counterparty, error)
	Transactions(ctx context.Context, counterpartyID string) ([]models.LedgerTransaction, error)
	AddTransaction(ctx context.Context, counterpartyID string, tx models.LedgerTransaction) (models.LedgerTransaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	Payments(ctx context.Context, counterpartyID string) ([]models.LedgerPayment, error)
	AddPayment(ctx context.Context, counterpartyID string, payment models.LedgerPayment) (models.LedgerPayment, error)
	DeletePayment(ctx context.Context, id string) error
	Balance(ctx context.Context, counterpartyID string) (models.AccountSummary, error)
	Balances(ctx context.Context) ([]models.AccountSummary, error)
}

// AccountsHandler serves counterparties, their ledger and their balances.
type AccountsHandler struct {
	svc    AccountsService
	logger *zap.Logger
}

// NewAccountsHandler constructs the HTTP handler adapter.
func NewAccountsHandler(svc AccountsService, logger *zap.Logger) *AccountsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountsHandler{svc: svc, logger: logger}
}

func (h *AccountsHandler) ListCounterparties(c *gin.Context) {
	cps, err := h.svc.Counterparties(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cps)
}

func (h *AccountsHandler) CreateCounterparty(c *gin.Context) {
	var cp models.Counterparty
	if !bindJSON(c, h.logger, &cp) {
		return
	}
	cp.ID, cp.CreatedAt = "", time.Time{}

	created, err := h.svc.CreateCounterparty(c.Request.Context(), cp)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AccountsHandler) ListTransactions(c *gin.Context) {
	txs, err := h.svc.Transactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *AccountsHandler) AddTransaction(c *gin.Context) {
	var tx models.LedgerTransaction
	if !bindJSON(c, h.logger, &tx) {
		return
	}
	tx.ID, tx.CreatedAt = "", time.Time{}

	created, err := h.svc.AddTransaction(c.Request.Context(), c.Param("id"), tx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AccountsHandler) DeleteTransaction(c *gin.Context) {
	if err := h.svc.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountsHandler) ListPayments(c *gin.Context) {
	payments, err := h.svc.Payments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *AccountsHandler) AddPayment(c *gin.Context) {
	var payment models.LedgerPayment
	if !bindJSON(c, h.logger, &payment) {
		return
	}
	payment.ID, payment.CreatedAt = "", time.Time{}

	created, err := h.svc.AddPayment(c.Request.Context(), c.Param("id"), payment)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AccountsHandler) DeletePayment(c *gin.Context) {
	if err := h.svc.DeletePayment(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Balance recomputes the position of one counterparty.
func (h *AccountsHandler) Balance(c *gin.Context) {
	summary, err := h.svc.Balance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Balances recomputes the position of every counterparty.
func (h *AccountsHandler) Balances(c *gin.Context) {
	summaries, err := h.svc.Balances(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}
