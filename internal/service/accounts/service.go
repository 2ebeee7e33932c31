package accounts

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/calc"
	"github.com/mamadbah2/fueldepot/internal/domain/models"
	"github.com/mamadbah2/fueldepot/internal/metrics"
	repo "github.com/mamadbah2/fueldepot/internal/repository/mongodb"
)

const anomalyMalformedTransaction = "malformed_transaction"

// Service manages counterparties and recomputes their balances.
type Service struct {
	repo   repo.LedgerRepository
	logger *zap.Logger
}

// NewService wires a new accounts service instance.
func NewService(repository repo.LedgerRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, logger: logger}
}

// Counterparties lists suppliers and clients.
func (s *Service) Counterparties(ctx context.Context) ([]models.Counterparty, error) {
	cps, err := s.repo.ListCounterparties(ctx)
	if err != nil {
		return nil, fmt.Errorf("load counterparties: %w", err)
	}
	return cps, nil
}

// CreateCounterparty validates and stores a supplier or client.
func (s *Service) CreateCounterparty(ctx context.Context, cp models.Counterparty) (models.Counterparty, error) {
	cp.Name = strings.TrimSpace(cp.Name)
	if cp.Name == "" {
		return models.Counterparty{}, &calc.FieldError{Field: "name", Err: calc.ErrInvalidInput}
	}
	if cp.Kind != models.CounterpartySupplier && cp.Kind != models.CounterpartyClient {
		return models.Counterparty{}, &calc.FieldError{Field: "kind", Err: calc.ErrInvalidInput}
	}

	created, err := s.repo.CreateCounterparty(ctx, cp)
	if err != nil {
		return models.Counterparty{}, fmt.Errorf("save counterparty: %w", err)
	}
	return created, nil
}

// Transactions lists the transactions of a counterparty.
func (s *Service) Transactions(ctx context.Context, counterpartyID string) ([]models.LedgerTransaction, error) {
	if _, err := s.repo.GetCounterparty(ctx, counterpartyID); err != nil {
		return nil, fmt.Errorf("load counterparty: %w", err)
	}
	txs, err := s.repo.ListTransactions(ctx, counterpartyID)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return txs, nil
}

// AddTransaction validates the tagged payload and stores the transaction.
func (s *Service) AddTransaction(ctx context.Context, counterpartyID string, tx models.LedgerTransaction) (models.LedgerTransaction, error) {
	if _, err := s.repo.GetCounterparty(ctx, counterpartyID); err != nil {
		return models.LedgerTransaction{}, fmt.Errorf("load counterparty: %w", err)
	}
	if err := validateTransaction(tx); err != nil {
		return models.LedgerTransaction{}, err
	}

	tx.CounterpartyID = counterpartyID
	created, err := s.repo.CreateTransaction(ctx, tx)
	if err != nil {
		return models.LedgerTransaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.logger.Info("transaction recorded",
		zap.String("counterparty_id", counterpartyID),
		zap.String("id", created.ID),
		zap.String("kind", string(created.Kind)))
	return created, nil
}

// DeleteTransaction removes a transaction.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// Payments lists the payments of a counterparty.
func (s *Service) Payments(ctx context.Context, counterpartyID string) ([]models.LedgerPayment, error) {
	if _, err := s.repo.GetCounterparty(ctx, counterpartyID); err != nil {
		return nil, fmt.Errorf("load counterparty: %w", err)
	}
	payments, err := s.repo.ListPayments(ctx, counterpartyID)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	return payments, nil
}

// AddPayment validates and stores a payment.
func (s *Service) AddPayment(ctx context.Context, counterpartyID string, payment models.LedgerPayment) (models.LedgerPayment, error) {
	if _, err := s.repo.GetCounterparty(ctx, counterpartyID); err != nil {
		return models.LedgerPayment{}, fmt.Errorf("load counterparty: %w", err)
	}
	if !positive(payment.Amount) {
		return models.LedgerPayment{}, &calc.FieldError{Field: "amount", Err: calc.ErrInvalidInput}
	}

	payment.CounterpartyID = counterpartyID
	created, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return models.LedgerPayment{}, fmt.Errorf("save payment: %w", err)
	}
	s.logger.Info("payment recorded", zap.String("counterparty_id", counterpartyID), zap.Float64("amount", created.Amount))
	return created, nil
}

// DeletePayment removes a payment.
func (s *Service) DeletePayment(ctx context.Context, id string) error {
	if err := s.repo.DeletePayment(ctx, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}

// Balance re-fetches the movements of one counterparty and recomputes its account.
func (s *Service) Balance(ctx context.Context, counterpartyID string) (models.AccountSummary, error) {
	cp, err := s.repo.GetCounterparty(ctx, counterpartyID)
	if err != nil {
		return models.AccountSummary{}, fmt.Errorf("load counterparty: %w", err)
	}
	txs, err := s.repo.ListTransactions(ctx, counterpartyID)
	if err != nil {
		return models.AccountSummary{}, fmt.Errorf("load transactions: %w", err)
	}
	payments, err := s.repo.ListPayments(ctx, counterpartyID)
	if err != nil {
		return models.AccountSummary{}, fmt.Errorf("load payments: %w", err)
	}

	summary := calc.SummarizeAccount(counterpartyID, txs, payments)
	summary.CounterpartyName = cp.Name
	s.flagMalformed(summary)
	return summary, nil
}

// Balances recomputes every counterparty account from one snapshot of the ledger.
func (s *Service) Balances(ctx context.Context) ([]models.AccountSummary, error) {
	cps, err := s.Counterparties(ctx)
	if err != nil {
		return nil, err
	}
	return s.balances(ctx, cps)
}

func (s *Service) balances(ctx context.Context, cps []models.Counterparty) ([]models.AccountSummary, error) {
	txs, err := s.repo.ListTransactions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	payments, err := s.repo.ListPayments(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	txsBy := make(map[string][]models.LedgerTransaction)
	for _, tx := range txs {
		txsBy[tx.CounterpartyID] = append(txsBy[tx.CounterpartyID], tx)
	}
	paymentsBy := make(map[string][]models.LedgerPayment)
	for _, p := range payments {
		paymentsBy[p.CounterpartyID] = append(paymentsBy[p.CounterpartyID], p)
	}

	out := make([]models.AccountSummary, 0, len(cps))
	for _, cp := range cps {
		summary := calc.SummarizeAccount(cp.ID, txsBy[cp.ID], paymentsBy[cp.ID])
		summary.CounterpartyName = cp.Name
		s.flagMalformed(summary)
		out = append(out, summary)
	}
	return out, nil
}

// Totals splits the balances into what clients owe and what is owed to suppliers.
func (s *Service) Totals(ctx context.Context) (receivables, payables float64, warnings []string, err error) {
	cps, err := s.Counterparties(ctx)
	if err != nil {
		return 0, 0, nil, err
	}
	kinds := make(map[string]models.CounterpartyKind, len(cps))
	for _, cp := range cps {
		kinds[cp.ID] = cp.Kind
	}

	summaries, err := s.balances(ctx, cps)
	if err != nil {
		return 0, 0, nil, err
	}
	for _, summary := range summaries {
		switch kinds[summary.CounterpartyID] {
		case models.CounterpartyClient:
			receivables += summary.Balance
		case models.CounterpartySupplier:
			payables += summary.Balance
		}
		for _, id := range summary.MalformedTransactions {
			warnings = append(warnings, fmt.Sprintf("%s: transaction %s has no amount", summary.CounterpartyName, id))
		}
	}
	return calc.Round2(receivables), calc.Round2(payables), warnings, nil
}

func (s *Service) flagMalformed(summary models.AccountSummary) {
	for _, id := range summary.MalformedTransactions {
		metrics.RecordAnomaly(anomalyMalformedTransaction)
		s.logger.Warn("transaction counted as zero",
			zap.String("counterparty_id", summary.CounterpartyID),
			zap.String("transaction_id", id))
	}
}

func validateTransaction(tx models.LedgerTransaction) error {
	switch tx.Kind {
	case models.TransactionService:
		if tx.Service == nil || tx.Quantity != nil {
			return &calc.FieldError{Field: "service", Err: calc.ErrInvalidInput}
		}
		if strings.TrimSpace(tx.Service.Name) == "" {
			return &calc.FieldError{Field: "service.name", Err: calc.ErrInvalidInput}
		}
		if !positive(tx.Service.Price) {
			return &calc.FieldError{Field: "service.price", Err: calc.ErrInvalidInput}
		}
	case models.TransactionQuantity:
		if tx.Quantity == nil || tx.Service != nil {
			return &calc.FieldError{Field: "quantity", Err: calc.ErrInvalidInput}
		}
		if !positive(tx.Quantity.Quantity) {
			return &calc.FieldError{Field: "quantity.quantity", Err: calc.ErrInvalidInput}
		}
		if !positive(tx.Quantity.TotalPrice) {
			return &calc.FieldError{Field: "quantity.total_price", Err: calc.ErrInvalidInput}
		}
	default:
		return &calc.FieldError{Field: "kind", Err: calc.ErrInvalidInput}
	}
	return nil
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
