package calc

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

// Contribution returns the amount a transaction adds to the account. ok is
// false when the payload does not match the kind; such transactions count as 0.
func Contribution(tx models.LedgerTransaction) (amount float64, ok bool) {
	switch tx.Kind {
	case models.TransactionService:
		if tx.Service == nil || tx.Quantity != nil {
			return 0, false
		}
		return tx.Service.Price, true
	case models.TransactionQuantity:
		if tx.Quantity == nil || tx.Service != nil {
			return 0, false
		}
		return tx.Quantity.TotalPrice, true
	default:
		return 0, false
	}
}

// ComputeBalance returns the sum of transaction contributions minus payments.
func ComputeBalance(txs []models.LedgerTransaction, payments []models.LedgerPayment) float64 {
	charged, paid, _ := totals(txs, payments)
	return charged.Sub(paid).InexactFloat64()
}

// SummarizeAccount computes the balance of one counterparty together with the
// malformed transactions and the latest modification.
func SummarizeAccount(counterpartyID string, txs []models.LedgerTransaction, payments []models.LedgerPayment) models.AccountSummary {
	charged, paid, malformed := totals(txs, payments)

	return models.AccountSummary{
		CounterpartyID:        counterpartyID,
		TransactionsTotal:     charged.InexactFloat64(),
		PaymentsTotal:         paid.InexactFloat64(),
		Balance:               charged.Sub(paid).InexactFloat64(),
		MalformedTransactions: malformed,
		LastModification:      LastModification(txs),
	}
}

// LastModification describes the most recent transaction, or nil when there is none.
func LastModification(txs []models.LedgerTransaction) *models.LastModification {
	var latest *models.LedgerTransaction
	for i := range txs {
		if latest == nil || !txs[i].CreatedAt.Before(latest.CreatedAt) {
			latest = &txs[i]
		}
	}
	if latest == nil {
		return nil
	}
	return &models.LastModification{At: latest.CreatedAt, Description: describe(*latest)}
}

func describe(tx models.LedgerTransaction) string {
	switch {
	case tx.Kind == models.TransactionService && tx.Service != nil:
		return tx.Service.Name
	case tx.Kind == models.TransactionQuantity && tx.Quantity != nil:
		qty := strconv.FormatFloat(tx.Quantity.Quantity, 'f', -1, 64)
		if tx.Quantity.UnitType == "" {
			return qty
		}
		return fmt.Sprintf("%s %s", qty, tx.Quantity.UnitType)
	default:
		return string(tx.Kind)
	}
}

func totals(txs []models.LedgerTransaction, payments []models.LedgerPayment) (charged, paid decimal.Decimal, malformed []string) {
	for _, tx := range txs {
		amount, ok := Contribution(tx)
		if !ok {
			malformed = append(malformed, tx.ID)
			continue
		}
		charged = charged.Add(decimal.NewFromFloat(amount))
	}
	for _, p := range payments {
		paid = paid.Add(decimal.NewFromFloat(p.Amount))
	}
	return charged, paid, malformed
}
