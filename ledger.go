package returns

import (
	"cmp"
	"slices"
	"strings"

	"github.com/etnz/returns/date"
	"github.com/shopspring/decimal"
)

// TxType is the kind of a ledger transaction.
type TxType string

const (
	Deposit    TxType = "DEPOSIT"
	Buy        TxType = "BUY"
	Sell       TxType = "SELL"
	Dividend   TxType = "DIVIDEND"
	Interest   TxType = "INTEREST"
	Withdrawal TxType = "WITHDRAWAL"
	Fee        TxType = "FEE"
)

// CashTicker is the ticker of the cash sleeve. It never counts as a holding.
const CashTicker = "CASH"

// ParseTxType returns the transaction type named s, case insensitive.
func ParseTxType(s string) (TxType, bool) {
	t := TxType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.order() < unknownOrder
}

const unknownOrder = 99

// order is the position of a type among same-day transactions: cash comes in before it is
// spent.
func (t TxType) order() int {
	switch t {
	case Deposit:
		return 1
	case Buy:
		return 2
	case Sell:
		return 3
	case Dividend:
		return 4
	case Interest:
		return 5
	case Withdrawal:
		return 6
	case Fee:
		return 7
	}
	return unknownOrder
}

// cashSign is the direction of the cash movement of a transaction type.
func (t TxType) cashSign() int {
	switch t {
	case Deposit, Dividend, Interest, Sell:
		return 1
	case Withdrawal, Buy, Fee:
		return -1
	}
	return 0
}

// Transaction is a ledger entry.
//
// Amount is the cash amount, its direction follows Type: a negative INTEREST is interest
// paid on a negative balance. Quantity is the signed change in shares of Ticker.
type Transaction struct {
	ID          string
	PortfolioID string
	Type        TxType
	Ticker      string
	Date        date.Date
	Quantity    Quantity
	Amount      decimal.Decimal
	Currency    string
	Note        string
	Internal    bool
}

// IsExternal reports whether the transaction moves money across the portfolio boundary.
func (tx Transaction) IsExternal() bool { return tx.Type == Deposit || tx.Type == Withdrawal }

// ExternalAmount is the signed external flow of tx: deposits positive, withdrawals negative.
func (tx Transaction) ExternalAmount() decimal.Decimal {
	switch tx.Type {
	case Deposit:
		return tx.Amount
	case Withdrawal:
		return tx.Amount.Neg()
	}
	return decZero
}

// CashAmount is the signed change in cash caused by tx.
func (tx Transaction) CashAmount() decimal.Decimal {
	return tx.Amount.Mul(decimal.NewFromInt(int64(tx.Type.cashSign())))
}

func (tx Transaction) inPortfolio(id string) bool { return id == "" || tx.PortfolioID == id }

// holds reports whether tx changes a security position.
func (tx Transaction) holds() bool {
	return tx.Ticker != "" && tx.Ticker != CashTicker && !tx.Quantity.IsZero()
}

// SortTransactions returns a copy of txs sorted by date, then type (deposits first, fees
// last, unknown types after), then ID.
func SortTransactions(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Type.order(), b.Type.order()); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return sorted
}

// PortfolioTransactions returns the transactions of portfolio id, all of them when id is
// empty.
func PortfolioTransactions(txs []Transaction, id string) []Transaction {
	var selected []Transaction
	for _, tx := range txs {
		if tx.inPortfolio(id) {
			selected = append(selected, tx)
		}
	}
	return selected
}
