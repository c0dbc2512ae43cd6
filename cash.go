package returns

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/returns/date"
	"github.com/shopspring/decimal"
)

// Series is a return (or price) series: one decimal per date, in chronological order.
type Series = date.History[decimal.Decimal]

const (
	cashRatePlaces = 12

	// DailyInterestNote marks interest transactions posted by PostInterest.
	DailyInterestNote = "Automated daily cash interest accrual"
	// MonthlyInterestNote marks interest transactions posted by MonthlyInterest.
	MonthlyInterestNote = "Automated monthly cash interest posting"
)

// DailyRateFromAPY spreads apy evenly over dayCount days.
//
// It panics if dayCount is not positive.
func DailyRateFromAPY(apy decimal.Decimal, dayCount int) decimal.Decimal {
	if dayCount <= 0 {
		panic(fmt.Sprintf("dayCount must be positive, got %d", dayCount))
	}
	return apy.DivRound(decimal.NewFromInt(int64(dayCount)), divisionPlaces)
}

// ResolveAPY returns the APY applying on day, zero if no interval covers it.
//
// If several intervals cover day, the last one wins.
func ResolveAPY(timeline []APYInterval, day date.Date) decimal.Decimal {
	apy := decZero
	for _, i := range timeline {
		if i.Contains(day) {
			apy = i.APY
		}
	}
	return apy
}

// BuildCashReturnSeries returns the daily cash rate of every calendar day in [from, to],
// rounded to 12 places.
func BuildCashReturnSeries(policy CashPolicy, from, to date.Date) *Series {
	series := new(Series)
	for on := range date.Days(from, to) {
		series.Append(on, policy.DailyRate(on).Round(cashRatePlaces))
	}
	return series
}

// BalanceOptions filters the transactions used by CashBalanceUntil.
type BalanceOptions struct {
	PortfolioID string // only this portfolio when not empty
}

// CashBalanceUntil returns the cash balance in currency at the end of day.
//
// Amounts are summed in whole cents. Transactions in other currencies are ignored.
func CashBalanceUntil(txs []Transaction, day date.Date, currency string, opts BalanceOptions) Money {
	currency = NormalizeCurrency(currency)
	var cents int64
	for _, tx := range txs {
		if tx.Date.After(day) || !tx.inPortfolio(opts.PortfolioID) {
			continue
		}
		if NormalizeCurrency(tx.Currency) != currency {
			continue
		}
		cents += int64(tx.Type.cashSign()) * ToCents(tx.Amount)
	}
	return M(FromCents(cents), currency)
}

// InterestID returns the identifier of the interest posted on day.
func InterestID(portfolioID string, day date.Date) string {
	if portfolioID == "" {
		return "interest-" + day.String()
	}
	return "interest-" + portfolioID + "-" + day.String()
}

// PostInterest computes the interest posted on day.
//
// The interest is earned overnight by the cash balance at the end of the previous day,
// at the APY in force on that previous day, so cash deposited on day earns nothing until
// the next day. It returns false when interest in the policy currency is already posted on that day,
// when no APY applies, or when the interest rounds to zero in the currency minor units.
// Negative balances produce negative interest.
func PostInterest(portfolioID string, day date.Date, txs []Transaction, policy CashPolicy) (Transaction, bool) {
	currency := NormalizeCurrency(policy.Currency)
	posted := slices.ContainsFunc(txs, func(tx Transaction) bool {
		return tx.inPortfolio(portfolioID) && tx.Type == Interest && tx.Date == day &&
			NormalizeCurrency(tx.Currency) == currency
	})
	if posted {
		return Transaction{}, false
	}

	prev := day.Add(-1)
	rate := policy.DailyRate(prev)
	if rate.IsZero() {
		return Transaction{}, false
	}
	balance := CashBalanceUntil(txs, prev, currency, BalanceOptions{PortfolioID: portfolioID})
	interest := balance.Mul(rate).Round()
	if interest.IsZero() {
		return Transaction{}, false
	}
	return Transaction{
		ID:          InterestID(portfolioID, day),
		PortfolioID: portfolioID,
		Type:        Interest,
		Ticker:      CashTicker,
		Date:        day,
		Amount:      interest.Decimal(),
		Currency:    currency,
		Note:        DailyInterestNote,
		Internal:    true,
	}, true
}

// AccrueInterest posts daily interest for every day in [from, to].
//
// Each posting is part of the balance of the following days, so interest compounds daily.
func AccrueInterest(portfolioID string, from, to date.Date, txs []Transaction, policy CashPolicy) []Transaction {
	ledger := slices.Clone(txs)
	var posted []Transaction
	for on := range date.Days(from, to) {
		tx, ok := PostInterest(portfolioID, on, ledger, policy)
		if !ok {
			continue
		}
		ledger = append(ledger, tx)
		posted = append(posted, tx)
	}
	return posted
}

// postingDayIn returns the day of month of the posting in a month: postingDay clamped to
// the month length, the last day when postingDay is not positive.
func postingDayIn(month date.Date, postingDay int) int {
	last := month.EndOf(date.Monthly).Day()
	if postingDay <= 0 || postingDay > last {
		return last
	}
	return postingDay
}

// PostingDate returns the posting date in the month of month.
func PostingDate(month date.Date, postingDay int) date.Date {
	return date.New(month.Year(), month.Month(), postingDayIn(month, postingDay))
}

// AccrualMonth returns the first day of the month whose posting includes day's accrual.
//
// Days after the posting day belong to the next month.
func AccrualMonth(day date.Date, postingDay int) date.Date {
	if day.Day() <= postingDayIn(day, postingDay) {
		return day.StartOf(date.Monthly)
	}
	return day.EndOf(date.Monthly).Add(1)
}

// MonthlyInterest folds daily interest accruals into one posting per month, portfolio and
// currency.
//
// Only transactions carrying DailyInterestNote are folded. Months whose accruals sum to zero
// post nothing. Monthly postings are recorded in the ledger, so unlike daily accruals they
// are not internal.
func MonthlyInterest(daily []Transaction, postingDay int) []Transaction {
	type key struct {
		portfolio, currency string
		month               date.Date
	}
	cents := make(map[key]int64)
	var keys []key
	for _, tx := range daily {
		if tx.Type != Interest || tx.Note != DailyInterestNote {
			continue
		}
		k := key{tx.PortfolioID, NormalizeCurrency(tx.Currency), AccrualMonth(tx.Date, postingDay)}
		if _, ok := cents[k]; !ok {
			keys = append(keys, k)
		}
		cents[k] += ToCents(tx.Amount)
	}

	var postings []Transaction
	for _, k := range keys {
		if cents[k] == 0 {
			continue
		}
		on := PostingDate(k.month, postingDay)
		postings = append(postings, Transaction{
			ID:          InterestID(k.portfolio, on),
			PortfolioID: k.portfolio,
			Type:        Interest,
			Ticker:      CashTicker,
			Date:        on,
			Amount:      M(FromCents(cents[k]), k.currency).Round().Decimal(),
			Currency:    k.currency,
			Note:        MonthlyInterestNote,
		})
	}
	slices.SortFunc(postings, func(a, b Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return postings
}

// AccrueMonthlyInterest accrues the daily interest of [from, to] and returns the monthly
// postings due by to.
//
// Accrual resumes the day after the latest monthly posting of the portfolio and currency
// found in txs, so running it again over the same range posts nothing. A month whose
// posting day is after to posts nothing yet.
func AccrueMonthlyInterest(portfolioID string, from, to date.Date, txs []Transaction, policy CashPolicy, postingDay int) []Transaction {
	currency := NormalizeCurrency(policy.Currency)
	for _, tx := range txs {
		if tx.inPortfolio(portfolioID) && tx.Type == Interest && tx.Note == MonthlyInterestNote &&
			NormalizeCurrency(tx.Currency) == currency && !tx.Date.Before(from) {
			from = tx.Date.Add(1)
		}
	}
	daily := AccrueInterest(portfolioID, from, to, txs, policy)
	return slices.DeleteFunc(MonthlyInterest(daily, postingDay), func(tx Transaction) bool {
		return tx.Date.After(to)
	})
}
