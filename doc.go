// Package returns computes the daily performance of a portfolio and attributes it to its
// cash and risk sleeves.
//
// The engine consumes the daily states of a portfolio (NAV, cash, value of the risk
// sleeve), its ledger of transactions, a cash interest policy and the closing prices of a
// benchmark. For every state date it produces a Row with five returns:
//
//   - Port, the whole portfolio, net of external flows.
//   - ExCash, the risk sleeve alone.
//   - BenchBlended, the benchmark blended with cash at the portfolio's cash weight.
//   - Spy100, a synthetic portfolio fully invested in the benchmark that receives the
//     same deposits and withdrawals.
//   - Cash, the yield of the cash sleeve under the policy.
//
// Rows compound into a Performance summary, and the money-weighted return of any range is
// solved with XIRR.
//
// All computations are exact decimal arithmetic (money in cents, shares in micro-shares);
// floats only appear in the outputs. Functions are pure and safe for concurrent use.
//
// This package serves as the foundational logic for the `pfa` command-line tool.
package returns
