package returns

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/returns/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxLineSize bounds a single JSONL line.
const maxLineSize = 1 << 20

// transactionNamespace derives the IDs of transactions recorded without one.
var transactionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/returns/transaction"))

// DecodeOptions tune the decoders.
type DecodeOptions struct {
	// Log receives a warning for every skipped line. Nil discards them.
	Log logrus.FieldLogger
	// Path is a JSONPath selecting the [{date, close}] price objects of a JSON document.
	// When empty, prices are read as JSONL.
	Path string
	// Ticker names the prices selected by Path, and the JSONL lines without a ticker.
	Ticker string
}

func (o DecodeOptions) log() logrus.FieldLogger {
	if o.Log != nil {
		return o.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// jsonTransaction is the wire form of a Transaction.
type jsonTransaction struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolio_id"`
	Type        string          `json:"type"`
	Ticker      string          `json:"ticker"`
	Date        string          `json:"date"`
	Quantity    decimal.Decimal `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Note        string          `json:"note"`
	Internal    bool            `json:"internal"`
}

// decodeTransaction parses a single ledger line.
func decodeTransaction(line []byte) (Transaction, error) {
	var jt jsonTransaction
	if err := json.Unmarshal(line, &jt); err != nil {
		return Transaction{}, err
	}
	typ, ok := ParseTxType(jt.Type)
	if !ok {
		return Transaction{}, fmt.Errorf("unknown transaction type %q", jt.Type)
	}
	on, err := date.ParseKey(strings.TrimSpace(jt.Date))
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid date: %w", err)
	}
	id := jt.ID
	if id == "" {
		id = uuid.NewSHA1(transactionNamespace, bytes.TrimSpace(line)).String()
	}
	return Transaction{
		ID:          id,
		PortfolioID: jt.PortfolioID,
		Type:        typ,
		Ticker:      normalizeTicker(jt.Ticker),
		Date:        on,
		Quantity:    Q(jt.Quantity),
		Amount:      jt.Amount,
		Currency:    NormalizeCurrency(jt.Currency),
		Note:        jt.Note,
		Internal:    jt.Internal,
	}, nil
}

// DecodeTransactions reads a JSONL ledger, one transaction per line, and returns the
// transactions sorted with SortTransactions.
//
// Blank lines are ignored. Lines that are not valid transactions are skipped with a
// warning. A transaction without an ID gets one derived from the line content, so
// decoding the same ledger twice yields the same IDs.
func DecodeTransactions(r io.Reader, opts DecodeOptions) ([]Transaction, error) {
	log := opts.log()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var txs []Transaction
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		tx, err := decodeTransaction(line)
		if err != nil {
			log.WithError(err).WithField("line", n).Warn("skipping transaction")
			continue
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read ledger: %w", err)
	}
	return SortTransactions(txs), nil
}

func (tx Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", tx.ID)
	w.Optional("portfolio_id", tx.PortfolioID)
	w.Append("type", tx.Type)
	w.Optional("ticker", tx.Ticker)
	w.Append("date", tx.Date)
	if !tx.Quantity.IsZero() {
		w.Append("quantity", tx.Quantity)
	}
	w.Append("amount", tx.Amount)
	w.Optional("currency", tx.Currency)
	w.Optional("note", tx.Note)
	w.Optional("internal", tx.Internal)
	return w.MarshalJSON()
}

// EncodeTransaction writes tx as a single JSONL line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	line, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("cannot encode transaction %q: %w", tx.ID, err)
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("cannot write transaction %q: %w", tx.ID, err)
	}
	return nil
}

// EncodeTransactions writes txs as JSONL, in the given order.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	for _, tx := range txs {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// jsonPrice is one line of a JSONL price file.
type jsonPrice struct {
	Date   string          `json:"date"`
	Ticker string          `json:"ticker"`
	Close  decimal.Decimal `json:"close"`
}

// DecodePrices reads closing prices into a PriceBook.
//
// By default the input is JSONL with one {"date","ticker","close"} object per line. With
// opts.Path set, the input is a single JSON document and the JSONPath must select a list
// of {date, close} objects, all priced for opts.Ticker. Invalid entries are skipped with a
// warning.
func DecodePrices(r io.Reader, opts DecodeOptions) (PriceBook, error) {
	if opts.Path != "" {
		return decodePricesAt(r, opts)
	}
	log := opts.log()
	book := NewPriceBook()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var jp jsonPrice
		if err := json.Unmarshal(line, &jp); err != nil {
			log.WithError(err).WithField("line", n).Warn("skipping price")
			continue
		}
		if jp.Ticker == "" {
			jp.Ticker = opts.Ticker
		}
		on, err := date.ParseKey(jp.Date)
		if err != nil || jp.Ticker == "" {
			log.WithField("line", n).Warn("skipping price without date or ticker")
			continue
		}
		book.Add(jp.Ticker, on, jp.Close)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read prices: %w", err)
	}
	return book, nil
}

func decodePricesAt(r io.Reader, opts DecodeOptions) (PriceBook, error) {
	if opts.Ticker == "" {
		return nil, fmt.Errorf("prices selected by %q need a ticker", opts.Path)
	}
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse price document: %w", err)
	}
	selected, err := jsonpath.Get(opts.Path, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", opts.Path, err)
	}
	list, ok := selected.([]any)
	if !ok {
		return nil, fmt.Errorf("%q does not select a list but %T", opts.Path, selected)
	}

	log := opts.log()
	book := NewPriceBook()
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			log.WithField("index", i).Warn("skipping price that is not an object")
			continue
		}
		on, err := date.ParseKey(fmt.Sprint(obj["date"]))
		price, ok := priceValue(obj["close"])
		if err != nil || !ok {
			log.WithField("index", i).Warn("skipping price without date or close")
			continue
		}
		book.Add(opts.Ticker, on, price)
	}
	return book, nil
}

// priceValue reads a JSON number or numeric string. Strings are read exactly.
func priceValue(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case float64:
		return D(x), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decZero, false
		}
		return d, true
	}
	return decZero, false
}

// DecodeCashPolicy reads a JSON cash policy and normalizes it.
func DecodeCashPolicy(r io.Reader) (CashPolicy, error) {
	var raw RawCashPolicy
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return CashPolicy{}, fmt.Errorf("cannot parse cash policy: %w", err)
	}
	return NormalizeCashPolicy(raw), nil
}

// EncodeCashPolicy writes the normalized form of p as indented JSON.
func EncodeCashPolicy(w io.Writer, p CashPolicy) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p.Raw())
}
