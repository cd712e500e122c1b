// Package ofx converts OFX/QFX bank statements into ledger transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// maxParallelFiles bounds how many statements are parsed at once.
const maxParallelFiles = 4

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of a bare opening tag.
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX statement and returns its transactions.
// Lines with a zero amount carry no money movement and are skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			transactions = append(transactions, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			transactions = append(transactions, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// FileParsed is called after each file in ParseFiles finishes parsing.
// It may be called from several goroutines at once.
type FileParsed func(path string, count int)

// ParseFiles parses several statements concurrently and returns their
// transactions in the order the paths were given. onParsed may be nil.
func (p *Parser) ParseFiles(ctx context.Context, paths []string, onParsed FileParsed) ([]model.Transaction, error) {
	results := make([][]model.Transaction, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFiles)

	for i, path := range paths {
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			txns, err := p.ParseFile(ctx, f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = txns
			if onParsed != nil {
				onParsed(path, len(txns))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Transaction
	for _, txns := range results {
		all = append(all, txns...)
	}
	return all, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID string) []model.Transaction {
	if list == nil {
		return nil
	}

	var transactions []model.Transaction
	for _, ofxTx := range list.Transactions {
		tx, ok := p.convertTransaction(ofxTx, accountID)
		if !ok {
			slog.Debug("Skipping OFX transaction", "fitid", ofxTx.FiTID, "account", accountID)
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions
}

// convertTransaction maps one statement line onto a ledger transaction.
// OFX uses negative amounts for debits.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string) (model.Transaction, bool) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.Rat.FloatString(4))
	if err != nil || amount.IsZero() {
		return model.Transaction{}, false
	}

	txType := model.TypeIncome
	if amount.IsNegative() {
		txType = model.TypeExpense
	}

	note := p.extractMerchantName(ofxTx)

	return model.Transaction{
		ID:       TransactionID(accountID, string(ofxTx.FiTID)),
		Type:     txType,
		Amount:   amount.Abs(),
		Category: categorize(ofxTx.TrnType.String(), note, txType),
		Note:     note,
		Date:     ofxTx.DtPosted.Time,
	}, true
}

// TransactionID derives a stable ID from the account and the bank's
// transaction ID, so importing the same statement twice adds nothing.
func TransactionID(accountID, fitID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("ofx:"+accountID+":"+fitID)).String()
}

// categorize guesses a category from the OFX transaction type and payee.
func categorize(trnType, note string, txType model.TransactionType) model.Category {
	if txType == model.TypeIncome {
		switch trnType {
		case "INT", "DIV":
			return model.CategoryInvestment
		case "DIRECTDEP":
			return model.CategorySalary
		}
		if strings.Contains(strings.ToUpper(note), "PAYROLL") {
			return model.CategorySalary
		}
	}
	return model.CategoryOther
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " date.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	default:
		return false
	}
}
