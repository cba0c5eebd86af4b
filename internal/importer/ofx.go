package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/aclindsa/ofxgo"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tag alone on a line with its closing bracket missing.
	unclosedTagRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// OFXParser reads OFX/QFX bank and card statements.
type OFXParser struct{}

// NewOFXParser creates a new OFX parser.
func NewOFXParser() *OFXParser {
	return &OFXParser{}
}

// preprocessOFX fixes common formatting issues in OFX files exported by banks.
func (p *OFXParser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = unclosedTagRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse reads an OFX statement and returns its movements for company.
func (p *OFXParser) Parse(ctx context.Context, reader io.Reader, company string) ([]model.Transaction, error) {
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
			if stmt.BankTranList != nil {
				transactions = append(transactions, p.convertList(stmt.BankTranList.Transactions, company)...)
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList != nil {
				transactions = append(transactions, p.convertList(stmt.BankTranList.Transactions, company)...)
			}
		}
	}

	slog.Debug("Parsed OFX file",
		"company", company,
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *OFXParser) convertList(list []ofxgo.Transaction, company string) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(list))
	for _, ofxTx := range list {
		transactions = append(transactions, p.convertTransaction(ofxTx, company))
	}
	return transactions
}

// convertTransaction maps an OFX entry to a movement. OFX amounts are signed:
// debits are negative and become outflows.
func (p *OFXParser) convertTransaction(ofxTx ofxgo.Transaction, company string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()

	tx := model.Transaction{
		ID:          string(ofxTx.FiTID),
		Company:     company,
		Date:        ofxTx.DtPosted.Time.Format(model.DateLayout),
		Description: p.extractDescription(ofxTx),
	}
	if amount < 0 {
		tx.Outflow = -amount
	} else {
		tx.Inflow = amount
	}

	tx.Hash = tx.GenerateHash()
	if tx.ID == "" {
		tx.ID = tx.Hash
	}

	return tx
}

// extractDescription picks the most informative text of an OFX entry.
func (p *OFXParser) extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	memo := strings.TrimSpace(string(tx.Memo))

	// Italian banks often put the operation type in NAME and the causale in MEMO.
	if memo != "" && (name == "" || isGenericDescription(name)) {
		name = memo
	}

	prefixes := []string{
		"PAGAMENTO POS ",
		"PAGAMENTO CARTA ",
		"ADDEBITO DIRETTO SDD ",
		"ADDEBITO SDD ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "ADDEBITO", "ACCREDITO", "BONIFICO", "PAGAMENTO", "DISPOSIZIONE", "DEBIT", "CREDIT", "PAYMENT":
		return true
	default:
		return false
	}
}
