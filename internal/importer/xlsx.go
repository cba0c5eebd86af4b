package importer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/tealeg/xlsx/v2"
)

// headerSearchRows bounds how far down a sheet the header row may appear.
// Bank exports usually start with a few lines of account details.
const headerSearchRows = 15

type column int

const (
	colDate column = iota
	colDescription
	colInflow
	colOutflow
	colAmount
	colCategory
	colSubcategory
	colID
)

// headerAliases lists accepted header labels per column, in preference order.
var headerAliases = map[column][]string{
	colDate:        {"data", "data operazione", "data contabile", "data valuta", "date"},
	colDescription: {"descrizione", "descrizione operazione", "causale", "description"},
	colInflow:      {"entrate", "avere", "accrediti"},
	colOutflow:     {"uscite", "dare", "addebiti"},
	colAmount:      {"importo", "importo eur", "amount"},
	colCategory:    {"categoria"},
	colSubcategory: {"sottocategoria"},
	colID:          {"id", "riferimento"},
}

var thousandsOnly = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// XLSXParser reads spreadsheet exports of bank movements.
type XLSXParser struct {
	SheetName string // defaults to the first sheet
}

// NewXLSXParser creates a new spreadsheet parser.
func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

// ParseFile reads the spreadsheet at path and returns its movements for company.
func (p *XLSXParser) ParseFile(ctx context.Context, path, company string) ([]model.Transaction, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open file: %w", err)
	}

	sheet, err := p.sheet(f)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		rows = append(rows, rowToStrings(row))
	}

	return p.ParseRows(ctx, rows, company)
}

func (p *XLSXParser) sheet(f *xlsx.File) (*xlsx.Sheet, error) {
	if p.SheetName != "" {
		sheet, ok := f.Sheet[p.SheetName]
		if !ok {
			return nil, fmt.Errorf("xlsx: sheet %q not found", p.SheetName)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("xlsx: file has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = strings.TrimSpace(cell.String())
	}
	return cells
}

// ParseRows maps already extracted rows to movements. Rows before the header
// are ignored; data rows with an unreadable date or amount are skipped and logged.
func (p *XLSXParser) ParseRows(ctx context.Context, rows [][]string, company string) ([]model.Transaction, error) {
	headerIdx, cols, err := findHeader(rows)
	if err != nil {
		return nil, err
	}

	var (
		transactions []model.Transaction
		skipped      int
	)

	for i := headerIdx + 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := rows[i]
		if isBlank(row) {
			continue
		}

		tx, err := convertRow(row, cols, company)
		if err != nil {
			skipped++
			slog.Warn("Skipping spreadsheet row", "row", i+1, "error", err)
			continue
		}
		transactions = append(transactions, tx)
	}

	slog.Debug("Parsed spreadsheet",
		"company", company,
		"total_transactions", len(transactions),
		"skipped_rows", skipped)

	return transactions, nil
}

func findHeader(rows [][]string) (int, map[column]int, error) {
	limit := min(len(rows), headerSearchRows)

	for i := 0; i < limit; i++ {
		cols := mapHeader(rows[i])
		_, hasDate := cols[colDate]
		_, hasDesc := cols[colDescription]
		if !hasDate || !hasDesc {
			continue
		}

		_, hasAmount := cols[colAmount]
		_, hasIn := cols[colInflow]
		_, hasOut := cols[colOutflow]
		if !hasAmount && !hasIn && !hasOut {
			return 0, nil, fmt.Errorf("%w: importo, entrate or uscite", common.ErrMissingColumn)
		}
		return i, cols, nil
	}

	return 0, nil, fmt.Errorf("%w: data and descrizione", common.ErrMissingColumn)
}

func mapHeader(row []string) map[column]int {
	cols := make(map[column]int)
	for col, aliases := range headerAliases {
		best := len(aliases)
		for j, cell := range row {
			label := strings.ToLower(strings.Join(strings.Fields(cell), " "))
			for rank, alias := range aliases {
				if label == alias && rank < best {
					best = rank
					cols[col] = j
				}
			}
		}
	}
	return cols
}

func convertRow(row []string, cols map[column]int, company string) (model.Transaction, error) {
	cell := func(c column) string {
		j, ok := cols[c]
		if !ok || j >= len(row) {
			return ""
		}
		return row[j]
	}

	date, err := parseCellDate(cell(colDate))
	if err != nil {
		return model.Transaction{}, err
	}

	description := strings.Join(strings.Fields(cell(colDescription)), " ")
	if description == "" {
		return model.Transaction{}, fmt.Errorf("missing description")
	}

	tx := model.Transaction{
		Company:     company,
		Date:        date.Format(model.DateLayout),
		Description: description,
		Category:    cell(colCategory),
		Subcategory: cell(colSubcategory),
		ID:          cell(colID),
	}

	if raw := cell(colAmount); raw != "" {
		amount, err := ParseAmount(raw)
		if err != nil {
			return model.Transaction{}, err
		}
		if amount < 0 {
			tx.Outflow = -amount
		} else {
			tx.Inflow = amount
		}
	}
	if raw := cell(colInflow); raw != "" {
		amount, err := ParseAmount(raw)
		if err != nil {
			return model.Transaction{}, err
		}
		tx.Inflow = math.Abs(amount)
	}
	if raw := cell(colOutflow); raw != "" {
		amount, err := ParseAmount(raw)
		if err != nil {
			return model.Transaction{}, err
		}
		tx.Outflow = math.Abs(amount)
	}

	if tx.Inflow == 0 && tx.Outflow == 0 {
		return model.Transaction{}, fmt.Errorf("row has no amount")
	}

	tx.Hash = tx.GenerateHash()
	if tx.ID == "" {
		tx.ID = tx.Hash
	}
	return tx, nil
}

// ParseAmount parses amounts as written in Italian exports: "1.234,56",
// "-450,00", "€ 49,90". Plain "1234.56" is accepted too.
func ParseAmount(raw string) (float64, error) {
	s := strings.NewReplacer("€", "", "EUR", "", " ", "", "\u00a0", "").Replace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case thousandsOnly.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}

// parseCellDate accepts the layouts model.ParseDate knows plus the short
// forms and serial numbers spreadsheets produce.
func parseCellDate(raw string) (time.Time, error) {
	if t, err := model.ParseDate(raw); err == nil {
		return t, nil
	}

	for _, layout := range []string{"02-01-2006", "2/1/2006", "02/01/06", "02.01.2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		t := xlsx.TimeFromExcelTime(serial, false)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
