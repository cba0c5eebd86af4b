package importer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "estratto.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestXLSXParser_ParseFile(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Movimenti": {
			{"Estratto conto", "LNC S.r.l."},
			{"IBAN", "IT60X0542811101000000123456"},
			{},
			{"Data operazione", "Data valuta", "Descrizione", "Entrate", "Uscite", "Categoria"},
			{"16/01/2024", "17/01/2024", "PAGAMENTO F24 TRIBUTI ERARIALI", "", "450,00", "Tasse"},
			{"20/01/2024", "20/01/2024", "INCENTIVO GSE", "1.200,00", "", ""},
			{"", "", "", "", "", ""},
			{"15/02/2024", "15/02/2024", "PAGAMENTO  F24   TRIBUTI ERARIALI", "", "-460,00", ""},
			{"31/02/2024", "31/02/2024", "RIGA ERRATA", "", "10,00", ""},
		},
	})

	txns, err := NewXLSXParser().ParseFile(context.Background(), path, "LNC")
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, "2024-01-16", txns[0].Date)
	assert.Equal(t, "LNC", txns[0].Company)
	assert.Equal(t, "PAGAMENTO F24 TRIBUTI ERARIALI", txns[0].Description)
	assert.InDelta(t, 450.0, txns[0].Outflow, 1e-9)
	assert.Equal(t, "Tasse", txns[0].Category)
	assert.Equal(t, txns[0].Hash, txns[0].ID, "rows without an id column use the content hash")

	assert.InDelta(t, 1200.0, txns[1].Inflow, 1e-9)
	assert.Zero(t, txns[1].Outflow)

	assert.Equal(t, "PAGAMENTO F24 TRIBUTI ERARIALI", txns[2].Description)
	assert.InDelta(t, 460.0, txns[2].Outflow, 1e-9)
}

func TestXLSXParser_SignedAmountColumn(t *testing.T) {
	rows := [][]string{
		{"Data", "Causale", "Importo", "ID"},
		{"2024-03-01", "Canone Fastweb", "-49,90", "op-1"},
		{"45352", "Rimborso", "€ 10,00", "op-2"},
	}

	txns, err := NewXLSXParser().ParseRows(context.Background(), rows, "GSE")
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "op-1", txns[0].ID)
	assert.InDelta(t, 49.90, txns[0].Outflow, 1e-9)
	assert.Equal(t, "2024-03-01", txns[1].Date, "excel serial dates are converted")
	assert.InDelta(t, 10.0, txns[1].Inflow, 1e-9)
}

func TestXLSXParser_MissingColumns(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{name: "no header", rows: [][]string{{"a", "b"}, {"1", "2"}}},
		{name: "no amount column", rows: [][]string{{"Data", "Descrizione", "Note"}}},
		{name: "empty sheet", rows: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewXLSXParser().ParseRows(context.Background(), tt.rows, "LNC")
			assert.ErrorIs(t, err, common.ErrMissingColumn)
		})
	}
}

func TestXLSXParser_SheetNameNotFound(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{"Foglio1": {{"Data"}}})

	p := &XLSXParser{SheetName: "Movimenti"}
	_, err := p.ParseFile(context.Background(), path, "LNC")
	assert.ErrorContains(t, err, `sheet "Movimenti" not found`)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "450,00", want: 450},
		{raw: "1.234,56", want: 1234.56},
		{raw: "-1.234,56", want: -1234.56},
		{raw: "€ 49,90", want: 49.90},
		{raw: "49,90 EUR", want: 49.90},
		{raw: "1234.56", want: 1234.56},
		{raw: "1.200", want: 1200},
		{raw: "12.50", want: 12.50},
		{raw: "1 234,00", want: 1234},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
