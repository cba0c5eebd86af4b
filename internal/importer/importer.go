// Package importer reads bank statements (OFX/QFX and XLSX exports) into
// movements for a given company.
package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/model"
)

// Importer dispatches statement files to the parser for their format.
type Importer struct {
	ofx  *OFXParser
	xlsx *XLSXParser
}

// New creates an importer with the default parsers.
func New() *Importer {
	return &Importer{ofx: NewOFXParser(), xlsx: NewXLSXParser()}
}

// Supported reports whether path has an importable extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx", ".xlsx":
		return true
	default:
		return false
	}
}

// ParseFile reads the statement at path and returns its movements for company.
func (i *Importer) ParseFile(ctx context.Context, path, company string) ([]model.Transaction, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, fmt.Errorf("%w: company is required", common.ErrInvalidConfig)
	}

	var (
		txns []model.Transaction
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		var f *os.File
		f, err = os.Open(path) //nolint:gosec // path comes from the command line
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		txns, err = i.ofx.Parse(ctx, f, company)
	case ".xlsx":
		txns, err = i.xlsx.ParseFile(ctx, path, company)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	if len(txns) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), common.ErrNoTransactions)
	}
	markRepeats(txns)
	return txns, nil
}

// markRepeats gives identical movements in one statement distinct hashes.
// The n-th copy of a movement gets the same hash on every parse of the file,
// so re-imports still deduplicate while genuine same-day repeats survive.
func markRepeats(txns []model.Transaction) {
	seen := make(map[string]int, len(txns))
	for i := range txns {
		base := txns[i].Hash
		seen[base]++
		n := seen[base]
		if n == 1 {
			continue
		}

		sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", base, n)))
		txns[i].Hash = hex.EncodeToString(sum[:])
		if txns[i].ID == base {
			txns[i].ID = txns[i].Hash
		}
	}
}
