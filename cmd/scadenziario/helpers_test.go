package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"gennaio.ofx", "febbraio.QFX", "marzo.xlsx", "note.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	files, err := expandFiles([]string{
		filepath.Join(dir, "*"),
		filepath.Join(dir, "gennaio.ofx"),
		filepath.Join(dir, "assente.ofx"),
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "febbraio.QFX"),
		filepath.Join(dir, "gennaio.ofx"),
		filepath.Join(dir, "marzo.xlsx"),
	}, files)

	_, err = expandFiles([]string{"[invalid"})
	assert.Error(t, err)
}

func TestPickSuggestion(t *testing.T) {
	suggestions := []model.DeadlineSuggestion{
		{Description: "Pagamento F24"},
		{Description: "Enel Energia"},
	}

	got, err := pickSuggestion(suggestions, 2)
	require.NoError(t, err)
	assert.Equal(t, "Enel Energia", got.Description)

	for _, index := range []int{0, -1, 3} {
		_, err = pickSuggestion(suggestions, index)
		assert.ErrorIs(t, err, common.ErrNotFound)
	}

	_, err = pickSuggestion(nil, 1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
