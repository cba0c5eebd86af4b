package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/scadenziario/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Review lets the user pick which suggestions to keep. It returns the
// accepted ones, or nil when the user leaves without confirming.
func Review(ctx context.Context, suggestions []model.DeadlineSuggestion, opts ...Option) ([]model.DeadlineSuggestion, error) {
	if len(suggestions) == 0 {
		return nil, nil
	}

	program := tea.NewProgram(NewModel(suggestions, opts...),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("review interface failed: %w", err)
	}

	result, ok := final.(Model)
	if !ok || !result.Confirmed() {
		return nil, nil
	}
	return result.Accepted(), nil
}
