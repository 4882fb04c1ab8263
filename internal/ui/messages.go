package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/countrylookup/internal/countries"
	"github.com/yildizm/countrylookup/internal/search"
)

// debounceMsg is delivered when a keystroke's quiet period has elapsed
type debounceMsg struct {
	ticket search.Ticket
}

// lookupResultMsg carries a finished lookup back to the model
type lookupResultMsg struct {
	resp search.Response
}

// debounceCmd waits for the gate's quiet period and reports the ticket
func debounceCmd(gate *search.Gate, ticket search.Ticket) tea.Cmd {
	return tea.Tick(gate.Delay(), func(_ time.Time) tea.Msg {
		return debounceMsg{ticket: ticket}
	})
}

// lookupCmd performs a lookup off the update loop
func lookupCmd(ctx context.Context, lookup countries.Lookuper, req search.Request) tea.Cmd {
	return func() tea.Msg {
		return lookupResultMsg{resp: search.Fetch(ctx, lookup, req)}
	}
}
