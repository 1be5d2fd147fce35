package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zhouzirui/codex-landing/backend/internal/model/page"
	"github.com/zhouzirui/codex-landing/backend/internal/responder"
	"github.com/zhouzirui/codex-landing/backend/internal/tui"
)

func main() {
	m := tui.NewModel(page.Seed(), responder.Default())

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
