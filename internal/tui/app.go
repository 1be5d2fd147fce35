package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zhouzirui/codex-landing/backend/internal/model/chat"
	"github.com/zhouzirui/codex-landing/backend/internal/model/page"
	chatservice "github.com/zhouzirui/codex-landing/backend/internal/service/chat"
)

// Model renders the landing page and drives a local conversation.
type Model struct {
	content    page.Content
	conv       *chatservice.Conversation
	input      textinput.Model
	nextPrompt int
	width      int
	height     int
	quitting   bool
}

// NewModel seeds a conversation from content and focuses the input.
func NewModel(content page.Content, replier chatservice.Replier) Model {
	conv := chatservice.NewConversation(content.Greeting, content.InitialDraft, replier)

	ti := textinput.New()
	ti.Placeholder = content.Placeholder
	ti.CharLimit = 500
	ti.Prompt = "› "
	ti.SetValue(conv.Draft())
	ti.CursorEnd()
	ti.Focus()

	return Model{
		content: content,
		conv:    conv,
		input:   ti,
		width:   100,
		height:  32,
	}
}

func (m Model) messages() []chat.Message {
	return m.conv.Messages()
}

func (m Model) draft() string {
	return m.conv.Draft()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-8)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			m.conv.Submit()
			m.syncInput()
			return m, nil

		case "tab":
			if n := len(m.content.QuickPrompts); n > 0 {
				m.conv.SelectPrompt(m.content.QuickPrompts[m.nextPrompt%n])
				m.nextPrompt = (m.nextPrompt + 1) % n
				m.syncInput()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.conv.SetDraft(m.input.Value())
	return m, cmd
}

func (m *Model) syncInput() {
	m.input.SetValue(m.draft())
	m.input.CursorEnd()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(badgeStyle.Render(m.content.Badge) + "\n")
	b.WriteString(titleStyle.Render(m.content.Headline) + "\n")
	b.WriteString(dimStyle.Width(max(20, m.width-2)).Render(m.content.Intro) + "\n\n")
	b.WriteString(m.renderStats() + "\n")
	b.WriteString(m.renderKeywords() + "\n\n")

	b.WriteString(titleStyle.Render(m.content.FormTitle) + "  " + dimStyle.Render(m.content.FormHint) + "\n")
	b.WriteString(m.renderPrompts() + "\n\n")

	header := strings.Count(b.String(), "\n")
	b.WriteString(m.renderLog(max(3, m.height-header-5)))

	b.WriteString(inputStyle.Render(m.input.View()) + "\n")
	b.WriteString(helpStyle.Render("  Enter: " + m.content.SubmitLabel + "  Tab: підказка  Esc: вихід"))

	return b.String()
}

func (m Model) renderStats() string {
	cols := make([]string, 0, len(m.content.Stats))
	for _, s := range m.content.Stats {
		cols = append(cols, statValueStyle.Render(s.Value)+" "+dimStyle.Render(strings.ToUpper(s.Label)))
	}
	return strings.Join(cols, "   ")
}

func (m Model) renderKeywords() string {
	tags := make([]string, 0, len(m.content.Keywords))
	for _, k := range m.content.Keywords {
		tags = append(tags, keywordStyle.Render(k))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tags...)
}

func (m Model) renderPrompts() string {
	n := len(m.content.QuickPrompts)
	items := make([]string, 0, n)
	for i, p := range m.content.QuickPrompts {
		style := promptStyle
		if n > 0 && i == m.nextPrompt%n {
			style = nextPromptStyle
		}
		items = append(items, style.Render(fmt.Sprintf("[%d] %s", i+1, p)))
	}
	return strings.Join(items, "  ")
}

// renderLog shows the newest lines of the conversation that fit in rows.
func (m Model) renderLog(rows int) string {
	bubbleWidth := max(20, m.width*4/5)
	var lines []string
	for _, msg := range m.messages() {
		var rendered string
		if msg.Sender == chat.SenderUser {
			rendered = bubble(userBubbleStyle, msg.Text, bubbleWidth)
			rendered = lipgloss.PlaceHorizontal(max(m.width, lipgloss.Width(rendered)), lipgloss.Right, rendered)
		} else {
			rendered = bubble(assistantBubbleStyle, msg.Text, bubbleWidth)
		}
		lines = append(lines, strings.Split(rendered, "\n")...)
	}

	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

// bubble wraps text at maxWidth columns without padding short messages.
func bubble(style lipgloss.Style, text string, maxWidth int) string {
	width := min(maxWidth, lipgloss.Width(text)+style.GetHorizontalFrameSize())
	return style.Width(width).Render(text)
}
