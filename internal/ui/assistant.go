package ui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/five82/librarian/internal/library"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const assistantGreeting = "Hello! I'm your library assistant. You can ask me to show overdue books, " +
	"search for books, check user information, and more. What would you like to do?"

var suggestedPrompts = []string{
	"Show me all overdue books",
	"Find books by Stephen King",
	"Which users have the most books?",
	"What are the most popular books this month?",
	"Show recent book additions",
	"Find all science fiction books",
}

// chatMessage is one bubble of the conversation.
type chatMessage struct {
	id     string
	user   bool
	text   string
	data   any
	failed bool
	at     time.Time
}

type assistantState struct {
	messages   []chatMessage
	input      textinput.Model
	viewport   viewport.Model
	pending    bool
	suggestion int
}

func newAssistantState() assistantState {
	in := textinput.New()
	in.Placeholder = "Ask the library assistant..."
	in.CharLimit = library.MaxChatMessageLength
	in.Prompt = "› "

	return assistantState{
		messages: []chatMessage{{id: uuid.NewString(), text: assistantGreeting, at: time.Now()}},
		input:    in,
		viewport: viewport.New(80, 10),
	}
}

// showSuggestions reports whether only the greeting has been exchanged.
func (s assistantState) showSuggestions() bool {
	return len(s.messages) == 1
}

type chatReplyMsg struct {
	id    string
	reply library.ChatReply
	err   error
}

func (m Model) handleAssistantKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Compose), key.Matches(msg, m.keys.Confirm):
		return m, m.assistant.input.Focus()

	case key.Matches(msg, m.keys.Suggested):
		m.assistant.input.SetValue(suggestedPrompts[m.assistant.suggestion%len(suggestedPrompts)])
		m.assistant.suggestion++
		m.assistant.input.CursorEnd()
		return m, m.assistant.input.Focus()

	case key.Matches(msg, m.keys.Down):
		m.assistant.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.assistant.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.assistant.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.assistant.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.Top):
		m.assistant.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.assistant.viewport.GotoBottom()
	}
	return m, nil
}

// handleComposeKey feeds the focused chat input. Enter sends, esc leaves
// the input so global keys work again.
func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.assistant.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		return m.sendChat()
	}
	var cmd tea.Cmd
	m.assistant.input, cmd = m.assistant.input.Update(msg)
	return m, cmd
}

func (m Model) sendChat() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.assistant.input.Value())
	if text == "" || m.assistant.pending || m.client == nil {
		return m, nil
	}
	m.assistant.input.SetValue("")
	m.assistant.messages = append(m.assistant.messages,
		chatMessage{id: uuid.NewString(), user: true, text: text, at: m.clock()})
	m.assistant.pending = true
	m.assistant.refreshViewport(m.theme, m.assistant.viewport.Width)

	client, ctx := m.client, m.ctx
	id := uuid.NewString()
	return m, func() tea.Msg {
		reply, err := client.SendChat(ctx, text)
		return chatReplyMsg{id: id, reply: reply, err: err}
	}
}

func (m Model) handleChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	m.assistant.pending = false
	reply := chatMessage{id: msg.id, at: m.clock()}
	switch {
	case errors.Is(msg.err, library.ErrInvalidChatMessage):
		reply.text = fmt.Sprintf("Messages must be between 1 and %d characters.", library.MaxChatMessageLength)
		reply.failed = true
	case msg.err != nil:
		m.logger.Warn("assistant query failed", "error", msg.err)
		reply.text = "Sorry, I couldn't process that request: " + msg.err.Error()
		reply.failed = true
	default:
		reply.text = msg.reply.Message
		reply.data = msg.reply.DecodedData()
	}
	m.assistant.messages = append(m.assistant.messages, reply)
	m.assistant.refreshViewport(m.theme, m.assistant.viewport.Width)
	return m, nil
}

// refreshViewport re-renders the conversation and keeps it scrolled to the
// newest message.
func (s *assistantState) refreshViewport(theme Theme, width int) {
	s.viewport.SetContent(renderConversation(theme, s.messages, s.pending, width))
	s.viewport.GotoBottom()
}

func renderConversation(theme Theme, messages []chatMessage, pending bool, width int) string {
	styles := theme.Styles().WithBackground(theme.SurfaceAlt)
	bubbleWidth := max(width*3/4, 20)

	var blocks []string
	for _, msg := range messages {
		var b strings.Builder
		who, whoStyle := "Assistant", styles.AccentText.Bold(true)
		if msg.user {
			who, whoStyle = "You", styles.SuccessText
		} else if msg.failed {
			whoStyle = styles.DangerText
		}
		b.WriteString(whoStyle.Render(who))
		b.WriteString(styles.FaintText.Render("  " + msg.at.Format("15:04:05")))
		b.WriteString("\n")
		textStyle := styles.Text
		if msg.failed {
			textStyle = styles.DangerText
		}
		b.WriteString(textStyle.Width(bubbleWidth).Render(msg.text))
		if data := formatChatData(msg.data); data != "" {
			b.WriteString("\n")
			b.WriteString(styles.MutedText.Width(bubbleWidth).Render(data))
		}

		block := b.String()
		if msg.user {
			block = lipgloss.PlaceHorizontal(width, lipgloss.Right, block,
				lipgloss.WithWhitespaceBackground(lipgloss.Color(theme.SurfaceAlt)))
		}
		blocks = append(blocks, block)
	}
	if pending {
		blocks = append(blocks, styles.WarningText.Render("Processing..."))
	}
	return strings.Join(blocks, "\n\n")
}

// formatChatData renders assistant result data: arrays as a numbered list of
// items, objects as key/value lines, scalars as text.
func formatChatData(data any) string {
	switch v := data.(type) {
	case nil:
		return ""
	case []any:
		if len(v) == 0 {
			return ""
		}
		lines := []string{fmt.Sprintf("Results (%d %s):", len(v), plural(len(v), "item", "items"))}
		for i, item := range v {
			if obj, ok := item.(map[string]any); ok {
				lines = append(lines, fmt.Sprintf("%d.", i+1))
				for _, kv := range keyValues(obj) {
					lines = append(lines, "   "+kv)
				}
				continue
			}
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, scalarText(item)))
		}
		return strings.Join(lines, "\n")
	case map[string]any:
		return strings.Join(keyValues(v), "\n")
	default:
		return scalarText(v)
	}
}

func keyValues(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s: %s", titleCase(k), scalarText(obj[k])))
	}
	return out
}

func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return "—"
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case map[string]any, []any:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	default:
		return fmt.Sprint(t)
	}
}

func (m Model) renderAssistant() string {
	width, height := m.width, m.contentHeight()
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)

	var b strings.Builder
	b.WriteString(m.assistant.viewport.View())
	if m.assistant.showSuggestions() {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Try these commands (p to insert):"))
		for _, p := range suggestedPrompts {
			b.WriteString("\n")
			b.WriteString(styles.AccentText.Render("  • " + p))
		}
	}
	conversation := m.renderTitledBox("Library Assistant", b.String(), width, height-3, !m.assistant.input.Focused())

	counter := fmt.Sprintf("%d/%d", len([]rune(m.assistant.input.Value())), library.MaxChatMessageLength)
	inputLine := m.assistant.input.View() + "  " + counter
	input := m.renderTitledBox("Message", inputLine, width, 3, m.assistant.input.Focused())

	return lipgloss.JoinVertical(lipgloss.Left, conversation, input)
}
