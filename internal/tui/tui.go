package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"
	"github.com/drujensen/engineer/internal/domain/events"
	"github.com/drujensen/engineer/internal/domain/services"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	toolLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)

type streamChunkMsg string

type toolEventMsg struct {
	event *entities.ToolCallEvent
}

type turnDoneMsg struct {
	err error
}

type turnStatsMsg struct {
	usage entities.Usage
}

// TUI is the full-screen bubbletea front-end over the same services the
// console uses.
type TUI struct {
	chatService    *services.ChatService
	contextService *services.ContextService
	conversation   *entities.Conversation
	modelID        string

	viewport   viewport.Model
	input      textinput.Model
	spin       spinner.Model
	transcript strings.Builder
	status     string
	usage      entities.Usage
	busy       bool
	ready      bool

	activity    chan tea.Msg
	cancelTurn  context.CancelFunc
	unsubscribe func()
}

func NewTUI(chatService *services.ChatService, contextService *services.ContextService, conversation *entities.Conversation, modelID string) *TUI {
	input := textinput.New()
	input.Placeholder = "Type a message or /help"
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	t := &TUI{
		chatService:    chatService,
		contextService: contextService,
		conversation:   conversation,
		modelID:        modelID,
		input:          input,
		spin:           spin,
		activity:       make(chan tea.Msg, 64),
	}
	unsubscribeTools := events.SubscribeToToolCallEvents(func(data events.ToolCallEventData) {
		t.activity <- toolEventMsg{event: data.Event}
	})
	unsubscribeTurns := events.SubscribeToTurnCompletedEvents(func(data events.TurnCompletedEventData) {
		t.activity <- turnStatsMsg{usage: data.Usage}
	})
	t.unsubscribe = func() {
		unsubscribeTools()
		unsubscribeTurns()
	}
	return t
}

func (t *TUI) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, t.waitForActivity())
}

func (t *TUI) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		return <-t.activity
	}
}

func (t *TUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !t.ready {
			t.viewport = viewport.New(msg.Width, msg.Height-4)
			t.ready = true
		} else {
			t.viewport.Width = msg.Width
			t.viewport.Height = msg.Height - 4
		}
		t.input.Width = msg.Width - 4
		t.refreshViewport()
		return t, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if t.busy && t.cancelTurn != nil {
				t.cancelTurn()
				t.status = "Interrupting..."
				return t, nil
			}
			if t.unsubscribe != nil {
				t.unsubscribe()
			}
			return t, tea.Quit
		case "enter":
			if t.busy {
				return t, nil
			}
			line := strings.TrimSpace(t.input.Value())
			if line == "" {
				return t, nil
			}
			t.input.Reset()
			if strings.HasPrefix(line, "/") {
				return t.handleCommand(line)
			}
			return t, t.startTurn(line)
		}

	case streamChunkMsg:
		t.transcript.WriteString(assistantStyle.Render(string(msg)))
		t.refreshViewport()
		return t, t.waitForActivity()

	case toolEventMsg:
		t.appendLine(renderToolEvent(msg.event))
		return t, t.waitForActivity()

	case turnStatsMsg:
		t.usage = msg.usage
		return t, t.waitForActivity()

	case turnDoneMsg:
		t.busy = false
		t.cancelTurn = nil
		t.status = ""
		if msg.err != nil {
			switch msg.err.(type) {
			case *errs.CanceledError:
				t.appendLine(statusStyle.Render("Turn interrupted; partial tool results were kept."))
			default:
				t.appendLine(errorLineStyle.Render("Error: " + msg.err.Error()))
			}
		}
		t.transcript.WriteString("\n")
		t.refreshViewport()
		return t, t.waitForActivity()

	case spinner.TickMsg:
		if !t.busy {
			return t, nil
		}
		var cmd tea.Cmd
		t.spin, cmd = t.spin.Update(msg)
		return t, cmd
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t, cmd
}

func (t *TUI) handleCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/exit", "/quit":
		if t.unsubscribe != nil {
			t.unsubscribe()
		}
		return t, tea.Quit
	case "/help":
		t.appendLine(statusStyle.Render(strings.Join([]string{
			"/add <path>   add a file or directory to the model's context",
			"/clear        reset the conversation (context files are kept)",
			"/exit, /quit  leave the session",
			"Ctrl-C interrupts a running turn.",
		}, "\n")))
		return t, nil
	case "/clear":
		t.chatService.ClearConversation(context.Background(), t.conversation)
		t.transcript.Reset()
		t.appendLine(statusStyle.Render(fmt.Sprintf(
			"Conversation cleared. %d context file(s) are still loaded.", t.contextService.Count())))
		return t, nil
	case "/add":
		if len(fields) < 2 {
			t.appendLine(errorLineStyle.Render("usage: /add <path>"))
			return t, nil
		}
		path := strings.TrimSpace(strings.TrimPrefix(line, "/add"))
		result, err := t.contextService.AddPath(t.conversation, path)
		if err != nil {
			t.appendLine(errorLineStyle.Render("Error: " + err.Error()))
			return t, nil
		}
		t.appendLine(statusStyle.Render(result.Summary()))
		return t, nil
	default:
		t.appendLine(errorLineStyle.Render(fmt.Sprintf("unknown command %q; try /help", fields[0])))
		return t, nil
	}
}

func (t *TUI) startTurn(input string) tea.Cmd {
	t.busy = true
	t.status = "Thinking..."
	t.appendLine(userStyle.Render("You: ") + input)

	ctx, cancel := context.WithCancel(context.Background())
	t.cancelTurn = cancel
	go func() {
		err := t.chatService.SendMessage(ctx, t.conversation, input, func(chunk string) {
			t.activity <- streamChunkMsg(chunk)
		})
		cancel()
		t.activity <- turnDoneMsg{err: err}
	}()
	return tea.Batch(t.spin.Tick, t.waitForActivity())
}

func (t *TUI) appendLine(line string) {
	if t.transcript.Len() > 0 && !strings.HasSuffix(t.transcript.String(), "\n") {
		t.transcript.WriteString("\n")
	}
	t.transcript.WriteString(line)
	t.transcript.WriteString("\n")
	t.refreshViewport()
}

func (t *TUI) refreshViewport() {
	if !t.ready {
		return
	}
	t.viewport.SetContent(t.transcript.String())
	t.viewport.GotoBottom()
}

func (t *TUI) View() string {
	if !t.ready {
		return "Loading..."
	}
	header := headerStyle.Render(fmt.Sprintf("Engineer | %s", t.modelID))
	if t.usage.TotalTokens > 0 {
		header += " " + statusStyle.Render(fmt.Sprintf("(%d tokens)", t.usage.TotalTokens))
	}
	status := ""
	if t.busy {
		status = statusStyle.Render(t.spin.View() + " " + t.status)
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, t.viewport.View(), t.input.View(), status)
}

func renderToolEvent(event *entities.ToolCallEvent) string {
	if event.Error != "" {
		return toolLineStyle.Render(fmt.Sprintf("  ✗ %s %s", event.ToolName, event.Arguments)) +
			"\n" + errorLineStyle.Render(fmt.Sprintf("    %s: %s", event.ErrorKind, event.Error))
	}
	line := toolLineStyle.Render(fmt.Sprintf("  ✓ %s %s", event.ToolName, event.Arguments))
	if event.Diff != "" {
		line += "\n" + toolLineStyle.Render(event.Diff)
	}
	return line
}

var _ tea.Model = (*TUI)(nil)
