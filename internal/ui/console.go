package ui

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"
	"github.com/drujensen/engineer/internal/domain/events"
	"github.com/drujensen/engineer/internal/domain/interfaces"
	"github.com/drujensen/engineer/internal/domain/services"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	toolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)

// Console is the default interactive surface: a plain line-based shell with
// streaming output and slash commands.
type Console struct {
	chatService    *services.ChatService
	contextService *services.ContextService
	conversation   *entities.Conversation
	guard          interfaces.PathGuard
	modelID        string
	logger         *zap.Logger
}

func NewConsole(chatService *services.ChatService, contextService *services.ContextService, conversation *entities.Conversation, guard interfaces.PathGuard, modelID string, logger *zap.Logger) *Console {
	return &Console{
		chatService:    chatService,
		contextService: contextService,
		conversation:   conversation,
		guard:          guard,
		modelID:        modelID,
		logger:         logger,
	}
}

func (c *Console) Run() error {
	c.printBanner()

	unsubscribe := events.SubscribeToToolCallEvents(func(data events.ToolCallEventData) {
		c.renderToolCall(data.Event)
	})
	defer unsubscribe()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("You> "))
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := c.handleCommand(line)
			if err != nil {
				fmt.Println(errorStyle.Render("Error: " + err.Error()))
			}
			if done {
				return nil
			}
			continue
		}

		c.runTurn(line, sigCh)
	}
}

func (c *Console) runTurn(input string, sigCh chan os.Signal) {
	ctx, cancel := context.WithCancel(context.Background())
	turnDone := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			fmt.Println()
			fmt.Println(infoStyle.Render("Interrupting..."))
			cancel()
		case <-turnDone:
		}
	}()

	fmt.Print(promptStyle.Render("Assistant> "))
	err := c.chatService.SendMessage(ctx, c.conversation, input, func(chunk string) {
		fmt.Print(chunk)
	})
	close(turnDone)
	cancel()
	fmt.Println()

	if err != nil {
		switch err.(type) {
		case *errs.CanceledError:
			fmt.Println(infoStyle.Render("Turn interrupted; partial tool results were kept."))
		default:
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
		}
	}
}

// handleCommand returns true when the session should end.
func (c *Console) handleCommand(line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/exit", "/quit":
		fmt.Println(infoStyle.Render("Goodbye."))
		return true, nil
	case "/help":
		c.printHelp()
		return false, nil
	case "/clear":
		c.chatService.ClearConversation(context.Background(), c.conversation)
		fmt.Println(infoStyle.Render(fmt.Sprintf(
			"Conversation cleared. %d context file(s) are still loaded.", c.contextService.Count())))
		return false, nil
	case "/add":
		if len(fields) < 2 {
			return false, errs.InvalidArgumentsErrorf("usage: /add <path>")
		}
		path := strings.TrimSpace(strings.TrimPrefix(line, "/add"))
		result, err := c.contextService.AddPath(c.conversation, path)
		if err != nil {
			return false, err
		}
		fmt.Println(infoStyle.Render(result.Summary()))
		return false, nil
	default:
		return false, errs.InvalidArgumentsErrorf("unknown command %q; try /help", fields[0])
	}
}

func (c *Console) renderToolCall(event *entities.ToolCallEvent) {
	if event.Error != "" {
		fmt.Println(toolStyle.Render(fmt.Sprintf("  ✗ %s %s", event.ToolName, event.Arguments)))
		fmt.Println(errorStyle.Render(fmt.Sprintf("    %s: %s", event.ErrorKind, event.Error)))
		return
	}
	fmt.Println(toolStyle.Render(fmt.Sprintf("  ✓ %s %s", event.ToolName, event.Arguments)))
	if event.Diff != "" {
		fmt.Println(toolStyle.Render(indent(event.Diff, "    ")))
	}
}

func (c *Console) printBanner() {
	banner := fmt.Sprintf("Engineer\nModel: %s\nRoot:  %s\nType /help for commands.",
		c.modelID, c.guard.Root())
	fmt.Println(bannerStyle.Render(banner))
}

func (c *Console) printHelp() {
	help := strings.Join([]string{
		"/add <path>   add a file or directory to the model's context",
		"/clear        reset the conversation (context files are kept)",
		"/help         show this help",
		"/exit, /quit  leave the session",
		"",
		"Anything else is sent to the assistant. Ctrl-C interrupts a running turn.",
	}, "\n")
	fmt.Println(infoStyle.Render(help))
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
