package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/interfaces"
	"github.com/drujensen/engineer/internal/domain/services"
	"github.com/drujensen/engineer/internal/impl/config"
	"github.com/drujensen/engineer/internal/impl/defaults"
	"github.com/drujensen/engineer/internal/impl/integrations"
	"github.com/drujensen/engineer/internal/impl/repositories"
	repositoriesJson "github.com/drujensen/engineer/internal/impl/repositories/json"
	"github.com/drujensen/engineer/internal/impl/tools"
	"github.com/drujensen/engineer/internal/tui"
	"github.com/drujensen/engineer/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

var (
	version = "unknown" // This should be set during build with -ldflags="-X main.version=1.0.0"
)

func main() {
	// Check version flag first
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version)
		os.Exit(0)
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: engineer [tui]\n")
		flag.PrintDefaults()
	}

	// Default mode is "console"
	modeStr := "console"
	if len(os.Args) > 1 && os.Args[1] == "tui" {
		modeStr = "tui"
		os.Args = slices.Delete(os.Args, 0, 1)
	}
	flag.Parse()

	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := logConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.InitConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	guard := tools.NewPathGuard(cfg.Workspace, cfg.MaxFileSize, logger)

	toolFactory, err := tools.NewToolFactory()
	if err != nil {
		logger.Fatal("Failed to initialize tool factory", zap.Error(err))
	}

	toolConfiguration, err := cfg.ResolveConfiguration(map[string]string{
		"workspace":     cfg.Workspace,
		"max_file_size": strconv.FormatInt(cfg.MaxFileSize, 10),
	})
	if err != nil {
		logger.Fatal("Failed to resolve tool configuration", zap.Error(err))
	}

	toolRepo, err := repositories.NewToolRegistry(toolFactory, toolConfiguration, logger)
	if err != nil {
		logger.Fatal("Failed to initialize tool registry", zap.Error(err))
	}

	conversationRepo, err := repositoriesJson.NewJSONConversationRepository(cfg.Workspace)
	if err != nil {
		logger.Fatal("Failed to initialize conversation repository", zap.Error(err))
	}

	conversation := loadOrCreateConversation(context.Background(), conversationRepo, logger)

	model := integrations.NewOpenAIIntegration(cfg.BaseURL, cfg.APIKey, cfg.Model, logger)
	chatService := services.NewChatService(conversationRepo, toolRepo, model, cfg.MaxTokens, logger)
	contextService := services.NewContextService(guard, logger)

	if modeStr == "tui" {
		p := tea.NewProgram(tui.NewTUI(chatService, contextService, conversation, model.ModelID()), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatal(err)
		}
	} else {
		console := ui.NewConsole(chatService, contextService, conversation, guard, model.ModelID(), logger)
		if err := console.Run(); err != nil {
			logger.Fatal("Console failed", zap.Error(err))
		}
	}
}

// loadOrCreateConversation resumes the most recently updated conversation or
// starts a fresh one seeded with the system prompt.
func loadOrCreateConversation(ctx context.Context, repo interfaces.ConversationRepository, logger *zap.Logger) *entities.Conversation {
	conversations, err := repo.ListConversations(ctx)
	if err == nil && len(conversations) > 0 {
		return conversations[len(conversations)-1]
	}

	conversation := entities.NewConversation("default", defaults.SystemPrompt())
	if err := repo.CreateConversation(ctx, conversation); err != nil {
		logger.Warn("Failed to persist new conversation", zap.Error(err))
	}
	return conversation
}
