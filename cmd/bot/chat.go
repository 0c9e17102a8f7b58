package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/challengegen"
	"github.com/aliskhannn/devchallenge-bot/internal/config"
	"github.com/aliskhannn/devchallenge-bot/internal/conversation"
	"github.com/aliskhannn/devchallenge-bot/internal/service"
	"github.com/aliskhannn/devchallenge-bot/internal/storage"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot from the terminal",
	Long:  "Runs the conversation engine in-process against in-memory storage. Type 'exit' to quit.",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().String("user", "local", "User id for the session")
	chatCmd.Flags().Bool("offline", false, "Use the built-in challenge bank instead of the configured LLM")
}

func runChat(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetString("user")
	offline, _ := cmd.Flags().GetBool("offline")

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	log, err := zcfg.Build()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	var (
		cfg       *config.Config
		generator service.ChallengeGenerator = challengegen.NewStatic()
	)
	if !offline {
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("load config (use --offline to skip): %w", err)
		}
		if generator, err = newGenerator(ctx, cfg, log); err != nil {
			return err
		}
	}

	engine := newChatEngine(cfg, generator, log)
	dispatcher := conversation.NewDispatcher(engine, log)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	fmt.Fprintf(out, "Chatting as %q. Name a language to get today's challenge.\n", userID)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return nil
		}

		reply := dispatcher.Handle(ctx, userID, line)
		fmt.Fprintf(out, "\n%s\n\n", reply.Text)
	}
}

// newChatEngine builds an in-memory engine. cfg is nil in offline mode.
func newChatEngine(cfg *config.Config, generator service.ChallengeGenerator, log *zap.Logger) *service.ChallengeService {
	var opts []service.Option
	if cfg != nil {
		opts = serviceOptions(cfg)
	}
	return service.NewChallengeService(storage.NewStateStore(), generator, log, opts...)
}
