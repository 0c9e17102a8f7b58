package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/devchallenge-bot/internal/config"
	"github.com/aliskhannn/devchallenge-bot/internal/conversation"
	"github.com/aliskhannn/devchallenge-bot/internal/delivery/amqp"
	"github.com/aliskhannn/devchallenge-bot/internal/delivery/httpapi"
	"github.com/aliskhannn/devchallenge-bot/internal/delivery/notify"
	"github.com/aliskhannn/devchallenge-bot/internal/delivery/telegram"
	"github.com/aliskhannn/devchallenge-bot/internal/logger"
	"github.com/aliskhannn/devchallenge-bot/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP bridge, the scheduler and the optional Telegram front-end",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := newStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	generator, err := newGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}

	var bot *tgbotapi.BotAPI
	if cfg.TelegramEnabled() {
		bot, err = tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}
		log.Info("authorized on telegram", zap.String("account", bot.Self.UserName))
	}

	opts := serviceOptions(cfg)
	challenges := service.NewChallengeService(st.state, generator, log, opts...)
	roster := service.NewRosterService(st.roster, log, opts...)
	scheduler := service.NewSchedulerService(st.roster, challenges, nil, log, opts...)
	dispatcher := conversation.NewDispatcher(challenges, log)

	senders, closeSenders, err := newSenders(cfg, bot, log)
	if err != nil {
		return err
	}
	defer closeSenders()
	scheduler.SetNotifier(notify.NewMulti(senders...))

	server := httpapi.NewServer(cfg.HTTP.Addr, dispatcher, roster, scheduler, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Scheduler.Enabled {
		g.Go(func() error { return scheduler.Start(gctx) })
	}

	if cfg.Telegram.Polling {
		handler := telegram.NewHandler(bot, log, dispatcher, roster)
		if err := handler.RegisterCommands(); err != nil {
			log.Warn("failed to set bot commands", zap.Error(err))
		}
		g.Go(func() error {
			if err := handler.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	log.Info("bot started",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("llm", cfg.LLM.Provider),
		zap.Strings("delivery", cfg.Delivery.Drivers),
		zap.Bool("scheduler", cfg.Scheduler.Enabled),
		zap.Bool("telegram_polling", cfg.Telegram.Polling),
	)

	err = g.Wait()
	log.Info("shutdown complete")
	return err
}

// newSenders builds one delivery sink per configured driver.
func newSenders(cfg *config.Config, bot *tgbotapi.BotAPI, log *zap.Logger) ([]notify.Sender, func(), error) {
	var (
		senders []notify.Sender
		closers []func()
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, driver := range cfg.Delivery.Drivers {
		switch driver {
		case config.DeliveryLog:
			senders = append(senders, notify.NewLogNotifier(log))
		case config.DeliveryTelegram:
			senders = append(senders, telegram.NewNotifier(bot, log))
		case config.DeliveryAMQP:
			n, err := amqp.Dial(cfg.Delivery.AMQPURL, cfg.Delivery.Queue, log)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("connect amqp: %w", err)
			}
			senders = append(senders, n)
			closers = append(closers, func() { _ = n.Close() })
		}
	}

	return senders, closeAll, nil
}
