package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/xenking/md2pptx/internal/adapters"
	"github.com/xenking/md2pptx/internal/app"
	"github.com/xenking/md2pptx/internal/app/activities"
	"github.com/xenking/md2pptx/internal/app/workflows"
	"github.com/xenking/md2pptx/internal/domain"
	"github.com/xenking/md2pptx/internal/ports"
	"github.com/xenking/md2pptx/pkg/log"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot together with its Temporal worker",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := newEnv()
	if err != nil {
		return err
	}
	if e.cfg.Telegram.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set")
	}

	bot, err := tgbotapi.NewBotAPI(e.cfg.Telegram.Token)
	if err != nil {
		return err
	}
	logger := e.logger
	if chatID := e.cfg.Telegram.ErrorLogChatID; chatID != 0 {
		logger = log.WithTelegramErrors(os.Stderr, e.level, bot, chatID)
		slog.SetDefault(logger)
	}
	e.watchThemes(ctx)

	// Set up the Temporal client.
	temporalClient, err := client.DialContext(ctx, client.Options{
		HostPort:  e.cfg.Temporal.Address,
		Namespace: e.cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		logger.Error("Unable to connect to Temporal server", slog.Any("error", err))
		return err
	}
	defer temporalClient.Close()

	tgClient := adapters.NewTelegramClient(bot)
	if e.cfg.GPT.APIKey == "" {
		logger.Warn("GPT_API_KEY is not set, /draft will fail")
	}
	gptClient := adapters.NewGPTClient(e.cfg.GPT.APIKey, e.cfg.GPT.Model)
	blobStorage := adapters.NewInMemoryBlobStorage()

	act := activities.New(tgClient, gptClient, e.converter, blobStorage, logger)

	err = StartWorker(ctx, temporalClient, act)
	if err != nil {
		logger.Error("start worker", slog.Any("error", err))
		return err
	}

	service := app.NewService(tgClient, temporalClient, e.themes, logger, app.Config{
		AllowedChats: e.cfg.Telegram.AllowedChats,
	})

	server := ports.NewBotServer(bot, ports.BotConfig{
		Self:          bot.Self,
		AllowedChats:  e.cfg.Telegram.AllowedChats,
		ChatRateRPS:   e.cfg.Telegram.ChatRateRPS,
		ChatRateBurst: e.cfg.Telegram.ChatRateBurst,
	}, e.metrics, logger).Mount(
		service.PrivateChatRoutes(),
	)
	server.Run(ctx)
	return nil
}

func StartWorker(ctx context.Context, cli domain.TemporalClient, a *activities.Activities) error {
	// Set up the Temporal worker.
	w := worker.New(cli, domain.DeckRequestsQueue, worker.Options{})

	w.RegisterWorkflow(workflows.DeckSession)
	w.RegisterActivity(a.DraftMarkdown)
	w.RegisterActivity(a.FetchDocument)
	w.RegisterActivity(a.ConvertMarkdown)
	w.RegisterActivity(a.DeliverDeck)
	w.RegisterActivity(a.DiscardDeck)
	w.RegisterActivity(a.ReportFailure)

	err := w.Start()
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}
