package ports

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/xenking/md2pptx/internal/metrics"
	"github.com/xenking/md2pptx/pkg/tgrouter"
)

// UpdatesSource is the long polling part of tgbotapi.BotAPI.
type UpdatesSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type BotConfig struct {
	Self         tgbotapi.User
	AllowedChats []int64
	// ChatRateRPS and ChatRateBurst bound the updates handled per chat.
	ChatRateRPS   float64
	ChatRateBurst int
}

type BotServer struct {
	*tgrouter.Dispatcher
	source  UpdatesSource
	router  *tgrouter.Router
	metrics *metrics.Metrics
	logger  *slog.Logger
	cfg     BotConfig
}

func NewBotServer(source UpdatesSource, cfg BotConfig, m *metrics.Metrics, logger *slog.Logger) *BotServer {
	b := &BotServer{
		source:  source,
		metrics: m,
		logger:  logger.With(slog.String("component", "BotServer")),
		cfg:     cfg,
	}
	b.Dispatcher = tgrouter.NewDispatcher(cfg.Self, b.newBotSession(cfg.AllowedChats))
	b.router = tgrouter.NewRouter(
		tgrouter.WithGlobalFilter(tgrouter.Not(tgrouter.IsFromBot())),
		tgrouter.WithMiddlewares(b.logUpdate),
		tgrouter.WithNotFoundHandler(tgrouter.HandlerFunc(b.notFoundHandler)),
		tgrouter.WithErrorHandler(b.errorHandler),
		tgrouter.WithRecoverHandler(b.panicHandler),
	)
	return b
}

func (b *BotServer) Mount(routes ...tgrouter.Route) *BotServer {
	b.router.Mount(routes...)
	return b
}

// Run polls for updates and dispatches them until ctx is done.
func (b *BotServer) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message"}
	updates := b.source.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.source.StopReceivingUpdates()
	}()
	b.logger.InfoContext(ctx, "polling updates", slog.String("bot", b.cfg.Self.UserName))
	b.Dispatcher.ListenUpdates(ctx, updates)
}

func (b *BotServer) newBotSession(allowedChatIDs []int64) tgrouter.SessionFactory {
	allowedChats := map[int64]struct{}{}
	for _, chat := range allowedChatIDs {
		allowedChats[chat] = struct{}{}
	}
	return func(chatID int64) tgrouter.SessionHandler {
		if _, ok := allowedChats[chatID]; len(allowedChats) > 0 && !ok {
			return tgrouter.NoopSessionHandler
		}
		if b.cfg.ChatRateRPS <= 0 {
			return b.router
		}
		limiter := rate.NewLimiter(rate.Limit(b.cfg.ChatRateRPS), max(b.cfg.ChatRateBurst, 1))
		return tgrouter.SessionHandlerFunc(func(ctx context.Context, u *tgrouter.Update) {
			if !limiter.Allow() {
				if b.metrics != nil {
					b.metrics.RateLimited.WithLabelValues("telegram").Inc()
				}
				b.logger.WarnContext(ctx, "chat rate limited", slog.Int64("chat_id", chatID))
				return
			}
			b.router.HandleUpdate(ctx, u)
		})
	}
}

func (b *BotServer) logUpdate(next tgrouter.Handler) tgrouter.Handler {
	return tgrouter.HandlerFunc(func(ctx context.Context, u *tgrouter.Update) error {
		start := time.Now()
		err := next.Handle(ctx, u)
		b.logger.DebugContext(ctx, "update handled",
			slog.Int64("chat_id", u.ChatID()),
			slog.Duration("took", time.Since(start)),
		)
		return err
	})
}

func (b *BotServer) errorHandler(ctx context.Context, u *tgrouter.Update, err error) {
	b.logger.ErrorContext(ctx, "error handler", slog.Any("error", err), slog.Int64("chat_id", u.ChatID()))
}

func (b *BotServer) notFoundHandler(ctx context.Context, u *tgrouter.Update) error {
	b.logger.WarnContext(ctx, "route not found", slog.Int64("chat_id", u.ChatID()))
	return nil
}

func (b *BotServer) panicHandler(u *tgrouter.Update, err error) {
	b.logger.Error("panic", slog.Any("error", err), slog.Int64("chat_id", u.ChatID()))
}
