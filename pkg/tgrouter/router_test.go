package tgrouter_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tm "github.com/xenking/md2pptx/pkg/tgrouter"
)

func newTextUpdate(text string) *tm.Update {
	u := tgbotapi.Update{}
	u.Message = &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 42, Type: "private"},
	}
	return tm.NewUpdate(u, tgbotapi.User{UserName: "deck_bot"})
}

func record(stack *[]string, name string) tm.Handler {
	return tm.HandlerFunc(func(ctx context.Context, u *tm.Update) error {
		*stack = append(*stack, name)
		return nil
	})
}

func prefix(p string) tm.FilterMatcher {
	return tm.FilterFunc(func(u *tm.Update) bool {
		m := u.EffectiveMessage()
		return m != nil && strings.HasPrefix(m.Text, p)
	})
}

func TestRouterHandle(t *testing.T) {
	var stack []string
	r := tm.NewRouter().
		Mount(tm.NewMessageRoute(prefix("^1"), record(&stack, "1"))).
		Mount(tm.NewGroup(prefix("^2"),
			tm.NewMessageRoute(prefix("^21"), record(&stack, "21")),
			tm.NewMessageRoute(prefix("^22"), record(&stack, "22")),
		))

	ctx := context.Background()
	require.NoError(t, r.Handle(ctx, newTextUpdate("1")))
	require.NoError(t, r.Handle(ctx, newTextUpdate("21")))
	require.NoError(t, r.Handle(ctx, newTextUpdate("22")))
	assert.Equal(t, []string{"1", "21", "22"}, stack)

	require.ErrorIs(t, r.Handle(ctx, newTextUpdate("23")), tm.ErrRouteNotFound)
	require.ErrorIs(t, r.Handle(ctx, newTextUpdate("33")), tm.ErrRouteNotFound)
	assert.Len(t, stack, 3)
}

func TestRouterNotFoundAndErrors(t *testing.T) {
	var stack []string
	var handled error
	boom := errors.New("boom")
	r := tm.NewRouter(
		tm.WithNotFoundHandler(record(&stack, "not-found")),
		tm.WithErrorHandler(func(ctx context.Context, u *tm.Update, err error) { handled = err }),
	).Mount(
		tm.NewCommandRoute("/fail", nil, tm.HandlerFunc(func(ctx context.Context, u *tm.Update) error { return boom })),
		tm.NewGroup(prefix("^g"), tm.NewMessageRoute(prefix("^gx"), record(&stack, "gx"))),
	)

	ctx := context.Background()
	require.NoError(t, r.Handle(ctx, newTextUpdate("hello")))
	require.NoError(t, r.Handle(ctx, newTextUpdate("gy")))
	assert.Equal(t, []string{"not-found", "not-found"}, stack)

	require.NoError(t, r.Handle(ctx, newTextUpdate("/fail")))
	assert.ErrorIs(t, handled, boom)
}

func TestRouterGlobalFilter(t *testing.T) {
	var stack []string
	r := tm.NewRouter(tm.WithGlobalFilter(tm.FilterFunc(func(u *tm.Update) bool { return u.ChatID() == 42 }))).
		Mount(tm.NewMessageRoute(nil, record(&stack, "any")))

	other := newTextUpdate("x")
	other.Message.Chat.ID = 7
	require.NoError(t, r.Handle(context.Background(), other))
	require.NoError(t, r.Handle(context.Background(), newTextUpdate("x")))
	assert.Equal(t, []string{"any"}, stack)
}

func TestRouterRecover(t *testing.T) {
	var recovered error
	panicking := tm.NewMessageRoute(nil, tm.HandlerFunc(func(ctx context.Context, u *tm.Update) error {
		if u.Message.Text == "panic_string" {
			panic("boom")
		}
		panic(errors.New("boom"))
	}))

	r := tm.NewRouter(tm.WithRecoverHandler(func(u *tm.Update, err error) { recovered = err })).Mount(panicking)
	_ = r.Handle(context.Background(), newTextUpdate("panic_string"))
	require.Error(t, recovered)
	assert.Equal(t, "boom", recovered.Error())

	unprotected := tm.NewRouter().Mount(panicking)
	assert.Panics(t, func() { _ = unprotected.Handle(context.Background(), newTextUpdate("panic_error")) })
}

func TestRouteMiddlewares(t *testing.T) {
	var stack []string
	mw := func(name string) tm.Middleware {
		return func(next tm.Handler) tm.Handler {
			return tm.HandlerFunc(func(ctx context.Context, u *tm.Update) error {
				stack = append(stack, name)
				return next.Handle(ctx, u)
			})
		}
	}
	group := tm.NewGroup(nil, tm.NewRoute(nil, record(&stack, "handler"), mw("route")))
	group.Use(mw("group"))

	r := tm.NewRouter(tm.WithMiddlewares(mw("router-1"), mw("router-2"))).Mount(group)
	require.NoError(t, r.Handle(context.Background(), newTextUpdate("x")))
	assert.Equal(t, []string{"router-1", "router-2", "group", "route", "handler"}, stack)
}
