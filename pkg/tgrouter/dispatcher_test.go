package tgrouter_test

import (
	"context"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	tm "github.com/xenking/md2pptx/pkg/tgrouter"
)

func TestDispatcherSessions(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex
	created := map[int64]int{}
	seen := map[int64][]string{}

	d := tm.NewDispatcher(tgbotapi.User{UserName: "deck_bot"}, func(chatID int64) tm.SessionHandler {
		mu.Lock()
		created[chatID]++
		mu.Unlock()
		return tm.SessionHandlerFunc(func(ctx context.Context, u *tm.Update) {
			mu.Lock()
			seen[chatID] = append(seen[chatID], u.Message.Text)
			mu.Unlock()
		})
	})

	updates := make(chan tgbotapi.Update)
	done := make(chan struct{})
	go func() {
		d.ListenUpdates(context.Background(), updates)
		close(done)
	}()

	for _, chat := range []int64{1, 2, 1} {
		updates <- tgbotapi.Update{Message: &tgbotapi.Message{
			Text: "hi",
			Chat: &tgbotapi.Chat{ID: chat},
		}}
	}
	close(updates)
	<-done

	assert.Equal(t, map[int64]int{1: 1, 2: 1}, created)
	assert.Len(t, seen[1], 2)
	assert.Len(t, seen[2], 1)

	// sessions end with ListenUpdates, the next update starts a new one
	d.Dispatch(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}}})
	d.Stop()
	assert.Equal(t, 2, created[1])
}

func TestDispatcherKeepsChatOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex
	handled := map[int64][]int{}
	d := tm.NewDispatcher(tgbotapi.User{}, func(chatID int64) tm.SessionHandler {
		return tm.SessionHandlerFunc(func(ctx context.Context, u *tm.Update) {
			mu.Lock()
			handled[chatID] = append(handled[chatID], u.Message.MessageID)
			mu.Unlock()
		})
	})

	var want []int
	for i := 0; i < 200; i++ {
		want = append(want, i)
		for _, chat := range []int64{7, 8} {
			d.Dispatch(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
				MessageID: i,
				Chat:      &tgbotapi.Chat{ID: chat},
			}})
		}
	}
	d.Wait()
	d.Stop()

	assert.Equal(t, want, handled[7])
	assert.Equal(t, want, handled[8])
}
