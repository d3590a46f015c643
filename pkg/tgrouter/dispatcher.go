package tgrouter

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sessionQueueSize is how many updates of one chat may wait for its handler
// before Dispatch blocks.
const sessionQueueSize = 64

// SessionHandler handles the updates of a single chat.
type SessionHandler interface {
	HandleUpdate(ctx context.Context, u *Update)
}

type SessionHandlerFunc func(ctx context.Context, u *Update)

func (fn SessionHandlerFunc) HandleUpdate(ctx context.Context, u *Update) {
	fn(ctx, u)
}

var NoopSessionHandler SessionHandlerFunc = func(ctx context.Context, u *Update) {}

// SessionFactory is called the first time an update from a chat is seen.
type SessionFactory func(chatID int64) SessionHandler

type queuedUpdate struct {
	ctx context.Context
	u   *Update
}

type session struct {
	handler SessionHandler
	queue   chan queuedUpdate
}

// Dispatcher passes updates to the session of their chat. Each session
// handles its updates one at a time in arrival order, different chats run
// concurrently.
type Dispatcher struct {
	self       tgbotapi.User
	newSession SessionFactory
	sessions   map[int64]*session
	mu         sync.Mutex
	pending    sync.WaitGroup
	workers    sync.WaitGroup
}

func NewDispatcher(self tgbotapi.User, newSession SessionFactory) *Dispatcher {
	return &Dispatcher{
		self:       self,
		newSession: newSession,
		sessions:   make(map[int64]*session),
	}
}

// ListenUpdates dispatches updates until ctx is done or the channel is closed,
// then waits for queued updates and stops the sessions.
func (d *Dispatcher) ListenUpdates(ctx context.Context, updates <-chan tgbotapi.Update) {
	defer d.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			d.Dispatch(ctx, upd)
		}
	}
}

// Dispatch queues a single update on its chat session.
func (d *Dispatcher) Dispatch(ctx context.Context, upd tgbotapi.Update) {
	u := NewUpdate(upd, d.self)
	s := d.instance(u.ChatID())
	d.pending.Add(1)
	s.queue <- queuedUpdate{ctx: ctx, u: u}
}

// Wait blocks until all dispatched updates are handled.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

// Stop waits for dispatched updates and ends every session. A later Dispatch
// starts fresh sessions.
func (d *Dispatcher) Stop() {
	d.pending.Wait()
	d.mu.Lock()
	for chatID, s := range d.sessions {
		close(s.queue)
		delete(d.sessions, chatID)
	}
	d.mu.Unlock()
	d.workers.Wait()
}

func (d *Dispatcher) instance(chatID int64) *session {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[chatID]
	if !ok {
		s = &session{
			handler: d.newSession(chatID),
			queue:   make(chan queuedUpdate, sessionQueueSize),
		}
		d.sessions[chatID] = s
		d.workers.Add(1)
		go d.run(s)
	}
	return s
}

func (d *Dispatcher) run(s *session) {
	defer d.workers.Done()
	for item := range s.queue {
		s.handler.HandleUpdate(item.ctx, item.u)
		d.pending.Done()
	}
}
