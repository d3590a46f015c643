package tgrouter

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Update wraps a Bot API update together with the identity of the bot that
// received it.
type Update struct {
	tgbotapi.Update
	BotSelf tgbotapi.User
}

func NewUpdate(u tgbotapi.Update, self tgbotapi.User) *Update {
	return &Update{Update: u, BotSelf: self}
}

// EffectiveMessage returns the message of any kind carried by the update.
func (u *Update) EffectiveMessage() *tgbotapi.Message {
	switch {
	case u.Message != nil:
		return u.Message
	case u.EditedMessage != nil:
		return u.EditedMessage
	case u.ChannelPost != nil:
		return u.ChannelPost
	case u.EditedChannelPost != nil:
		return u.EditedChannelPost
	case u.CallbackQuery != nil:
		return u.CallbackQuery.Message
	}
	return nil
}

func (u *Update) EffectiveChat() *tgbotapi.Chat {
	if msg := u.EffectiveMessage(); msg != nil {
		return msg.Chat
	}
	return nil
}

func (u *Update) EffectiveUser() *tgbotapi.User {
	return u.SentFrom()
}

// ChatID returns the ID of the chat the update belongs to, 0 if there is none.
func (u *Update) ChatID() int64 {
	if chat := u.EffectiveChat(); chat != nil {
		return chat.ID
	}
	if user := u.EffectiveUser(); user != nil {
		return user.ID
	}
	return 0
}
