package tgrouter

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FilterFunc is used to check if this update should be processed by routeHandler.
type FilterFunc func(u *Update) bool

func (fn FilterFunc) Match(u *Update) bool {
	return fn(u)
}

var commandRegex = regexp.MustCompile("^/([0-9a-zA-Z_]+)(@[0-9a-zA-Z_]{3,})?")

// Any tells routeHandler to process all updates.
func Any() FilterMatcher {
	return FilterFunc(func(u *Update) bool {
		return true
	})
}

// IsMessage filters updates that look like message (text, photo, location etc.)
func IsMessage() FilterMatcher {
	return FilterFunc(func(u *Update) bool {
		return u.Message != nil
	})
}

// HasText filters updates that look like text,
// i. e. have some text and do not start with a slash ("/").
func HasText() FilterMatcher {
	return FilterFunc(func(u *Update) bool {
		message := u.EffectiveMessage()
		return message != nil && message.Text != "" && message.Text[0] != '/'
	})
}

// IsAnyCommandMessage filters updates that contain a message and look like a command,
// i. e. have some text and start with a slash ("/").
// If command contains bot username, it is also checked.
func IsAnyCommandMessage() FilterMatcher {
	return And(IsMessage(), FilterFunc(func(u *Update) bool {
		matches := commandRegex.FindStringSubmatch(u.Message.Text)
		if len(matches) == 0 {
			return false
		}
		botName := matches[2]
		if botName != "" && botName != "@"+u.BotSelf.UserName {
			return false
		}
		return true
	}))
}

// IsCommandMessage filters updates that contain a specific command.
// For example, IsCommandMessage("start") will handle a "/start" command.
// This will also allow the user to pass arguments, e. g. "/start foo bar".
// Commands in format "/start@bot_name" and "/start@bot_name foo bar" are also supported.
func IsCommandMessage(cmd string) FilterMatcher {
	return And(IsAnyCommandMessage(), FilterFunc(func(u *Update) bool {
		matches := commandRegex.FindStringSubmatch(u.Message.Text)
		return matches[1] == cmd
	}))
}

// HasDocument filters updates that contain a document.
func HasDocument() FilterMatcher {
	return FilterFunc(func(u *Update) bool {
		message := u.EffectiveMessage()
		return message != nil && message.Document != nil
	})
}

// HasDocumentExtension filters documents by file name extension, case-insensitive.
func HasDocumentExtension(extensions ...string) FilterMatcher {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return And(HasDocument(), FilterFunc(func(u *Update) bool {
		ext := strings.ToLower(filepath.Ext(u.EffectiveMessage().Document.FileName))
		_, ok := allowed[ext]
		return ok
	}))
}

// IsPrivate filters updates that are sent in private chats.
func IsPrivate() FilterMatcher {
	return FilterFunc(func(u *Update) bool {
		if chat := u.EffectiveChat(); chat != nil {
			return chat.IsPrivate()
		}
		return false
	})
}

// IsFromBot filters updates sent by another bot.
func IsFromBot() FilterMatcher {
	return FilterFunc(func(u *Update) bool {
		user := u.SentFrom()
		return user != nil && user.IsBot
	})
}

// IsChatAllowed filters updates by chat ID. An empty list allows every chat.
func IsChatAllowed(chatIDs ...int64) FilterMatcher {
	allowed := make(map[int64]struct{}, len(chatIDs))
	for _, id := range chatIDs {
		allowed[id] = struct{}{}
	}
	return FilterFunc(func(u *Update) bool {
		if len(allowed) == 0 {
			return true
		}
		_, ok := allowed[u.ChatID()]
		return ok
	})
}

// And filters updates that pass ALL of the provided filters.
func And(filters ...FilterMatcher) FilterMatcher {
	return FilterFunc(func(u *Update) bool {
		for _, filter := range filters {
			if !filter.Match(u) {
				return false
			}
		}
		return true
	})
}

// Or filters updates that pass ANY of the provided filters.
func Or(filters ...FilterMatcher) FilterMatcher {
	return FilterFunc(func(u *Update) bool {
		for _, filter := range filters {
			if filter.Match(u) {
				return true
			}
		}
		return false
	})
}

// Not filters updates that do not pass the provided filter.
func Not(filter FilterMatcher) FilterMatcher {
	return FilterFunc(func(u *Update) bool {
		return !filter.Match(u)
	})
}
