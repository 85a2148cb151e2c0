package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for sending messages via a Telegram bot.
// The daily summary goes through it when Telegram is configured.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
