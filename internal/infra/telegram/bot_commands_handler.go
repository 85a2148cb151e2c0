// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	startOwnerText   = "こんにちは！時間割ボットです。毎晩、翌日の時間割を Notion に登録してここに送ります。/help でコマンド一覧を表示します。"
	startUnknownText = "こんにちは！このボットは登録されたチャット専用です。"
	helpUnknownText  = "利用できるコマンドはありません。"
)

// RegisterBotCommands registers /start and /help.
func RegisterBotCommands(b *telebot.Bot, ownerChatID int64, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		logCtx := startHelpLogger.WithField("command", "/start").WithField("chat_id", c.Chat().ID)
		logCtx.Info("Processing /start command")
		return c.Send(startText(c.Chat().ID, ownerChatID))
	})

	b.Handle("/help", func(c telebot.Context) error {
		logCtx := startHelpLogger.WithField("command", "/help").WithField("chat_id", c.Chat().ID)
		logCtx.Info("Processing /help command")
		return c.Send(helpText(c.Chat().ID, ownerChatID), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}

func startText(chatID, ownerChatID int64) string {
	if chatID == ownerChatID {
		return startOwnerText
	}
	return startUnknownText
}

func helpText(chatID, ownerChatID int64) string {
	if chatID != ownerChatID {
		return helpUnknownText
	}
	var text strings.Builder
	text.WriteString("利用できるコマンド:\n\n")
	text.WriteString("`/status`\n - 公開ゲートの状態と前回の実行結果を表示します。\n\n")
	text.WriteString("`/tomorrow`\n - 明日の時間割（45分・10分休憩・45分）を表示します。Notion には登録しません。\n\n")
	text.WriteString("`/chimes`\n - チャイムの時刻一覧を表示します。\n\n")
	text.WriteString("`/help`\n - このメッセージを表示します。")
	return text.String()
}
