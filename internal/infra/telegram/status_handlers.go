// internal/infra/telegram/status_handlers.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bigben_scheduler/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const unauthorizedText = "エラー: このコマンドを実行する権限がありません。"

// RegisterStatusHandlers registers the read-only schedule commands. Only the owner chat is served.
func RegisterStatusHandlers(ctx context.Context, b *telebot.Bot, statusService *app.StatusService, now func() time.Time, baseLogger *logrus.Entry) {
	b.Handle("/status", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler": "/status",
			"chat_id": c.Chat().ID,
		})
		handlerLogger.Info("Command received")
		return c.Send(statusReply(statusService, c.Chat().ID, handlerLogger))
	})

	b.Handle("/tomorrow", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler": "/tomorrow",
			"chat_id": c.Chat().ID,
		})
		handlerLogger.Info("Command received")
		return c.Send(tomorrowReply(ctx, statusService, c.Chat().ID, now(), handlerLogger))
	})

	b.Handle("/chimes", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler": "/chimes",
			"chat_id": c.Chat().ID,
		})
		handlerLogger.Info("Command received")
		return c.Send(chimesReply(statusService, c.Chat().ID, handlerLogger))
	})
}

func statusReply(svc *app.StatusService, chatID int64, log *logrus.Entry) string {
	snap, err := svc.Status(chatID)
	if err != nil {
		log.WithError(err).Warn("Unauthorized access attempt")
		return unauthorizedText
	}

	var text strings.Builder
	fmt.Fprintf(&text, "公開ゲート: %s（毎日 %02d:00）\n", snap.GateState, snap.PublishHour)
	if snap.LastChime.IsZero() {
		text.WriteString("前回のチャイム: なし\n")
	} else {
		fmt.Fprintf(&text, "前回のチャイム: %s\n", snap.LastChime.Format("2006-01-02 15:04"))
	}

	run := snap.LastRun
	switch {
	case run == nil:
		text.WriteString("前回の公開: なし")
	case run.Skipped():
		fmt.Fprintf(&text, "前回の公開: %s スキップ（時間割を読み込めませんでした）", run.Date.Format("2006-01-02"))
	default:
		fmt.Fprintf(&text, "前回の公開: %s 予定 %d 件、失敗 %d 件（run %s）",
			run.Date.Format("2006-01-02"), len(run.Outcomes), run.Failed(), run.RunID)
	}
	return text.String()
}

func tomorrowReply(ctx context.Context, svc *app.StatusService, chatID int64, now time.Time, log *logrus.Entry) string {
	tomorrow := now.AddDate(0, 0, 1)
	periods, err := svc.PlanFor(ctx, chatID, tomorrow)
	if errors.Is(err, app.ErrNotAuthorized) {
		log.WithError(err).Warn("Unauthorized access attempt")
		return unauthorizedText
	}
	if err != nil {
		log.WithError(err).Error("Failed to plan tomorrow")
		return "時間割を読み込めませんでした。ログを確認してください。"
	}

	doc := app.BuildSummaryDocument(tomorrow, periods)
	if len(periods) == 0 {
		return app.SummaryText(doc) + "\n授業はありません。"
	}
	return app.SummaryText(doc)
}

func chimesReply(svc *app.StatusService, chatID int64, log *logrus.Entry) string {
	times, err := svc.Chimes(chatID)
	if err != nil {
		log.WithError(err).Warn("Unauthorized access attempt")
		return unauthorizedText
	}
	var text strings.Builder
	text.WriteString("チャイム:")
	for _, t := range times {
		fmt.Fprintf(&text, "\n%s　%s", t.At, t.Label)
	}
	return text.String()
}
