package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tele "gopkg.in/telebot.v3"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/types"
)

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Telegram posts alerts to a single chat.
type Telegram struct {
	sender messageSender
	chatID int64
}

var _ interfaces.Notifier = (*Telegram)(nil)

// NewTelegram connects a send-only bot. No updates are polled.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Client: &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return newTelegram(b, chatID), nil
}

func newTelegram(sender messageSender, chatID int64) *Telegram {
	return &Telegram{sender: sender, chatID: chatID}
}

func (t *Telegram) Notify(ctx context.Context, a types.Alert) error {
	msg := fmt.Sprintf("Price Alert: %s\n%s", a.Symbol, FormatAlert(a))
	if a.Reason != "" {
		msg += "\n" + a.Reason
	}
	if _, err := t.sender.Send(tele.ChatID(t.chatID), msg); err != nil {
		return fmt.Errorf("telegram send to %d: %w", t.chatID, err)
	}
	return nil
}
