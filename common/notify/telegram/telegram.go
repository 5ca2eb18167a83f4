package telegram

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Septrum101/cfddns/config"
)

const (
	defaultApiHost = "api.telegram.org"
	defaultTimeout = time.Second * 10
)

type Telegram struct {
	// ApiHost is a host or a full URL of a Bot API server.
	ApiHost string
	ChatID  int64
	Token   string
	Timeout time.Duration
}

func (t *Telegram) endpoint() string {
	host := t.ApiHost
	if host == "" {
		host = defaultApiHost
	}
	if !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}
	return host + "/bot%s/%s"
}

func (t *Telegram) Webhook(title string, content string) error {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	bot, err := tg.NewBotAPIWithClient(t.Token, t.endpoint(), &http.Client{Timeout: timeout})
	if err != nil {
		return fmt.Errorf("[telegram] %w", err)
	}

	msg := tg.NewMessage(t.ChatID, fmt.Sprintf("#%s\nRecord: %s\n%s",
		config.AppName,
		title,
		content,
	))
	if _, err = bot.Send(msg); err != nil {
		return fmt.Errorf("[telegram] %w", err)
	}
	return nil
}
