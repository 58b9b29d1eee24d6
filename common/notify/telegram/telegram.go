package telegram

import (
	"fmt"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Telegram struct {
	ApiHost string
	ChatID  int64
	Token   string

	// Endpoint overrides ApiHost, in tg.APIEndpoint format.
	Endpoint string
}

func (t *Telegram) Webhook(title string, content string) error {
	bot, err := tg.NewBotAPIWithAPIEndpoint(t.Token, t.endpoint())
	if err != nil {
		return fmt.Errorf("[telegram] %w", err)
	}

	msg := tg.NewMessage(t.ChatID, fmt.Sprintf("%s\n%s", title, content))
	if _, err = bot.Send(msg); err != nil {
		return fmt.Errorf("[telegram] %w", err)
	}
	return nil
}

func (t *Telegram) endpoint() string {
	switch {
	case t.Endpoint != "":
		return t.Endpoint
	case t.ApiHost != "":
		return fmt.Sprintf("https://%s/bot%%s/%%s", t.ApiHost)
	default:
		return tg.APIEndpoint
	}
}
