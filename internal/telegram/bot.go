package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// maxMessageLen is the Telegram limit on a single text message.
const maxMessageLen = 4096

// Bot sends reports to one chat.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger
}

func NewBot(token string, chatID int64, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Info().Str("bot", api.Self.UserName).Int64("chat_id", chatID).Msg("telegram: bot initialized")
	return &Bot{api: api, chatID: chatID, log: log}, nil
}

// SendText sends text as preformatted blocks so markdown tables keep their columns.
func (b *Bot) SendText(text string) error {
	for _, part := range chunk(text, maxMessageLen-8) {
		msg := tgbotapi.NewMessage(b.chatID, "```\n"+part+"\n```")
		msg.ParseMode = "Markdown"
		if _, err := b.api.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) SendPhoto(name string, img []byte, caption string) error {
	photo := tgbotapi.NewPhoto(b.chatID, tgbotapi.FileBytes{Name: name, Bytes: img})
	photo.Caption = caption
	_, err := b.api.Send(photo)
	return err
}

// chunk splits text on line boundaries into parts no longer than max bytes.
// A single line longer than max is cut.
func chunk(text string, max int) []string {
	var parts []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > max {
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
			parts = append(parts, line[:max])
			line = line[max:]
		}
		if cur.Len()+len(line) > max {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
