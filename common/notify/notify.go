package notify

import (
	"fmt"
	"strconv"

	"github.com/Septrum101/cfddns/common/notify/pushplus"
	"github.com/Septrum101/cfddns/common/notify/telegram"
)

type Notify interface {
	Webhook(title string, content string) error
}

// New builds the notifier of provider from its config map.
func New(provider string, conf map[string]string) (Notify, error) {
	switch provider {
	case "pushplus":
		if conf["pushplus_token"] == "" {
			return nil, fmt.Errorf("[pushplus] pushplus_token is empty")
		}
		return &pushplus.PushPlus{
			ApiURL: conf["pushplus_apiurl"],
			Token:  conf["pushplus_token"],
		}, nil
	case "telegram":
		chatID, err := strconv.ParseInt(conf["telegram_chatid"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("[telegram] invalid telegram_chatid: %w", err)
		}
		if conf["telegram_token"] == "" {
			return nil, fmt.Errorf("[telegram] telegram_token is empty")
		}
		return &telegram.Telegram{
			ApiHost: conf["telegram_apihost"],
			ChatID:  chatID,
			Token:   conf["telegram_token"],
		}, nil
	default:
		return nil, fmt.Errorf("unsupported notify provider: %q", provider)
	}
}
