package pushplus

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultApiURL  = "https://www.pushplus.plus/send/"
	defaultTimeout = time.Second * 10
)

type PushPlus struct {
	ApiURL  string
	Token   string
	Timeout time.Duration
}

type pushPlusResp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (p *PushPlus) Webhook(title string, content string) error {
	api := p.ApiURL
	if api == "" {
		api = defaultApiURL
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rtn := &pushPlusResp{}
	resp, err := resty.New().SetTimeout(timeout).SetRetryCount(3).R().SetResult(rtn).SetBody(map[string]string{
		"token":   p.Token,
		"title":   title,
		"content": content,
	}).ForceContentType("application/json").Post(api)
	if err != nil {
		return fmt.Errorf("[PushPlus] %w", err)
	}

	switch rtn.Code {
	case 0:
		return fmt.Errorf("[PushPlus] %s", resp.String())
	case 200:
		return nil
	default:
		return fmt.Errorf("[PushPlus] %s", rtn.Msg)
	}
}
