package mail

import (
	"fmt"
	"time"

	gomail "github.com/go-mail/mail"

	"coinwatch/conf"
	"coinwatch/pkg/utils"
)

// 报警邮件发送。SMTP偶发抖动在这一层做有限重试，
// 重试用尽后把错误交给上层。

type Sender struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

func NewSender(cfg conf.EmailConfig) *Sender {
	return &Sender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.Sender,
		to:       cfg.Receiver,
	}
}

// Notify 发送一封纯文本报警邮件
func (s *Sender) Notify(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	err := utils.Retry(3, 2*time.Second, true, func() error {
		return d.DialAndSend(m)
	})
	if err != nil {
		return fmt.Errorf("send mail %q error: %w", subject, err)
	}
	return nil
}
