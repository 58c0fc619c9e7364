package smtp

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"abrigo-animais/internal/notify"
)

// Config do servidor SMTP.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// Sender implementa notify.Sender sobre net/smtp.
type Sender struct {
	cfg Config
}

func NewSender(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Send monta um multipart/alternative (texto + HTML) e entrega via SMTP.
// net/smtp não aceita contexto, então o envio roda em goroutine e o
// cancelamento é observado por fora.
func (s *Sender) Send(ctx context.Context, msg notify.Email) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	body := s.buildMessage(msg)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.cfg.From, []string{msg.To}, body)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

const mimeBoundary = "==abrigo-boundary=="

func (s *Sender) buildMessage(msg notify.Email) []byte {
	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.cfg.FromName), s.cfg.From)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary)
		writePart(&b, "text/plain; charset=utf-8", msg.TextBody)
		writePart(&b, "text/html; charset=utf-8", msg.HTMLBody)
		fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	case msg.HTMLBody != "":
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(msg.HTMLBody)
		b.WriteString("\r\n")
	default:
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(msg.TextBody)
		b.WriteString("\r\n")
	}

	return []byte(b.String())
}

func writePart(b *strings.Builder, contentType, body string) {
	fmt.Fprintf(b, "--%s\r\n", mimeBoundary)
	fmt.Fprintf(b, "Content-Type: %s\r\n\r\n", contentType)
	b.WriteString(body)
	b.WriteString("\r\n")
}
