package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Email é uma mensagem pronta para envio.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender entrega um e-mail. Implementações: SMTP em produção, fake nos testes.
type Sender interface {
	Send(ctx context.Context, msg Email) error
}

// ErrSendTimeout indica que o envio de teste estourou o prazo.
var ErrSendTimeout = errors.New("email send timed out")

const testSendTimeout = 10 * time.Second

// Dispatcher envia notificações em melhor esforço: o envio roda em goroutine
// e falha vira log, nunca erro para quem disparou. A operação de negócio
// (criar adoção, registrar doação) não depende do e-mail sair.
type Dispatcher struct {
	sender       Sender
	shelterInbox string
	log          *zap.Logger
	wg           sync.WaitGroup
}

func NewDispatcher(sender Sender, shelterInbox string, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		sender:       sender,
		shelterInbox: strings.TrimSpace(shelterInbox),
		log:          log,
	}
}

// ShelterInbox é o destino das notificações internas do abrigo.
func (d *Dispatcher) ShelterInbox() string {
	return d.shelterInbox
}

// Dispatch envia msg de forma assíncrona.
func (d *Dispatcher) Dispatch(kind string, msg Email) {
	if d == nil || d.sender == nil || strings.TrimSpace(msg.To) == "" {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Warn("notification send failed",
				zap.String("kind", kind),
				zap.String("to", msg.To),
				zap.Error(err))
			return
		}
		d.log.Info("notification sent",
			zap.String("kind", kind),
			zap.String("to", msg.To))
	}()
}

// Wait bloqueia até os envios pendentes terminarem (shutdown e testes).
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// SendTest envia de forma síncrona, correndo contra um timeout fixo.
// Usado pela rota administrativa de diagnóstico de SMTP.
func (d *Dispatcher) SendTest(ctx context.Context, to string) error {
	if d.sender == nil {
		return errors.New("email sender not configured")
	}

	msg := BuildTestEmail(to)

	done := make(chan error, 1)
	go func() {
		sctx, cancel := context.WithTimeout(ctx, testSendTimeout)
		defer cancel()
		done <- d.sender.Send(sctx, msg)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(testSendTimeout):
		return ErrSendTimeout
	}
}
