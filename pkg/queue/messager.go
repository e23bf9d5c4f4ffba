package queue

import (
	"context"
	"fmt"

	"github.com/citizenwallet/tokenwallet/pkg/wallet"
)

// Messager queues notifications instead of sending them right away
type Messager struct {
	s *Service
}

func NewMessager(s *Service) wallet.Messager {
	return &Messager{s: s}
}

func (m *Messager) Notify(ctx context.Context, message string) error {
	return m.s.Enqueue(*NewMessage(KindNotify, message))
}

func (m *Messager) NotifyWarning(ctx context.Context, errorMessage error) error {
	return m.s.Enqueue(*NewMessage(KindWarning, errorMessage.Error()))
}

func (m *Messager) NotifyError(ctx context.Context, errorMessage error) error {
	return m.s.Enqueue(*NewMessage(KindError, errorMessage.Error()))
}

// Delivery sends queued notifications through a messager
type Delivery struct {
	m wallet.Messager
}

func NewDelivery(m wallet.Messager) *Delivery {
	return &Delivery{m: m}
}

func (d *Delivery) Process(ctx context.Context, message Message) error {
	switch message.Kind {
	case KindNotify:
		return d.m.Notify(ctx, message.Content)
	case KindWarning:
		return d.m.NotifyWarning(ctx, fmt.Errorf("%s", message.Content))
	case KindError:
		return d.m.NotifyError(ctx, fmt.Errorf("%s", message.Content))
	}

	return fmt.Errorf("unknown message kind: %s", message.Kind)
}
