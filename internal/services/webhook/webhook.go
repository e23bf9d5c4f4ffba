package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/citizenwallet/tokenwallet/pkg/wallet"
)

var ErrSend = errors.New("error sending message")

type Message struct {
	Content string `json:"content"`
}

type Messager struct {
	BaseURL string
	Symbol  string

	client *http.Client
	notify bool
}

func NewMessager(baseURL, symbol string, notify bool) wallet.Messager {
	return &Messager{
		BaseURL: baseURL,
		Symbol:  symbol,
		client:  http.DefaultClient,
		notify:  notify,
	}
}

func (b *Messager) Notify(ctx context.Context, message string) error {
	return b.send(ctx, fmt.Sprintf("[%s] %s", b.Symbol, message))
}

func (b *Messager) NotifyWarning(ctx context.Context, errorMessage error) error {
	return b.send(ctx, fmt.Sprintf("[%s] warning: %s", b.Symbol, errorMessage.Error()))
}

func (b *Messager) NotifyError(ctx context.Context, errorMessage error) error {
	return b.send(ctx, fmt.Sprintf("[%s] error: %s", b.Symbol, errorMessage.Error()))
}

func (b *Messager) send(ctx context.Context, content string) error {
	if !b.notify || b.BaseURL == "" {
		return nil
	}

	data, err := json.Marshal(Message{Content: content})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL, bytes.NewReader(data))
	if err != nil {
		return err
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	// discord answers 204 when no message is returned
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return ErrSend
	}

	return nil
}
