package queue

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
)

var ErrQueueFull = errors.New("queue is full")

type Kind string

const (
	KindNotify  Kind = "notify"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Message is a notification waiting to be delivered
type Message struct {
	ID         string
	CreatedAt  time.Time
	RetryCount int
	Kind       Kind
	Content    string
}

func NewMessage(kind Kind, content string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Kind:      kind,
		Content:   content,
	}
}

// Service delivers notifications in the background, retrying failed deliveries
type Service struct {
	queue      chan Message
	quit       chan bool
	maxRetries int
	backoff    time.Duration

	ctx context.Context
}

type Processor interface {
	Process(context.Context, Message) error
}

func NewService(maxRetries, bufferSize int, ctx context.Context) *Service {
	return &Service{
		queue:      make(chan Message, bufferSize),
		quit:       make(chan bool),
		maxRetries: maxRetries,
		backoff:    time.Second,
		ctx:        ctx,
	}
}

// Enqueue adds a message without blocking, a full queue drops the message
func (s *Service) Enqueue(message Message) error {
	select {
	case s.queue <- message:
		return nil
	default:
		log.Default().Println("[queue] dropping message ", message.ID, ": ", ErrQueueFull)
		return ErrQueueFull
	}
}

func (s *Service) Close() {
	s.quit <- true
}

func (s *Service) Start(p Processor) error {
	for {
		select {
		case message := <-s.queue:
			err := p.Process(s.ctx, message)
			if err == nil {
				continue
			}

			if message.RetryCount >= s.maxRetries {
				log.Default().Println("[queue] giving up on message ", message.ID, " after ", message.RetryCount, " retries: ", err)
				continue
			}

			// requeue the message later to avoid a busy loop
			message.RetryCount++
			go func(m Message) {
				select {
				case <-time.After(time.Duration(m.RetryCount) * s.backoff):
					s.Enqueue(m)
				case <-s.ctx.Done():
				}
			}(message)
		case <-s.quit:
			// quit the service
			return nil
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}
}
