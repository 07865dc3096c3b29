package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio/internal/apperrors"
	"portfolio/internal/mail"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ContactQueue is the queue contact messages are published to.
const ContactQueue = "contact_queue"

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required"`
	Subject string `json:"subject" form:"subject" validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
}

// Mailer delivers a composed message.
type Mailer interface {
	Send(msg mail.Message) error
}

// Dispatcher hands a composed message off for delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg mail.Message) error
}

// Publisher publishes a message body to a named queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// DirectDispatcher sends through the mailer on its own goroutine and waits
// at most timeout for the result.
type DirectDispatcher struct {
	mailer  Mailer
	timeout time.Duration
}

// NewDirectDispatcher creates a new DirectDispatcher.
func NewDirectDispatcher(mailer Mailer, timeout time.Duration) *DirectDispatcher {
	return &DirectDispatcher{mailer: mailer, timeout: timeout}
}

// Dispatch sends msg. A send still in flight after the timeout keeps
// running in the background; its result is discarded.
func (d *DirectDispatcher) Dispatch(ctx context.Context, msg mail.Message) error {
	done := make(chan error, 1)
	go func() {
		done <- d.mailer.Send(msg)
	}()

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("mail send timed out after %s", d.timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// QueueDispatcher publishes messages for a background consumer to deliver.
type QueueDispatcher struct {
	publisher Publisher
}

// NewQueueDispatcher creates a new QueueDispatcher.
func NewQueueDispatcher(publisher Publisher) *QueueDispatcher {
	return &QueueDispatcher{publisher: publisher}
}

// Dispatch publishes msg to ContactQueue.
func (d *QueueDispatcher) Dispatch(ctx context.Context, msg mail.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal contact message: %w", err)
	}
	return d.publisher.Publish(ctx, ContactQueue, body)
}

// ContactService relays contact form submissions to the site operator.
type ContactService struct {
	dispatcher Dispatcher
	mailer     Mailer
	validate   *validator.Validate
	log        *logrus.Logger
}

// NewContactService creates a new ContactService. mailer is used by
// Deliver for queued messages.
func NewContactService(dispatcher Dispatcher, mailer Mailer, log *logrus.Logger) *ContactService {
	return &ContactService{
		dispatcher: dispatcher,
		mailer:     mailer,
		validate:   newValidator(),
		log:        log,
	}
}

// ComposeContact builds the operator mail for a submission.
func ComposeContact(m ContactMessage) mail.Message {
	return mail.Message{
		Subject: "Portfolio Contact: " + m.Subject,
		Body:    fmt.Sprintf("From: %s <%s>\n\n%s", m.Name, m.Email, m.Message),
		ReplyTo: m.Email,
	}
}

// SubmitContact validates a submission and dispatches it. Empty fields fail
// with ErrValidation before anything is sent; delivery failures are
// reported as ErrTransport without transport details.
func (s *ContactService) SubmitContact(ctx context.Context, m ContactMessage) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)

	if err := s.validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fe := apperrors.FieldErrors{}
			for _, e := range verrs {
				fe[e.Field()] = e.Tag()
			}
			return fe
		}
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.dispatcher.Dispatch(ctx, ComposeContact(m)); err != nil {
		s.log.Errorf("Error sending contact email: %v", err)
		return fmt.Errorf("failed to send message: %w", apperrors.ErrTransport)
	}
	return nil
}

// Deliver sends a queued message body. It is the consumer side of
// QueueDispatcher.
func (s *ContactService) Deliver(body []byte) error {
	var msg mail.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to decode contact message: %w", err)
	}
	return s.mailer.Send(msg)
}
