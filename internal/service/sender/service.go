package sender

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmehdipour/jokecast/internal/messenger"
	"github.com/jmehdipour/jokecast/internal/metrics"
	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmehdipour/jokecast/internal/util"
	"go.uber.org/zap"
)

// Twilio's hard cap for a concatenated body.
const maxMessageRunes = 1600

var ErrInvalidMessage = errors.New("invalid message")

type Messenger interface {
	Send(ctx context.Context, msg messenger.Message) (model.Receipt, error)
}

type MessageLog interface {
	Insert(ctx context.Context, m model.MessageLog) error
}

// Service sends one text message. It is the unit both the HTTP endpoint and
// the broadcast fan-out invoke.
type Service struct {
	messenger      Messenger
	messages       MessageLog
	from           string
	defaultCountry string
	log            *zap.Logger
}

// New builds the service; messages may be nil when no message log is configured.
func New(m Messenger, messages MessageLog, from, defaultCountry string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		messenger:      m,
		messages:       messages,
		from:           from,
		defaultCountry: defaultCountry,
		log:            log,
	}
}

func (s *Service) Send(ctx context.Context, req model.SendRequest) (model.Receipt, error) {
	phone, err := util.NormalizePhone(req.To, s.defaultCountry)
	if err != nil {
		return model.Receipt{}, err
	}

	body := req.Message
	if strings.TrimSpace(body) == "" {
		return model.Receipt{}, fmt.Errorf("%w: empty body", ErrInvalidMessage)
	}
	if utf8.RuneCountInString(body) > maxMessageRunes {
		return model.Receipt{}, fmt.Errorf("%w: body longer than %d characters", ErrInvalidMessage, maxMessageRunes)
	}

	rc, err := s.messenger.Send(ctx, messenger.Message{From: s.from, To: phone.E164, Body: body})

	entry := model.MessageLog{
		ID:          util.New(),
		To:          phone.E164,
		Body:        body,
		BroadcastID: req.BroadcastID,
		CreatedAt:   time.Now().UTC(),
	}
	if err != nil {
		metrics.MessagesTotal.WithLabelValues(model.StatusFailed.String()).Inc()
		entry.Status = model.StatusFailed
		entry.Error = err.Error()
		s.log.Error("send failed",
			zap.String("to", phone.E164),
			zap.String("broadcast_id", req.BroadcastID),
			zap.Error(err))
	} else {
		metrics.MessagesTotal.WithLabelValues(model.StatusSent.String()).Inc()
		entry.Status = model.StatusSent
		entry.Provider = rc.Provider
		entry.ProviderID = rc.MessageID
		entry.CreatedAt = rc.CreatedAt
		s.log.Info("message sent",
			zap.String("to", phone.E164),
			zap.String("provider", rc.Provider),
			zap.String("message_id", rc.MessageID),
			zap.Time("date_created", rc.CreatedAt))
	}

	s.record(ctx, entry)

	if err != nil {
		return model.Receipt{}, fmt.Errorf("send to %s: %w", phone.E164, err)
	}
	return rc, nil
}

func (s *Service) record(ctx context.Context, entry model.MessageLog) {
	if s.messages == nil {
		return
	}
	if err := s.messages.Insert(ctx, entry); err != nil {
		s.log.Warn("message log insert failed", zap.String("id", entry.ID), zap.Error(err))
	}
}
