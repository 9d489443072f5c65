package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/portal-service/internal/cache"
	"github.com/spec-kit/portal-service/internal/config"
	"github.com/spec-kit/portal-service/internal/events"
)

// NotificationService reacts to content events: it keeps the listing cache
// fresh and emits subscriber notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	cache      *cache.ListingCache
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, listings *cache.ListingCache, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		cache:      listings,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPostChanged, n.handlePostChanged)
	n.dispatcher.Subscribe(events.EventQuizChanged, n.handleQuizChanged)
	n.dispatcher.Subscribe(events.EventQuizAttempted, n.handleQuizAttempted)
}

func (n *NotificationService) handlePostChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PostChangedPayload)
	if !ok {
		return errors.New("post_changed: unexpected payload")
	}
	n.logger.Info("PostChanged",
		zap.String("post_id", event.SubjectID),
		zap.String("change", string(payload.Change)),
		zap.String("category", string(payload.Category)))

	err := n.cache.Invalidate(ctx, payload.Category)
	if payload.PrevCategory != "" && payload.PrevCategory != payload.Category {
		err = errors.Join(err, n.cache.Invalidate(ctx, payload.PrevCategory))
	}

	if payload.Change == events.ChangePublished || (payload.Change == events.ChangeCreated && payload.Published) {
		n.sendEmailNotificationStub(ctx, event)
		n.sendWebhookNotificationStub(ctx, event)
	}
	return err
}

func (n *NotificationService) handleQuizChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("QuizChanged", zap.String("quiz_id", event.SubjectID), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.QuizChangedPayload); ok && payload.Published && payload.Change == events.ChangeCreated {
		n.sendWebhookNotificationStub(ctx, event)
	}
	return nil
}

func (n *NotificationService) handleQuizAttempted(ctx context.Context, event events.Event) error {
	n.logger.Debug("QuizAttempted", zap.String("quiz_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
