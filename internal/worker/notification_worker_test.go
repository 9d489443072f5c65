package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/portal-service/internal/config"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/events"
	"github.com/spec-kit/portal-service/internal/service"
)

func TestStartNotificationWorkerSubscribes(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher()

	StartNotificationWorker(service.NewNotificationService(dispatcher, nil, logger, config.NotificationConfig{}), logger)
	assert.Equal(t, 1, logs.FilterMessage("notification worker started").Len())

	err := dispatcher.Publish(context.Background(), events.New(events.EventPostChanged, "p1", "a1", events.PostChangedPayload{
		Change:   events.ChangeCreated,
		Category: domain.PostCategoryNews,
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("PostChanged").Len())
}

func TestStartNotificationWorkerNil(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { StartNotificationWorker(nil, nil) })
}
