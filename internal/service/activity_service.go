package service

import (
	"context"

	"github.com/bethmed/clinic-api/internal/model"
	"go.uber.org/zap"
)

// ActivityService is the audit/notification sink. Every write here is
// fire-and-forget: errors are logged and swallowed so they can never abort
// the workflow that triggered them.
type ActivityService struct {
	store  ActivityStore
	logger *zap.Logger
}

func NewActivityService(store ActivityStore, logger *zap.Logger) *ActivityService {
	return &ActivityService{store: store, logger: logger}
}

// Log appends an audit entry.
func (s *ActivityService) Log(ctx context.Context, action, actor, details string, status model.ActivityStatus) {
	err := s.store.Append(ctx, &model.ActivityEntry{
		Action:    action,
		UserEmail: actor,
		Details:   details,
		Status:    status,
	})
	if err != nil {
		s.logger.Warn("Failed to write activity log",
			zap.String("action", action),
			zap.String("actor", actor),
			zap.Error(err),
		)
	}
}

// Notify appends an in-app notification.
func (s *ActivityService) Notify(ctx context.Context, n *model.Notification) {
	err := s.store.CreateNotification(ctx, n)
	if err != nil {
		s.logger.Warn("Failed to create notification",
			zap.String("user_email", n.UserEmail),
			zap.String("title", n.Title),
			zap.Error(err),
		)
	}
}
