package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	"insightmap-backend/domain/events"
)

// Actor identifies the user performing a mutation
type Actor struct {
	UserID   string
	UserName string
}

// ActivityService mirrors successful mutations into the append-only
// activity log and fans out notifications to the other project
// members for the actions that warrant them. Everything here is best
// effort: a failure to log or notify never propagates back to the
// originating mutation.
type ActivityService struct {
	activities    ports.ActivityRepository
	notifications ports.NotificationRepository
	projects      ports.ProjectRepository
	publisher     ports.EventPublisher
	notifier      ports.Notifier
	logger        *zap.Logger
}

// NewActivityService creates the activity service
func NewActivityService(
	activities ports.ActivityRepository,
	notifications ports.NotificationRepository,
	projects ports.ProjectRepository,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		activities:    activities,
		notifications: notifications,
		projects:      projects,
		publisher:     publisher,
		notifier:      notifier,
		logger:        logger,
	}
}

// Record appends one activity entry and, for notifiable actions, fans
// out one notification per other project member with a deep link to
// the affected group.
func (s *ActivityService) Record(ctx context.Context, mapID valueobjects.MapID, projectID string, actor Actor, action entities.ActivityAction, targetID, targetName, details string) {
	entry, err := entities.NewActivityEntry(mapID, actor.UserID, actor.UserName, action, targetID, targetName, details)
	if err != nil {
		s.logger.Warn("invalid activity entry", zap.String("action", string(action)), zap.Error(err))
		return
	}

	if err := s.activities.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to append activity entry",
			zap.String("mapId", mapID.String()),
			zap.String("action", string(action)),
			zap.Error(err))
	}

	if action.Notifies() {
		s.fanOut(ctx, mapID, projectID, actor, action, targetID, targetName, details)
	}
}

// BroadcastMapUpdated pushes a refetch hint to map subscribers
func (s *ActivityService) BroadcastMapUpdated(ctx context.Context, mapID valueobjects.MapID) {
	if err := s.notifier.BroadcastMapUpdated(ctx, mapID); err != nil {
		s.logger.Debug("map update broadcast failed", zap.String("mapId", mapID.String()), zap.Error(err))
	}
}

func (s *ActivityService) fanOut(ctx context.Context, mapID valueobjects.MapID, projectID string, actor Actor, action entities.ActivityAction, targetID, targetName, details string) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		s.logger.Warn("notification fan-out skipped, project lookup failed",
			zap.String("projectId", projectID), zap.Error(err))
		return
	}

	groupID, err := valueobjects.NewGroupIDFromString(targetID)
	if err != nil {
		return
	}

	title, message := notificationText(action, actor.UserName, targetName, details)
	for _, member := range project.OtherMembers(actor.UserID) {
		n := entities.NewGroupNotification(member.UserID, string(action), title, message, projectID, groupID)
		if err := s.notifications.Save(ctx, n); err != nil {
			s.logger.Warn("failed to notify member",
				zap.String("memberId", member.UserID),
				zap.String("action", string(action)),
				zap.Error(err))
		}
	}
}

func notificationText(action entities.ActivityAction, actorName, targetName, details string) (string, string) {
	switch action {
	case entities.ActionGroupCreated:
		return "New group created", fmt.Sprintf("%s created the group %q", actorName, targetName)
	case entities.ActionCommentAdded:
		return "New comment", fmt.Sprintf("%s commented on %q", actorName, targetName)
	case entities.ActionInsightMoved:
		return "Insight moved", fmt.Sprintf("%s moved an insight to %q", actorName, targetName)
	case entities.ActionUserMentioned:
		return "You were mentioned", fmt.Sprintf("%s mentioned you on %q", actorName, targetName)
	default:
		return "Workspace activity", fmt.Sprintf("%s updated %q", actorName, targetName)
	}
}

// PublishEvents forwards uncommitted domain events to the event bus,
// logging failures rather than surfacing them
func (s *ActivityService) PublishEvents(ctx context.Context, evts []events.DomainEvent) {
	if len(evts) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, evts); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Int("count", len(evts)), zap.Error(err))
	}
}
