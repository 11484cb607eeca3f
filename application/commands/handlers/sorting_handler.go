package handlers

import (
	"context"

	"go.uber.org/zap"

	"insightmap-backend/application/commands"
	"insightmap-backend/application/ports"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// SortingCommandHandler runs silent-sorting sessions: one active
// session per map, phases driven by any project member, completed is
// terminal. Phase and timer changes are pushed to map subscribers so
// every participant's countdown stays in step.
type SortingCommandHandler struct {
	sorting  ports.SortingRepository
	maps     ports.MapRepository
	projects ports.ProjectRepository
	notifier ports.Notifier
	logger   *zap.Logger
}

// NewSortingCommandHandler creates the sorting command handler
func NewSortingCommandHandler(
	sorting ports.SortingRepository,
	maps ports.MapRepository,
	projects ports.ProjectRepository,
	notifier ports.Notifier,
	logger *zap.Logger,
) *SortingCommandHandler {
	return &SortingCommandHandler{
		sorting:  sorting,
		maps:     maps,
		projects: projects,
		notifier: notifier,
		logger:   logger,
	}
}

// HandleStartSortingSession opens a session on a map
func (h *SortingCommandHandler) HandleStartSortingSession(ctx context.Context, cmd commands.StartSortingSessionCommand) error {
	mapID, err := valueobjects.NewMapIDFromString(cmd.MapID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid map ID format")
	}
	m, err := h.maps.GetByID(ctx, mapID)
	if err != nil {
		return err
	}
	if err := h.authorize(ctx, m.ProjectID(), cmd.UserID); err != nil {
		return err
	}

	if _, err := h.sorting.GetActiveByMap(ctx, mapID); err == nil {
		return pkgerrors.NewConflictError("A sorting session is already running for this map")
	} else if !pkgerrors.IsNotFound(err) {
		return pkgerrors.Wrap(err, "failed to check for active sorting session")
	}

	session, err := entities.NewSortingSession(cmd.SessionID, mapID, cmd.Duration, cmd.Participants, cmd.UserID)
	if err != nil {
		return err
	}

	if err := h.sorting.SaveSession(ctx, session); err != nil {
		return pkgerrors.Wrap(err, "failed to save sorting session")
	}

	h.broadcast(ctx, mapID)
	h.logger.Info("sorting session started",
		zap.String("sessionId", session.ID()),
		zap.String("mapId", cmd.MapID))
	return nil
}

// HandleUpdateSortingPhase moves a session to another phase
func (h *SortingCommandHandler) HandleUpdateSortingPhase(ctx context.Context, cmd commands.UpdateSortingPhaseCommand) error {
	session, err := h.loadAuthorized(ctx, cmd.SessionID, cmd.UserID)
	if err != nil {
		return err
	}

	if err := session.SetPhase(entities.SortingPhase(cmd.Phase)); err != nil {
		return err
	}
	if err := h.sorting.SaveSession(ctx, session); err != nil {
		return pkgerrors.Wrap(err, "failed to save sorting session")
	}

	h.broadcast(ctx, session.MapID())
	return nil
}

// HandleUpdateSortingTimer records a countdown tick
func (h *SortingCommandHandler) HandleUpdateSortingTimer(ctx context.Context, cmd commands.UpdateSortingTimerCommand) error {
	session, err := h.loadAuthorized(ctx, cmd.SessionID, cmd.UserID)
	if err != nil {
		return err
	}

	if err := session.SetTimeRemaining(cmd.TimeRemaining); err != nil {
		return err
	}
	if err := h.sorting.SaveSession(ctx, session); err != nil {
		return pkgerrors.Wrap(err, "failed to save sorting session")
	}

	h.broadcast(ctx, session.MapID())
	return nil
}

// loadAuthorized fetches the session and checks the caller belongs to
// the owning project
func (h *SortingCommandHandler) loadAuthorized(ctx context.Context, sessionID, userID string) (*entities.SortingSession, error) {
	session, err := h.sorting.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	m, err := h.maps.GetByID(ctx, session.MapID())
	if err != nil {
		return nil, err
	}
	if err := h.authorize(ctx, m.ProjectID(), userID); err != nil {
		return nil, err
	}
	return session, nil
}

func (h *SortingCommandHandler) authorize(ctx context.Context, projectID, userID string) error {
	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.CanMutate(userID) {
		return pkgerrors.NewForbiddenError("You are not a member of this project")
	}
	return nil
}

func (h *SortingCommandHandler) broadcast(ctx context.Context, mapID valueobjects.MapID) {
	if err := h.notifier.BroadcastMapUpdated(ctx, mapID); err != nil {
		h.logger.Warn("failed to broadcast sorting update",
			zap.String("mapId", mapID.String()), zap.Error(err))
	}
}
