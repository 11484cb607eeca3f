package handlers

import (
	"context"

	"go.uber.org/zap"

	"insightmap-backend/application/commands"
	"insightmap-backend/application/ports"
	"insightmap-backend/application/services"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// ConnectionCommandHandler handles connection mutations. Creation runs
// the graph rules against the map's full connection set; update and
// delete are restricted to the connection's creator.
type ConnectionCommandHandler struct {
	connections ports.ConnectionRepository
	maps        ports.MapRepository
	projects    ports.ProjectRepository
	activity    *services.ActivityService
	logger      *zap.Logger
}

// NewConnectionCommandHandler creates the connection command handler
func NewConnectionCommandHandler(
	connections ports.ConnectionRepository,
	maps ports.MapRepository,
	projects ports.ProjectRepository,
	activity *services.ActivityService,
	logger *zap.Logger,
) *ConnectionCommandHandler {
	return &ConnectionCommandHandler{
		connections: connections,
		maps:        maps,
		projects:    projects,
		activity:    activity,
		logger:      logger,
	}
}

// HandleCreateConnection draws a new edge after the graph rules pass:
// both endpoints exist, no self loop, no duplicate in either
// direction, and neither endpoint is at its degree cap
func (h *ConnectionCommandHandler) HandleCreateConnection(ctx context.Context, cmd commands.CreateConnectionCommand) error {
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

	source, err := valueobjects.NewGroupIDFromString(cmd.SourceGroupID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid source group ID format")
	}
	target, err := valueobjects.NewGroupIDFromString(cmd.TargetGroupID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid target group ID format")
	}

	existing, err := h.connections.GetByMap(ctx, mapID)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to load map connections")
	}

	if err := entities.ValidateNewConnection(source, target, existing, m.HasGroup); err != nil {
		return err
	}

	conn, err := entities.NewConnection(cmd.ConnectionID, mapID, source, target,
		entities.ConnectionType(cmd.Type), cmd.Label, cmd.Strength, cmd.UserID)
	if err != nil {
		return err
	}

	if err := h.connections.Save(ctx, conn); err != nil {
		return pkgerrors.Wrap(err, "failed to save connection")
	}

	h.activity.BroadcastMapUpdated(ctx, mapID)
	h.logger.Info("connection created",
		zap.String("connectionId", conn.ID()),
		zap.String("mapId", cmd.MapID),
		zap.String("type", cmd.Type))
	return nil
}

// HandleUpdateConnection edits a connection's mutable fields.
// Authorization is creator-only; the entity enforces it.
func (h *ConnectionCommandHandler) HandleUpdateConnection(ctx context.Context, cmd commands.UpdateConnectionCommand) error {
	conn, err := h.connections.GetByID(ctx, cmd.ConnectionID)
	if err != nil {
		return err
	}

	updates := entities.ConnectionUpdates{Label: cmd.Label, Strength: cmd.Strength}
	if cmd.Type != nil {
		t := entities.ConnectionType(*cmd.Type)
		updates.Type = &t
	}

	if err := conn.ApplyUpdate(cmd.UserID, updates); err != nil {
		return err
	}

	if err := h.connections.Save(ctx, conn); err != nil {
		return pkgerrors.Wrap(err, "failed to save connection")
	}

	h.activity.BroadcastMapUpdated(ctx, conn.MapID())
	return nil
}

// HandleDeleteConnection removes a connection, creator-only
func (h *ConnectionCommandHandler) HandleDeleteConnection(ctx context.Context, cmd commands.DeleteConnectionCommand) error {
	conn, err := h.connections.GetByID(ctx, cmd.ConnectionID)
	if err != nil {
		return err
	}

	if err := conn.AuthorizeDelete(cmd.UserID); err != nil {
		return err
	}

	if err := h.connections.Delete(ctx, cmd.ConnectionID); err != nil {
		return pkgerrors.Wrap(err, "failed to delete connection")
	}

	h.activity.BroadcastMapUpdated(ctx, conn.MapID())
	return nil
}

func (h *ConnectionCommandHandler) authorize(ctx context.Context, projectID, userID string) error {
	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.CanMutate(userID) {
		return pkgerrors.NewForbiddenError("You are not a member of this project")
	}
	return nil
}
