// Package handlers contains the command handlers. Each handler owns
// one aggregate's write path: authorization against project
// membership, the domain mutation, persistence, then best-effort
// activity logging and realtime fan-out.
package handlers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"insightmap-backend/application/commands"
	"insightmap-backend/application/ports"
	"insightmap-backend/application/services"
	"insightmap-backend/domain/core/aggregates"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// Defaults for groups created implicitly around an independent note
const (
	noteGroupTitle = "Note"
	noteGroupColor = "#6B7280"
)

// MapCommandHandler handles all mutations of the affinity map
// aggregate
type MapCommandHandler struct {
	maps        ports.MapRepository
	projects    ports.ProjectRepository
	connections ports.ConnectionRepository
	insights    ports.InsightRepository
	uow         ports.UnitOfWork
	activity    *services.ActivityService
	logger      *zap.Logger
}

// NewMapCommandHandler creates the map command handler
func NewMapCommandHandler(
	maps ports.MapRepository,
	projects ports.ProjectRepository,
	connections ports.ConnectionRepository,
	insights ports.InsightRepository,
	uow ports.UnitOfWork,
	activity *services.ActivityService,
	logger *zap.Logger,
) *MapCommandHandler {
	return &MapCommandHandler{
		maps:        maps,
		projects:    projects,
		connections: connections,
		insights:    insights,
		uow:         uow,
		activity:    activity,
		logger:      logger,
	}
}

// HandleCreateMap creates a new map and makes it the project's current
// one. The demotions and the insert land in a single transaction so
// there is never more than one current map per project.
func (h *MapCommandHandler) HandleCreateMap(ctx context.Context, cmd commands.CreateMapCommand) error {
	if err := h.authorize(ctx, cmd.ProjectID, cmd.UserID); err != nil {
		return err
	}

	mapID, err := valueobjects.NewMapIDFromString(cmd.MapID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid map ID format")
	}

	newMap, err := aggregates.NewAffinityMap(mapID, cmd.ProjectID, cmd.Name, cmd.UserID)
	if err != nil {
		return err
	}

	existing, err := h.maps.GetByProject(ctx, cmd.ProjectID)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to load project maps")
	}

	var demote []*aggregates.AffinityMap
	for _, m := range existing {
		if m.IsCurrent() {
			m.MarkNotCurrent()
			demote = append(demote, m)
		}
	}

	if err := h.uow.SaveNewCurrentMap(ctx, newMap, demote); err != nil {
		return pkgerrors.Wrap(err, "failed to save new current map")
	}

	h.activity.PublishEvents(ctx, newMap.GetUncommittedEvents())
	newMap.MarkEventsAsCommitted()

	h.logger.Info("map created",
		zap.String("mapId", newMap.ID().String()),
		zap.String("projectId", cmd.ProjectID))

	return nil
}

// HandleAddGroup appends an empty group to the map
func (h *MapCommandHandler) HandleAddGroup(ctx context.Context, cmd commands.AddGroupCommand) error {
	m, groupID, err := h.loadForWrite(ctx, cmd.MapID, cmd.GroupID, cmd.UserID)
	if err != nil {
		return err
	}

	pos := valueobjects.NewPosition(cmd.X, cmd.Y)
	if _, err := m.AddGroup(groupID, cmd.Title, cmd.Color, pos, cmd.UserID); err != nil {
		return err
	}

	if err := h.persist(ctx, m); err != nil {
		return err
	}

	h.activity.Record(ctx, m.ID(), m.ProjectID(), actorOf(cmd.UserID, cmd.UserName),
		entities.ActionGroupCreated, cmd.GroupID, cmd.Title, "")
	return nil
}

// HandleMoveGroup repositions a group on the canvas
func (h *MapCommandHandler) HandleMoveGroup(ctx context.Context, cmd commands.MoveGroupCommand) error {
	m, groupID, err := h.loadForWrite(ctx, cmd.MapID, cmd.GroupID, cmd.UserID)
	if err != nil {
		return err
	}

	if err := m.MoveGroup(groupID, valueobjects.NewPosition(cmd.X, cmd.Y), cmd.UserID); err != nil {
		return err
	}

	if err := h.persist(ctx, m); err != nil {
		return err
	}

	group, _ := m.FindGroup(groupID)
	h.activity.Record(ctx, m.ID(), m.ProjectID(), actorOf(cmd.UserID, cmd.UserName),
		entities.ActionGroupMoved, cmd.GroupID, group.Title, "")
	return nil
}

// HandleRenameGroup changes a group's title
func (h *MapCommandHandler) HandleRenameGroup(ctx context.Context, cmd commands.RenameGroupCommand) error {
	m, groupID, err := h.loadForWrite(ctx, cmd.MapID, cmd.GroupID, cmd.UserID)
	if err != nil {
		return err
	}

	oldGroup, _ := m.FindGroup(groupID)
	if err := m.RenameGroup(groupID, cmd.Title, cmd.UserID); err != nil {
		return err
	}

	if err := h.persist(ctx, m); err != nil {
		return err
	}

	h.activity.Record(ctx, m.ID(), m.ProjectID(), actorOf(cmd.UserID, cmd.UserName),
		entities.ActionGroupRenamed, cmd.GroupID, cmd.Title, oldGroup.Title)
	return nil
}

// HandleRemoveGroup deletes a group and every connection touching it
func (h *MapCommandHandler) HandleRemoveGroup(ctx context.Context, cmd commands.RemoveGroupCommand) error {
	m, groupID, err := h.loadForWrite(ctx, cmd.MapID, cmd.GroupID, cmd.UserID)
	if err != nil {
		return err
	}

	group, _ := m.FindGroup(groupID)
	if err := m.RemoveGroup(groupID, cmd.UserID); err != nil {
		return err
	}

	if err := h.persist(ctx, m); err != nil {
		return err
	}

	if err := h.connections.DeleteByGroup(ctx, m.ID(), groupID); err != nil {
		h.logger.Warn("failed to delete connections of removed group",
			zap.String("groupId", cmd.GroupID), zap.Error(err))
	}

	h.activity.Record(ctx, m.ID(), m.ProjectID(), actorOf(cmd.UserID, cmd.UserName),
		entities.ActionGroupDeleted, cmd.GroupID, group.Title, "")
	return nil
}

// HandleAddInsightToGroup places an insight in a group, moving it out
// of whichever group held it before
func (h *MapCommandHandler) HandleAddInsightToGroup(ctx context.Context, cmd commands.AddInsightToGroupCommand) error {
	m, groupID, err := h.loadForWrite(ctx, cmd.MapID, cmd.GroupID, cmd.UserID)
	if err != nil {
		return err
	}

	_, hadGroup := m.InsightMembership(cmd.InsightID)
	if err := m.AddInsightToGroup(groupID, cmd.InsightID, cmd.UserID); err != nil {
		return err
	}

	if err := h.persist(ctx, m); err != nil {
		return err
	}

	group, _ := m.FindGroup(groupID)
	action := entities.ActionInsightAdded
	if hadGroup {
		action = entities.ActionInsightMoved
	}
	h.activity.Record(ctx, m.ID(), m.ProjectID(), actorOf(cmd.UserID, cmd.UserName),
		action, cmd.GroupID, group.Title, cmd.InsightID)
	return nil
}

// HandleRemoveInsightFromGroup takes an insight off a group
func (h *MapCommandHandler) HandleRemoveInsightFromGroup(ctx context.Context, cmd commands.RemoveInsightFromGroupCommand) error {
	m, groupID, err := h.loadForWrite(ctx, cmd.MapID, cmd.GroupID, cmd.UserID)
	if err != nil {
		return err
	}

	if err := m.RemoveInsightFromGroup(groupID, cmd.InsightID, cmd.UserID); err != nil {
		return err
	}

	if err := h.persist(ctx, m); err != nil {
		return err
	}

	group, _ := m.FindGroup(groupID)
	h.activity.Record(ctx, m.ID(), m.ProjectID(), actorOf(cmd.UserID, cmd.UserName),
		entities.ActionInsightRemoved, cmd.GroupID, group.Title, cmd.InsightID)
	return nil
}

// HandleReorderInsights replaces a group's insight order
func (h *MapCommandHandler) HandleReorderInsights(ctx context.Context, cmd commands.ReorderInsightsCommand) error {
	m, groupID, err := h.loadForWrite(ctx, cmd.MapID, cmd.GroupID, cmd.UserID)
	if err != nil {
		return err
	}

	if err := m.ReorderInsights(groupID, cmd.InsightIDs, cmd.UserID); err != nil {
		return err
	}

	return h.persist(ctx, m)
}

// HandleReplaceAllGroups restores a full group snapshot, the write
// half of undo/redo
func (h *MapCommandHandler) HandleReplaceAllGroups(ctx context.Context, cmd commands.ReplaceAllGroupsCommand) error {
	m, err := h.loadMap(ctx, cmd.MapID, cmd.UserID)
	if err != nil {
		return err
	}

	m.ReplaceAllGroups(cmd.Groups)
	return h.persist(ctx, m)
}

// HandleCreateIndependentInsight records a manual insight and wraps it
// in a fresh single-insight note group at the drop position, so the
// note is visible on the canvas immediately
func (h *MapCommandHandler) HandleCreateIndependentInsight(ctx context.Context, cmd commands.CreateIndependentInsightCommand) error {
	m, err := h.loadMap(ctx, cmd.MapID, cmd.UserID)
	if err != nil {
		return err
	}

	insight, err := entities.NewManualInsight(cmd.InsightID, m.ProjectID(), entities.InsightType(cmd.Type), cmd.Text, cmd.UserID)
	if err != nil {
		return err
	}
	if err := h.insights.Save(ctx, insight); err != nil {
		return pkgerrors.Wrap(err, "failed to save insight")
	}

	groupID, err := valueobjects.NewGroupIDFromString(cmd.GroupID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid group ID format")
	}

	pos := valueobjects.NewPosition(cmd.X, cmd.Y)
	if _, err := m.AddGroupWithInsight(groupID, noteGroupTitle, noteGroupColor, pos, insight.ID(), cmd.UserID); err != nil {
		return err
	}

	if err := h.persist(ctx, m); err != nil {
		return err
	}

	h.activity.Record(ctx, m.ID(), m.ProjectID(), actorOf(cmd.UserID, cmd.UserName),
		entities.ActionGroupCreated, cmd.GroupID, noteGroupTitle, firstLine(cmd.Text))
	return nil
}

// loadMap loads the map and checks project membership for the caller
func (h *MapCommandHandler) loadMap(ctx context.Context, rawMapID, userID string) (*aggregates.AffinityMap, error) {
	mapID, err := valueobjects.NewMapIDFromString(rawMapID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid map ID format")
	}

	m, err := h.maps.GetByID(ctx, mapID)
	if err != nil {
		return nil, err
	}

	if err := h.authorize(ctx, m.ProjectID(), userID); err != nil {
		return nil, err
	}
	return m, nil
}

// loadForWrite loads the map, authorizes the caller and parses the
// group id in one step
func (h *MapCommandHandler) loadForWrite(ctx context.Context, rawMapID, rawGroupID, userID string) (*aggregates.AffinityMap, valueobjects.GroupID, error) {
	m, err := h.loadMap(ctx, rawMapID, userID)
	if err != nil {
		return nil, valueobjects.GroupID{}, err
	}

	groupID, err := valueobjects.NewGroupIDFromString(rawGroupID)
	if err != nil {
		return nil, valueobjects.GroupID{}, pkgerrors.NewValidationError("invalid group ID format")
	}
	return m, groupID, nil
}

func (h *MapCommandHandler) authorize(ctx context.Context, projectID, userID string) error {
	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.CanMutate(userID) {
		return pkgerrors.NewForbiddenError("You are not a member of this project")
	}
	return nil
}

// persist saves the map, publishes its accumulated events and nudges
// map subscribers to refetch
func (h *MapCommandHandler) persist(ctx context.Context, m *aggregates.AffinityMap) error {
	if err := h.maps.Save(ctx, m); err != nil {
		return pkgerrors.Wrap(err, "failed to save map")
	}

	h.activity.PublishEvents(ctx, m.GetUncommittedEvents())
	m.MarkEventsAsCommitted()
	h.activity.BroadcastMapUpdated(ctx, m.ID())
	return nil
}

func actorOf(userID, userName string) services.Actor {
	return services.Actor{UserID: userID, UserName: userName}
}

// firstLine truncates note text for the activity details column
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 120 {
		text = text[:120]
	}
	return text
}
