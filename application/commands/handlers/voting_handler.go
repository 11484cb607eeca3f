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

// VotingCommandHandler handles dot-voting sessions and vote casting.
// Casting the same group twice replaces the previous allocation; the
// session's per-user budget is enforced against the caller's spend on
// other groups.
type VotingCommandHandler struct {
	voting   ports.VotingRepository
	maps     ports.MapRepository
	projects ports.ProjectRepository
	logger   *zap.Logger
}

// NewVotingCommandHandler creates the voting command handler
func NewVotingCommandHandler(
	voting ports.VotingRepository,
	maps ports.MapRepository,
	projects ports.ProjectRepository,
	logger *zap.Logger,
) *VotingCommandHandler {
	return &VotingCommandHandler{
		voting:   voting,
		maps:     maps,
		projects: projects,
		logger:   logger,
	}
}

// HandleCreateVotingSession opens a session over a map's groups
func (h *VotingCommandHandler) HandleCreateVotingSession(ctx context.Context, cmd commands.CreateVotingSessionCommand) error {
	if err := h.authorize(ctx, cmd.ProjectID, cmd.UserID); err != nil {
		return err
	}

	mapID, err := valueobjects.NewMapIDFromString(cmd.MapID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid map ID format")
	}
	m, err := h.maps.GetByID(ctx, mapID)
	if err != nil {
		return err
	}
	if m.ProjectID() != cmd.ProjectID {
		return pkgerrors.NewValidationError("map does not belong to this project")
	}

	session, err := entities.NewVotingSession(cmd.SessionID, cmd.ProjectID, mapID, cmd.Name, cmd.MaxVotes, cmd.UserID)
	if err != nil {
		return err
	}

	if err := h.voting.SaveSession(ctx, session); err != nil {
		return pkgerrors.Wrap(err, "failed to save voting session")
	}

	h.logger.Info("voting session created",
		zap.String("sessionId", session.ID()),
		zap.String("mapId", cmd.MapID))
	return nil
}

// HandleCloseVotingSession ends a session, creator-only
func (h *VotingCommandHandler) HandleCloseVotingSession(ctx context.Context, cmd commands.CloseVotingSessionCommand) error {
	session, err := h.voting.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	if session.CreatedBy() != cmd.UserID {
		return pkgerrors.NewForbiddenError("Only the session creator can close it")
	}

	session.Close()
	if err := h.voting.SaveSession(ctx, session); err != nil {
		return pkgerrors.Wrap(err, "failed to save voting session")
	}
	return nil
}

// HandleCastVote spends votes from the caller's budget on a group
func (h *VotingCommandHandler) HandleCastVote(ctx context.Context, cmd commands.CastVoteCommand) error {
	session, err := h.voting.GetSession(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	if err := h.authorize(ctx, session.ProjectID(), cmd.UserID); err != nil {
		return err
	}

	groupID, err := valueobjects.NewGroupIDFromString(cmd.GroupID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid group ID format")
	}

	votes, err := h.voting.GetVotesBySession(ctx, cmd.SessionID)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to load session votes")
	}

	spentElsewhere := 0
	for _, v := range votes {
		if v.UserID == cmd.UserID && !v.GroupID.Equals(groupID) {
			spentElsewhere += v.Votes
		}
	}

	if err := session.ValidateCast(groupID, cmd.Votes, spentElsewhere); err != nil {
		return err
	}

	if err := h.voting.SaveVote(ctx, entities.NewVote(cmd.SessionID, cmd.UserID, groupID, cmd.Votes)); err != nil {
		return pkgerrors.Wrap(err, "failed to save vote")
	}

	session.Touch()
	if err := h.voting.SaveSession(ctx, session); err != nil {
		h.logger.Warn("failed to touch voting session",
			zap.String("sessionId", cmd.SessionID), zap.Error(err))
	}
	return nil
}

func (h *VotingCommandHandler) authorize(ctx context.Context, projectID, userID string) error {
	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.CanMutate(userID) {
		return pkgerrors.NewForbiddenError("You are not a member of this project")
	}
	return nil
}
