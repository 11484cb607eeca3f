package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"insightmap-backend/application/commands"
	"insightmap-backend/application/commands/bus"
	"insightmap-backend/application/queries"
	querybus "insightmap-backend/application/queries/bus"
	"insightmap-backend/pkg/auth"
	"insightmap-backend/pkg/common"
	"insightmap-backend/pkg/utils"
)

// CommentHandler handles group-comment HTTP requests
type CommentHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// AddCommentRequest represents the request body for adding a comment
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// AddComment handles POST /maps/{mapID}/groups/{groupID}/comments
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	groupID := chi.URLParam(r, "groupID")

	var req AddCommentRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	commentID := uuid.New().String()
	cmd := commands.AddCommentCommand{
		CommentID: commentID,
		MapID:     mapID,
		GroupID:   groupID,
		Text:      req.Text,
		UserID:    userCtx.UserID,
		UserName:  userCtx.Name,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": commentID})
}

// ListComments handles GET /maps/{mapID}/comments with an optional
// groupId filter
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetCommentsQuery{
		MapID:   mapID,
		GroupID: r.URL.Query().Get("groupId"),
		UserID:  userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ResolveComment handles PUT /maps/{mapID}/comments/{commentID}/resolve
func (h *CommentHandler) ResolveComment(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	commentID := chi.URLParam(r, "commentID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.ResolveCommentCommand{
		CommentID: commentID,
		MapID:     mapID,
		UserID:    userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Comment resolved"})
}
