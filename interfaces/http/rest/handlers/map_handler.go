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
	"insightmap-backend/domain/core/aggregates"
	"insightmap-backend/domain/core/valueobjects"
	"insightmap-backend/pkg/auth"
	"insightmap-backend/pkg/common"
	"insightmap-backend/pkg/utils"
)

// MapHandler handles affinity-map HTTP requests
type MapHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewMapHandler creates a new map handler
func NewMapHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *MapHandler {
	return &MapHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateMapRequest represents the request body for creating a map
type CreateMapRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CreateMapResponse represents the response for creating a map
type CreateMapResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// AddGroupRequest represents the request body for adding a group
type AddGroupRequest struct {
	Title string  `json:"title" validate:"required,min=1,max=200"`
	Color string  `json:"color" validate:"omitempty,max=32"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// MoveGroupRequest represents the request body for moving a group
type MoveGroupRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RenameGroupRequest represents the request body for renaming a group
type RenameGroupRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// AddInsightRequest represents the request body for placing an insight
// into a group
type AddInsightRequest struct {
	InsightID string `json:"insightId" validate:"required,uuid"`
}

// ReorderInsightsRequest represents the request body for reordering a
// group's insights
type ReorderInsightsRequest struct {
	InsightIDs []string `json:"insightIds" validate:"required"`
}

// GroupPayload is the wire shape of a group in a replace-all request
type GroupPayload struct {
	ID         string   `json:"id" validate:"required,uuid"`
	Title      string   `json:"title" validate:"required,min=1,max=200"`
	Color      string   `json:"color"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	InsightIDs []string `json:"insightIds"`
}

// ReplaceGroupsRequest represents the request body for replacing the
// whole group layout, used by undo and redo
type ReplaceGroupsRequest struct {
	Groups []GroupPayload `json:"groups"`
}

// CreateIndependentInsightRequest represents the request body for
// creating an insight directly on the canvas
type CreateIndependentInsightRequest struct {
	Text string  `json:"text" validate:"required,min=1,max=2000"`
	Type string  `json:"type" validate:"required,oneof=pain-point quote insight follow-up custom"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// CreateIndependentInsightResponse carries the generated ids back to
// the client
type CreateIndependentInsightResponse struct {
	InsightID string `json:"insightId"`
	GroupID   string `json:"groupId"`
}

// CreateMap handles POST /projects/{projectID}/maps
func (h *MapHandler) CreateMap(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if projectID == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Project ID is required")
		return
	}

	var req CreateMapRequest
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

	mapID := uuid.New().String()
	cmd := commands.CreateMapCommand{
		MapID:     mapID,
		ProjectID: projectID,
		Name:      req.Name,
		UserID:    userCtx.UserID,
		UserName:  userCtx.Name,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to create map",
			zap.String("projectID", projectID),
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreateMapResponse{
		ID:      mapID,
		Message: "Map created successfully",
	})
}

// ListMaps handles GET /projects/{projectID}/maps
func (h *MapHandler) ListMaps(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListMapsQuery{
		ProjectID: projectID,
		UserID:    userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetCurrentMap handles GET /projects/{projectID}/maps/current
func (h *MapHandler) GetCurrentMap(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetCurrentMapQuery{
		ProjectID: projectID,
		UserID:    userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetMap handles GET /maps/{mapID}
func (h *MapHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetMapQuery{
		MapID:  mapID,
		UserID: userCtx.UserID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// AddGroup handles POST /maps/{mapID}/groups
func (h *MapHandler) AddGroup(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	var req AddGroupRequest
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

	groupID := uuid.New().String()
	cmd := commands.AddGroupCommand{
		MapID:    mapID,
		GroupID:  groupID,
		Title:    req.Title,
		Color:    req.Color,
		X:        req.X,
		Y:        req.Y,
		UserID:   userCtx.UserID,
		UserName: userCtx.Name,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": groupID})
}

// MoveGroup handles PUT /maps/{mapID}/groups/{groupID}/position
func (h *MapHandler) MoveGroup(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	groupID := chi.URLParam(r, "groupID")

	var req MoveGroupRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.MoveGroupCommand{
		MapID:    mapID,
		GroupID:  groupID,
		X:        req.X,
		Y:        req.Y,
		UserID:   userCtx.UserID,
		UserName: userCtx.Name,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Group moved"})
}

// RenameGroup handles PUT /maps/{mapID}/groups/{groupID}/title
func (h *MapHandler) RenameGroup(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	groupID := chi.URLParam(r, "groupID")

	var req RenameGroupRequest
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

	cmd := commands.RenameGroupCommand{
		MapID:    mapID,
		GroupID:  groupID,
		Title:    req.Title,
		UserID:   userCtx.UserID,
		UserName: userCtx.Name,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Group renamed"})
}

// RemoveGroup handles DELETE /maps/{mapID}/groups/{groupID}
func (h *MapHandler) RemoveGroup(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	groupID := chi.URLParam(r, "groupID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.RemoveGroupCommand{
		MapID:    mapID,
		GroupID:  groupID,
		UserID:   userCtx.UserID,
		UserName: userCtx.Name,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Group removed"})
}

// AddInsightToGroup handles POST /maps/{mapID}/groups/{groupID}/insights
func (h *MapHandler) AddInsightToGroup(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	groupID := chi.URLParam(r, "groupID")

	var req AddInsightRequest
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

	cmd := commands.AddInsightToGroupCommand{
		MapID:     mapID,
		GroupID:   groupID,
		InsightID: req.InsightID,
		UserID:    userCtx.UserID,
		UserName:  userCtx.Name,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Insight placed"})
}

// RemoveInsightFromGroup handles DELETE /maps/{mapID}/groups/{groupID}/insights/{insightID}
func (h *MapHandler) RemoveInsightFromGroup(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	groupID := chi.URLParam(r, "groupID")
	insightID := chi.URLParam(r, "insightID")

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.RemoveInsightFromGroupCommand{
		MapID:     mapID,
		GroupID:   groupID,
		InsightID: insightID,
		UserID:    userCtx.UserID,
		UserName:  userCtx.Name,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Insight removed"})
}

// ReorderInsights handles PUT /maps/{mapID}/groups/{groupID}/insights/order
func (h *MapHandler) ReorderInsights(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	groupID := chi.URLParam(r, "groupID")

	var req ReorderInsightsRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.ReorderInsightsCommand{
		MapID:      mapID,
		GroupID:    groupID,
		InsightIDs: req.InsightIDs,
		UserID:     userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Insights reordered"})
}

// ReplaceGroups handles PUT /maps/{mapID}/groups
func (h *MapHandler) ReplaceGroups(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	var req ReplaceGroupsRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	groups := make([]aggregates.Group, 0, len(req.Groups))
	for _, g := range req.Groups {
		groupID, err := valueobjects.NewGroupIDFromString(g.ID)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid group ID format")
			return
		}
		insightIDs := g.InsightIDs
		if insightIDs == nil {
			insightIDs = []string{}
		}
		groups = append(groups, aggregates.Group{
			ID:         groupID,
			Title:      g.Title,
			Color:      g.Color,
			Position:   valueobjects.NewPosition(g.X, g.Y),
			InsightIDs: insightIDs,
		})
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	cmd := commands.ReplaceAllGroupsCommand{
		MapID:  mapID,
		Groups: groups,
		UserID: userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Groups replaced"})
}

// CreateIndependentInsight handles POST /maps/{mapID}/insights
func (h *MapHandler) CreateIndependentInsight(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")

	var req CreateIndependentInsightRequest
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

	insightID := uuid.New().String()
	groupID := uuid.New().String()
	cmd := commands.CreateIndependentInsightCommand{
		MapID:     mapID,
		InsightID: insightID,
		GroupID:   groupID,
		X:         req.X,
		Y:         req.Y,
		Text:      req.Text,
		Type:      req.Type,
		UserID:    userCtx.UserID,
		UserName:  userCtx.Name,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreateIndependentInsightResponse{
		InsightID: insightID,
		GroupID:   groupID,
	})
}
