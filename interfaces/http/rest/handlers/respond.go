package handlers

import (
	"net/http"
	"strings"

	"insightmap-backend/pkg/common"
	pkgerrors "insightmap-backend/pkg/errors"
)

// Request bodies above this size are rejected before decoding
const maxBodyBytes = 1 << 20

// respondAppError maps an application error onto the HTTP response.
// Bus-level validation failures arrive as plain wrapped errors, so
// they are sniffed separately before falling back to the error
// taxonomy.
func respondAppError(w http.ResponseWriter, err error) {
	if strings.Contains(err.Error(), "validation failed") {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), err.Error())
		return
	}

	appErr := pkgerrors.GetAppError(err)
	common.RespondError(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message)
}
