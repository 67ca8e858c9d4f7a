package handler

import (
	"net/http"

	"github.com/mtlprog/internfinder/internal/handler/dto"
)

// handleState returns the session's view-model as JSON.
//
// @Summary Get session state
// @Description Returns the selection, submission status and displayed results
// @Tags session
// @Produce json
// @Success 200 {object} dto.StateResponse
// @Router /api/v1/state [get]
func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, dto.NewStateResponse(
		sess.Selection.State(),
		string(sess.Submission.Status()),
		sess.Results(),
	))
}

// handleCatalog returns the skill catalog.
//
// @Summary Get skill catalog
// @Description Returns the default tags and every education field with its skills
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.CatalogResponse
// @Router /api/v1/catalog [get]
func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.NewCatalogResponse(h.catalog))
}
