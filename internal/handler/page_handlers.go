package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mtlprog/internfinder/internal/config"
	"github.com/mtlprog/internfinder/internal/domain"
	"github.com/mtlprog/internfinder/internal/handler/dto"
	"github.com/mtlprog/internfinder/internal/middleware"
	"github.com/mtlprog/internfinder/internal/repository"
	"github.com/mtlprog/internfinder/internal/selection"
)

// handleIndex renders the page for the visitor's session.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	page := h.renderer.NewPage(sess.Selection.State())
	page.Location, page.Stipend = sess.FormValues()
	page.Notices = sess.TakeNotices()
	page.Results = sess.Results()
	page.Apply = sess.TakePlan()
	page.Busy = sess.Submission.Status().Busy()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, page); err != nil {
		slog.Error("failed to render page", "error", err, "session_id", sess.ID.String())
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// handleEducation switches the tag set to the chosen field's skills.
func (h *Handler) handleEducation(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	field := strings.TrimSpace(r.FormValue("education"))
	change, ok := sess.Selection.SetEducationField(field)
	if !ok {
		slog.Info("unknown education field", "session_id", sess.ID.String(), "education", field)
		h.fail(w, r, sess, domain.ErrUnknownEducationField)
		return
	}

	slog.Info("education field changed",
		"session_id", sess.ID.String(),
		"education", change.State.Field,
		"skills_count", len(change.State.Tags),
	)
	if change.Notice != nil {
		sess.AddNotice(*change.Notice)
	}
	h.respondChange(w, r, sess, change)
}

// handleToggleSkill flips one tag.
func (h *Handler) handleToggleSkill(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	change := sess.Selection.Toggle(r.FormValue("skill"))
	if change.ClearError {
		sess.DropErrorNotices()
	}
	slog.Debug("skill toggled", "session_id", sess.ID.String(), "skills_count", len(change.State.Selected))
	h.respondChange(w, r, sess, change)
}

// handleRemoveSkill drops one skill from the selection summary.
func (h *Handler) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	change := sess.Selection.Remove(r.FormValue("skill"))
	slog.Debug("skill removed", "session_id", sess.ID.String(), "skills_count", len(change.State.Selected))
	h.respondChange(w, r, sess, change)
}

// handleSubmit runs the submission flow for the session.
//
// @Summary Submit the recommendation form
// @Description Validates the form and requests recommendations. Skills default to the session selection.
// @Tags session
// @Accept json
// @Produce json
// @Param request body dto.SubmitRequest true "Form payload"
// @Success 200 {object} dto.RecommendationsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /submit [post]
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var input domain.FormInput
	if isJSONBody(r) {
		var req dto.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}
		input = req.FormInput(sess.Selection.Selected())
	} else {
		if err := r.ParseForm(); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid form body")
			return
		}
		input = h.renderer.Schema().Bind(r.PostForm, sess.Selection.Selected())
	}

	result, err := sess.Submission.Submit(r.Context(), input)
	if !errors.Is(err, domain.ErrSubmissionInFlight) {
		sess.SetFormValues(input.LocationPreference, domain.ParseStipend(input.Stipend))
	}
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			slog.Warn("submission rate limited", "session_id", sess.ID.String())
		}
		h.fail(w, r, sess, err)
		return
	}

	sess.SetResults(result.Recommendations)
	slog.Info("recommendations displayed",
		"session_id", sess.ID.String(),
		"count", len(result.Recommendations),
	)

	if wantsJSON(r) {
		respondJSON(w, http.StatusOK, dto.RecommendationsResponse{
			Success:         true,
			Message:         result.Message,
			Count:           len(result.Recommendations),
			Recommendations: result.Recommendations,
		})
		return
	}
	redirectHome(w, r, "results")
}

// handleApply builds the apply plan for one recommendation.
//
// @Summary Plan an application
// @Description Builds the notices, delays and pages to open for one internship
// @Tags apply
// @Accept json
// @Produce json
// @Param request body dto.ApplyRequest true "Internship to apply for"
// @Success 200 {object} dto.ApplyPlanResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /apply [post]
func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if isJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}
	} else {
		req.Title = r.FormValue("title")
		req.Company = r.FormValue("company")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Company = strings.TrimSpace(req.Company)

	if req.Title == "" || req.Company == "" {
		h.fail(w, r, sess, domain.ErrMissingApplyTarget)
		return
	}

	plan := h.planner.Plan(req.Title, req.Company)
	slog.Info("apply planned",
		"session_id", sess.ID.String(),
		"company", plan.Company,
		"company_url", plan.CompanyURL,
		"known_company", plan.KnownCompany,
	)

	if wantsJSON(r) {
		respondJSON(w, http.StatusOK, dto.NewApplyPlanResponse(plan))
		return
	}
	sess.SetPlan(&plan)
	redirectHome(w, r, "apply-plan")
}

// session returns the request's session or writes an error.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*repository.Session, bool) {
	sess, err := middleware.GetSessionFromContext(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return nil, false
	}
	return sess, true
}

// respondChange answers a selection mutation.
func (h *Handler) respondChange(w http.ResponseWriter, r *http.Request, sess *repository.Session, change selection.Change) {
	if wantsJSON(r) {
		respondJSON(w, http.StatusOK, dto.NewStateResponse(change.State, string(sess.Submission.Status()), sess.Results()))
		return
	}
	redirectHome(w, r, "")
}

// fail reports err as JSON or as a dismissible error notice on the page.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, sess *repository.Session, err error) {
	if wantsJSON(r) {
		respondDomainError(w, err)
		return
	}

	title := domain.UserMessage(err)
	if errors.Is(err, domain.ErrMissingApplyTarget) {
		title = "Please choose an internship to apply for"
	}
	sess.AddNotice(domain.Notice{
		Level:       domain.NoticeError,
		Title:       title,
		Dismissible: true,
		TTL:         config.ErrorNoticeTTL,
	})
	redirectHome(w, r, "")
}
