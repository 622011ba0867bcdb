package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/meetyou-web/internal/notice"
	"github.com/isdelr/meetyou-web/internal/services"
	"github.com/isdelr/meetyou-web/internal/web"
	"github.com/rs/zerolog/log"
)

// InterestHandler handles the interest form submissions.
type InterestHandler struct {
	service services.InterestServiceProvider
	pages   *PageHandler
	notices *notice.Manager
}

// NewInterestHandler creates a new InterestHandler.
func NewInterestHandler(service services.InterestServiceProvider, pages *PageHandler, notices *notice.Manager) *InterestHandler {
	return &InterestHandler{service: service, pages: pages, notices: notices}
}

// Add handles the add interest dialog.
func (h *InterestHandler) Add(w http.ResponseWriter, r *http.Request) {
	returnTo := returnPath(r)
	name := strings.TrimSpace(r.FormValue("name"))
	userID, _ := parseID(r.FormValue("user_id"))

	if err := h.service.AddInterest(r.Context(), userID, name); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Str("interest", name).Msg("Failed to add interest")
		h.pages.renderDialog(w, r, returnTo, func(data *web.PageData) {
			data.Dialog = DialogAddInterest
			data.InterestForm = &web.InterestForm{
				UserID: userID,
				Name:   name,
				Error:  errorText(err, "Failed to add interest"),
			}
		})
		return
	}

	h.notices.Success(w, "Interest added")
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// Update handles the inline interest rename.
func (h *InterestHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	interestID, ok := parseID(chi.URLParam(r, "interestId"))
	if !ok {
		http.Error(w, "Invalid interest ID", http.StatusBadRequest)
		return
	}
	returnTo := returnPath(r)

	if err := h.service.UpdateInterest(r.Context(), userID, interestID, r.FormValue("name")); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Int64("interest_id", interestID).Msg("Failed to update interest")
		h.notices.Error(w, errorText(err, "Failed to update interest"))
	} else {
		h.notices.Success(w, "Interest updated")
	}
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// Remove handles the inline interest delete button.
func (h *InterestHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	returnTo := returnPath(r)
	name := r.FormValue("name")

	if err := h.service.RemoveInterest(r.Context(), userID, name); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Str("interest", name).Msg("Failed to remove interest")
		h.notices.Error(w, errorText(err, "Failed to delete interest"))
	} else {
		h.notices.Success(w, "Interest deleted")
	}
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}
