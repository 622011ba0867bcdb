package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/meetyou-web/internal/models"
	"github.com/isdelr/meetyou-web/internal/notice"
	"github.com/isdelr/meetyou-web/internal/services"
	"github.com/isdelr/meetyou-web/internal/web"
	"github.com/rs/zerolog/log"
)

// UserHandler handles the user form submissions.
type UserHandler struct {
	service services.UserServiceProvider
	pages   *PageHandler
	notices *notice.Manager
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, pages *PageHandler, notices *notice.Manager) *UserHandler {
	return &UserHandler{service: service, pages: pages, notices: notices}
}

// Create handles the add user form.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	returnTo := returnPath(r)
	in := models.NewUserInput(r.FormValue("name"), r.FormValue("email"), r.FormValue("birth"))

	user, err := h.service.CreateUser(r.Context(), in)
	if err != nil {
		log.Error().Err(err).Str("email", in.Email).Msg("Failed to create user")
		h.pages.renderDialog(w, r, returnTo, func(data *web.PageData) {
			data.Dialog = DialogAddUser
			data.UserForm = formFromInput(0, in, errorText(err, "Failed to add user"))
		})
		return
	}

	// The search page shows the new user first; the shared roster keeps
	// the API's order.
	if strings.HasPrefix(returnTo, "/search") {
		returnTo = withParam(returnTo, createdParam, strconv.FormatInt(user.ID, 10))
	}

	h.notices.Success(w, "User "+user.Name+" added")
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// Update handles the edit user form.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	returnTo := returnPath(r)
	in := models.NewUserInput(r.FormValue("name"), r.FormValue("email"), r.FormValue("birth"))

	user, err := h.service.UpdateUser(r.Context(), id, in)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to update user")
		h.pages.renderDialog(w, r, returnTo, func(data *web.PageData) {
			data.Dialog = DialogEditUser
			data.UserForm = formFromInput(id, in, errorText(err, "Failed to update user"))
		})
		return
	}

	h.notices.Success(w, "User "+user.Name+" updated")
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// Delete handles the delete button on a user card.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	returnTo := returnPath(r)

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to delete user")
		h.notices.Error(w, errorText(err, "Failed to delete user"))
	} else {
		h.notices.Success(w, "User deleted")
	}
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

func formFromInput(id int64, in models.UserInput, errText string) *web.UserForm {
	form := &web.UserForm{ID: id, Name: in.Name, Email: in.Email, Error: errText}
	if in.Birth != nil {
		form.Birth = *in.Birth
	}
	return form
}
