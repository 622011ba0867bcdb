package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/isdelr/meetyou-web/internal/backend"
	"github.com/isdelr/meetyou-web/internal/models"
	"github.com/isdelr/meetyou-web/internal/notice"
	"github.com/isdelr/meetyou-web/internal/services"
	"github.com/isdelr/meetyou-web/internal/web"
	"github.com/rs/zerolog/log"
)

// Dialogs that can be opened with the "dialog" query parameter.
const (
	DialogAddUser      = "add-user"
	DialogEditUser     = "edit-user"
	DialogAddInterest  = "add-interest"
	DialogEditInterest = "edit-interest"
)

// createdParam names the user just added from the search page.
const createdParam = "created"

// PageHandler renders the profiles and search pages.
type PageHandler struct {
	users    services.UserServiceProvider
	renderer *web.Renderer
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(users services.UserServiceProvider, renderer *web.Renderer) *PageHandler {
	return &PageHandler{users: users, renderer: renderer}
}

// Index handles the profiles page.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, r.URL)
}

// Search handles the search page.
func (h *PageHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, r.URL)
}

func (h *PageHandler) serve(w http.ResponseWriter, r *http.Request, target *url.URL) {
	page, data := h.view(r.Context(), target)
	if n, ok := notice.FromContext(r.Context()); ok {
		data.Notice = &n
	}
	h.openDialog(r.Context(), &data, target.Query())
	h.renderer.Render(w, http.StatusOK, page, data)
}

// view loads the page target points at. Load failures are reported in the
// page rather than as an error status.
func (h *PageHandler) view(ctx context.Context, target *url.URL) (string, web.PageData) {
	q := target.Query()

	if target.Path == "/search" {
		data := web.PageData{
			Title:           "Search",
			Query:           strings.TrimSpace(q.Get("q")),
			Mode:            services.ParseSearchMode(q.Get("mode")),
			InlineInterests: true,
		}
		data.ReturnTo = searchPath(data.Query, data.Mode)

		users, err := h.users.Search(ctx, data.Query, data.Mode)
		if err != nil {
			log.Error().Err(err).Str("query", data.Query).Str("mode", data.Mode).Msg("Failed to search users")
			data.LoadError = errorText(err, "Search failed")
		}
		data.Users = users
		if id, ok := parseID(q.Get(createdParam)); ok && err == nil {
			data.Users = h.newestFirst(ctx, data.Users, id)
		}
		return web.PageSearch, data
	}

	data := web.PageData{Title: "Profiles", ReturnTo: "/"}
	users, err := h.users.ListUsers(ctx, q.Get("refresh") == "1")
	if err != nil {
		log.Error().Err(err).Msg("Failed to load users")
		data.LoadError = errorText(err, "Failed to load users")
	}
	data.Users = users
	return web.PageIndex, data
}

// newestFirst moves the user with the given ID to the front of the search
// results, adding it from the roster when the query did not match it.
func (h *PageHandler) newestFirst(ctx context.Context, users []models.User, id int64) []models.User {
	for i, u := range users {
		if u.ID == id {
			out := make([]models.User, 0, len(users))
			out = append(out, u)
			out = append(out, users[:i]...)
			return append(out, users[i+1:]...)
		}
	}
	user, err := h.users.GetUser(ctx, id)
	if err != nil {
		log.Debug().Err(err).Int64("user_id", id).Msg("New user not in the roster")
		return users
	}
	return append([]models.User{user}, users...)
}

// openDialog fills in the dialog requested by the query, if it can be opened.
func (h *PageHandler) openDialog(ctx context.Context, data *web.PageData, q url.Values) {
	switch q.Get("dialog") {
	case DialogAddUser:
		data.Dialog = DialogAddUser
		data.UserForm = &web.UserForm{}

	case DialogEditUser:
		id, err := strconv.ParseInt(q.Get("id"), 10, 64)
		if err != nil {
			return
		}
		user, err := h.users.GetUser(ctx, id)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", id).Msg("Cannot open edit dialog")
			data.LoadError = "User not found"
			return
		}
		data.Dialog = DialogEditUser
		data.UserForm = &web.UserForm{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Birth: models.NormalizeBirth(user.Birth),
		}

	case DialogAddInterest:
		data.Dialog = DialogAddInterest
		data.InterestForm = &web.InterestForm{}
		h.fillAllUsers(ctx, data)

	case DialogEditInterest:
		userID, err1 := strconv.ParseInt(q.Get("user"), 10, 64)
		interestID, err2 := strconv.ParseInt(q.Get("interest"), 10, 64)
		if err1 != nil || err2 != nil {
			return
		}
		user, err := h.users.GetUser(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("Cannot open interest dialog")
			data.LoadError = "User not found"
			return
		}
		for _, interest := range user.Interests {
			if interest.ID == interestID {
				data.Dialog = DialogEditInterest
				data.InterestEdit = &web.InterestEdit{
					UserID:     userID,
					InterestID: interestID,
					UserName:   user.Name,
					Name:       interest.InterestType,
				}
				return
			}
		}
	}
}

// fillAllUsers loads the user choices for the add interest dialog. On the
// profiles page they are the grid itself.
func (h *PageHandler) fillAllUsers(ctx context.Context, data *web.PageData) {
	if !data.InlineInterests {
		data.AllUsers = data.Users
		return
	}
	users, err := h.users.ListUsers(ctx, false)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load users for interest dialog")
	}
	data.AllUsers = users
}

// renderDialog re-renders the page a form came from with its dialog open,
// used when a submission fails.
func (h *PageHandler) renderDialog(w http.ResponseWriter, r *http.Request, returnTo string, fill func(data *web.PageData)) {
	target, err := url.Parse(returnTo)
	if err != nil {
		target = &url.URL{Path: "/"}
	}
	page, data := h.view(r.Context(), target)
	fill(&data)
	if data.Dialog == DialogAddInterest {
		h.fillAllUsers(r.Context(), &data)
	}
	h.renderer.Render(w, http.StatusUnprocessableEntity, page, data)
}

// withParam sets one query parameter on a local URL.
func withParam(target, key, value string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

func searchPath(query, mode string) string {
	if query == "" {
		return "/search"
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("mode", mode)
	return "/search?" + q.Encode()
}

// returnPath reads the "return" form field, accepting only local paths.
func returnPath(r *http.Request) string {
	return web.SafeReturn(r.FormValue("return"), "/")
}

// errorText picks the text shown for a failed action: the API's own message
// when it sent one, the validation problem, or fallback.
func errorText(err error, fallback string) string {
	if msg, ok := backend.ServerMessage(err); ok {
		return msg
	}
	if errors.Is(err, services.ErrInvalidInput) {
		text := strings.TrimPrefix(err.Error(), services.ErrInvalidInput.Error()+": ")
		return capitalize(text)
	}
	return fallback
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}
