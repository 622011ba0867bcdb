package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/isdelr/meetyou-web/internal/models"
)

// PageData is the view model shared by both pages and their dialogs.
type PageData struct {
	Title  string
	Notice *models.Notice

	Users     []models.User
	AllUsers  []models.User // Choices for the add interest dialog
	LoadError string

	// Search page state.
	Query           string
	Mode            string
	InlineInterests bool // Interest edit/delete buttons on cards

	// ReturnTo is the page's own URL without dialog parameters. Forms post
	// it back so the redirect lands where the dialog was opened.
	ReturnTo string

	Dialog       string
	UserForm     *UserForm
	InterestForm *InterestForm
	InterestEdit *InterestEdit
}

// UserForm backs the add and edit user dialogs. ID is zero when adding.
type UserForm struct {
	ID    int64
	Name  string
	Email string
	Birth string
	Error string
}

// InterestForm backs the add interest dialog.
type InterestForm struct {
	UserID int64
	Name   string
	Error  string
}

// InterestEdit backs the inline interest rename dialog.
type InterestEdit struct {
	UserID     int64
	InterestID int64
	UserName   string
	Name       string
}

// DialogURL returns the current page with the named dialog open.
func (p PageData) DialogURL(dialog string, extra ...string) string {
	q := url.Values{}
	q.Set("dialog", dialog)
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	return withQuery(p.ReturnTo, q)
}

// EditUserURL opens the edit dialog for a user.
func (p PageData) EditUserURL(id int64) string {
	return p.DialogURL("edit-user", "id", strconv.FormatInt(id, 10))
}

// EditInterestURL opens the rename dialog for one of a user's interests.
func (p PageData) EditInterestURL(userID, interestID int64) string {
	return p.DialogURL("edit-interest",
		"user", strconv.FormatInt(userID, 10),
		"interest", strconv.FormatInt(interestID, 10),
	)
}

func withQuery(base string, q url.Values) string {
	if base == "" {
		base = "/"
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}

// SafeReturn accepts only local absolute paths, falling back otherwise.
func SafeReturn(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}
