// Package roster holds the web client's copy of the user list.
package roster

import (
	"reflect"
	"sync"

	"github.com/isdelr/meetyou-web/internal/models"
)

// Roster is the locally cached list of users. It is safe for concurrent use.
type Roster struct {
	mu       sync.RWMutex
	users    []models.User
	loaded   bool
	revision uint64
	onChange func(revision uint64)
}

// New creates an empty, not yet loaded Roster. onChange, when non-nil, is
// called after every modification outside the lock.
func New(onChange func(revision uint64)) *Roster {
	return &Roster{onChange: onChange}
}

// Snapshot returns a copy of the users and whether the roster was loaded.
func (r *Roster) Snapshot() ([]models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.User, len(r.users))
	copy(out, r.users)
	return out, r.loaded
}

// Revision returns the number of modifications applied so far.
func (r *Roster) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// Find looks a user up by ID.
func (r *Roster) Find(id int64) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.users[i], true
	}
	return models.User{}, false
}

// Reset replaces the whole list, typically after a refetch. A list equal
// to the current one leaves the revision alone.
func (r *Roster) Reset(users []models.User) {
	r.mutate(func() bool {
		if r.loaded && sameUsers(r.users, users) {
			return false
		}
		r.users = append([]models.User(nil), users...)
		r.loaded = true
		return true
	})
}

// Add appends a user. A user already present with the same ID is replaced
// in place so the list holds it exactly once.
func (r *Roster) Add(user models.User) {
	r.mutate(func() bool {
		if i := r.indexOf(user.ID); i >= 0 {
			if reflect.DeepEqual(r.users[i], user) {
				return false
			}
			r.users[i] = user
			return true
		}
		r.users = append(r.users, user)
		return true
	})
}

// Replace swaps the record with the same ID. It reports false, and changes
// nothing, when the user is not in the roster.
func (r *Roster) Replace(user models.User) bool {
	replaced := false
	r.mutate(func() bool {
		i := r.indexOf(user.ID)
		if i < 0 {
			return false
		}
		replaced = true
		if reflect.DeepEqual(r.users[i], user) {
			return false
		}
		r.users[i] = user
		return true
	})
	return replaced
}

// Remove drops the user with the given ID.
func (r *Roster) Remove(id int64) {
	r.mutate(func() bool {
		i := r.indexOf(id)
		if i < 0 {
			return false
		}
		r.users = append(r.users[:i], r.users[i+1:]...)
		return true
	})
}

// mutate runs fn under the write lock. Only when fn reports a change is the
// revision bumped and onChange called.
func (r *Roster) mutate(fn func() bool) {
	r.mu.Lock()
	if !fn() {
		r.mu.Unlock()
		return
	}
	r.revision++
	rev := r.revision
	r.mu.Unlock()

	if r.onChange != nil {
		r.onChange(rev)
	}
}

func sameUsers(a, b []models.User) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// indexOf must be called with the lock held.
func (r *Roster) indexOf(id int64) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
