package state

import (
	"github.com/five82/roster/internal/users"
)

// Placeholder is the record inserted optimistically by Create.
var Placeholder = users.User{ID: 0, Name: "Amanuel", Email: "amanuel@gmail.com"}

// Snapshot represents the state the UI renders.
type Snapshot struct {
	Users   []users.User
	Error   string
	Loading bool
	Editing bool
	EditID  int
	Draft   string
}

// Checkpoint is the list as it was before an optimistic mutation.
type Checkpoint struct {
	users []users.User
}

// Store holds the local cache of the remote collection together with the
// edit, error and loading state. It is owned by the UI event loop and is not
// safe for concurrent use.
type Store struct {
	snapshot Snapshot
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	snap := s.snapshot
	snap.Users = cloneUsers(s.snapshot.Users)
	return snap
}

// Users returns a copy of the current list.
func (s *Store) Users() []users.User {
	return cloneUsers(s.snapshot.Users)
}

// BeginLoad marks a list fetch as in flight.
func (s *Store) BeginLoad() {
	s.snapshot.Loading = true
	s.snapshot.Error = ""
}

// FinishLoad applies the outcome of a list fetch. A canceled fetch leaves the
// state untouched.
func (s *Store) FinishLoad(list []users.User, err error) {
	if err != nil {
		if users.IsCanceled(err) {
			return
		}
		s.snapshot.Error = err.Error()
		s.snapshot.Loading = false
		return
	}
	s.snapshot.Users = cloneUsers(list)
	s.snapshot.Loading = false
}

// Create prepends the placeholder record and returns it with the checkpoint
// to restore if the request fails.
func (s *Store) Create() (users.User, Checkpoint) {
	cp := s.checkpoint()
	next := make([]users.User, 0, len(s.snapshot.Users)+1)
	next = append(next, Placeholder)
	next = append(next, s.snapshot.Users...)
	s.snapshot.Users = next
	return Placeholder, cp
}

// CreateSucceeded records the server's copy of a created user. Without
// reconcile the saved record is prepended and the placeholder stays in the
// list; with reconcile it takes the placeholder's slot.
func (s *Store) CreateSucceeded(saved users.User, reconcile bool) {
	if reconcile {
		for i, u := range s.snapshot.Users {
			if u == Placeholder {
				s.snapshot.Users[i] = saved
				return
			}
		}
	}
	next := make([]users.User, 0, len(s.snapshot.Users)+1)
	next = append(next, saved)
	next = append(next, s.snapshot.Users...)
	s.snapshot.Users = next
}

// Delete removes every record with id and returns the checkpoint.
func (s *Store) Delete(id int) Checkpoint {
	cp := s.checkpoint()
	next := make([]users.User, 0, len(s.snapshot.Users))
	for _, u := range s.snapshot.Users {
		if u.ID != id {
			next = append(next, u)
		}
	}
	s.snapshot.Users = next
	return cp
}

// BeginEdit puts the record with id into edit mode, seeding the draft from its
// name. It reports false when no such record exists.
func (s *Store) BeginEdit(id int) bool {
	u, ok := s.find(id)
	if !ok {
		return false
	}
	s.snapshot.Editing = true
	s.snapshot.EditID = id
	s.snapshot.Draft = u.Name
	return true
}

// SetDraft replaces the draft name while editing.
func (s *Store) SetDraft(name string) {
	if !s.snapshot.Editing {
		return
	}
	s.snapshot.Draft = name
}

// ConfirmEdit merges the draft into the edited record, applies it locally and
// leaves edit mode. ok is false when nothing was being edited or the record
// is gone, in which case the list is unchanged.
func (s *Store) ConfirmEdit() (updated users.User, cp Checkpoint, ok bool) {
	if !s.snapshot.Editing {
		return users.User{}, Checkpoint{}, false
	}
	id, draft := s.snapshot.EditID, s.snapshot.Draft
	s.exitEdit()

	target, found := s.find(id)
	if !found {
		return users.User{}, Checkpoint{}, false
	}
	cp = s.checkpoint()
	updated = target
	updated.Name = draft

	next := make([]users.User, len(s.snapshot.Users))
	for i, u := range s.snapshot.Users {
		if u.ID == id {
			u = updated
		}
		next[i] = u
	}
	s.snapshot.Users = next
	return updated, cp, true
}

// CancelEdit leaves edit mode without touching the list.
func (s *Store) CancelEdit() {
	s.exitEdit()
}

// Fail rolls the list back to cp and surfaces err. Canceled requests are
// ignored.
func (s *Store) Fail(cp Checkpoint, err error) {
	if err == nil || users.IsCanceled(err) {
		return
	}
	s.snapshot.Users = cloneUsers(cp.users)
	s.snapshot.Error = err.Error()
}

// ClearError dismisses the current error message.
func (s *Store) ClearError() {
	s.snapshot.Error = ""
}

func (s *Store) exitEdit() {
	s.snapshot.Editing = false
	s.snapshot.EditID = 0
	s.snapshot.Draft = ""
}

func (s *Store) find(id int) (users.User, bool) {
	for _, u := range s.snapshot.Users {
		if u.ID == id {
			return u, true
		}
	}
	return users.User{}, false
}

func (s *Store) checkpoint() Checkpoint {
	return Checkpoint{users: cloneUsers(s.snapshot.Users)}
}

func cloneUsers(list []users.User) []users.User {
	if len(list) == 0 {
		return nil
	}
	dup := make([]users.User, len(list))
	copy(dup, list)
	return dup
}
