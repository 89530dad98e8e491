package docstore

import "go.uber.org/zap"

// FindUser returns a copy of the user stored under username. Absence is
// reported through the bool, not as an error.
func (s *Store) FindUser(username string) (User, bool, error) {
	var (
		out   User
		found bool
	)

	err := s.read("find", collUsers, func(d *document) {
		var u User
		if u, found = d.users.get(username); found {
			out = u.Clone()
		}
	})

	return out, found, err
}

// AddUserIfAbsent inserts u unless the username is taken. It returns true
// if u was inserted and persisted, false if a user already existed; in that
// case nothing is written and the stored password is unchanged.
//
// The password is stored as given. Hash it before calling.
func (s *Store) AddUserIfAbsent(u User) (bool, error) {
	if err := s.checkLoaded("add", collUsers); err != nil {
		return false, err
	}

	if u.Username == "" {
		return false, &Error{Op: "add", Collection: collUsers, Err: ErrEmptyKey}
	}

	if err := validateRecord("add", collUsers, u.Username, u); err != nil {
		return false, err
	}

	var added bool

	err := s.write("add", collUsers, u.Username, func(d *document) bool {
		if d.users.has(u.Username) {
			return false
		}

		d.users.put(u.Username, u.Clone())
		added = true

		s.log.Debug("user added", zap.String("username", u.Username))

		return true
	})

	return added, err
}
