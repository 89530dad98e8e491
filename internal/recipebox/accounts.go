package recipebox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/calvinalkan/recipebox/pkg/docstore"
)

// UserStore is the part of [docstore.Store] that accounts need.
type UserStore interface {
	FindUser(username string) (docstore.User, bool, error)
	AddUserIfAbsent(user docstore.User) (bool, error)
}

// Accounts registers and authenticates users. Passwords are hashed with
// bcrypt before they reach the store; the store only sees the hash.
type Accounts struct {
	Users UserStore

	// Cost is the bcrypt cost. Zero means bcrypt.DefaultCost.
	Cost int
}

// Register creates a user. It fails with [ErrUserExists] if the username
// is taken; the stored password is left unchanged in that case.
func (a Accounts) Register(username, password string) error {
	if err := validateAccount(username, password); err != nil {
		return err
	}

	hash, err := a.hash(password)
	if err != nil {
		return err
	}

	added, err := a.Users.AddUserIfAbsent(docstore.User{Username: username, Password: hash})
	if err != nil {
		return err
	}

	if !added {
		return fmt.Errorf("%w: %s", ErrUserExists, username)
	}

	return nil
}

// Authenticate returns the stored user if password matches its hash.
// An unknown user and a wrong password both yield [ErrInvalidCredentials].
func (a Accounts) Authenticate(username, password string) (docstore.User, error) {
	user, ok, err := a.Users.FindUser(username)
	if err != nil {
		return docstore.User{}, err
	}

	if !ok {
		return docstore.User{}, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return docstore.User{}, ErrInvalidCredentials
		}

		return docstore.User{}, fmt.Errorf("verify password for %s: %w", username, err)
	}

	return user, nil
}

func (a Accounts) hash(password string) (string, error) {
	cost := a.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}
