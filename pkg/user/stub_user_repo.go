package user

import (
	"context"
	"strconv"
	"time"
)

// RepoStub is an in-memory Repo used by service tests.
type RepoStub struct {
	nextID  int
	users   map[string]User
	hashes  map[string]string
	tokens  map[string]string // reset token -> user id
	expiry  map[string]time.Time
	byEmail map[string]string
}

func NewRepoStub() *RepoStub {
	return &RepoStub{
		users:   map[string]User{},
		hashes:  map[string]string{},
		tokens:  map[string]string{},
		expiry:  map[string]time.Time{},
		byEmail: map[string]string{},
	}
}

func (s *RepoStub) Cleanup() {
	s.nextID = 0
	s.users = map[string]User{}
	s.hashes = map[string]string{}
	s.tokens = map[string]string{}
	s.expiry = map[string]time.Time{}
	s.byEmail = map[string]string{}
}

func (s *RepoStub) Create(ctx context.Context, email, passwordHash, firstName, lastName string) (User, error) {
	if _, taken := s.byEmail[email]; taken {
		return User{}, ErrEmailTaken
	}
	s.nextID++
	u := User{
		ID:        "user-" + strconv.Itoa(s.nextID),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now(),
	}
	s.users[u.ID] = u
	s.hashes[u.ID] = passwordHash
	s.byEmail[email] = u.ID
	return u, nil
}

func (s *RepoStub) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *RepoStub) GetByEmail(ctx context.Context, email string) (User, string, error) {
	id, ok := s.byEmail[email]
	if !ok {
		return User{}, "", ErrUserNotFound
	}
	return s.users[id], s.hashes[id], nil
}

func (s *RepoStub) UpdateProfile(ctx context.Context, id, firstName, lastName string) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	s.users[id] = u
	return u, nil
}

func (s *RepoStub) SetResetToken(ctx context.Context, email, token string, expiry time.Time) (bool, error) {
	id, ok := s.byEmail[email]
	if !ok {
		return false, nil
	}
	s.tokens[token] = id
	s.expiry[token] = expiry
	return true, nil
}

func (s *RepoStub) ResetPassword(ctx context.Context, token, passwordHash string) (bool, error) {
	id, ok := s.tokens[token]
	if !ok || time.Now().After(s.expiry[token]) {
		return false, nil
	}
	s.hashes[id] = passwordHash
	delete(s.tokens, token)
	delete(s.expiry, token)
	return true, nil
}
