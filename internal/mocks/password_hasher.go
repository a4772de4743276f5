package mocks

import (
	"errors"
	"strings"
	"sync"
)

// hashPrefix marks values produced by MockPasswordHasher.Hash.
const hashPrefix = "hashed:"

// ErrPasswordMismatch is returned by MockPasswordHasher.Compare by default.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordHasher implements auth.PasswordHasher for testing without
// bcrypt's cost. Hash prefixes the password; Compare checks the prefix form.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	mu sync.Mutex
	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return hashPrefix + password, nil
}

// Compare implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.CompareCallCount++
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if strings.TrimPrefix(hashedPassword, hashPrefix) == password &&
		strings.HasPrefix(hashedPassword, hashPrefix) {
		return nil
	}
	return ErrPasswordMismatch
}

// Calls returns CompareCallCount under the lock.
func (m *MockPasswordHasher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CompareCallCount
}
