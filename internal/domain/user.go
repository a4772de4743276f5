package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPasswordLength is bcrypt's input limit.
const MaxPasswordLength = 72

// emailPattern is the address shape accepted for users and assignees.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// User represents a registered user of the task tracker.
// It contains identity information and the hashed credential.
type User struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"createdAt"`
}

// NewUser creates a new User from signup input. Names are trimmed and the
// email is normalized. The caller supplies the already hashed password;
// plaintext secrets never reach the entity.
func NewUser(firstName, lastName, email, hashedPassword string) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		FirstName:      strings.TrimSpace(firstName),
		LastName:       strings.TrimSpace(lastName),
		Email:          NormalizeEmail(email),
		HashedPassword: hashedPassword,
		CreatedAt:      Now(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	var missing []string
	if u.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if u.LastName == "" {
		missing = append(missing, "lastName")
	}
	if u.Email == "" {
		missing = append(missing, "email")
	}
	if u.HashedPassword == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return NewMissingFieldsError(missing...)
	}

	if !ValidEmail(u.Email) {
		return NewValidationError("email", "must be a valid email address", ErrInvalidEmail)
	}

	return nil
}

// ValidateSignup checks raw signup input before the password is hashed.
// Missing fields are reported together, in form order. Passwords are not
// trimmed.
func ValidateSignup(firstName, lastName, email, password string) error {
	var missing []string
	if strings.TrimSpace(firstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(lastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return NewMissingFieldsError(missing...)
	}

	if !ValidEmail(NormalizeEmail(email)) {
		return NewValidationError("email", "must be a valid email address", ErrInvalidEmail)
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError(
			"password",
			fmt.Sprintf("must be at most %d bytes", MaxPasswordLength),
			ErrInvalidPassword,
		)
	}

	return nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the address has an acceptable shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
