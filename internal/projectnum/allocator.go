// Package projectnum allocates the human-readable project numbers used as
// the external filing key for report folders (e.g. MAK-2025-0412).
package projectnum

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"fieldops-api/internal/models"

	"gorm.io/gorm"
)

// NumberPrefix is the firm's filing prefix on every generated number.
const NumberPrefix = "MAK"

// maxAttempts bounds the collision-retry loop. The 10,000-value suffix space
// makes exhaustion operationally negligible, but the loop must still
// terminate under pathological conditions.
const maxAttempts = 50

// forbiddenChars are unsafe in the filesystem paths derived from project
// numbers downstream (report folder naming).
const forbiddenChars = `\/:*?"<>|`

var (
	// ErrAllocationExhausted means the retry cap was hit without finding a
	// free number. Transient: safe to retry the whole operation later.
	ErrAllocationExhausted = errors.New("project number allocation exhausted")

	// ErrEmptyCandidate rejects a blank admin-supplied candidate.
	ErrEmptyCandidate = errors.New("project number must not be empty")

	// ErrForbiddenCharacter rejects an admin-supplied candidate containing
	// a character unsafe for report folder paths.
	ErrForbiddenCharacter = errors.New(`project number must not contain \ / : * ? " < > |`)

	// ErrNumberInUse rejects an admin-supplied candidate already assigned
	// to another project.
	ErrNumberInUse = errors.New("project number is already in use")
)

// Indirections for test stubbing: tests shrink the suffix space to force
// collisions and pin the year.
var (
	randomSuffix = func() int { return rand.Intn(10000) }
	currentYear  = func() int { return time.Now().Year() }
)

// ValidateCandidate checks an admin-supplied project number before any
// allocation attempt.
func ValidateCandidate(candidate string) error {
	if strings.TrimSpace(candidate) == "" {
		return ErrEmptyCandidate
	}
	if strings.ContainsAny(candidate, forbiddenChars) {
		return ErrForbiddenCharacter
	}
	return nil
}

// Allocate generates a project number guaranteed unique against the given
// store at the moment of the check. Callers must run it inside the same
// transaction as the project insert; the unique index on project_number is
// the backstop against the check-then-insert race.
func Allocate(db *gorm.DB) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d-%04d", NumberPrefix, currentYear(), randomSuffix())
		taken, err := numberExists(db, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrAllocationExhausted
}

// Claim validates an admin-supplied candidate and checks it is free.
// Same transactional caveat as Allocate.
func Claim(db *gorm.DB, candidate string) error {
	if err := ValidateCandidate(candidate); err != nil {
		return err
	}
	taken, err := numberExists(db, candidate)
	if err != nil {
		return err
	}
	if taken {
		return ErrNumberInUse
	}
	return nil
}

func numberExists(db *gorm.DB, number string) (bool, error) {
	var count int64
	err := db.Model(&models.Project{}).
		Where("project_number = ?", number).
		Count(&count).Error
	return count > 0, err
}
