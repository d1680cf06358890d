package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrImageUpload is returned for every image hosting failure the caller
	// should see as "upload failed".
	ErrImageUpload = errors.New("image upload failed")
	// ErrImageHostNotConfigured is wrapped together with ErrImageUpload when
	// no provider credentials are present.
	ErrImageHostNotConfigured = errors.New("image host not configured")
)

// ValidationError is a request that was refused before any network call.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string { return e.Reason }

// PlatformError carries a structured error reported by a remote platform and
// the HTTP status it answered with.
type PlatformError struct {
	Platform   string
	StatusCode int
	Message    string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Platform, e.StatusCode, e.Message)
}

// ProcessingError means a media container ended in a non-publishable state.
type ProcessingError struct {
	ContainerID string
	Status      string
	Attempts    int
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("container %s not ready after %d checks: status %s", e.ContainerID, e.Attempts, e.Status)
}

// MissingConfigError is returned when a provider's credentials are absent.
type MissingConfigError struct {
	Provider  string
	Variables []string
}

func (e MissingConfigError) Error() string {
	if len(e.Variables) == 0 {
		return fmt.Sprintf("%s credentials not configured", e.Provider)
	}
	return fmt.Sprintf("%s credentials not configured (missing %s)", e.Provider, strings.Join(e.Variables, ", "))
}

func uploadError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrImageUpload, fmt.Sprintf(format, args...))
}
