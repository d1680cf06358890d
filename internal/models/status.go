package models

import "strings"

// ContainerStatus is the processing state of a media container as reported by
// the Graph API `status_code` field.
type ContainerStatus string

const (
	StatusInProgress ContainerStatus = "IN_PROGRESS"
	StatusFinished   ContainerStatus = "FINISHED"
	StatusError      ContainerStatus = "ERROR"
	StatusUnknown    ContainerStatus = "UNKNOWN"
)

// ParseContainerStatus normalizes a raw status_code. An empty value maps to
// UNKNOWN; values the platform adds later (EXPIRED, PUBLISHED) are kept.
func ParseContainerStatus(raw string) ContainerStatus {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return StatusUnknown
	}
	return ContainerStatus(raw)
}

// Terminal reports whether polling stops at this status.
func (s ContainerStatus) Terminal() bool {
	return s != StatusInProgress
}

// Publishable reports whether a container in this status may be published.
func (s ContainerStatus) Publishable() bool {
	return s == StatusFinished
}

// Transition returns the state after observing a status check. A failed
// check (ok == false) is terminal with UNKNOWN.
func (s ContainerStatus) Transition(observed ContainerStatus, ok bool) ContainerStatus {
	if s.Terminal() {
		return s
	}
	if !ok {
		return StatusUnknown
	}
	return observed
}

func (s ContainerStatus) String() string { return string(s) }
