package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContainerStatus(t *testing.T) {
	assert.Equal(t, StatusFinished, ParseContainerStatus("FINISHED"))
	assert.Equal(t, StatusInProgress, ParseContainerStatus(" in_progress "))
	assert.Equal(t, StatusUnknown, ParseContainerStatus(""))
	assert.Equal(t, ContainerStatus("EXPIRED"), ParseContainerStatus("EXPIRED"))
}

func TestContainerStatusTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     ContainerStatus
		observed ContainerStatus
		ok       bool
		want     ContainerStatus
	}{
		{"still processing", StatusInProgress, StatusInProgress, true, StatusInProgress},
		{"finished", StatusInProgress, StatusFinished, true, StatusFinished},
		{"platform error", StatusInProgress, StatusError, true, StatusError},
		{"failed check", StatusInProgress, StatusFinished, false, StatusUnknown},
		{"terminal stays", StatusFinished, StatusError, true, StatusFinished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Transition(tt.observed, tt.ok))
		})
	}
}

func TestOnlyFinishedIsPublishable(t *testing.T) {
	for _, s := range []ContainerStatus{StatusInProgress, StatusError, StatusUnknown, "EXPIRED"} {
		assert.False(t, s.Publishable(), s)
	}
	assert.True(t, StatusFinished.Publishable())
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusUnknown.Terminal())
}

func TestCaptionTextPrefersCaption(t *testing.T) {
	assert.Equal(t, "a", PublishRequest{Caption: "a", Text: "b"}.CaptionText())
	assert.Equal(t, "b", PublishRequest{Text: "b"}.CaptionText())
	assert.Equal(t, "b", PublishRequest{Caption: "  ", Text: "b"}.CaptionText())
	assert.Empty(t, PublishRequest{}.CaptionText())
}
