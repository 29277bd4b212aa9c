package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func guideWith(completed ...bool) *FilingGuide {
	g := &FilingGuide{ID: "g"}
	for i, c := range completed {
		g.Steps = append(g.Steps, GuideStep{StepID: string(rune('1' + i)), IsCompleted: c})
	}
	return g
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 25, guideWith(true, false, false, false).Progress())
	assert.Equal(t, 0, guideWith(false, false, false).Progress())
	assert.Equal(t, 33, guideWith(true, false, false).Progress())
	assert.Equal(t, 67, guideWith(true, true, false).Progress())
	assert.Equal(t, 100, guideWith(true, true).Progress())
	assert.Equal(t, 17, guideWith(true, false, false, false, false, false).Progress())
}

func TestProgress_NoSteps(t *testing.T) {
	assert.Equal(t, 0, (&FilingGuide{}).Progress())
}

func TestProgress_OutOfOrderCompletion(t *testing.T) {
	g := guideWith(false, false, false, true)
	assert.Equal(t, 1, g.CompletedSteps())
	assert.Equal(t, 25, g.Progress())
}

func TestChatMessageInvolves(t *testing.T) {
	m := ChatMessage{SenderID: "1", ReceiverID: "2"}
	assert.True(t, m.Involves("1", "2"))
	assert.True(t, m.Involves("2", "1"))
	assert.False(t, m.Involves("1", "3"))
}
