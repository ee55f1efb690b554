package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeadlinePassed(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Minute)
	after := now.Add(time.Minute)

	assert.False(t, Job{}.DeadlinePassed(now))
	assert.True(t, Job{Deadline: &before}.DeadlinePassed(now))
	assert.False(t, Job{Deadline: &after}.DeadlinePassed(now))
	assert.False(t, Job{Deadline: &now}.DeadlinePassed(now))
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusActive, StatusClosed} {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("archived").Valid())
}
