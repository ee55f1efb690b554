package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFinal(t *testing.T) {
	for _, s := range []string{StatusWithdrawn, StatusHired, StatusRejected} {
		assert.True(t, IsFinal(s), s)
	}
	for _, s := range []string{StatusPending, StatusReviewing, StatusShortlisted, "custom"} {
		assert.False(t, IsFinal(s), s)
	}
}
