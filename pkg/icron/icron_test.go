package icron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	ref := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	next, err := NextRun("0 4 * * *", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 26, 4, 0, 0, 0, time.UTC), next)
}

func TestNextRun_Invalid(t *testing.T) {
	_, err := NextRun("not a cron expr", time.Now())
	assert.Error(t, err)
}
