package redis_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	redisstore "github.com/hydrocodeir/Sazegari/internal/store/redis"
)

func TestUserChannel(t *testing.T) {
	t.Parallel()

	userID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		got := redisstore.UserChannel(userID)
		assert.Equal(t, "user:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", got)
	})

	t.Run("nil UUID", func(t *testing.T) {
		t.Parallel()

		got := redisstore.UserChannel(uuid.Nil)
		assert.Equal(t, "user:00000000-0000-0000-0000-000000000000", got)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()

		got := redisstore.UserChannel(userID)
		assert.True(t, strings.HasPrefix(got, "user:"), "expected prefix 'user:', got %q", got)
	})

	t.Run("different inputs produce different outputs", func(t *testing.T) {
		t.Parallel()

		other := uuid.MustParse("11111111-2222-3333-4444-555555555555")
		a := redisstore.UserChannel(userID)
		b := redisstore.UserChannel(other)
		assert.NotEqual(t, a, b)
	})
}

func TestReportChannel(t *testing.T) {
	t.Parallel()

	reportID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		got := redisstore.ReportChannel(reportID)
		assert.Equal(t, "report:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", got)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()

		got := redisstore.ReportChannel(reportID)
		assert.True(t, strings.HasPrefix(got, "report:"), "expected prefix 'report:', got %q", got)
	})

	t.Run("different inputs produce different outputs", func(t *testing.T) {
		t.Parallel()

		other := uuid.MustParse("11111111-2222-3333-4444-555555555555")
		a := redisstore.ReportChannel(reportID)
		b := redisstore.ReportChannel(other)
		assert.NotEqual(t, a, b)
	})
}

func TestChannelFunctions_NoCollisionAcrossTypes(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	assert.NotEqual(t, redisstore.UserChannel(id), redisstore.ReportChannel(id),
		"user and report channels must not collide")
}
