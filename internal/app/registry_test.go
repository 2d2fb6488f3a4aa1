package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studycall/signaling/internal/app"
	"github.com/studycall/signaling/internal/domain"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("it should start a registered connection with empty state", func(t *testing.T) {
		r := app.NewRegistry()
		r.Register("c1", "u1", "alice")

		snap, ok := r.Get("c1")
		require.True(t, ok)
		require.Equal(t, domain.UserID("u1"), snap.UserID)
		require.Equal(t, "alice", snap.Name)
		require.Empty(t, snap.State)
	})

	t.Run("it should merge new keys, overwrite known keys and preserve the rest", func(t *testing.T) {
		r := app.NewRegistry()
		r.Register("c1", "u1", "alice")

		merged, ok := r.UpdateState("c1", domain.State{"cameraOn": true, "micMuted": false})
		require.True(t, ok)
		require.Equal(t, domain.State{"cameraOn": true, "micMuted": false}, merged)

		merged, ok = r.UpdateState("c1", domain.State{"cameraOn": false})
		require.True(t, ok)
		require.Equal(t, domain.State{"cameraOn": false, "micMuted": false}, merged)
	})

	t.Run("it should ignore updates for unknown connections", func(t *testing.T) {
		r := app.NewRegistry()

		merged, ok := r.UpdateState("ghost", domain.State{"cameraOn": true})
		require.False(t, ok)
		require.Nil(t, merged)
	})

	t.Run("it should hand out snapshots detached from internal state", func(t *testing.T) {
		r := app.NewRegistry()
		r.Register("c1", "u1", "alice")
		_, ok := r.UpdateState("c1", domain.State{"cameraOn": true})
		require.True(t, ok)

		snap, ok := r.Get("c1")
		require.True(t, ok)
		snap.State["cameraOn"] = false

		fresh, ok := r.Get("c1")
		require.True(t, ok)
		require.Equal(t, true, fresh.State["cameraOn"])
	})

	t.Run("it should tolerate removing an absent connection", func(t *testing.T) {
		r := app.NewRegistry()
		r.Remove("ghost")

		r.Register("c1", "u1", "alice")
		r.Remove("c1")
		r.Remove("c1")

		_, ok := r.Get("c1")
		require.False(t, ok)
	})
}
