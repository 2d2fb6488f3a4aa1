package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studycall/signaling/internal/app"
	"github.com/studycall/signaling/internal/core"
)

func TestDirectory(t *testing.T) {
	t.Parallel()

	t.Run("it should list members in join order", func(t *testing.T) {
		d := app.NewDirectory()
		d.Add("r", "a")
		d.Add("r", "b")
		d.Add("r", "c")

		require.Equal(t, []core.ConnID{"a", "b", "c"}, d.Members("r"))
	})

	t.Run("it should keep a single entry when a member is added twice", func(t *testing.T) {
		d := app.NewDirectory()
		d.Add("r", "a")
		d.Add("r", "a")

		require.Equal(t, []core.ConnID{"a"}, d.Members("r"))
	})

	t.Run("it should move a rejoining member to the end of the order", func(t *testing.T) {
		d := app.NewDirectory()
		d.Add("r", "a")
		d.Add("r", "b")
		d.Remove("r", "a")
		d.Add("r", "a")

		require.Equal(t, []core.ConnID{"b", "a"}, d.Members("r"))
	})

	t.Run("it should return an empty list for unknown rooms", func(t *testing.T) {
		d := app.NewDirectory()
		require.Empty(t, d.Members("nowhere"))
	})

	t.Run("it should tolerate removing absent members and rooms", func(t *testing.T) {
		d := app.NewDirectory()
		d.Remove("nowhere", "ghost")

		d.Add("r", "a")
		d.Remove("r", "ghost")
		require.Equal(t, []core.ConnID{"a"}, d.Members("r"))
	})

	t.Run("it should hand out copies safe to iterate during mutation", func(t *testing.T) {
		d := app.NewDirectory()
		d.Add("r", "a")
		d.Add("r", "b")

		members := d.Members("r")
		d.Remove("r", "a")
		require.Equal(t, []core.ConnID{"a", "b"}, members)
	})

	t.Run("it should sweep only empty rooms", func(t *testing.T) {
		d := app.NewDirectory()
		d.Add("empty", "a")
		d.Remove("empty", "a")
		d.Add("busy", "b")

		require.Equal(t, 1, d.Sweep())
		require.Empty(t, d.Members("empty"))
		require.Equal(t, []core.ConnID{"b"}, d.Members("busy"))
	})
}
