package signal

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studycall/signaling/internal/app"
	"github.com/studycall/signaling/internal/config"
	"github.com/studycall/signaling/internal/core"
)

type recordConn struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (r *recordConn) TrySend(f core.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	return nil
}

func (r *recordConn) Close() {}

func (r *recordConn) events(t *testing.T) []map[string]any {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]map[string]any, 0, len(r.frames))
	for _, fr := range r.frames {
		var ev map[string]any
		require.NoError(t, json.Unmarshal(fr, &ev))
		out = append(out, ev)
	}
	return out
}

func (r *recordConn) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = nil
}

func newTestController() (*Controller, *app.Presence) {
	presence := app.NewPresence(app.NewRegistry(), app.NewDirectory())
	relay := app.NewRelay(presence)
	cfg := &config.Config{
		Port:       0,
		ReadLimit:  65536,
		PingPeriod: time.Minute,
		SendBuffer: 32,
	}
	return NewController(presence, relay, cfg), presence
}

func connect(presence *app.Presence, id core.ConnID) (*session, *recordConn) {
	conn := &recordConn{}
	presence.Bind(id, conn)
	return &session{id: id, conn: conn, fallbackUser: "tok-" + string(id)}, conn
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	t.Run("it should route join-room into the presence coordinator", func(t *testing.T) {
		ctl, presence := newTestController()
		s, conn := connect(presence, "a")

		ctl.dispatch(s, []byte(`{"type":"join-room","roomId":"math-101","userId":"u-a","name":"alice"}`))

		evs := conn.events(t)
		require.Len(t, evs, 1)
		require.Equal(t, core.EventParticipants, evs[0]["type"])
	})

	t.Run("it should fall back to the client token when join has no user id", func(t *testing.T) {
		ctl, presence := newTestController()
		s, conn := connect(presence, "a")

		ctl.dispatch(s, []byte(`{"type":"join-room","roomId":"math-101","name":"alice"}`))

		evs := conn.events(t)
		require.Len(t, evs, 1)
		participants := evs[0]["participants"].([]any)
		require.Len(t, participants, 1)
		require.Equal(t, "tok-a", participants[0].(map[string]any)["userId"])
	})

	t.Run("it should ignore a join without a room id", func(t *testing.T) {
		ctl, presence := newTestController()
		s, conn := connect(presence, "a")

		ctl.dispatch(s, []byte(`{"type":"join-room","userId":"u-a"}`))

		require.Empty(t, conn.events(t))
	})

	t.Run("it should relay signal payloads to the named peer only", func(t *testing.T) {
		ctl, presence := newTestController()
		sa, connA := connect(presence, "a")
		sb, connB := connect(presence, "b")

		ctl.dispatch(sa, []byte(`{"type":"join-room","roomId":"math-101","userId":"u-a"}`))
		ctl.dispatch(sb, []byte(`{"type":"join-room","roomId":"math-101","userId":"u-b"}`))
		connA.reset()
		connB.reset()

		ctl.dispatch(sa, []byte(`{"type":"signal","to":"b","data":{"sdp":"v=0"}}`))

		bEvs := connB.events(t)
		require.Len(t, bEvs, 1)
		require.Equal(t, core.EventSignal, bEvs[0]["type"])
		require.Equal(t, "a", bEvs[0]["fromConnectionId"])
		require.Empty(t, connA.events(t))
	})

	t.Run("it should strip the envelope type from state updates", func(t *testing.T) {
		ctl, presence := newTestController()
		sa, connA := connect(presence, "a")
		sb, connB := connect(presence, "b")

		ctl.dispatch(sa, []byte(`{"type":"join-room","roomId":"math-101","userId":"u-a"}`))
		ctl.dispatch(sb, []byte(`{"type":"join-room","roomId":"math-101","userId":"u-b"}`))
		connA.reset()
		connB.reset()

		ctl.dispatch(sa, []byte(`{"type":"state-update","cameraOn":true}`))

		bEvs := connB.events(t)
		require.Len(t, bEvs, 1)
		require.Equal(t, core.EventStateUpdate, bEvs[0]["type"])
		require.Equal(t, true, bEvs[0]["cameraOn"])
	})

	t.Run("it should process leave-room", func(t *testing.T) {
		ctl, presence := newTestController()
		sa, connA := connect(presence, "a")
		sb, connB := connect(presence, "b")

		ctl.dispatch(sa, []byte(`{"type":"join-room","roomId":"math-101","userId":"u-a"}`))
		ctl.dispatch(sb, []byte(`{"type":"join-room","roomId":"math-101","userId":"u-b"}`))
		connA.reset()
		connB.reset()

		ctl.dispatch(sa, []byte(`{"type":"leave-room"}`))

		bEvs := connB.events(t)
		require.Len(t, bEvs, 2)
		require.Equal(t, core.EventUserLeft, bEvs[0]["type"])
		require.Empty(t, connA.events(t))
	})

	t.Run("it should answer ping with pong", func(t *testing.T) {
		ctl, presence := newTestController()
		s, conn := connect(presence, "a")

		ctl.dispatch(s, []byte(`{"type":"ping"}`))

		evs := conn.events(t)
		require.Len(t, evs, 1)
		require.Equal(t, core.EventPong, evs[0]["type"])
	})

	t.Run("it should survive malformed and unknown messages", func(t *testing.T) {
		ctl, presence := newTestController()
		s, conn := connect(presence, "a")

		ctl.dispatch(s, []byte(`not json`))
		ctl.dispatch(s, []byte(`{"type":"teleport"}`))
		ctl.dispatch(s, []byte(`{"type":"signal"}`))
		ctl.dispatch(s, []byte(`{"type":"chat","text":"no room"}`))

		require.Empty(t, conn.events(t))
	})
}
