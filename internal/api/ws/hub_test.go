package ws

import (
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/testutil"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStats struct {
	connections int
	dropped     int
}

func (s *countingStats) IncWSConnections() { s.connections++ }
func (s *countingStats) DecWSConnections() { s.connections-- }
func (s *countingStats) IncWSDropped()     { s.dropped++ }

func TestFromEvent(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := FromEvent(kernel.Event{
		Op:    kernel.OpEnqueue,
		Boot:  "boot_x",
		Proc:  3,
		Err:   errors.New("enqueue: pcb already on a queue"),
		Stats: kernel.Stats{ProcsFree: 1, SemsFree: 2},
		Time:  at,
	})

	assert.Equal(t, TypeEvent, msg.Type)
	assert.Equal(t, kernel.OpEnqueue, msg.Op)
	assert.Equal(t, kernel.Handle(3), msg.PID)
	assert.Equal(t, kernel.ResultError, msg.Result)
	assert.Equal(t, "enqueue: pcb already on a queue", msg.Error)
	assert.Equal(t, 2, msg.Stats.SemsFree)
	assert.Equal(t, at.UnixMilli(), msg.Time)
}

func TestHubFanOut(t *testing.T) {
	stats := &countingStats{}
	hub := NewHub(4, nil, stats)

	_, a, ok := hub.Subscribe()
	require.True(t, ok)
	idB, b, ok := hub.Subscribe()
	require.True(t, ok)
	assert.Equal(t, 2, hub.Len())
	assert.Equal(t, 2, stats.connections)

	hub.Observe(kernel.Event{Op: kernel.OpAllocProc, Proc: 1})
	assert.Equal(t, kernel.OpAllocProc, (<-a).Op)
	assert.Equal(t, kernel.OpAllocProc, (<-b).Op)

	hub.Unsubscribe(idB)
	_, open := <-b
	assert.False(t, open)
	assert.Equal(t, 1, hub.Len())
	assert.Equal(t, 1, stats.connections)

	hub.Unsubscribe(idB)
	assert.Equal(t, 1, stats.connections)
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	stats := &countingStats{}
	hub := NewHub(2, nil, stats)
	_, ch, _ := hub.Subscribe()

	for i := 1; i <= 5; i++ {
		hub.Observe(kernel.Event{Op: kernel.OpAllocProc, Proc: kernel.Handle(i)})
	}

	assert.Equal(t, 3, stats.dropped)
	assert.Equal(t, kernel.Handle(1), (<-ch).PID)
	assert.Equal(t, kernel.Handle(2), (<-ch).PID)
	assert.Empty(t, ch)
}

type atomicStats struct {
	dropped atomic.Int64
}

func (s *atomicStats) IncWSConnections() {}
func (s *atomicStats) DecWSConnections() {}
func (s *atomicStats) IncWSDropped()     { s.dropped.Add(1) }

func TestHubConcurrentBroadcast(t *testing.T) {
	stats := &atomicStats{}
	hub := NewHub(1, nil, stats)
	_, ch, _ := hub.Subscribe()

	const senders, perSender = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				hub.Broadcast(Message{Type: TypeEvent})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ch, 1)
	assert.Equal(t, int64(senders*perSender-1), stats.dropped.Load())
}

func TestHubClose(t *testing.T) {
	stats := &countingStats{}
	hub := NewHub(1, nil, stats)
	_, ch, _ := hub.Subscribe()

	hub.Close()
	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, stats.connections)

	_, _, ok := hub.Subscribe()
	assert.False(t, ok)
	hub.Observe(kernel.Event{Op: kernel.OpBoot})
}

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/stream", NewHandler(hub, nil).HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, sonic.Unmarshal(data, &msg))
	return msg
}

func TestStreamDeliversKernelEvents(t *testing.T) {
	hub := NewHub(16, nil, nil)
	n := testutil.NewNucleus(t, 2, 1, kernel.WithObserver(hub))
	conn := dial(t, hub)

	welcome := readMessage(t, conn)
	assert.Equal(t, TypeSystem, welcome.Type)
	assert.NotEmpty(t, welcome.ID)

	p, err := n.AllocProc()
	require.NoError(t, err)

	msg := readMessage(t, conn)
	assert.Equal(t, TypeEvent, msg.Type)
	assert.Equal(t, kernel.OpAllocProc, msg.Op)
	assert.Equal(t, p, msg.PID)
	assert.Equal(t, kernel.ResultOK, msg.Result)
	assert.Equal(t, n.BootID().String(), msg.Boot)
	assert.Equal(t, 1, msg.Stats.ProcsFree)
}

func TestStreamPingPong(t *testing.T) {
	hub := NewHub(4, nil, nil)
	conn := dial(t, hub)
	readMessage(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, TypePong, readMessage(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"shout"}`)))
	msg := readMessage(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Contains(t, msg.Message, "shout")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	assert.Equal(t, TypeError, readMessage(t, conn).Type)
}

func TestStreamClosedByHub(t *testing.T) {
	hub := NewHub(4, nil, nil)
	conn := dial(t, hub)
	readMessage(t, conn)
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
