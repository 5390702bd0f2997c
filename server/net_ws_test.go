package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newTestServer 起一套完整后端：模拟循环 + 广播 + WebSocket 接入
func newTestServer(t *testing.T) (*Game, *Registry, string, func()) {
	t.Helper()
	g := NewGame(testConfig())
	reg := NewRegistry()
	ts := httptest.NewServer(WSHandler(g, reg))
	ctx, cancel := context.WithCancel(context.Background())
	g.StartTicker(ctx)
	StartBroadcaster(ctx, g, reg)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	return g, reg, url, func() {
		cancel()
		ts.Close()
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return c
}

func readState(t *testing.T, c *websocket.Conn) StateSnapshot {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	var snap StateSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("decode broadcast: %v", err)
	}
	return snap
}

func TestBroadcastReachesAllClients(t *testing.T) {
	_, _, url, shutdown := newTestServer(t)
	defer shutdown()

	c1 := dial(t, url)
	defer c1.Close()
	c2 := dial(t, url)
	defer c2.Close()

	s1 := readState(t, c1)
	s2 := readState(t, c2)
	if s1.Lives != 3 || s2.Lives != 3 {
		t.Fatalf("unexpected initial broadcast: %+v %+v", s1, s2)
	}
}

func TestBroadcastSurvivesAbruptDisconnect(t *testing.T) {
	_, reg, url, shutdown := newTestServer(t)
	defer shutdown()

	c1 := dial(t, url)
	c2 := dial(t, url)
	defer c2.Close()

	readState(t, c1)
	readState(t, c2)

	// c1 不握手直接断开，c2 必须继续收到后续全部广播
	_ = c1.Close()

	for i := 0; i < 10; i++ {
		snap := readState(t, c2)
		if snap.Lives < 0 || snap.Lives > 3 {
			t.Fatalf("broadcast %d corrupted: %+v", i, snap)
		}
	}

	if !waitFor(t, time.Second, func() bool { return reg.Count() == 1 }) {
		t.Fatalf("registry count = %d, want 1 after disconnect", reg.Count())
	}
}

func TestControlMessagesDriveThePaddle(t *testing.T) {
	g, _, url, shutdown := newTestServer(t)
	defer shutdown()

	c := dial(t, url)
	defer c.Close()

	start := g.Snapshot().PaddleX
	if err := c.WriteMessage(websocket.TextMessage, []byte(`{"type":"control","direction":"left"}`)); err != nil {
		t.Fatalf("write control: %v", err)
	}
	if !waitFor(t, time.Second, func() bool { return g.Snapshot().PaddleX == start-g.cfg.PaddleSpeed }) {
		t.Fatalf("paddle_x = %d, want %d", g.Snapshot().PaddleX, start-g.cfg.PaddleSpeed)
	}

	// Restart 消息让挡板回到中心
	if err := c.WriteMessage(websocket.TextMessage, []byte(`{"type":"restart"}`)); err != nil {
		t.Fatalf("write restart: %v", err)
	}
	if !waitFor(t, time.Second, func() bool { return g.Snapshot().PaddleX == start }) {
		t.Fatalf("paddle_x = %d, want %d after restart", g.Snapshot().PaddleX, start)
	}
}

func TestMalformedMessageDoesNotDropConnection(t *testing.T) {
	g, _, url, shutdown := newTestServer(t)
	defer shutdown()

	c := dial(t, url)
	defer c.Close()

	start := g.Snapshot().PaddleX
	// 依次发送：JSON 损坏、未知类型、非法方向，连接都不应被断开
	for _, bad := range []string{`{garbage`, `{"type":"ping"}`, `{"type":"control","direction":"up"}`} {
		if err := c.WriteMessage(websocket.TextMessage, []byte(bad)); err != nil {
			t.Fatalf("write %q: %v", bad, err)
		}
	}
	if err := c.WriteMessage(websocket.TextMessage, []byte(`{"type":"control","direction":"right"}`)); err != nil {
		t.Fatalf("write control: %v", err)
	}

	if !waitFor(t, time.Second, func() bool { return g.Snapshot().PaddleX == start+g.cfg.PaddleSpeed }) {
		t.Fatalf("paddle_x = %d, want %d (connection should survive bad frames)", g.Snapshot().PaddleX, start+g.cfg.PaddleSpeed)
	}
	// 仍然能收到广播
	readState(t, c)
}
