package server

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeDisplay struct {
	mu     sync.Mutex
	frames []StateSnapshot
}

func (d *fakeDisplay) Render(s StateSnapshot) {
	d.mu.Lock()
	d.frames = append(d.frames, s)
	d.mu.Unlock()
}

func (d *fakeDisplay) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

func TestDisplayReceivesSnapshots(t *testing.T) {
	g := NewGame(testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g.StartTicker(ctx)

	d := &fakeDisplay{}
	StartDisplay(ctx, g, d, 60)

	if !waitFor(t, time.Second, func() bool { return d.count() >= 5 }) {
		t.Fatalf("display rendered %d frames, want >= 5", d.count())
	}

	// 本地输入与网络输入走同一条队列
	start := g.Snapshot().PaddleX
	g.Push(CmdLeft)
	if !waitFor(t, time.Second, func() bool { return g.Snapshot().PaddleX == start-g.cfg.PaddleSpeed }) {
		t.Fatalf("paddle_x = %d, want %d", g.Snapshot().PaddleX, start-g.cfg.PaddleSpeed)
	}
}
