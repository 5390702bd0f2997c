package server

import (
	"sync/atomic"
)

// Metrics 记录运行期的关键指标（用于监控与调试）
type Metrics struct {
	TickCount        int64 // 已推进的 Tick 数
	CommandsApplied  int64 // 生效的指令数（含 Restart）
	CommandsIgnored  int64 // 游戏结束期间被丢弃的移动指令数
	MalformedDropped int64 // 被丢弃的畸形入站消息数
	Broadcasts       int64 // 已完成的广播周期数
	SendDropped      int64 // 因客户端发送队列满被丢弃的帧数
	Connected        int64 // 累计接入的连接数
	Disconnected     int64 // 累计断开的连接数
	TotalTickNs      int64 // Tick 累计耗时（纳秒）
}

func (m *Metrics) IncApplied()      { atomic.AddInt64(&m.CommandsApplied, 1) }
func (m *Metrics) IncIgnored()      { atomic.AddInt64(&m.CommandsIgnored, 1) }
func (m *Metrics) IncMalformed()    { atomic.AddInt64(&m.MalformedDropped, 1) }
func (m *Metrics) IncBroadcast()    { atomic.AddInt64(&m.Broadcasts, 1) }
func (m *Metrics) IncSendDropped()  { atomic.AddInt64(&m.SendDropped, 1) }
func (m *Metrics) IncConnected()    { atomic.AddInt64(&m.Connected, 1) }
func (m *Metrics) IncDisconnected() { atomic.AddInt64(&m.Disconnected, 1) }
func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":        tick,
		"commands_applied":  atomic.LoadInt64(&m.CommandsApplied),
		"commands_ignored":  atomic.LoadInt64(&m.CommandsIgnored),
		"malformed_dropped": atomic.LoadInt64(&m.MalformedDropped),
		"broadcasts":        atomic.LoadInt64(&m.Broadcasts),
		"send_dropped":      atomic.LoadInt64(&m.SendDropped),
		"connected":         atomic.LoadInt64(&m.Connected),
		"disconnected":      atomic.LoadInt64(&m.Disconnected),
		"avg_tick_ms":       avgMs,
	}
}
