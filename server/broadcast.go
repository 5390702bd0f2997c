package server

import (
	"context"
	"encoding/json"
	"time"
)

// StartBroadcaster 按 Tick 周期向全部在线客户端推送状态
// 每个周期只取一次快照、只编码一次；投递经由各连接的非阻塞发送队列，
// 单个客户端失败或迟缓只影响它自己，既不拖慢别人也不推迟下个周期
func StartBroadcaster(ctx context.Context, g *Game, reg *Registry) {
	interval := time.Second / time.Duration(g.cfg.TicksPerSecond)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if reg.Count() == 0 {
					continue
				}
				snap := g.Snapshot()
				b, err := json.Marshal(snap)
				if err != nil {
					Log.Errorf("encode snapshot: %v", err)
					continue
				}
				reg.ForEach(func(c *ClientConn) {
					if !c.Enqueue(b) {
						g.metrics.IncSendDropped()
					}
				})
				g.metrics.IncBroadcast()
			}
		}
	}()
}
