package server

import (
	"context"
	"time"
)

// Display 本地显示驱动的协作接口
// 实现方只负责渲染一份快照，不参与任何游戏逻辑；
// 本地键盘输入由实现方直接调用 Game.Push，与网络输入同等对待
type Display interface {
	Render(StateSnapshot)
}

// StartDisplay 以指定帧率拉取快照交给本地显示
// 渲染在自己的协程里进行，模拟循环从不等待它
func StartDisplay(ctx context.Context, g *Game, d Display, fps int) {
	if d == nil || fps <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.Render(g.Snapshot())
			}
		}
	}()
}
