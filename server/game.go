package server

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Game 一局全局共享的游戏：权威状态 + 指令队列 + 运行指标
// 状态只在 Tick 内被修改，网络侧只经由 Push/Snapshot 两个入口
type Game struct {
	cfg     Config
	state   *GameState
	queue   *CommandQueue
	metrics *Metrics

	rng             *rand.Rand
	squareSeq       int64 // 方块自增 id 计数
	tickSeq         int64
	spawnEveryTicks int64
}

func NewGame(cfg Config) *Game {
	g := &Game{
		cfg:     cfg,
		state:   &GameState{},
		queue:   NewCommandQueue(),
		metrics: &Metrics{},
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	g.spawnEveryTicks = int64(cfg.TicksPerSecond) * int64(cfg.SpawnIntervalMs) / 1000
	if g.spawnEveryTicks < 1 {
		g.spawnEveryTicks = 1
	}
	g.reset()
	g.state.Publish()
	return g
}

// Push 供任意输入源（网络读泵、本地键盘）注入指令
func (g *Game) Push(c Command) {
	g.queue.Push(c)
}

// Snapshot 当前已发布状态的独立拷贝
func (g *Game) Snapshot() StateSnapshot {
	return g.state.Snapshot()
}

func (g *Game) Metrics() *Metrics {
	return g.metrics
}

// StartTicker 启动模拟循环：全程唯一允许修改权威状态的协程
// ctx 取消后停止推进，跨协程交接全部基于拷贝，中途停止不会损坏状态
func (g *Game) StartTicker(ctx context.Context) {
	interval := time.Second / time.Duration(g.cfg.TicksPerSecond)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				g.Tick()
				g.metrics.AddTick(time.Since(start).Nanoseconds())
			}
		}
	}()
}

// Tick 推进一帧，固定顺序：指令 → 下落 → 生成 → 判定 → 发布
// 游戏结束期间跳过物理与生成，只剩 Restart 有效
func (g *Game) Tick() {
	g.tickSeq++
	g.applyCommands(g.queue.DrainAll())
	if !g.state.GameOver {
		g.advanceSquares()
		if g.tickSeq%g.spawnEveryTicks == 0 {
			g.spawnSquare()
		}
		g.resolveCollisions()
	}
	g.checkInvariants()
	g.state.Publish()
}

// applyCommands 按到达顺序逐条应用，每条移动后立即裁剪边界，
// 同一批内后来的指令总是看到前面指令裁剪后的位置
// Restart 延后到整批末尾生效，覆盖同帧内已应用的移动
func (g *Game) applyCommands(cmds []Command) {
	restart := false
	for _, c := range cmds {
		switch c {
		case CmdLeft, CmdRight:
			if g.state.GameOver {
				g.metrics.IncIgnored()
				continue
			}
			if c == CmdLeft {
				g.state.PaddleX -= g.cfg.PaddleSpeed
			} else {
				g.state.PaddleX += g.cfg.PaddleSpeed
			}
			g.clampPaddle()
			g.metrics.IncApplied()
		case CmdRestart:
			restart = true
		default:
			// 畸形指令：忽略即可，不致命
		}
	}
	if restart {
		g.reset()
		g.metrics.IncApplied()
	}
}

func (g *Game) clampPaddle() {
	max := g.cfg.ScreenWidth - g.cfg.PaddleWidth
	if g.state.PaddleX < 0 {
		g.state.PaddleX = 0
	}
	if g.state.PaddleX > max {
		g.state.PaddleX = max
	}
}

// advanceSquares 所有存活方块按固定速度下落
func (g *Game) advanceSquares() {
	for _, sq := range g.state.Squares {
		sq.Y += g.cfg.FallSpeed
	}
}

// spawnSquare 在可视区上方随机横坐标生成一个新方块
func (g *Game) spawnSquare() {
	g.squareSeq++
	sq := &Square{
		ID: fmt.Sprintf("sq_%d", g.squareSeq),
		X:  g.rng.Intn(g.cfg.ScreenWidth - g.cfg.SquareSize + 1),
		Y:  -100 + g.rng.Intn(100-g.cfg.SquareSize),
	}
	g.state.Squares = append(g.state.Squares, sq)
}

// resolveCollisions 按生成顺序（最老优先）逐个判定，结果确定：
// 先判接住再判漏接，同帧两者都满足时接住优先，不扣命；
// 生命归零的瞬间冻结本帧剩余方块的处理（既不再接也不再漏）
func (g *Game) resolveCollisions() {
	padTop := g.cfg.ScreenHeight - g.cfg.PaddleBottomGap - g.cfg.PaddleHeight
	kept := g.state.Squares[:0]
	for i, sq := range g.state.Squares {
		switch {
		case g.intersectsPaddle(sq, padTop):
			g.state.Score++
		case sq.Y > g.cfg.ScreenHeight:
			g.state.Lives--
			if g.state.Lives <= 0 {
				g.state.Lives = 0
				g.state.GameOver = true
				kept = append(kept, g.state.Squares[i+1:]...)
				g.state.Squares = kept
				return
			}
		default:
			kept = append(kept, sq)
		}
	}
	g.state.Squares = kept
}

func (g *Game) intersectsPaddle(sq *Square, padTop int) bool {
	padX := g.state.PaddleX
	return sq.X < padX+g.cfg.PaddleWidth &&
		sq.X+g.cfg.SquareSize > padX &&
		sq.Y < padTop+g.cfg.PaddleHeight &&
		sq.Y+g.cfg.SquareSize > padTop
}

// reset 恢复初始局面，开局与 Restart 共用
func (g *Game) reset() {
	g.state.PaddleX = g.cfg.ScreenWidth/2 - g.cfg.PaddleWidth/2
	g.state.Squares = nil
	g.state.Score = 0
	g.state.Lives = g.cfg.InitialLives
	g.state.GameOver = false
}

// checkInvariants 每帧末尾自检，失败说明单写者假设被打破，直接终止
func (g *Game) checkInvariants() {
	st := g.state
	if st.Lives < 0 || st.Lives > g.cfg.InitialLives {
		g.failf("invariant broken: lives=%d out of [0,%d]", st.Lives, g.cfg.InitialLives)
	}
	if st.Score < 0 {
		g.failf("invariant broken: score=%d negative", st.Score)
	}
	if max := g.cfg.ScreenWidth - g.cfg.PaddleWidth; st.PaddleX < 0 || st.PaddleX > max {
		g.failf("invariant broken: paddle_x=%d out of [0,%d]", st.PaddleX, max)
	}
	if st.GameOver != (st.Lives == 0) {
		g.failf("invariant broken: game_over=%v with lives=%d", st.GameOver, st.Lives)
	}
	seen := make(map[string]struct{}, len(st.Squares))
	for _, sq := range st.Squares {
		if _, dup := seen[sq.ID]; dup {
			g.failf("invariant broken: duplicate square id %s", sq.ID)
		}
		seen[sq.ID] = struct{}{}
	}
}

func (g *Game) failf(format string, args ...any) {
	if Log != nil {
		Log.Panicf(format, args...)
	}
	panic(fmt.Sprintf(format, args...))
}
