package server

import "sync"

// Square 下落中的方块（服务端权威实体）
// id 单调递增分配，本次运行内绝不复用
type Square struct {
	ID string
	X  int
	Y  int
}

// SquareState 广播给客户端的方块状态（与内部表示解耦）
type SquareState struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// StateSnapshot 某一时刻游戏状态的完整独立拷贝，即广播载荷
type StateSnapshot struct {
	PaddleX  int           `json:"paddle_x"`
	Squares  []SquareState `json:"squares"`
	Score    int           `json:"score"`
	Lives    int           `json:"lives"`
	GameOver bool          `json:"game_over"`
}

// GameState 唯一权威可变状态
// 可变字段只允许模拟循环一个协程读写，因此不加锁；
// 其他协程一律通过 Snapshot() 读取已发布的拷贝
type GameState struct {
	PaddleX  int
	Squares  []*Square
	Score    int
	Lives    int
	GameOver bool

	mu        sync.RWMutex
	published StateSnapshot
}

// Publish 每个 Tick 末尾由模拟循环调用，发布一份深拷贝
// 拷贝在锁外构造，临界区只剩一次赋值，读者看不到半帧状态
func (s *GameState) Publish() {
	snap := StateSnapshot{
		PaddleX:  s.PaddleX,
		Squares:  make([]SquareState, 0, len(s.Squares)),
		Score:    s.Score,
		Lives:    s.Lives,
		GameOver: s.GameOver,
	}
	for _, sq := range s.Squares {
		snap.Squares = append(snap.Squares, SquareState{ID: sq.ID, X: sq.X, Y: sq.Y})
	}
	s.mu.Lock()
	s.published = snap
	s.mu.Unlock()
}

// Snapshot 返回完全独立的状态拷贝，任意协程可并发调用
// 已发布的切片发布后不再被写，元素拷贝放在锁外进行
func (s *GameState) Snapshot() StateSnapshot {
	s.mu.RLock()
	p := s.published
	s.mu.RUnlock()

	out := p
	out.Squares = make([]SquareState, len(p.Squares))
	copy(out.Squares, p.Squares)
	return out
}
