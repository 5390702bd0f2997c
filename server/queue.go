package server

import "sync"

// CommandQueue 供任意数量生产者并发写入的 FIFO 指令队列
// 消费端只有模拟循环，每个 Tick 调用一次 DrainAll
type CommandQueue struct {
	mu   sync.Mutex
	cmds []Command
}

func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Push 非阻塞入队，可从任意协程并发调用
func (q *CommandQueue) Push(c Command) {
	q.mu.Lock()
	q.cmds = append(q.cmds, c)
	q.mu.Unlock()
}

// DrainAll 原子地取走并清空当前全部指令，保持到达顺序
// 临界区只做一次切片交换，不含任何 I/O，也绝不逐条弹出
func (q *CommandQueue) DrainAll() []Command {
	q.mu.Lock()
	out := q.cmds
	q.cmds = nil
	q.mu.Unlock()
	return out
}

// Len 当前排队中的指令数（仅用于监控与测试）
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cmds)
}
