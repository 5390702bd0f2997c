package server

import (
	"sync"

	"github.com/google/uuid"
)

// Registry 跟踪当前在线的客户端连接
// 任意数量的连接协程可并发增删，广播协程并发遍历
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*ClientConn
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[uuid.UUID]*ClientConn)}
}

// Add 连接建立后登记
func (r *Registry) Add(c *ClientConn) {
	r.mu.Lock()
	r.clients[c.id] = c
	r.mu.Unlock()
}

// Remove 断开或出错后移除，重复移除无害
func (r *Registry) Remove(c *ClientConn) {
	r.mu.Lock()
	delete(r.clients, c.id)
	r.mu.Unlock()
}

// Count 当前在线连接数
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// ForEach 对成员的一份稳定快照逐个执行 fn
// 持锁期间只拷贝成员列表，fn 在锁外执行，允许并发增删成员
func (r *Registry) ForEach(fn func(*ClientConn)) {
	r.mu.RLock()
	members := make([]*ClientConn, 0, len(r.clients))
	for _, c := range r.clients {
		members = append(members, c)
	}
	r.mu.RUnlock()
	for _, c := range members {
		fn(c)
	}
}
