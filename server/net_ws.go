package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second // 必须小于 pongWait
)

// ClientConn 单个客户端连接：读泵解码指令注入队列，写泵消费发送队列
// 关闭通过 done 通道通知，send 通道从不 close，广播端并发投递不会炸
type ClientConn struct {
	id        uuid.UUID
	ws        *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		id:   uuid.New(),
		ws:   ws,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
}

// Enqueue 非阻塞投递一条待发消息
// 队列满说明该客户端写出过慢，丢弃本帧，绝不反压广播协程
func (c *ClientConn) Enqueue(b []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Close 幂等关闭底层连接并结束写泵
func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// writePump 独立协程：把发送队列写出到 WS，并定期发 ping 保活
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端消息，解码为指令后压入队列
// 单条畸形消息只丢弃该条并继续；连接错误时注销该客户端，不影响其他连接
func (c *ClientConn) readPump(g *Game, reg *Registry) {
	defer func() {
		reg.Remove(c)
		c.Close()
		g.metrics.IncDisconnected()
		Log.Infof("client disconnected: id=%s online=%d", c.id, reg.Count())
	}()
	c.ws.SetReadLimit(1 << 20) // 1MB
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		cmd, err := DecodeCommand(payload)
		if err != nil {
			g.metrics.IncMalformed()
			Log.Debugf("malformed message from %s: %v", c.id, err)
			continue
		}
		if cmd == CmdNone {
			// 未知消息类型，按协议静默忽略
			continue
		}
		g.Push(cmd)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// WSHandler 返回 /ws 的接入处理函数
// 所有连接共享同一局游戏：新连接即刻开始收到广播并可注入指令
func WSHandler(g *Game, reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			Log.Warnf("upgrade error: %v", err)
			return
		}

		client := NewClientConn(ws)
		reg.Add(client)
		g.metrics.IncConnected()
		Log.Infof("client connected: id=%s remote=%s online=%d", client.id, ws.RemoteAddr(), reg.Count())

		go client.writePump()
		go client.readPump(g, reg)
	}
}
