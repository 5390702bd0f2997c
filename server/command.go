package server

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Command 控制指令，由任意输入源（网络、本地键盘）产生
// 模拟循环按到达顺序逐条消费
type Command int

const (
	CmdNone Command = iota
	CmdLeft
	CmdRight
	CmdRestart
)

// controlMessage 入站 WebSocket 文本消息的 JSON 结构
// 示例：{"type":"control","direction":"left"}，重开为 {"type":"restart"}
type controlMessage struct {
	Type      string `json:"type"`
	Direction string `json:"direction"`
}

// DecodeCommand 在边界处校验并转换入站消息
// 未知的 type 按协议约定静默忽略（返回 CmdNone，无错误）；
// JSON 损坏或 direction 非法视为畸形消息，由调用方丢弃该条并继续
func DecodeCommand(payload []byte) (Command, error) {
	var m controlMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return CmdNone, fmt.Errorf("decode control message: %w", err)
	}
	switch strings.ToLower(m.Type) {
	case "control":
		switch strings.ToLower(m.Direction) {
		case "left":
			return CmdLeft, nil
		case "right":
			return CmdRight, nil
		default:
			return CmdNone, fmt.Errorf("unknown direction %q", m.Direction)
		}
	case "restart":
		return CmdRestart, nil
	default:
		// 不认识的消息类型不算错误，不回应也不断开
		return CmdNone, nil
	}
}
