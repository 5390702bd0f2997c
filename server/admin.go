package server

import (
	"encoding/json"
	"net/http"
)

// HandleConfig 输出本进程生效的配置
// 配置在启动时固定，运行期不可修改，因此只支持 GET
func HandleConfig(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cfg)
	}
}

// HandleMetrics 输出运行指标与当前在线数
// GET /metrics
func HandleMetrics(g *Game, reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := g.Snapshot()
		payload := map[string]any{
			"online":    reg.Count(),
			"score":     snap.Score,
			"lives":     snap.Lives,
			"game_over": snap.GameOver,
			"metrics":   g.Metrics().Snapshot(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}
}
