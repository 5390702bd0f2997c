package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catchsquares/server"
)

// CatchSquares 入口：加载配置，启动模拟循环、广播协程与 HTTP/WebSocket 服务
func main() {
	cfg := server.LoadConfig()
	var addr string
	flag.StringVar(&addr, "addr", cfg.Addr, "server listen address, e.g. :5001")
	flag.Parse()
	cfg.Addr = addr

	if err := server.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	game := server.NewGame(cfg)
	reg := server.NewRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	game.StartTicker(ctx)
	server.StartBroadcaster(ctx, game, reg)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.WSHandler(game, reg))
	// 前后端分离：将 / 映射到 web 目录的静态资源
	mux.Handle("/", http.FileServer(http.Dir("web")))
	// 管理与监控接口
	mux.HandleFunc("/admin/config", server.HandleConfig(cfg))
	mux.HandleFunc("/metrics", server.HandleMetrics(game, reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		server.Log.Infof("CatchSquares listening on %s (ws endpoint: /ws)", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// 端口被占用等启动错误对进程是致命的
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）：先停接入，再停模拟与广播
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 3*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)
	cancel()
}
