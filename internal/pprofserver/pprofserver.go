package pprofserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
)

func newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	return mux
}

// Launch starts a standard pprof server on the loopback interface at the given
// port so that it's not open to the world. An empty port disables the server.
func Launch(port string, logger *slog.Logger) {
	if port == "" {
		return
	}
	go func() {
		addr := fmt.Sprintf("localhost%s", port)
		logger.Info("starting pprof server", "addr", addr)
		srv := &http.Server{Addr: addr, Handler: newServeMux()}
		if err := srv.ListenAndServe(); err != nil {
			logger.Error("pprof server stopped", "error", err)
		}
	}()
}
