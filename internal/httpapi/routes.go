package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"airhockey/internal/hub"
	"airhockey/internal/ws"
)

// SetupRoutes builds the router with the hub injected. Everything outside
// /ws and /healthz is static asset delivery, which the game protocol does
// not depend on.
func SetupRoutes(h *hub.Hub, staticDir string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	return r
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
