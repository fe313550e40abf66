package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/kvstore"
)

const healthProbeKey = "health:probe"

type pinger interface {
	Ping(ctx context.Context) error
}

// readiness reports whether the dependencies the OTP flows need are reachable.
type readiness struct {
	db      pinger
	kv      kvstore.Store
	timeout time.Duration
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h readiness) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timeout := h.timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	resp := readinessResponse{Status: "up", Checks: map[string]string{}}
	code := http.StatusOK

	check := func(name string, err error) {
		if err != nil {
			slog.WarnContext(ctx, "readiness check failed", "check", name, "error", err)
			resp.Checks[name] = "down"
			resp.Status = "down"
			code = http.StatusServiceUnavailable
			return
		}
		resp.Checks[name] = "up"
	}

	if h.db != nil {
		check("database", h.db.Ping(ctx))
	}

	// a missing key is the healthy answer
	_, err := h.kv.Get(ctx, healthProbeKey)
	if errors.Is(err, goerror.ErrNotFound) {
		err = nil
	}
	check("kvstore", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	//nolint:errcheck,gosec // client went away
	json.NewEncoder(w).Encode(resp)
}
