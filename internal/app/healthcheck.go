package app

import (
	"context"
	"net/http"
	"time"

	"github.com/metinatakli/seat-reservation/api"
)

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "UP"
	httpStatus := http.StatusOK
	components := make(map[string]string, len(app.components))

	for name, component := range app.components {
		if err := component.Ping(ctx); err != nil {
			app.contextGetLogger(r).Warn("health check failed", "component", name, "error", err)

			components[name] = "DOWN"
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
			continue
		}

		components[name] = "UP"
	}

	resp := api.HealthcheckResponse{
		Status: status,
		SystemInfo: api.SystemInfo{
			Version:     version,
			Environment: app.config.Env,
		},
		Components: components,
	}

	app.writeJSON(w, httpStatus, resp, nil)
}
