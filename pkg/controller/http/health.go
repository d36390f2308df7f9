package http

import (
	"net/http"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/model"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	status := &model.HealthStatus{
		Status:  "healthy",
		Service: "visualflow-assets",
		Version: types.Version,
	}

	writeJSON(w, http.StatusOK, status)
}
