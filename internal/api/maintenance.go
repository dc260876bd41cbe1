package api

import (
	"net/http"

	"github.com/nerrad567/storefront-core/internal/auth"
)

type maintenanceResponse struct {
	Message     string `json:"message"`
	Maintenance bool   `json:"maintenance"`
}

// handleGetMaintenance reports whether maintenance mode is on.
func (s *Server) handleGetMaintenance(w http.ResponseWriter, _ *http.Request) {
	enabled := s.maintenance.Enabled()
	msg := "Services currently available."
	if enabled {
		msg = "Services currently under maintenance. Please try again later."
	}
	writeJSON(w, http.StatusOK, maintenanceResponse{Message: msg, Maintenance: enabled})
}

// handleToggleMaintenance flips maintenance mode. Super-admin only.
//
// The new state is retained on the message bus so late subscribers see it.
func (s *Server) handleToggleMaintenance(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	enabled := s.maintenance.Toggle()

	s.metrics.setMaintenance(enabled)
	if s.telemetry != nil {
		s.telemetry.WriteMaintenanceChange(enabled, actor.ID)
	}
	if s.events != nil {
		if err := s.events.PublishMaintenance(enabled, actor.ID); err != nil {
			s.logger.Warn("maintenance publish failed", "enabled", enabled, "error", err)
		}
	}

	state := "off"
	if enabled {
		state = "on"
	}
	s.logger.Warn("maintenance mode toggled", "enabled", enabled, "changed_by", actor.ID)
	s.auditLog(actor.ID, "Toggled maintenance mode "+state+".")

	writeJSON(w, http.StatusOK, maintenanceResponse{
		Message:     "Maintenance mode toggled.",
		Maintenance: enabled,
	})
}
