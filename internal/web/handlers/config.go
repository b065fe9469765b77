package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/config"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Threshold        float64            `json:"threshold"`
	CameraConfigured bool               `json:"camera_configured"`
	DoorConfigured   bool               `json:"door_configured"`
	EmailProvider    string             `json:"email_provider"`
	EmailMissing     []string           `json:"email_missing"`
	Theme            config.ThemeConfig `json:"theme"`
}

// Get returns the non-secret configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	missing := h.config.Email.MissingKeys()
	if missing == nil {
		missing = []string{}
	}

	response := ConfigResponse{
		Threshold:        h.config.Match.Threshold,
		CameraConfigured: h.config.Camera.URL != "" || h.config.Camera.File != "",
		DoorConfigured:   h.config.Door.URL != "",
		EmailProvider:    h.config.Email.Provider,
		EmailMissing:     missing,
		Theme:            h.config.Theme,
	}

	respondJSON(w, http.StatusOK, response)
}
