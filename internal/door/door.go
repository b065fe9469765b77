// Package door drives the remote door controller.
package door

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

var (
	// ErrNotConfigured is returned when DOOR_URL is unset.
	ErrNotConfigured = errors.New("door controller address not configured (DOOR_URL)")
	// ErrOpenFailed wraps any non-200 response or transport error.
	ErrOpenFailed = errors.New("failed to open door")
)

// Controller is a door lock reachable over HTTP.
type Controller struct {
	baseURL string
	client  *http.Client
}

// New creates a controller client. An empty address is accepted and reported
// as ErrNotConfigured when Open is called.
func New(baseURL string, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = constants.DefaultDoorTimeout
	}
	return &Controller{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Open sends a single unlock request. Only HTTP 200 counts as success.
func (c *Controller) Open(ctx context.Context) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	endpoint := c.baseURL + "/control?action=" + url.QueryEscape(constants.DoorOpenAction)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: could not create request: %v", ErrOpenFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: connection failed: %v", ErrOpenFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: controller returned status %d: %s", ErrOpenFailed, resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

// readErrorBody reads a short excerpt of an error response.
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return "(unreadable body)"
	}
	return strings.TrimSpace(string(body))
}
