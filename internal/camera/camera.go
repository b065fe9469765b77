// Package camera provides the frame sources the capture loop reads from.
package camera

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/constants"
)

// ErrNotConfigured is returned when neither CAMERA_URL nor CAMERA_FILE is set.
var ErrNotConfigured = errors.New("no camera configured: set CAMERA_URL or CAMERA_FILE")

// Source captures a single frame, returned as JPEG bytes.
type Source interface {
	Capture(ctx context.Context) ([]byte, error)
}

// New picks a source from configuration. An HTTP snapshot endpoint wins over a file.
func New(cfg config.CameraConfig) (Source, error) {
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = constants.MaxImageSize
	}
	switch {
	case cfg.URL != "":
		return NewHTTPSource(cfg.URL, maxSize), nil
	case cfg.File != "":
		return NewFileSource(cfg.File, maxSize), nil
	default:
		return nil, ErrNotConfigured
	}
}

// HTTPSource fetches frames from a snapshot endpoint such as an ESP32-CAM.
type HTTPSource struct {
	url     string
	maxSize int
	client  *http.Client
}

// NewHTTPSource creates a snapshot source.
func NewHTTPSource(url string, maxSize int) *HTTPSource {
	return &HTTPSource{
		url:     url,
		maxSize: maxSize,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Capture downloads and normalizes one frame.
func (s *HTTPSource) Capture(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach camera: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxUploadSize))
	if err != nil {
		return nil, fmt.Errorf("could not read frame: %w", err)
	}
	return Normalize(data, s.maxSize)
}

// FileSource serves a still image from disk, re-read on every capture.
type FileSource struct {
	path    string
	maxSize int
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string, maxSize int) *FileSource {
	return &FileSource{path: path, maxSize: maxSize}
}

// Capture reads and normalizes the image file.
func (s *FileSource) Capture(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // path is from trusted config or CLI flag
	if err != nil {
		return nil, fmt.Errorf("could not read frame: %w", err)
	}
	return Normalize(data, s.maxSize)
}

// Static is a Source returning a fixed, already captured frame.
type Static []byte

// Capture returns the frame.
func (s Static) Capture(ctx context.Context) ([]byte, error) {
	if len(s) == 0 {
		return nil, errors.New("empty frame")
	}
	return s, nil
}
