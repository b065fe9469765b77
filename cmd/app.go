package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/door"
	"github.com/kozaktomas/face-attendance/internal/encoder"
	"github.com/kozaktomas/face-attendance/internal/facestore"
	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg     *config.Config
	store   *facestore.Store
	log     *attendance.Log
	encoder *encoder.Client
	service *recognition.Service
}

// loadApp reads configuration and builds the recognition service. Optional
// collaborators that are not configured are left nil and reported when a flow
// needs them.
func loadApp(cmd *cobra.Command) (*app, error) {
	cfg := config.Load()
	if f := cmd.Flags().Lookup("threshold"); f != nil {
		if t := mustGetFloat64(cmd, "threshold"); t > 0 {
			cfg.Match.Threshold = t
		}
	}

	store, err := facestore.Load(cfg.Store.FaceDatabaseFile, cfg.Match.Threshold, cfg.Match.EncodingDim)
	if err != nil {
		return nil, fmt.Errorf("failed to load face database: %w", err)
	}
	log := attendance.New(cfg.Store.AttendanceFile)
	enc := encoder.NewClient(cfg.Embedding.URL)

	opts := recognition.Options{
		Store:   store,
		Log:     log,
		Encoder: enc,
		Door:    door.New(cfg.Door.URL, cfg.Door.Timeout),
		Email:   cfg.Email,
	}
	if len(cfg.Email.MissingKeys()) == 0 {
		opts.Notifier = notify.New(cfg.Email)
	}

	src, err := camera.New(cfg.Camera)
	switch {
	case errors.Is(err, camera.ErrNotConfigured):
		logger.Debug(nil, "no camera configured")
	case err != nil:
		return nil, err
	default:
		opts.Camera = src
	}

	logger.Debug(logger.Fields{
		"faces":     store.Len(),
		"threshold": cfg.Match.Threshold,
		"database":  store.Path(),
		"log":       log.Path(),
	}, "face store loaded")

	return &app{
		cfg:     cfg,
		store:   store,
		log:     log,
		encoder: enc,
		service: recognition.NewService(opts),
	}, nil
}

// imageFrame returns the normalized contents of --image, or nil when the flag
// is unset and the camera should be used.
func (a *app) imageFrame(cmd *cobra.Command) ([]byte, error) {
	path := mustGetString(cmd, "image")
	if path == "" {
		return nil, nil
	}
	return readImage(path, a.cfg.Camera.MaxSize)
}

func readImage(path string, maxSize int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	frame, err := camera.Normalize(data, maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return frame, nil
}

// userError turns a flow error into the message shown to the operator.
func userError(err error) error {
	logger.Debug(logger.Fields{"error": err.Error()}, "command failed")
	return errors.New(recognition.UserMessage(err))
}
