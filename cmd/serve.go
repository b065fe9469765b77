package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/encoder"
	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/kozaktomas/face-attendance/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the kiosk web server",
	Long: `Start the Face Attendance web server.
The web server provides a browser-based kiosk with a live camera preview and
buttons for registration, attendance, door access, reports and face management.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (default WEB_PORT or 8080)")
	serveCmd.Flags().String("host", "", "Host to bind to (default WEB_HOST or 127.0.0.1)")
	addThresholdFlag(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	if port := mustGetInt(cmd, "port"); port > 0 {
		a.cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		a.cfg.Web.Host = host
	}

	fmt.Printf("Loaded %d registered face(s) from %s\n", a.store.Len(), a.store.Path())
	checkEmbeddingService(cmd.Context(), a.encoder)
	if missing := a.cfg.Email.MissingKeys(); len(missing) > 0 {
		fmt.Printf("Warning: email reports disabled, missing %v\n", missing)
	}
	if a.cfg.Door.URL == "" {
		fmt.Println("Warning: DOOR_URL not set, access checks cannot open the door")
	}

	server := web.NewServer(a.cfg, a.service, a.log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		// Rewrites the database if the file was removed while serving.
		if err := a.store.Save(); err != nil {
			fmt.Printf("Warning: failed to save face database: %v\n", err)
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Face Attendance kiosk on http://%s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

// checkEmbeddingService warns when the embedding service is down. The kiosk still
// starts so the page and face management stay usable.
func checkEmbeddingService(ctx context.Context, enc *encoder.Client) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := enc.Health(ctx); err != nil {
		logger.Warn(logger.Fields{"url": enc.BaseURL(), "error": err.Error()}, "embedding service not ready")
		fmt.Printf("Warning: embedding service at %s is not reachable, face flows will fail until it is up\n", enc.BaseURL())
		return
	}
	logger.Debug(logger.Fields{"url": enc.BaseURL()}, "embedding service ready")
}
