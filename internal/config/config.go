package config

import (
	"bytes"
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"gopkg.in/yaml.v3"
)

//go:embed theme.yaml
var themeYAML []byte

type Config struct {
	Store     StoreConfig
	Match     MatchConfig
	Embedding EmbeddingConfig
	Camera    CameraConfig
	Door      DoorConfig
	Email     EmailConfig
	Log       LogConfig
	Web       WebConfig
	Theme     ThemeConfig
}

type StoreConfig struct {
	FaceDatabaseFile string // gob container with enrolled encodings
	AttendanceFile   string // CSV attendance log
}

type MatchConfig struct {
	Threshold   float64 // maximum Euclidean distance for duplicate and match decisions
	EncodingDim int     // expected encoding length, 0 disables the check
}

type EmbeddingConfig struct {
	URL string // face embedding service, defaults to http://localhost:8000
}

type CameraConfig struct {
	URL     string // HTTP snapshot endpoint (e.g. an ESP32-CAM /capture)
	File    string // still image used instead of a live camera
	MaxSize int    // frames are downscaled to fit this dimension
}

type DoorConfig struct {
	URL     string // door controller base address, e.g. http://193.0.0.104
	Timeout time.Duration
}

type EmailConfig struct {
	Provider  string // "smtp" (default) or "resend"
	Recipient string
	Sender    string
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	ResendKey string
}

// MissingKeys lists the environment variables that must be set before a report
// can be sent with the configured provider.
func (c *EmailConfig) MissingKeys() []string {
	var missing []string
	if c.Recipient == "" {
		missing = append(missing, "RECIPIENT_EMAIL")
	}
	if c.Sender == "" {
		missing = append(missing, "EMAIL_SENDER")
	}
	if c.UsesResend() {
		if c.ResendKey == "" {
			missing = append(missing, "RESEND_API_KEY")
		}
		return missing
	}
	if c.SMTPHost == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.Password == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	return missing
}

// UsesResend reports whether reports go through the Resend HTTP API.
func (c *EmailConfig) UsesResend() bool {
	return strings.EqualFold(c.Provider, "resend")
}

type LogConfig struct {
	Level string // logrus level name, defaults to info
	File  string // optional rotated log file
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// ThemeConfig enumerates every style option the UI understands, per widget.
type ThemeConfig struct {
	Window WindowStyle `yaml:"window" json:"window"`
	Video  VideoStyle  `yaml:"video" json:"video"`
	Label  LabelStyle  `yaml:"label" json:"label"`
	Entry  EntryStyle  `yaml:"entry" json:"entry"`
	Button ButtonStyle `yaml:"button" json:"button"`
}

type WindowStyle struct {
	Title      string `yaml:"title" json:"title"`
	Width      int    `yaml:"width" json:"width"`
	Height     int    `yaml:"height" json:"height"`
	Background string `yaml:"background" json:"background"`
}

type VideoStyle struct {
	Background string `yaml:"background" json:"background"`
	Width      int    `yaml:"width" json:"width"`
	Height     int    `yaml:"height" json:"height"`
}

type LabelStyle struct {
	Foreground string `yaml:"foreground" json:"foreground"`
	Background string `yaml:"background" json:"background"`
}

type EntryStyle struct {
	Foreground string `yaml:"foreground" json:"foreground"`
	Background string `yaml:"background" json:"background"`
	Caret      string `yaml:"caret" json:"caret"`
}

type ButtonStyle struct {
	Foreground       string `yaml:"foreground" json:"foreground"`
	Background       string `yaml:"background" json:"background"`
	ActiveForeground string `yaml:"active_foreground" json:"active_foreground"`
	ActiveBackground string `yaml:"active_background" json:"active_background"`
	Width            int    `yaml:"width" json:"width"`
	Padding          int    `yaml:"padding" json:"padding"`
}

// envList reads a comma-separated environment variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envNonNegInt is envInt that also accepts 0, for settings where 0 means "off".
func envNonNegInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

// envFloat reads a positive float, falling back to defaultVal.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envDuration reads a positive Go duration ("5s", "750ms"), falling back to defaultVal.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// ParseTheme decodes a theme document, rejecting options no widget understands.
func ParseTheme(data []byte) (ThemeConfig, error) {
	var theme ThemeConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&theme); err != nil {
		return ThemeConfig{}, err
	}
	return theme, nil
}

func Load() *Config {
	theme, err := ParseTheme(themeYAML)
	if err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded theme.yaml: " + err.Error())
	}

	return &Config{
		Store: StoreConfig{
			FaceDatabaseFile: envString("FACE_DATABASE_FILE", constants.DefaultFaceDatabaseFile),
			AttendanceFile:   envString("ATTENDANCE_FILE", constants.DefaultAttendanceFile),
		},
		Match: MatchConfig{
			Threshold:   envFloat("MATCH_THRESHOLD", constants.DefaultMatchThreshold),
			EncodingDim: envNonNegInt("ENCODING_DIM", constants.DefaultEncodingDim),
		},
		Embedding: EmbeddingConfig{
			URL: os.Getenv("EMBEDDING_URL"),
		},
		Camera: CameraConfig{
			URL:     os.Getenv("CAMERA_URL"),
			File:    os.Getenv("CAMERA_FILE"),
			MaxSize: envInt("CAMERA_MAX_SIZE", constants.MaxImageSize),
		},
		Door: DoorConfig{
			URL:     os.Getenv("DOOR_URL"),
			Timeout: envDuration("DOOR_TIMEOUT", constants.DefaultDoorTimeout),
		},
		Email: EmailConfig{
			Provider:  envString("EMAIL_PROVIDER", "smtp"),
			Recipient: os.Getenv("RECIPIENT_EMAIL"),
			Sender:    os.Getenv("EMAIL_SENDER"),
			SMTPHost:  envString("SMTP_HOST", constants.DefaultSMTPHost),
			SMTPPort:  envInt("SMTP_PORT", constants.DefaultSMTPPort),
			Username:  os.Getenv("SMTP_USERNAME"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			ResendKey: os.Getenv("RESEND_API_KEY"),
		},
		Log: LogConfig{
			Level: envString("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", constants.DefaultWebHost),
			Port:           envInt("WEB_PORT", constants.DefaultWebPort),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Theme: theme,
	}
}
