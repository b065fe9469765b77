package static

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/constants"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type indexPage struct {
	config.ThemeConfig
	FramePollMs int64
}

// RenderIndex writes the kiosk page styled with theme.
func RenderIndex(w io.Writer, theme config.ThemeConfig) error {
	return indexTmpl.Execute(w, indexPage{
		ThemeConfig: theme,
		FramePollMs: constants.FramePollInterval.Milliseconds(),
	})
}
