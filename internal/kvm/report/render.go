package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by NewRenderer.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, rep *Report) error
}

// NewRenderer returns the renderer for format. Colors only apply to text and
// are further subject to fatih/color's terminal detection.
func NewRenderer(format string, colors bool) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return NewTextRenderer(colors), nil
	case FormatJSON:
		return jsonRenderer{}, nil
	case FormatYAML:
		return yamlRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want text, json or yaml)", format)
	}
}

// TextRenderer prints records the way the console log always looked:
// successes in green, errors in red, warnings and listings in yellow, paths
// in cyan.
type TextRenderer struct {
	success *color.Color
	failure *color.Color
	warning *color.Color
	path    *color.Color
}

// NewTextRenderer creates a TextRenderer; colors=false forces plain output.
func NewTextRenderer(colors bool) *TextRenderer {
	r := &TextRenderer{
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		warning: color.New(color.FgYellow),
		path:    color.New(color.FgCyan),
	}
	if !colors {
		for _, c := range []*color.Color{r.success, r.failure, r.warning, r.path} {
			c.DisableColor()
		}
	}
	return r
}

// Render implements Renderer.
func (r *TextRenderer) Render(w io.Writer, rep *Report) error {
	for _, rec := range rep.Records {
		if err := r.renderRecord(w, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) renderRecord(w io.Writer, rec Record) error {
	var err error
	switch rec.Kind {
	case KindSuccess:
		_, err = fmt.Fprintln(w, r.success.Sprint(rec.Message))
		if err == nil && rec.Path != "" {
			_, err = fmt.Fprintln(w, "  "+r.path.Sprint(rec.Path))
		}
	case KindError:
		_, err = fmt.Fprintln(w, r.failure.Sprint(rec.Message))
	case KindWarning:
		_, err = fmt.Fprintln(w, r.warning.Sprint(rec.Message))
	case KindListing:
		_, err = fmt.Fprintln(w, r.warning.Sprint(rec.Message))
		for _, item := range rec.Items {
			if err != nil {
				break
			}
			_, err = fmt.Fprintln(w, "  "+item)
		}
	case KindDisclaimer:
		_, err = fmt.Fprintf(w, "\n%s\n", rec.Message)
	default:
		_, err = fmt.Fprintln(w, rec.Message)
	}
	return err
}

type jsonRenderer struct{}

func (jsonRenderer) Render(w io.Writer, rep *Report) error {
	return Encode(w, FormatJSON, rep)
}

type yamlRenderer struct{}

func (yamlRenderer) Render(w io.Writer, rep *Report) error {
	return Encode(w, FormatYAML, rep)
}

// Encode writes v as JSON or YAML. It backs the structured output of
// commands that do not produce a Report.
func Encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}
