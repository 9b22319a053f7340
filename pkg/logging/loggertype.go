package logging

import "github.com/pkg/errors"

// LoggerType is a type of logger output.
// Possible types:
//   - LoggerText: The standard slog.TextHandler.
//   - LoggerJSON: The standard slog.JSONHandler.
//   - LoggerPretty: The logger outputs pretty messages.
//   - LoggerPrettyNoColor: The logger outputs pretty messages without colors.
type LoggerType int

const (
	LoggerText LoggerType = iota
	LoggerJSON
	LoggerPretty
	LoggerPrettyNoColor
)

func (t LoggerType) String() string {
	switch t {
	case LoggerText:
		return "text"
	case LoggerJSON:
		return "json"
	case LoggerPretty:
		return "pretty"
	case LoggerPrettyNoColor:
		return "pretty-no-color"
	default:
		return "unknown"
	}
}

func (t LoggerType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *LoggerType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "text":
		*t = LoggerText
	case "json":
		*t = LoggerJSON
	case "pretty":
		*t = LoggerPretty
	case "pretty-no-color":
		*t = LoggerPrettyNoColor
	default:
		return errors.Errorf("unsupported logger type %q", string(text))
	}
	return nil
}
