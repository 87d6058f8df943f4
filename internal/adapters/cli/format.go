package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WriteData encodes data as json (pretty printed) or yaml.
func WriteData(w io.Writer, data any, format string) error {
	var (
		encoded []byte
		err     error
	)

	switch format {
	case FormatJSON, "":
		encoded, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		encoded, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("%w %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}

	if _, err := w.Write(encoded); err != nil {
		return err
	}
	if len(encoded) > 0 && encoded[len(encoded)-1] != '\n' {
		_, err = io.WriteString(w, "\n")
	}
	return err
}
