// Package loader reads raw sales data files into ordered text lines.
//
// Input files come from exports with inconsistent encodings, so the loader
// tries a fixed list of candidate encodings in order (UTF-8, Latin-1,
// Windows-1252) until one decodes cleanly. The header line and blank lines
// are dropped; everything else is returned untouched for the record parser.
package loader

import (
	"bufio"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/asaisreeja/Sales-Analytics-System/pkg/errors"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/logger"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Config holds configuration for the line loader.
type Config struct {
	// SkipHeader drops the first line of the file.
	SkipHeader bool
	// SkipBlankLines drops lines that are empty after trimming.
	SkipBlankLines bool
}

// DefaultConfig returns a configuration matching the sales data file layout:
// one header line followed by one record per line.
func DefaultConfig() *Config {
	return &Config{
		SkipHeader:     true,
		SkipBlankLines: true,
	}
}

// Loader reads raw text lines from sales data files.
type Loader struct {
	config *Config
	logger logger.Logger
}

// NewLoader creates a Loader with the given configuration.
func NewLoader(config *Config) *Loader {
	if config == nil {
		config = DefaultConfig()
	}

	return &Loader{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("loader"),
	}
}

// candidateEncodings returns the decoders tried in order. UTF-8 first; the
// single-byte fallbacks accept any byte sequence, matching the permissive
// behavior expected of legacy exports.
func candidateEncodings() []struct {
	name    string
	decoder *encoding.Decoder
} {
	return []struct {
		name    string
		decoder *encoding.Decoder
	}{
		{"utf-8", unicode.UTF8.NewDecoder()},
		{"latin-1", charmap.ISO8859_1.NewDecoder()},
		{"windows-1252", charmap.Windows1252.NewDecoder()},
	}
}

// LoadLines reads the file at path and returns its data lines in order,
// with the header and blank lines removed.
func (l *Loader) LoadLines(path string) ([]string, error) {
	l.logger.WithField("file_path", path).Debug("Reading sales data file")

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, errors.FileError(errors.CodeFileNotFound, path, err)
	}

	text, encodingName, err := decodeWithFallback(raw)
	if err != nil {
		return nil, errors.FileError(errors.CodeEncodingError, path, err)
	}

	lines := splitDataLines(text, l.config)

	l.logger.WithFields(logger.Fields{
		"file_path": path,
		"encoding":  encodingName,
		"lines":     len(lines),
	}).Info("Loaded sales data file")

	return lines, nil
}

// decodeWithFallback tries each candidate encoding in order and returns the
// decoded text plus the name of the encoding that succeeded.
func decodeWithFallback(raw []byte) (string, string, error) {
	var lastErr error
	for _, candidate := range candidateEncodings() {
		if candidate.name == "utf-8" {
			// The UTF-8 decoder replaces invalid sequences rather than
			// failing, so validity is checked explicitly to preserve the
			// fallback order.
			if utf8.Valid(raw) {
				return string(raw), candidate.name, nil
			}
			continue
		}

		decoded, err := candidate.decoder.Bytes(raw)
		if err != nil {
			lastErr = err
			continue
		}
		return string(decoded), candidate.name, nil
	}

	return "", "", lastErr
}

// splitDataLines splits decoded text into trimmed lines, applying the header
// and blank-line skipping rules.
func splitDataLines(text string, config *Config) []string {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if config.SkipHeader && lineNumber == 1 {
			continue
		}

		line := strings.TrimSpace(scanner.Text())
		if config.SkipBlankLines && line == "" {
			continue
		}

		lines = append(lines, line)
	}

	return lines
}
