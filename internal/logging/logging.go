// Package logging builds zap loggers for yydrive.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Off disables logging, so that stderr carries diagnostics only.
const Off = "off"

// New creates a console-encoded logger for level ("off", "debug", "info", "warn", "error").
// Log is appended to file if it is not empty, otherwise written to stderr.
// The returned closer must be called when logger is no longer needed.
func New(fs afero.Fs, level, file string, stderr io.Writer) (*zap.Logger, func() error, error) {
	nop := func() error { return nil }
	if strings.EqualFold(level, Off) || level == "" {
		return zap.NewNop(), nop, nil
	}

	al := zap.NewAtomicLevel()
	if e := al.UnmarshalText([]byte(strings.ToLower(level))); e != nil {
		return nil, nop, errors.Wrapf(e, "wrong log level %q", level)
	}

	ws := zapcore.AddSync(stderr)
	closer := nop
	if file != "" {
		f, e := fs.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if e != nil {
			return nil, nop, errors.Wrap(e, "cannot open log file")
		}
		ws = zapcore.AddSync(f)
		closer = f.Close
	}

	ec := zap.NewDevelopmentEncoderConfig()
	logger := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(ws), al))
	return logger, closer, nil
}
