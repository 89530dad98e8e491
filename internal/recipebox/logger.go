package recipebox

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger from cfg.LogLevel and cfg.LogFormat.
// The json format uses zap's production encoding, console the development
// one. Output goes to w, normally stderr.
func NewLogger(w io.Writer, cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLogLevelInvalid, err)
	}

	var encoder zapcore.Encoder

	switch cfg.LogFormat {
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "console", "":
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("%w: got %q", ErrLogFormatInvalid, cfg.LogFormat)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))

	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(w))), nil
}
