package logger

import (
	"strings"

	"github.com/huy11113/cinetaste-ai/internal/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const coloredEncoding = "colored-console"

var pool = buffer.NewPool()

func init() {
	_ = zap.RegisterEncoder(coloredEncoding, func(cfg zapcore.EncoderConfig) (zapcore.Encoder, error) {
		return NewColoredConsoleEncoder(cfg), nil
	})
}

// coloredConsoleEncoder highlights the JSON field blob of console lines.
type coloredConsoleEncoder struct {
	zapcore.Encoder
}

func NewColoredConsoleEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &coloredConsoleEncoder{Encoder: zapcore.NewConsoleEncoder(cfg)}
}

func (c *coloredConsoleEncoder) Clone() zapcore.Encoder {
	return &coloredConsoleEncoder{Encoder: c.Encoder.Clone()}
}

func (c *coloredConsoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf, err := c.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return nil, err
	}

	// console lines are "meta\tmeta\tmsg\t{fields}"
	line := buf.String()
	idx := strings.Index(line, "\t{")
	if idx == -1 {
		return buf, nil
	}

	out := pool.Get()
	out.AppendString(line[:idx+1])
	out.AppendString(cli.HighlightJSON(line[idx+1:]))
	buf.Free()
	return out, nil
}
