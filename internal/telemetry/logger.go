package telemetry

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "task-manager"

// NewConsoleLogger - JSON-логгер в stdout.
func NewConsoleLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(lvl),
	)

	return zap.New(core), nil
}

// WithShipper добавляет к логгеру ответвление в Shipper: каждая запись
// уходит и в stdout, и в очередь отправки.
func WithShipper(logger *zap.Logger, shipper *Shipper) *zap.Logger {
	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, &shippingCore{
			LevelEnabler: core,
			shipper:      shipper,
		})
	}))
}

// shippingCore - zapcore.Core, складывающий записи в Shipper.
type shippingCore struct {
	zapcore.LevelEnabler
	shipper *Shipper
	fields  []zapcore.Field
}

func (c *shippingCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field{}, c.fields...), fields...)
	return &clone
}

func (c *shippingCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *shippingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	c.shipper.Enqueue(&Entry{
		Service:   serviceName,
		Level:     entry.Level.String(),
		Message:   entry.Message,
		Timestamp: entry.Time.UTC(),
		Fields:    enc.Fields,
	})

	// Enqueue не блокируется и не возвращает ошибок: сбои телеметрии
	// не должны попадать в путь запроса
	return nil
}

func (c *shippingCore) Sync() error {
	return nil
}
