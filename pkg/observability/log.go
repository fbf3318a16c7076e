package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports render and serve events to a logger at debug level.
// Failed frames and 5xx responses are logged as errors.
type LogHooks struct {
	logger *log.Logger
}

var (
	_ RenderHooks = (*LogHooks)(nil)
	_ ServeHooks  = (*LogHooks)(nil)
)

// NewLogHooks returns hooks writing to logger, or to log.Default() if nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnFrameStart(_ context.Context, t int) {
	h.logger.Debug("frame start", "t", t)
}

func (h *LogHooks) OnFrameComplete(_ context.Context, t int, rings int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Error("frame failed", "t", t, "err", err)
		return
	}
	h.logger.Debug("frame done", "t", t, "rings", rings, "duration", duration)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, statusCode int, duration time.Duration) {
	if statusCode >= 500 {
		h.logger.Error("response", "method", method, "path", path, "status", statusCode, "duration", duration)
		return
	}
	h.logger.Debug("response", "method", method, "path", path, "status", statusCode, "duration", duration)
}
