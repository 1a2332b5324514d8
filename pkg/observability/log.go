package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug line. Failures are logged at warn.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger. A nil logger uses the
// charmbracelet default logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("obs")}
}

func (h *LogHooks) OnCanonicalizeStart(_ context.Context, n int) {
	h.logger.Debug("canonicalize start", "relationships", n)
}

func (h *LogHooks) OnCanonicalizeComplete(_ context.Context, entities, overwritten int, d time.Duration) {
	h.logger.Debug("canonicalize done", "entities", entities, "overwritten", overwritten, "took", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, entities int) {
	h.logger.Debug("layout start", "entities", entities)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, entities int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "entities", entities, "took", d, "err", err)
		return
	}
	h.logger.Debug("layout done", "entities", entities, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "took", d, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("request", "method", method, "route", route, "status", status, "took", d)
}

func (h *LogHooks) OnRateLimited(_ context.Context, method, route string) {
	h.logger.Warn("rate limited", "method", method, "route", route)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
