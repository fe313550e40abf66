package instrument

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const maskedValue = "***"

// credentialFields never reach a log sink in clear text, whatever the config says.
var credentialFields = []string{
	"password",
	"new_password",
	"otp",
	"access_token",
	"refresh_token",
	"reset_token",
	"authorization",
}

type logOptions struct {
	serviceName string
	level       slog.Leveler
	provider    *sdklog.LoggerProvider
	maskFields  []string
}

func initLogging(opts logOptions) {
	slog.SetDefault(slog.New(newHandler(os.Stdout, opts)))
}

// parseLevel accepts the slog level names (debug, info, warn, error) and
// falls back to info.
func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// newHandler builds the chain context -> redact -> sinks. The JSON sink
// always writes to w; the OTLP bridge is added when a provider is given.
func newHandler(w io.Writer, opts logOptions) slog.Handler {
	level := opts.level
	if level == nil {
		level = slog.LevelInfo
	}

	sinks := []slog.Handler{slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: renameAttr,
	})}
	if opts.provider != nil {
		sinks = append(sinks, otelslog.NewHandler(opts.serviceName, otelslog.WithLoggerProvider(opts.provider)))
	}

	var sink slog.Handler = fanout(sinks)
	if len(sinks) == 1 {
		sink = sinks[0]
	}

	return &contextHandler{
		Handler:     &redactHandler{next: sink, mask: newMasker(opts.maskFields)},
		serviceName: opts.serviceName,
	}
}

func renameAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		if _, rel, found := strings.Cut(src.File, "/internal/"); found {
			return slog.String("file", fmt.Sprintf("internal/%s:%d", rel, src.Line))
		}
		return slog.Attr{}
	}
	return a
}

// contextHandler stamps the correlation id and service name on every record.
type contextHandler struct {
	slog.Handler
	serviceName string
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if cID := GetCorrelationID(ctx); cID != "" {
		r.AddAttrs(slog.String("_cID", cID))
	}
	r.AddAttrs(slog.String("service", h.serviceName))

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), serviceName: h.serviceName}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), serviceName: h.serviceName}
}

// fanout sends each record to every sink that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// redactHandler masks credential values in record attributes and in
// attributes bound with Logger.With.
type redactHandler struct {
	next slog.Handler
	mask masker
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.mask.attr(a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask.attr(a)
	}
	return &redactHandler{next: h.next.WithAttrs(masked), mask: h.mask}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{next: h.next.WithGroup(name), mask: h.mask}
}

// masker is the set of lower-cased field names whose values are hidden.
type masker map[string]struct{}

func newMasker(extra []string) masker {
	m := make(masker, len(credentialFields)+len(extra))
	for _, f := range append(credentialFields[:len(credentialFields):len(credentialFields)], extra...) {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			m[f] = struct{}{}
		}
	}
	return m
}

func (m masker) hides(key string) bool {
	_, ok := m[strings.ToLower(key)]
	return ok
}

func (m masker) attr(a slog.Attr) slog.Attr {
	if m.hides(a.Key) {
		return slog.String(a.Key, maskedValue)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = m.attr(ga)
		}
		a.Value = slog.GroupValue(out...)

	case slog.KindString:
		// request and response bodies are logged as raw JSON strings
		if s := a.Value.String(); s != "" && (s[0] == '{' || s[0] == '[') {
			if masked, ok := m.json([]byte(s)); ok {
				a.Value = slog.StringValue(masked)
			}
		}

	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any, []any:
			a.Value = slog.AnyValue(m.value(v))
		case map[string]string:
			conv := make(map[string]any, len(v))
			for k, s := range v {
				conv[k] = s
			}
			a.Value = slog.AnyValue(m.value(conv))
		case []byte:
			if masked, ok := m.json(v); ok {
				a.Value = slog.StringValue(masked)
			}
		}
	}

	return a
}

func (m masker) value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if m.hides(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = m.value(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = m.value(inner)
		}
		return out
	default:
		return v
	}
}

func (m masker) json(payload []byte) (string, bool) {
	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}
	out, err := json.Marshal(m.value(body))
	if err != nil {
		return "", false
	}
	return string(out), true
}
