// Package completion sends assembled prompts to a language model service and turns the reply
// into a ChartSpec. Failures never escape as Go errors; they come back as error specs.
package completion

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/models"
)

// DefaultTimeout bounds one completion call.
const DefaultTimeout = 120 * time.Second

// Provider generates text for a prompt. Implementations report failures as *TransportError,
// *ServiceError or *ParseError.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client wraps a Provider with a timeout and the reply-to-ChartSpec conversion.
type Client struct {
	provider Provider
	timeout  time.Duration
	validate bool
	logger   *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithValidation makes Complete reject replies whose fields do not fit their chart type.
func WithValidation(on bool) Option {
	return func(c *Client) { c.validate = on }
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for p.
func NewClient(p Provider, opts ...Option) *Client {
	c := &Client{provider: p, timeout: DefaultTimeout, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Complete makes exactly one call to the provider. The decoded reply is returned as is; any
// failure becomes a ChartSpec carrying only Error.
func (c *Client) Complete(ctx context.Context, prompt string) models.ChartSpec {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.provider.Generate(ctx, prompt)
	if err != nil {
		return c.fail(err, start)
	}
	spec, err := Parse(text)
	if err != nil {
		return c.fail(err, start)
	}
	if c.validate {
		if verr := spec.Validate(); verr != nil {
			c.logger.Warn("completion rejected",
				zap.String("provider", c.provider.Name()),
				zap.Error(verr))
			return models.ErrorSpec("Invalid chart response: " + verr.Error())
		}
	}
	c.logger.Debug("completion received",
		zap.String("provider", c.provider.Name()),
		zap.String("model", c.provider.Model()),
		zap.Int("prompt_bytes", len(prompt)),
		zap.Duration("duration", time.Since(start)))
	return spec
}

func (c *Client) fail(err error, start time.Time) models.ChartSpec {
	if Kind(err) == "unknown" {
		err = &TransportError{Err: err}
	}
	c.logger.Warn("completion failed",
		zap.String("provider", c.provider.Name()),
		zap.String("kind", Kind(err)),
		zap.Error(err),
		zap.Duration("duration", time.Since(start)))
	return models.ErrorSpec(err.Error())
}

// Parse decodes generated text into a ChartSpec. It fails only when the text is not JSON or
// its top-level value is not an object; field contents are kept as written.
func Parse(text string) (models.ChartSpec, error) {
	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		if !json.Valid([]byte(text)) {
			var v any
			return models.ChartSpec{}, &ParseError{Err: json.Unmarshal([]byte(text), &v)}
		}
		return models.ChartSpec{}, &ParseError{Err: models.ErrNotObject}
	}
	var spec models.ChartSpec
	if err := json.Unmarshal([]byte(text), &spec); err != nil {
		return models.ChartSpec{}, &ParseError{Err: err}
	}
	return spec, nil
}
