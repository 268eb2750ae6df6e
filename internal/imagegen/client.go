// Package imagegen turns a composed instruction plus a reference photo into a
// self-contained data URI, retrying rate-limited calls with bounded backoff.
package imagegen

import (
	"context"
	"encoding/base64"
	"io"
	"time"

	"github.com/rs/zerolog"

	"chronolens/internal/infra"
	"chronolens/internal/providers/gemini"
)

const (
	// maxRetries bounds automatic recovery: three attempts total.
	maxRetries = 2
	// backoffBase and backoffFactor drive the fallback schedule 3s, 6s, ...
	backoffBase   = 3 * time.Second
	backoffFactor = 2
	// retryBuffer is added on top of a server-suggested wait time.
	retryBuffer = 2 * time.Second
	// retryCeiling is the longest wait worth retrying through automatically.
	// Anything beyond it is indistinguishable from a hang to the caller.
	retryCeiling = 70 * time.Second
)

// ReferencePhoto is the user's uploaded portrait.
type ReferencePhoto struct {
	Data []byte
	MIME string
}

// Editor is the slice of the Gemini facade this client consumes.
type Editor interface {
	EditImage(ctx context.Context, apiKey, instruction string, ref gemini.Blob) (gemini.Image, error)
}

// Client submits generation calls and owns the retry policy.
type Client struct {
	editor Editor
	logger infra.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewClient constructs a generation client around the given editor.
func NewClient(editor Editor, logger *infra.Logger) *Client {
	l := zerolog.New(io.Discard)
	if logger != nil {
		l = *logger
	}
	return &Client{editor: editor, logger: l, sleep: sleepContext}
}

// Generate performs one logical generation: a single external call per
// attempt, with rate-limit failures retried per the backoff schedule and
// every other failure propagated immediately. The result is a
// "data:image/...;base64," URI.
func (c *Client) Generate(ctx context.Context, apiKey, instruction string, photo ReferencePhoto) (string, error) {
	ref := gemini.Blob{Data: photo.Data, MIME: photo.MIME}

	var lastErr error
	for attempt := 0; ; attempt++ {
		img, err := c.editor.EditImage(ctx, apiKey, instruction, ref)
		if err == nil {
			return dataURI(img), nil
		}
		lastErr = err

		if gemini.Classify(err) != gemini.KindRateLimited {
			return "", err
		}
		if attempt >= maxRetries {
			break
		}
		delay := retryDelay(err, attempt)
		if delay > retryCeiling {
			c.logger.Warn().Dur("delay", delay).Msg("imagegen: suggested wait exceeds retry ceiling, giving up")
			return "", err
		}
		c.logger.Info().Int("attempt", attempt+1).Dur("delay", delay).Msg("imagegen: rate limited, backing off")
		if serr := c.sleep(ctx, delay); serr != nil {
			return "", serr
		}
	}
	return "", lastErr
}

// retryDelay prefers the wait time the service suggests in its error message,
// plus a small buffer, and falls back to exponential backoff.
func retryDelay(err error, attempt int) time.Duration {
	if hint, ok := gemini.RetryHint(err); ok {
		return hint + retryBuffer
	}
	delay := backoffBase
	for i := 0; i < attempt; i++ {
		delay *= backoffFactor
	}
	return delay
}

func dataURI(img gemini.Image) string {
	mime := img.MIME
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
