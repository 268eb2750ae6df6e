// Package gemini wraps the official Google GenAI SDK behind the two calls the
// workflow needs: a search-grounded text request used for location resolution
// and a multimodal image edit used for photo generation.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"chronolens/internal/infra"
)

const (
	// DefaultTextModel answers the location-resolution prompt.
	DefaultTextModel = "gemini-2.5-flash"
	// DefaultImageModel performs the reference-photo edit.
	DefaultImageModel = "gemini-2.5-flash-image"
)

// ErrMissingAPIKey indicates a call was attempted without credentials.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// ErrNoImage indicates the service answered without an inline image part.
var ErrNoImage = errors.New("gemini: response contained no image part")

// ErrEmptyResponse indicates the service answered without any text.
var ErrEmptyResponse = errors.New("gemini: response contained no text")

// ContentAPI is the slice of the SDK surface this package consumes. Tests
// substitute fakes through Options.Connect.
type ContentAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Blob is an encoded byte payload with a declared MIME type.
type Blob struct {
	Data []byte
	MIME string
}

// Image is the inline image extracted from a generation response.
type Image struct {
	Data []byte
	MIME string
}

// Options configures the client. The API key is deliberately not part of the
// options: it is injected per call so the credential store stays the single
// owner of its lifecycle.
type Options struct {
	TextModel  string
	ImageModel string
	Logger     *infra.Logger
	Connect    func(ctx context.Context, apiKey string) (ContentAPI, error)
}

// Client issues Gemini calls on behalf of the resolver and the image
// generation client.
type Client struct {
	textModel  string
	imageModel string
	logger     infra.Logger
	connect    func(ctx context.Context, apiKey string) (ContentAPI, error)
}

// NewClient constructs a client with sane defaults.
func NewClient(opts Options) *Client {
	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = DefaultTextModel
	}
	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	connect := opts.Connect
	if connect == nil {
		connect = dialSDK
	}
	return &Client{
		textModel:  textModel,
		imageModel: imageModel,
		logger:     logger,
		connect:    connect,
	}
}

func dialSDK(ctx context.Context, apiKey string) (ContentAPI, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return client.Models, nil
}

// GroundedText sends a single prompt with Google Search grounding enabled and
// returns the concatenated text parts of the first candidate.
func (c *Client) GroundedText(ctx context.Context, apiKey, prompt string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", ErrMissingAPIKey
	}
	api, err := c.connect(ctx, apiKey)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	resp, err := api.GenerateContent(ctx, c.textModel, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
		break
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}

	c.logger.Debug().Str("model", c.textModel).Int("chars", b.Len()).Msg("gemini: grounded text response")
	return b.String(), nil
}

// EditImage submits the composed instruction plus the reference photo and
// returns the first inline image part. The square aspect hint is appended
// here so the composer stays a pure function of its workflow inputs.
func (c *Client) EditImage(ctx context.Context, apiKey, instruction string, ref Blob) (Image, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Image{}, ErrMissingAPIKey
	}
	api, err := c.connect(ctx, apiKey)
	if err != nil {
		return Image{}, err
	}

	mime := ref.MIME
	if mime == "" {
		mime = "image/jpeg"
	}
	parts := []*genai.Part{
		genai.NewPartFromText(instruction + "\nOutput a single square 1:1 image."),
		{InlineData: &genai.Blob{MIMEType: mime, Data: ref.Data}},
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := api.GenerateContent(ctx, c.imageModel, contents, cfg)
	if err != nil {
		return Image{}, fmt.Errorf("gemini: edit image: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				c.logger.Debug().Str("model", c.imageModel).Int("bytes", len(part.InlineData.Data)).Msg("gemini: image part received")
				return Image{Data: part.InlineData.Data, MIME: part.InlineData.MIMEType}, nil
			}
		}
	}
	return Image{}, ErrNoImage
}
