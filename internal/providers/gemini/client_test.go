package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

type fakeAPI struct {
	resp    *genai.GenerateContentResponse
	err     error
	model   string
	content []*genai.Content
	config  *genai.GenerateContentConfig
}

func (f *fakeAPI) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.content = contents
	f.config = config
	return f.resp, f.err
}

func newTestClient(api *fakeAPI) *Client {
	return NewClient(Options{
		Connect: func(ctx context.Context, apiKey string) (ContentAPI, error) {
			return api, nil
		},
	})
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGroundedTextRequiresAPIKey(t *testing.T) {
	client := newTestClient(&fakeAPI{resp: textResponse("hello")})
	if _, err := client.GroundedText(context.Background(), "  ", "prompt"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestGroundedTextEnablesSearchTool(t *testing.T) {
	api := &fakeAPI{resp: textResponse("the reply")}
	client := newTestClient(api)

	got, err := client.GroundedText(context.Background(), "key", "where am I")
	if err != nil {
		t.Fatalf("GroundedText returned error: %v", err)
	}
	if got != "the reply" {
		t.Fatalf("reply = %q, want %q", got, "the reply")
	}
	if api.model != DefaultTextModel {
		t.Fatalf("model = %q, want %q", api.model, DefaultTextModel)
	}
	if api.config == nil || len(api.config.Tools) != 1 || api.config.Tools[0].GoogleSearch == nil {
		t.Fatalf("expected Google Search grounding to be enabled: %#v", api.config)
	}
}

func TestGroundedTextEmptyResponse(t *testing.T) {
	client := newTestClient(&fakeAPI{resp: &genai.GenerateContentResponse{}})
	if _, err := client.GroundedText(context.Background(), "key", "prompt"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestEditImageReturnsInlinePart(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	api := &fakeAPI{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here is your edited photo"},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: payload}},
			}},
		}},
	}}
	client := newTestClient(api)

	img, err := client.EditImage(context.Background(), "key", "do the edit", Blob{Data: []byte{1, 2}, MIME: "image/jpeg"})
	if err != nil {
		t.Fatalf("EditImage returned error: %v", err)
	}
	if string(img.Data) != string(payload) {
		t.Fatalf("image bytes mismatch")
	}
	if img.MIME != "image/png" {
		t.Fatalf("mime = %q, want image/png", img.MIME)
	}
	if api.model != DefaultImageModel {
		t.Fatalf("model = %q, want %q", api.model, DefaultImageModel)
	}
	if len(api.content) != 1 || len(api.content[0].Parts) != 2 {
		t.Fatalf("expected one content with text + image parts, got %#v", api.content)
	}
}

func TestEditImageNoImagePart(t *testing.T) {
	client := newTestClient(&fakeAPI{resp: textResponse("sorry, I cannot do that")})
	_, err := client.EditImage(context.Background(), "key", "edit", Blob{Data: []byte{1}})
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("err = %v, want ErrNoImage", err)
	}
}
