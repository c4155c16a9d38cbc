package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1"

// geminiFallbackModels are tried in order when the configured model is not
// available on the endpoint.
var geminiFallbackModels = []string{
	"gemini-pro",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
}

var errGeminiModelUnavailable = errors.New("gemini model unavailable")

// GeminiProvider calls the generateContent endpoint with the report image
// inlined as base64.
type GeminiProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewGeminiProvider(apiKey string, model string, baseURL string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.5-flash"
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &GeminiProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type geminiGenerateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (provider *GeminiProvider) AnalyzeImage(ctx context.Context, req ImageRequest) (Result, error) {
	if strings.TrimSpace(req.ImageBase64) == "" {
		return Result{}, errors.New("image payload is empty")
	}
	mimeType := strings.TrimSpace(req.MimeType)
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	result, err := provider.generate(ctx, provider.model, req.ImageBase64, mimeType)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, errGeminiModelUnavailable) {
		return Result{}, err
	}

	// The configured model is not served by this endpoint; walk the
	// fallback list the way the mobile client did.
	for _, model := range geminiFallbackModels {
		result, err = provider.generate(ctx, model, req.ImageBase64, mimeType)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, errGeminiModelUnavailable) {
			return Result{}, err
		}
	}
	return Result{}, fmt.Errorf("no usable gemini model: %w", err)
}

func (provider *GeminiProvider) generate(ctx context.Context, model string, imageBase64 string, mimeType string) (Result, error) {
	payload := geminiGenerateRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: analysisPrompt},
					{InlineData: &geminiInlineData{MimeType: mimeType, Data: imageBase64}},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", provider.baseURL, model, provider.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := provider.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Result{}, fmt.Errorf("%w: %s", errGeminiModelUnavailable, model)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Result{}, fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(detail))
	}

	var parsed geminiGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return Result{}, errors.New("no answer generated")
	}
	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return Result{}, errors.New("no answer generated")
	}
	return Result{Text: text, Model: model}, nil
}
