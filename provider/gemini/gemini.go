// Package gemini provides a Gateway implementation using Google's Gemini
// API via the official Go SDK: https://github.com/googleapis/go-genai
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/teklini/nanogen"
)

// APIModelNanoBanana is the Gemini image model the studio targets
// (Gemini 2.5 Flash Image, "nano banana").
const APIModelNanoBanana = "gemini-2.5-flash-image"

// Config configures the gateway.
type Config struct {
	// APIKey for authentication. If empty, the SDK will try GOOGLE_API_KEY
	// or GEMINI_API_KEY env vars; an absent key is logged at construction
	// and fails at call time with an authentication error.
	APIKey string

	// Model overrides the default model name.
	Model string
}

// Gateway implements nanogen.Gateway on the Gemini API. One blocking
// GenerateContent call per Send, no retry, no streaming.
type Gateway struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ nanogen.Gateway = (*Gateway)(nil)

// New creates a Gateway. A missing API key is a misconfiguration worth
// logging, but not fatal until the first remote call.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		logger.Error("API key is not configured; remote calls will fail authentication")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = APIModelNanoBanana
	}

	return &Gateway{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Send executes one generation request and returns the raw candidate
// structure. All failures, network, auth, remote validation or server side,
// come back as a *nanogen.GatewayError carrying the remote diagnostic text.
func (g *Gateway) Send(ctx context.Context, req nanogen.GenerationRequest) (*nanogen.Response, error) {
	contents, err := buildContents(req)
	if err != nil {
		return nil, &nanogen.GatewayError{Message: err.Error(), Err: err}
	}

	model := req.Model
	if model == "" {
		model = g.model
	}

	result, err := g.client.Models.GenerateContent(ctx, model, contents, buildGenerateContentConfig(req))
	if err != nil {
		g.logger.Error("remote generation call failed",
			"model", model,
			"error", err.Error(),
		)
		return nil, &nanogen.GatewayError{Message: err.Error(), Err: err}
	}

	return convertResponse(result), nil
}

// buildContents maps the request's ordered parts onto the SDK's content
// structure, preserving part order exactly.
func buildContents(req nanogen.GenerationRequest) ([]*genai.Content, error) {
	parts := make([]*genai.Part, 0, len(req.Parts))
	for i, part := range req.Parts {
		switch {
		case part.Inline != nil:
			data, err := part.Inline.Bytes()
			if err != nil {
				return nil, fmt.Errorf("part %d: %w", i, err)
			}
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{
					Data:     data,
					MIMEType: part.Inline.MIMEType,
				},
			})
		case part.Text != "":
			parts = append(parts, &genai.Part{Text: part.Text})
		}
	}

	return []*genai.Content{{Parts: parts}}, nil
}

// buildGenerateContentConfig carries the output configuration. The aspect
// ratio travels here, never in the content parts.
func buildGenerateContentConfig(req nanogen.GenerationRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	if req.AspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{
			AspectRatio: req.AspectRatio.String(),
		}
	}
	return cfg
}

// convertResponse maps the SDK response onto the provider-neutral candidate
// structure the extractor scans.
func convertResponse(result *genai.GenerateContentResponse) *nanogen.Response {
	if result == nil {
		return &nanogen.Response{}
	}

	resp := &nanogen.Response{
		Candidates: make([]nanogen.Candidate, 0, len(result.Candidates)),
	}
	for _, candidate := range result.Candidates {
		out := nanogen.Candidate{}
		if candidate.Content != nil {
			content := &nanogen.Content{
				Parts: make([]nanogen.ResponsePart, 0, len(candidate.Content.Parts)),
			}
			for _, part := range candidate.Content.Parts {
				rp := nanogen.ResponsePart{Text: part.Text}
				if part.InlineData != nil {
					rp.Inline = &nanogen.InlineImage{
						Data:     part.InlineData.Data,
						MIMEType: part.InlineData.MIMEType,
					}
				}
				content.Parts = append(content.Parts, rp)
			}
			out.Content = content
		}
		resp.Candidates = append(resp.Candidates, out)
	}
	return resp
}
