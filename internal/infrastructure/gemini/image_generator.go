// Package gemini adapts the Google Gemini image model to domain.ImageGenerator.
package gemini

import (
	"context"
	"fmt"

	"github.com/roomstyler/backend/internal/domain"
	"github.com/zeromicro/go-zero/core/logx"
	"google.golang.org/genai"
)

// contentGenerator is the part of *genai.Models the generator uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageGenerator redraws a room photo with a Gemini image model
type ImageGenerator struct {
	models contentGenerator
	model  string
}

// NewImageGenerator creates a generator backed by the Gemini API.
// An empty API key yields a generator whose calls fail with ErrImageGeneration.
func NewImageGenerator(ctx context.Context, apiKey, model string) (*ImageGenerator, error) {
	if model == "" {
		model = "gemini-2.5-flash-image"
	}
	if apiKey == "" {
		return &ImageGenerator{model: model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &ImageGenerator{models: client.Models, model: model}, nil
}

// Generate sends the base image and prompt and returns the first inline image in the reply
func (g *ImageGenerator) Generate(ctx context.Context, image []byte, mimeType, prompt string) (*domain.GeneratedImage, error) {
	if g.models == nil {
		return nil, fmt.Errorf("%w: gemini API key not configured", domain.ErrImageGeneration)
	}

	logger := logx.WithContext(ctx)
	logger.Infof("[Gemini] Generating image with %s (%d input bytes)", g.model, len(image))

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			{InlineData: &genai.Blob{Data: image, MIMEType: mimeType}},
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		logger.Errorf("[Gemini] GenerateContent error: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrImageGeneration, err)
	}

	generated := firstInlineImage(resp)
	if generated == nil {
		return nil, fmt.Errorf("%w: model returned no image", domain.ErrImageGeneration)
	}

	logger.Infof("[Gemini] Generated %s image (%d bytes)", generated.MimeType, len(generated.Data))
	return generated, nil
}

func firstInlineImage(resp *genai.GenerateContentResponse) *domain.GeneratedImage {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return &domain.GeneratedImage{Data: part.InlineData.Data, MimeType: mimeType}
		}
	}
	return nil
}
