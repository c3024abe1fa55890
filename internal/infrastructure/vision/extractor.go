package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/roomstyler/backend/internal/domain"
	"github.com/zeromicro/go-zero/core/logx"
)

const systemPrompt = "You are an expert interior designer and personal shopper. " +
	"You list the furniture and decor visible in room images and answer only with JSON."

// Options configures the furniture extractor
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// FurnitureList is the structured output requested from the model
type FurnitureList struct {
	Furniture []FurnitureEntry `json:"furniture" jsonschema:"title=Furniture,description=List of furniture and decor items."`
}

// FurnitureEntry is one item of the structured output
type FurnitureEntry struct {
	Name           string  `json:"name" jsonschema:"title=Name,description=Short name of the item."`
	Description    string  `json:"description" jsonschema:"title=Description,description=Style and material and colour of the item usable as a shopping query."`
	EstimatedPrice domain.Price `json:"estimatedPrice" jsonschema:"title=EstimatedPrice,description=Estimated price of the item in USD."`
}

// Extractor asks an OpenAI-compatible vision model for the furniture in an image
type Extractor struct {
	client     openai.Client
	model      string
	configured bool
}

// NewExtractor creates a new furniture extractor
func NewExtractor(opts Options) *Extractor {
	if opts.Model == "" {
		opts.Model = "gpt-4o"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 90 * time.Second
	}

	requestOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithRequestTimeout(opts.Timeout),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &Extractor{
		client:     openai.NewClient(requestOpts...),
		model:      opts.Model,
		configured: opts.APIKey != "",
	}
}

// schema generates the JSON schema for the response format
func (e *Extractor) schema() openai.ChatCompletionNewParamsResponseFormatUnion {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "furniture_list",
		Description: openai.String("furniture and decor items visible in the room"),
		Schema:      reflector.Reflect(&FurnitureList{}),
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: schemaParam,
		},
	}
}

// Extract lists the furniture in image. Transport failures are returned as
// ErrExtraction; an unparseable model answer yields an empty list.
func (e *Extractor) Extract(ctx context.Context, image []byte, mimeType, prompt string) ([]domain.FurnitureItem, error) {
	if !e.configured {
		return nil, fmt.Errorf("%w: extractor API key not configured", domain.ErrExtraction)
	}

	logger := logx.WithContext(ctx)
	logger.Infof("[Extractor] Analysing %s image with %s", mimeType, e.model)

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	completion, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
				openai.TextContentPart(prompt),
			}),
		},
		Model:          shared.ChatModel(e.model),
		ResponseFormat: e.schema(),
	})
	if err != nil {
		logger.Errorf("[Extractor] Request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	if len(completion.Choices) == 0 {
		logger.Infof("[Extractor] Model returned no choices, continuing with no furniture")
		return []domain.FurnitureItem{}, nil
	}

	items, err := ParseFurnitureJSON(completion.Choices[0].Message.Content)
	if err != nil {
		logger.Infof("[Extractor] Unparseable furniture JSON, continuing with no furniture: %v", err)
		return []domain.FurnitureItem{}, nil
	}

	logger.Infof("[Extractor] Identified %d furniture items", len(items))
	return items, nil
}

// ParseFurnitureJSON decodes a model answer into furniture items. Code fences
// are tolerated and entries with neither a name nor a description are dropped.
func ParseFurnitureJSON(content string) ([]domain.FurnitureItem, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var list FurnitureList
	if err := json.Unmarshal([]byte(content), &list); err != nil {
		return nil, fmt.Errorf("decode furniture list: %w", err)
	}

	items := make([]domain.FurnitureItem, 0, len(list.Furniture))
	for _, entry := range list.Furniture {
		name := strings.TrimSpace(entry.Name)
		description := strings.TrimSpace(entry.Description)
		if name == "" && description == "" {
			continue
		}
		items = append(items, domain.FurnitureItem{
			Name:           name,
			Description:    description,
			EstimatedPrice: float64(entry.EstimatedPrice),
		})
	}
	return items, nil
}
