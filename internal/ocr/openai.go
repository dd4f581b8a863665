package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/digireceipt/digireceipt-go/internal/model"
)

var ErrNoExtraction = errors.New("ocr provider returned no result")

const extractInstruction = `You read photos of Turkish shopping receipts.
Reply with a single JSON object and nothing else, using exactly these keys:
{"marketName": string, "marketBranch": string, "dateTime": "YYYY-MM-DDTHH:MM:SS",
 "totalQuantity": integer, "products": [{"productName": string, "productPiece": integer, "kdvRate": number}]}
kdvRate is the VAT percentage printed next to the item. Use empty strings or 0 for anything unreadable.`

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIExtractor asks a vision-capable chat model to transcribe the receipt.
type OpenAIExtractor struct {
	client  chatCompleter
	model   string
	timeout time.Duration
}

func NewOpenAIExtractor(client *openai.Client, model string, timeout time.Duration) *OpenAIExtractor {
	return &OpenAIExtractor{client: client, model: model, timeout: timeout}
}

func (e *OpenAIExtractor) Extract(ctx context.Context, image []byte) (model.ReceiptRequest, error) {
	if len(image) == 0 {
		return model.ReceiptRequest{}, ErrEmptyImage
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, e.buildRequest(image))
	if err != nil {
		return model.ReceiptRequest{}, err
	}
	if len(resp.Choices) == 0 {
		return model.ReceiptRequest{}, ErrNoExtraction
	}

	return parseReceiptJSON(resp.Choices[0].Message.Content)
}

func (e *OpenAIExtractor) buildRequest(image []byte) openai.ChatCompletionRequest {
	dataURL := "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)

	return openai.ChatCompletionRequest{
		Model: e.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractInstruction},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailHigh},
					},
				},
			},
		},
	}
}

// parseReceiptJSON decodes the model output, tolerating a fenced code block.
func parseReceiptJSON(content string) (model.ReceiptRequest, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	if content == "" {
		return model.ReceiptRequest{}, ErrNoExtraction
	}

	var out model.ReceiptRequest
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return model.ReceiptRequest{}, fmt.Errorf("decoding ocr result: %w", err)
	}
	if out.Products == nil {
		out.Products = []model.ProductRequest{}
	}
	return out, nil
}
