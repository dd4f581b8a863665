// Package analysis answers free-text questions about a user's receipts
// with a chat completion model.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/digireceipt/digireceipt-go/internal/model"
)

var ErrEmptyCompletion = errors.New("completion returned no choices")

const systemInstruction = "You are a financial assistant."

type Analyzer interface {
	Analyze(ctx context.Context, prompt string, receipts []model.Receipt) (string, error)
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIAnalyzer struct {
	client  chatCompleter
	model   string
	timeout time.Duration
}

func NewOpenAIAnalyzer(client *openai.Client, model string, timeout time.Duration) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{client: client, model: model, timeout: timeout}
}

// Analyze sends the receipts as JSON followed by the user's prompt and
// returns the first choice's text.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, prompt string, receipts []model.Receipt) (string, error) {
	messages, err := buildMessages(prompt, receipts)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

type receiptData struct {
	MarketName    string
	MarketBranch  string
	DateTime      model.Timestamp
	TotalQuantity int
	Products      []productData
}

type productData struct {
	ProductName  string
	ProductPiece int
	KdvRate      float64
}

func buildMessages(prompt string, receipts []model.Receipt) ([]openai.ChatCompletionMessage, error) {
	data := make([]receiptData, 0, len(receipts))
	for _, r := range receipts {
		products := make([]productData, 0, len(r.Products))
		for _, p := range r.Products {
			products = append(products, productData{
				ProductName:  p.Name,
				ProductPiece: p.Piece,
				KdvRate:      p.KdvRate,
			})
		}
		data = append(data, receiptData{
			MarketName:    r.MarketName,
			MarketBranch:  r.MarketBranch,
			DateTime:      model.NewTimestamp(r.DateTime),
			TotalQuantity: r.TotalQuantity,
			Products:      products,
		})
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding receipts: %w", err)
	}

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
		{Role: openai.ChatMessageRoleUser, Content: "Here is the data: " + string(encoded)},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}, nil
}
