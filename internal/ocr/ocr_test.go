package ocr

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubExtractor_PlausibleFields(t *testing.T) {
	s := NewStubExtractor(42)
	fixed := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	for i := 0; i < 50; i++ {
		r, err := s.Extract(context.Background(), []byte{0xff, 0xd8})
		require.NoError(t, err)

		assert.Contains(t, stubMarkets, r.MarketName)
		assert.Contains(t, stubBranches, r.MarketBranch)
		assert.True(t, fixed.Equal(r.DateTime.Time))
		assert.GreaterOrEqual(t, r.TotalQuantity, 1)
		assert.Less(t, r.TotalQuantity, 200)
		assert.GreaterOrEqual(t, len(r.Products), 1)
		assert.LessOrEqual(t, len(r.Products), 5)

		for _, p := range r.Products {
			assert.True(t, slices.Contains(stubProducts, p.ProductName))
			assert.GreaterOrEqual(t, p.ProductPiece, 1)
			assert.Less(t, p.ProductPiece, 10)
			assert.GreaterOrEqual(t, p.KdvRate, 1.0)
			assert.Less(t, p.KdvRate, 20.0)
		}
	}
}

func TestStubExtractor_EmptyImage(t *testing.T) {
	_, err := NewStubExtractor(1).Extract(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

type fakeCompleter struct {
	resp openai.ChatCompletionResponse
	err  error
	req  openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func completion(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
	}
}

func TestOpenAIExtractor_Extract(t *testing.T) {
	fc := &fakeCompleter{resp: completion("```json\n" + `{"marketName":"Migros","marketBranch":"Merkez Şubesi","dateTime":"2024-05-01T10:15:00","totalQuantity":3,"products":[{"productName":"Süt","productPiece":2,"kdvRate":1},{"productName":"Ekmek","productPiece":1,"kdvRate":1}]}` + "\n```")}
	e := &OpenAIExtractor{client: fc, model: openai.GPT4o, timeout: time.Second}

	png := []byte("\x89PNG\r\n\x1a\n0000")
	r, err := e.Extract(context.Background(), png)
	require.NoError(t, err)

	assert.Equal(t, "Migros", r.MarketName)
	assert.Equal(t, 3, r.TotalQuantity)
	assert.Len(t, r.Products, 2)
	assert.Equal(t, 2024, r.DateTime.Year())

	require.Len(t, fc.req.Messages, 2)
	part := fc.req.Messages[1].MultiContent[0]
	assert.True(t, strings.HasPrefix(part.ImageURL.URL, "data:image/png;base64,"))
	assert.Equal(t, openai.GPT4o, fc.req.Model)
}

func TestOpenAIExtractor_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fc      *fakeCompleter
		wantErr error
	}{
		{"provider error", &fakeCompleter{err: errors.New("rate limited")}, nil},
		{"no choices", &fakeCompleter{}, ErrNoExtraction},
		{"blank content", &fakeCompleter{resp: completion("  ")}, ErrNoExtraction},
		{"not json", &fakeCompleter{resp: completion("sorry, I cannot read this")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &OpenAIExtractor{client: tt.fc, model: "m", timeout: time.Second}
			_, err := e.Extract(context.Background(), []byte("img"))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParseReceiptJSON_NilProductsBecomeEmpty(t *testing.T) {
	r, err := parseReceiptJSON(`{"marketName":"Bim"}`)
	require.NoError(t, err)
	assert.NotNil(t, r.Products)
	assert.Empty(t, r.Products)
}
