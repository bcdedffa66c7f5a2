package nanogen

import (
	"context"
	"sync"
)

// MockGateway is a mock implementation of Gateway.
type MockGateway struct {
	SendFunc func(ctx context.Context, req GenerationRequest) (*Response, error)

	mu    sync.Mutex
	calls []GenerationRequest
}

func (m *MockGateway) Send(ctx context.Context, req GenerationRequest) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, req)
	}
	return &Response{}, nil
}

// Calls returns the requests the gateway has seen.
func (m *MockGateway) Calls() []GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]GenerationRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// pngResponse builds a single-candidate response with one inline PNG part.
func pngResponse(data []byte) *Response {
	return &Response{
		Candidates: []Candidate{
			{
				Content: &Content{
					Parts: []ResponsePart{
						{Inline: &InlineImage{Data: data, MIMEType: "image/png"}},
					},
				},
			},
		},
	}
}
