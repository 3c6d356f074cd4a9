package toplist

import (
	"context"
	"sync"
)

// PublishedMessage is a message captured by MockRedisClient
type PublishedMessage struct {
	Channel string
	Message interface{}
}

// MockRedisClient is a mock implementation of RedisClient for testing.
// Exported for use in other packages
type MockRedisClient struct {
	mu         sync.Mutex
	Messages   []PublishedMessage
	PublishErr error
	Closed     bool
}

// NewMockRedisClient creates a new mock Redis client
func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{}
}

func (m *MockRedisClient) Publish(ctx context.Context, channel string, message interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.Messages = append(m.Messages, PublishedMessage{Channel: channel, Message: message})
	return nil
}

func (m *MockRedisClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Published returns a copy of the captured messages
func (m *MockRedisClient) Published() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedMessage, len(m.Messages))
	copy(out, m.Messages)
	return out
}
