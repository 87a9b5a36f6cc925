// Package mock provides hand-written, call-recording fakes of the
// connection-lifecycle core's consumed interfaces (model.Connection,
// model.EventBus, model.Registries, model.Clock) for use in unit tests.
// Each fake records every call and exposes exported fields/fields to
// configure behaviour, in the style of this repository's other mock
// packages.
package mock

import (
	"context"
	"sync"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

var _ model.Connection = (*Connection)(nil)

// Connection is a mock implementation of [model.Connection].
// Safe for concurrent use.
type Connection struct {
	mu sync.Mutex

	online bool

	// Sent records every packet passed to Send, in order.
	Sent []any

	// Kicked is set once Kick is called.
	Kicked     bool
	KickReason model.KickReason

	Disconnected bool

	CompressionThreshold int
	CompressionStarted   bool

	// KnownPacksResult configures what RequestKnownPacks resolves to. If
	// KnownPacksBlock is true, the returned channel is never written to
	// (simulating a client that never answers).
	KnownPacksResult model.KnownPacksResult
	KnownPacksBlock  bool

	Processor model.LoginPluginMessageProcessor
}

// NewConnection returns an online mock connection.
func NewConnection() *Connection {
	return &Connection{online: true}
}

func (c *Connection) Send(packet any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sent = append(c.Sent, packet)
}

func (c *Connection) Kick(reason model.KickReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Kicked = true
	c.KickReason = reason
	c.online = false
}

func (c *Connection) IsOnline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

// SetOnline lets a test simulate the client vanishing mid-transition.
func (c *Connection) SetOnline(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.online = v
}

func (c *Connection) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Disconnected = true
	c.online = false
}

func (c *Connection) RequestKnownPacks(ctx context.Context, offered []model.KnownPackEntry) <-chan model.KnownPacksResult {
	out := make(chan model.KnownPacksResult, 1)
	c.mu.Lock()
	block := c.KnownPacksBlock
	result := c.KnownPacksResult
	c.mu.Unlock()
	if block {
		return out
	}
	out <- result
	return out
}

func (c *Connection) LoginPluginMessageProcessor() model.LoginPluginMessageProcessor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Processor
}

func (c *Connection) StartCompression(threshold int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CompressionThreshold = threshold
	c.CompressionStarted = true
}

// LastSent returns the most recently sent packet, or nil if none was sent.
func (c *Connection) LastSent() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Sent) == 0 {
		return nil
	}
	return c.Sent[len(c.Sent)-1]
}
