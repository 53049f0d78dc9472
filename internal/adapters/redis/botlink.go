package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BotLink issues request/response calls to the bot process over Redis
// lists: requests are LPUSHed onto a shared queue the bot consumes, and
// each reply is BLPOPed from a per-request key. The web and bot processes
// already share a Redis instance for sessions, so no extra transport is
// involved.
type BotLink struct {
	client  redis.UniversalClient
	queue   string
	timeout time.Duration
}

// ErrNoReply is returned when the bot does not answer within the timeout.
// Callers that can degrade gracefully should treat it as "no data".
var ErrNoReply = errors.New("bot did not reply")

// BotLinkOptions holds optional settings for NewBotLink.
type BotLinkOptions struct {
	Queue   string        // defaults to "ipc:requests"
	Timeout time.Duration // defaults to 5s
}

// NewBotLink creates a Redis-backed IPC client.
func NewBotLink(client redis.UniversalClient, opts BotLinkOptions) *BotLink {
	queue := opts.Queue
	if queue == "" {
		queue = "ipc:requests"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BotLink{client: client, queue: queue, timeout: timeout}
}

// request is the wire shape of one IPC call. ReplyTo is the list key the
// bot pushes its answer onto.
type request struct {
	ID      string          `json:"id"`
	Op      string          `json:"op"`
	ReplyTo string          `json:"reply_to"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// MutualGuildIDs asks the bot which of the user's guilds it is also in.
func (b *BotLink) MutualGuildIDs(ctx context.Context, userID int64) ([]int64, error) {
	raw, err := b.call(ctx, "mutual_guild_ids", map[string]int64{"user_id": userID})
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode mutual_guild_ids reply: %w", err)
	}
	return ids, nil
}

// Links asks the bot for its public URLs (invite, support server, ...).
func (b *BotLink) Links(ctx context.Context) (map[string]string, error) {
	raw, err := b.call(ctx, "links", nil)
	if err != nil {
		return nil, err
	}

	links := map[string]string{}
	if err := json.Unmarshal(raw, &links); err != nil {
		return nil, fmt.Errorf("decode links reply: %w", err)
	}
	return links, nil
}

// call performs one request/response round-trip.
func (b *BotLink) call(ctx context.Context, op string, data any) (json.RawMessage, error) {
	req := request{
		ID:      uuid.NewString(),
		Op:      op,
		ReplyTo: b.queue + ":reply:",
	}
	req.ReplyTo += req.ID

	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", op, err)
		}
		req.Data = encoded
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", op, err)
	}

	if err := b.client.LPush(ctx, b.queue, payload).Err(); err != nil {
		return nil, fmt.Errorf("enqueue %s request: %w", op, err)
	}

	reply, err := b.client.BLPop(ctx, b.timeout, req.ReplyTo).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoReply)
		}
		return nil, fmt.Errorf("await %s reply: %w", op, err)
	}

	// BLPop returns [key, value].
	if len(reply) != 2 {
		return nil, fmt.Errorf("%s: unexpected reply shape", op)
	}
	return json.RawMessage(reply[1]), nil
}
