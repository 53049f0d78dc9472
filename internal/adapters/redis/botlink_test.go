package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Axelware/Life-dashboard/internal/testutil"
)

// runFakeBot consumes one request from the queue and pushes the given reply
// payload onto the request's reply key, mimicking the bot process.
func runFakeBot(t *testing.T, client *goredis.Client, queue string, handle func(req request) any) {
	t.Helper()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		popped, err := client.BRPop(ctx, 5*time.Second, queue).Result()
		if err != nil || len(popped) != 2 {
			return
		}

		var req request
		if err := json.Unmarshal([]byte(popped[1]), &req); err != nil {
			return
		}

		reply, err := json.Marshal(handle(req))
		if err != nil {
			return
		}
		client.LPush(ctx, req.ReplyTo, reply)
	}()
}

func TestBotLinkMutualGuildIDs(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	link := NewBotLink(client, BotLinkOptions{Queue: "test:ipc", Timeout: 5 * time.Second})

	runFakeBot(t, client, "test:ipc", func(req request) any {
		assert.Equal(t, "mutual_guild_ids", req.Op)
		assert.NotEmpty(t, req.ID)

		var data map[string]int64
		require.NoError(t, json.Unmarshal(req.Data, &data))
		assert.Equal(t, int64(7), data["user_id"])

		return []int64{1, 2, 3}
	})

	ids, err := link.MutualGuildIDs(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestBotLinkLinks(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	link := NewBotLink(client, BotLinkOptions{Queue: "test:ipc", Timeout: 5 * time.Second})

	runFakeBot(t, client, "test:ipc", func(req request) any {
		assert.Equal(t, "links", req.Op)
		return map[string]string{
			"invite":  "https://discord.com/oauth2/authorize?client_id=x",
			"support": "https://discord.gg/life",
		}
	})

	links, err := link.Links(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://discord.gg/life", links["support"])
	assert.Len(t, links, 2)
}

func TestBotLinkTimeout(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	link := NewBotLink(client, BotLinkOptions{Queue: "test:ipc", Timeout: 100 * time.Millisecond})

	// No bot is consuming the queue, so the call must time out.
	_, err := link.MutualGuildIDs(context.Background(), 7)
	require.ErrorIs(t, err, ErrNoReply)
}

func TestBotLinkRepliesDoNotCross(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	link := NewBotLink(client, BotLinkOptions{Queue: "test:ipc", Timeout: 5 * time.Second})
	ctx := context.Background()

	// A stale reply for some other request sits in Redis already.
	client.LPush(ctx, "test:ipc:reply:stale-id", `[99]`)

	runFakeBot(t, client, "test:ipc", func(request) any {
		return []int64{1}
	})

	ids, err := link.MutualGuildIDs(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}
