package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"maps"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Axelware/Life-dashboard/config"
	"github.com/Axelware/Life-dashboard/internal/adapters/discord"
	redisadapter "github.com/Axelware/Life-dashboard/internal/adapters/redis"
	"github.com/Axelware/Life-dashboard/internal/data"
	"github.com/Axelware/Life-dashboard/internal/service"
)

// ServiceContainer holds the constructed services and adapters.
type ServiceContainer struct {
	Discord  *discord.Client
	Sessions *redisadapter.SessionStore
	Bot      *redisadapter.BotLink
	Identity *service.IdentityService
	Login    *service.LoginService
	Spotify  *service.SpotifyService

	// Links are the bot's public URLs, fetched once at startup.
	Links map[string]string
}

// ServiceDependencies groups everything BuildServices needs.
type ServiceDependencies struct {
	Config *config.AppConfig
	DB     *sql.DB
	Redis  goredis.UniversalClient
	Logger *slog.Logger
}

// BuildServices constructs the adapters and services from their dependencies.
func BuildServices(deps ServiceDependencies) ServiceContainer {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	discordClient := discord.NewClient(discord.Config{
		ClientID:     cfg.Discord.ClientID,
		ClientSecret: cfg.Discord.ClientSecret,
		RedirectURL:  cfg.Discord.RedirectURL,
		Scope:        cfg.Discord.Scope,
		BaseURL:      cfg.Discord.APIBaseURL,
	})

	sessions := redisadapter.NewSessionStore(deps.Redis, redisadapter.SessionStoreOptions{
		TTL: cfg.Cache.SessionTTL,
	})

	bot := redisadapter.NewBotLink(deps.Redis, redisadapter.BotLinkOptions{
		Queue:   cfg.IPC.Queue,
		Timeout: cfg.IPC.Timeout,
	})

	identity := service.NewIdentityService(service.IdentityServiceOptions{
		Discord:  discordClient,
		Sessions: sessions,
		Bot:      bot,
		Config: service.IdentityCacheConfig{
			TokenExpiryMargin: cfg.Cache.TokenExpiryMargin,
			UserTTL:           cfg.Cache.UserTTL,
			GuildTTL:          cfg.Cache.GuildTTL,
		},
		Logger: logger,
	})

	login := service.NewLoginService(service.LoginServiceOptions{
		OAuth:    discordClient.OAuth2(),
		Sessions: sessions,
	})

	spotify := service.NewSpotifyService(service.SpotifyServiceOptions{
		Users:    &data.UserRepo{DB: deps.DB},
		Identity: identity,
		Config: service.SpotifyConfig{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
		},
		Logger: logger,
	})

	return ServiceContainer{
		Discord:  discordClient,
		Sessions: sessions,
		Bot:      bot,
		Identity: identity,
		Login:    login,
		Spotify:  spotify,
	}
}

// FetchBotLinks asks the bot for its public URLs once at startup. The bot
// being down is not fatal; the configured invite link still gets served.
func FetchBotLinks(ctx context.Context, container *ServiceContainer, cfg *config.AppConfig, logger *slog.Logger) {
	links := map[string]string{}
	if cfg.InviteLink != "" {
		links["invite"] = cfg.InviteLink
	}

	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	fetched, err := container.Bot.Links(fetchCtx)
	if err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "bot links unavailable at startup", "error", err)
		}
	} else {
		maps.Copy(links, fetched)
	}

	container.Links = links
}
