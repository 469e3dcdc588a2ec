// Package web provides API routes for the web server.
package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DatabaseStatus reports the state of the storage connection
type DatabaseStatus interface {
	GetStatus() (string, bool)
}

// BotStatus reports the state of the Discord session
type BotStatus interface {
	IsReady() bool
	GuildCount() int
	Identity() *discordgo.User
}

// GuildSource lists known guilds
type GuildSource interface {
	List(ctx context.Context) ([]*models.Guild, error)
}

// SettingsSource returns the effective settings of a guild
type SettingsSource interface {
	All(ctx context.Context, guildID string) (map[models.SettingName]string, error)
}

// SanctionSource lists sanction records of a guild
type SanctionSource interface {
	ListForGuild(ctx context.Context, guildID string, limit int64) ([]*models.Sanction, error)
}

// API holds what the routes read from. Nil fields disable their routes.
type API struct {
	Database  DatabaseStatus
	Bot       BotStatus
	Guilds    GuildSource
	Settings  SettingsSource
	Sanctions SanctionSource
	Pending   func() int
	Gatherer  prometheus.Gatherer
}

const (
	defaultSanctionLimit = 50
	maxSanctionLimit     = 500
	requestTimeout       = 10 * time.Second
)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, a *API) {
	api := s.Group("/api")
	{
		api.GET("/status", a.statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", a.botInfoHandler)
		if a.Guilds != nil {
			api.GET("/guilds", a.guildsHandler)
		}
		if a.Settings != nil {
			api.GET("/guilds/:guildId/settings", a.settingsHandler)
		}
		if a.Sanctions != nil {
			api.GET("/guilds/:guildId/sanctions", a.sanctionsHandler)
		}
	}

	if a.Gatherer != nil {
		s.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Gatherer, promhttp.HandlerOpts{})))
	}
}

// statusHandler returns the bot and database status
func (a *API) statusHandler(c *gin.Context) {
	dbStatus, dbOnline := "unknown", false
	if a.Database != nil {
		dbStatus, dbOnline = a.Database.GetStatus()
	}

	botOnline := a.Bot != nil && a.Bot.IsReady()

	body := gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	}
	if a.Pending != nil {
		body["pendingSanctions"] = a.Pending()
	}

	c.JSON(http.StatusOK, body)
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyMod Go is running",
	})
}

// botInfoHandler returns information about the bot
func (a *API) botInfoHandler(c *gin.Context) {
	if a.Bot == nil || !a.Bot.IsReady() || a.Bot.Identity() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := a.Bot.Identity()

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"avatar":   user.Avatar,
		"guilds":   a.Bot.GuildCount(),
		"isReady":  true,
	})
}

func (a *API) guildsHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	guilds, err := a.Guilds.List(ctx)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guilds": guilds})
}

func (a *API) settingsHandler(c *gin.Context) {
	guildID, ok := snowflakeParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	values, err := a.Settings.All(ctx, guildID)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guildId": guildID, "settings": values})
}

func (a *API) sanctionsHandler(c *gin.Context) {
	guildID, ok := snowflakeParam(c)
	if !ok {
		return
	}

	limit := int64(defaultSanctionLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "El parámetro limit debe ser un número positivo.",
			})
			return
		}
		limit = min(n, maxSanctionLimit)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	records, err := a.Sanctions.ListForGuild(ctx, guildID, limit)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guildId": guildID, "sanctions": records})
}

// snowflakeParam reads :guildId and rejects non-numeric ids
func snowflakeParam(c *gin.Context) (string, bool) {
	id := c.Param("guildId")
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "El id del servidor no es válido.",
		})
		return "", false
	}
	return id, true
}

func storageError(c *gin.Context, err error) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":   "Storage Unavailable",
		"message": err.Error(),
	})
}
