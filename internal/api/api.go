package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/prostkit/prost/internal/catalog"
	"github.com/prostkit/prost/internal/domain"
	"github.com/prostkit/prost/internal/errors"
	"github.com/prostkit/prost/internal/event"
	"github.com/prostkit/prost/internal/session"
	"github.com/prostkit/prost/internal/standings"
)

type Config struct {
	Router       gin.IRouter
	EventBus     *event.Bus
	Session      *session.Service
	Catalog      *catalog.Service
	Standings    *standings.Service
	Redis        Redis
	PubsubPrefix string
}

type Redis interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// API exposes the game service over HTTP and pushes live notifications
// over redis pub/sub.
type API struct {
	gss *session.Service
	cs  *catalog.Service
	sts *standings.Service

	redis  Redis
	prefix string
}

func New(c Config) *API {
	a := &API{
		gss:    c.Session,
		cs:     c.Catalog,
		sts:    c.Standings,
		redis:  c.Redis,
		prefix: c.PubsubPrefix,
	}

	v1 := c.Router.Group("/v1")
	v1.POST("/sessions", a.CreateSession)
	v1.GET("/sessions/:id", a.GetSession)
	v1.POST("/sessions/:id/start", a.StartGame)
	v1.POST("/sessions/:id/turn", a.NextChallenge)
	v1.POST("/sessions/:id/outcome", a.CompleteChallenge)
	v1.GET("/sessions/:id/standings", a.GetStandings)
	v1.GET("/challenges", a.ListChallenges)
	v1.POST("/challenges", a.CreateChallenge)

	// Register event handlers
	c.EventBus.Subscribe(domain.EventNameTurnStarted, func(ctx context.Context, e event.Event) error {
		return a.PublishTurnStarted(ctx, e.(domain.EventTurnStarted))
	})
	c.EventBus.Subscribe(domain.EventNameStandingsUpdated, func(ctx context.Context, e event.Event) error {
		return a.PublishStandingsUpdated(ctx, e.(domain.EventStandingsUpdated))
	})
	c.EventBus.Subscribe(domain.EventNamePunishmentAssigned, func(ctx context.Context, e event.Event) error {
		return a.PublishPunishmentAssigned(ctx, e.(domain.EventPunishmentAssigned))
	})
	c.EventBus.Subscribe(domain.EventNameGameFinished, func(ctx context.Context, e event.Event) error {
		return a.PublishGameFinished(ctx, e.(domain.EventGameFinished))
	})

	return a
}

type createSessionRequest struct {
	Mode          domain.GameMode      `json:"mode"`
	Players       []domain.Player      `json:"players"`
	Teams         []domain.Team        `json:"teams"`
	Duration      domain.GameDuration  `json:"duration"`
	AllVsAllScope domain.AllVsAllScope `json:"all_vs_all_scope"`
}

func (a *API) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	ss, err := a.gss.CreateSession(c.Request.Context(), session.CreateSessionRequest{
		Mode:          req.Mode,
		Players:       req.Players,
		Teams:         req.Teams,
		Duration:      req.Duration,
		AllVsAllScope: req.AllVsAllScope,
	})
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": ss})
}

func (a *API) GetSession(c *gin.Context) {
	ss, err := a.gss.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": ss})
}

func (a *API) StartGame(c *gin.Context) {
	ss, err := a.gss.StartGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": ss})
}

func (a *API) NextChallenge(c *gin.Context) {
	ss, err := a.gss.NextChallenge(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":      ss,
		"challenge":    ss.CurrentChallenge,
		"participants": ss.CurrentParticipants,
	})
}

type completeChallengeRequest struct {
	Completed      bool           `json:"completed"`
	WinnerID       string         `json:"winner_id"`
	ExplicitScores map[string]int `json:"explicit_scores"`
}

func (a *API) CompleteChallenge(c *gin.Context) {
	var req completeChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	ss, err := a.gss.CompleteChallenge(c.Request.Context(), session.CompleteChallengeRequest{
		SessionID:      c.Param("id"),
		Completed:      req.Completed,
		WinnerID:       req.WinnerID,
		ExplicitScores: req.ExplicitScores,
	})
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": ss})
}

func (a *API) GetStandings(c *gin.Context) {
	st, err := a.sts.GetStandings(c.Request.Context(), standings.GetStandingsRequest{
		SessionID: c.Param("id"),
	})
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"standings": st})
}

func (a *API) ListChallenges(c *gin.Context) {
	pool, err := a.cs.ListChallenges(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": pool})
}

type createChallengeRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Type        domain.ChallengeType `json:"type"`
	Points      int                  `json:"points"`
	CanReuse    bool                 `json:"can_reuse"`
	Punishment  *domain.Punishment   `json:"punishment"`
}

func (a *API) CreateChallenge(c *gin.Context) {
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	ch, err := a.cs.CreateChallenge(c.Request.Context(), catalog.CreateChallengeRequest{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Points:      req.Points,
		CanReuse:    req.CanReuse,
		Punishment:  req.Punishment,
	})
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"challenge": ch})
}

func abort(c *gin.Context, err error) {
	e := errors.Convert(err)
	c.AbortWithStatusJSON(e.HTTPStatusCode(), gin.H{"error": e})
}
