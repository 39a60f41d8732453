package server

import (
	"log/slog"
	"net/http"

	"gamehub/internal/config"
	"gamehub/internal/logging"
	"gamehub/internal/messages"
	"gamehub/internal/metrics"
	"gamehub/internal/privategames"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"gorm.io/gorm"
)

// Deps are the services the HTTP layer routes to. Messages and DB may be nil
// when the server runs without a database.
type Deps struct {
	Games    *privategames.Service
	Messages *messages.Service
	DB       *gorm.DB
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
}

type Server struct {
	cfg      config.Config
	games    *privategames.Service
	messages *messages.Service
	db       *gorm.DB
	logger   *slog.Logger
	metrics  *metrics.Recorder
	engine   *gin.Engine
}

func New(cfg config.Config, deps Deps) *Server {
	registerValidators()
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		cfg:      cfg,
		games:    deps.Games,
		messages: deps.Messages,
		db:       deps.DB,
		logger:   logger,
		metrics:  deps.Metrics,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(s.requestContext(), s.recoverPanics())
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "not found")
	})

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := engine.Group("/api")

	games := api.Group("/privateGames")
	games.GET("", s.handleListPrivateGames)
	games.POST("", s.handleCreatePrivateGame)
	games.POST("/:id/join", s.handleJoinPrivateGame)
	games.DELETE("/:id", s.handleDeletePrivateGame)
	games.GET("/:id/players", s.handlePlayers)
	games.POST("/:id/seats", s.handleClaimSeat)
	games.DELETE("/:id/seats", s.handleReleaseSeat)

	msgs := api.Group("/messages")
	msgs.POST("", s.handleSendMessage)
	msgs.GET("/:id", s.handleGetMessage)
	msgs.PATCH("/:id", s.handleEditMessage)
	msgs.POST("/:id/read", s.handleMarkRead)
	msgs.DELETE("/:id", s.handleDeleteMessage)

	users := api.Group("/users/:id")
	users.GET("/messages", s.handleUserMessages)
	users.GET("/conversations/:otherId", s.handleConversation)

	return engine
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(s.cfg.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)(s.engine)
}
