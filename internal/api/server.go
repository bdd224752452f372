package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/gamevault/gamevault-api/docs"
	"github.com/gamevault/gamevault-api/internal/api/graphql"
	v1 "github.com/gamevault/gamevault-api/internal/api/handler/v1"
	"github.com/gamevault/gamevault-api/internal/api/middleware"
	"github.com/gamevault/gamevault-api/internal/config"
	"github.com/gamevault/gamevault-api/internal/repository"
	"github.com/gamevault/gamevault-api/internal/repository/dao"
	"github.com/gamevault/gamevault-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	Live   *v1.LiveHandler
}

type handlers struct {
	auth      *v1.AuthHandler
	user      *v1.UserHandler
	game      *v1.GameHandler
	rerelease *v1.RereleaseHandler
	live      *v1.LiveHandler
	graphql   gin.HandlerFunc
}

// NewServer wires every layer on top of db. The leaderboard cache is shared
// so that vote mutations invalidate the pages read back by the ranking.
func NewServer(conf *config.AppConfig, db *gorm.DB, cache service.LeaderboardCache) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		Live:   v1.NewLiveHandler(conf.API.AllowedCORSDomains),
	}

	s.MountMiddlewares()

	uSvc := s.initUserService(db)
	rerelease := s.initRereleaseService(db, cache)

	gqlHandler, err := s.initGraphQLHandler(rerelease)
	if err != nil {
		return nil, err
	}

	s.MountHandlers(handlers{
		auth:      s.initAuthHandler(db),
		user:      v1.NewUserHandler(uSvc),
		game:      s.initGameHandler(db, cache, uSvc),
		rerelease: v1.NewRereleaseHandler(rerelease, uSvc),
		live:      s.Live,
		graphql:   gqlHandler,
	})

	return s, nil
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserService(db *gorm.DB) *service.UserService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewUserService(repo)
}

func (s *Server) initGameHandler(db *gorm.DB, cache service.LeaderboardCache, uSvc v1.UserService) *v1.GameHandler {
	gameDAO := dao.NewGameDAO(db)
	repo := repository.NewGameRepository(gameDAO)
	svc := service.NewGameService(repo, cache)
	handler := v1.NewGameHandler(svc, uSvc)

	return handler
}

func (s *Server) initRereleaseService(db *gorm.DB, cache service.LeaderboardCache) *service.RereleaseService {
	rereleaseDAO := dao.NewRereleaseDAO(db, s.Config.Rerelease.LockTimeout)
	repo := repository.NewRereleaseRepository(rereleaseDAO)
	games := repository.NewGameRepository(dao.NewGameDAO(db))

	return service.NewRereleaseService(s.Config.Rerelease, repo, games, cache, s.Live)
}

func (s *Server) initGraphQLHandler(svc graphql.RereleaseReader) (gin.HandlerFunc, error) {
	schema, err := graphql.NewSchema(svc)
	if err != nil {
		return nil, err
	}

	return gin.WrapH(graphql.NewHandler(&schema)), nil
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", h.auth.HandleSignup)
		public.POST("/auth/login", h.auth.HandleLogin)

		public.GET("/games", h.game.HandleListGames)
		public.GET("/games/:gameID", h.game.HandleGetGame)
		public.GET("/games/:gameID/rerelease/votes", h.rerelease.HandleListVotes)
		public.GET("/rerelease/most-voted", h.rerelease.HandleMostVoted)
		public.GET("/rerelease/live", h.live.HandleLive)

		public.GET("/graphql", h.graphql)
		public.POST("/graphql", h.graphql)
	}

	authed := s.Router.Group(basePath, verifyJWT)
	{
		authed.GET("/users/:userID", h.user.HandleGetUser)

		authed.POST("/games", h.game.HandleCreateGame)
		authed.DELETE("/games/:gameID", h.game.HandleDeleteGame)

		authed.GET("/games/:gameID/rerelease", h.rerelease.HandleGetRequest)
		authed.POST("/games/:gameID/rerelease/votes", h.rerelease.HandleCastVote)
		authed.DELETE("/games/:gameID/rerelease/votes", h.rerelease.HandleRemoveVote)
	}

	admin := s.Router.Group(basePath+"/admin", verifyJWT)
	{
		admin.PATCH("/games/:gameID/rerelease/fulfill", h.rerelease.HandleFulfill)
		admin.PATCH("/games/:gameID/rerelease/archive", h.rerelease.HandleArchive)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "GameVault API"
	docs.SwaggerInfo.Description = "Catalogue of classic games and community votes for their re-release."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
