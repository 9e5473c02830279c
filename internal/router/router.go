package router

import (
	"claimtable/backend/internal/middleware"
	"claimtable/backend/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	claim_controller "claimtable/backend/internal/controller/http/v1/claim"
)

type Router struct {
	*gin.Engine
	claims claim_controller.Claims
	log    *zap.Logger
	web    config.Web
}

func NewRouter(
	claims claim_controller.Claims,
	log *zap.Logger,
	web config.Web,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	return &Router{
		gin.New(),
		claims,
		log,
		web,
	}
}

// Init registers the middleware chain and every route.
func (r Router) Init() {
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestLogger(r.log),
		middleware.Recovery(r.log),
		middleware.CORS(r.web.AllowedOrigins),
	)

	claimController := claim_controller.NewController(r.claims, r.log)
	limit := middleware.BodyLimit(r.web.MaxUploadMB << 20)

	r.GET("/health", claim_controller.Health)

	// #claims
	r.POST("/api/v1/claims/export", limit, claimController.Export)
	r.POST("/api/v1/claims/preview", limit, claimController.Preview)
}
