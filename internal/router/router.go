// Package router wires middleware, pages, static assets and the JSON API into
// one gin engine.
package router

import (
	"fmt"
	"net/http"
	"path/filepath"

	_ "portfolio/site/docs" // registers the swagger spec

	"portfolio/site/internal/auth"
	"portfolio/site/internal/config"
	"portfolio/site/internal/database"
	"portfolio/site/internal/handler"
	"portfolio/site/internal/logging"
	"portfolio/site/internal/profile"
	"portfolio/site/internal/telemetry"
	"portfolio/site/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/trace"
)

// Options configure New.
type Options struct {
	Config  *config.Config
	Profile *profile.Profile
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// New builds the HTTP handler for the site. Handlers read database.DB and
// config.AppConfig, so both must be set before requests are served.
func New(opts Options) (*gin.Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.AppConfig
	}
	if cfg == nil {
		return nil, fmt.Errorf("router: no configuration")
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(), telemetry.Middleware(opts.TracerProvider))
	r.SetHTMLTemplate(tmpl)

	// Assets
	r.StaticFS("/static", http.FS(web.Static()))
	r.Static("/images", filepath.Join(cfg.PublicDir, "images"))
	r.Static("/icons", filepath.Join(cfg.PublicDir, "icons"))
	for _, name := range []string{"bitmoji.png", "eye_left.png", "eye_right.png", "favicon.ico"} {
		r.StaticFile("/"+name, filepath.Join(cfg.PublicDir, name))
	}

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoints
	r.GET("/ping", handler.Ping)
	r.GET("/healthz", handler.Healthz)

	// Pages
	pages := handler.NewPages(opts.Profile)
	r.GET("/", pages.Home)
	r.GET("/projects", pages.Projects)
	r.GET("/projects/:slug", pages.Project)
	r.GET("/skills", pages.Skills)
	r.GET("/contact", pages.Contact)
	r.GET("/cv", pages.CV)
	r.NoRoute(pages.NotFound)

	// API v1 routes
	apiV1 := r.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/login", handler.LoginUser)
			authRoutes.GET("/me", auth.AuthMiddleware(cfg.JWTSecret), handler.GetMe)
		}

		// Public content routes
		apiV1.GET("/projects", handler.GetProjects)
		apiV1.GET("/projects/:slug", handler.GetProjectBySlug)
		apiV1.GET("/skills", handler.GetSkills)
		apiV1.GET("/events/:topic", handler.StreamEvents)

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(cfg.JWTSecret), auth.AdminMiddleware(database.DB))
		{
			// Technologies CRUD
			techs := adminRoutes.Group("/technologies")
			{
				techs.POST("", handler.CreateTechnology)
				techs.GET("", handler.GetTechnologies)
				techs.PUT("/:id", handler.UpdateTechnology)
				techs.DELETE("/:id", handler.DeleteTechnology)
			}

			// Projects CRUD
			projects := adminRoutes.Group("/projects")
			{
				projects.POST("", handler.CreateProject)
				projects.PUT("/:id", handler.UpdateProject)
				projects.DELETE("/:id", handler.DeleteProject)
			}
		}
	}

	return r, nil
}
