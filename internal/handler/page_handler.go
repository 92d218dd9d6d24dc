package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"portfolio/site/internal/config"
	"portfolio/site/internal/database"
	"portfolio/site/internal/portfolio"
	"portfolio/site/internal/profile"
	"portfolio/site/internal/telemetry"
	"portfolio/site/internal/view"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Messages shown in place of a section whose data could not be loaded.
const (
	ProjectsFailedMessage = "Failed to load projects. Please try again later."
	SkillsFailedMessage   = "Failed to load skills. Please try again later."
)

// Pages renders the server-side HTML pages.
type Pages struct {
	Profile *profile.Profile
}

// NewPages returns page handlers for p. A nil profile uses the defaults.
func NewPages(p *profile.Profile) *Pages {
	if p == nil {
		p = profile.Default()
	}
	return &Pages{Profile: p}
}

func (p *Pages) data(title, active string) gin.H {
	return gin.H{
		"Title":   title,
		"Profile": p.Profile,
		"Active":  active,
	}
}

// projectCards loads the deck shown on the home and projects pages. A load
// failure is reported in the page instead of failing the request.
func (p *Pages) projectCards(c *gin.Context, data gin.H) {
	ctx, span := telemetry.Span(c.Request.Context(), "portfolio.ListProjects")
	defer span.End()

	projects, err := portfolio.ListProjects(ctx, database.DB, config.AppConfig.PublicDir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list projects")
		slog.Error("failed to load projects", "error", err)
		data["ProjectsError"] = ProjectsFailedMessage
		return
	}
	span.SetAttributes(attribute.Int("portfolio.projects", len(projects)))
	data["Projects"] = view.NewProjectCards(projects)
}

// Home renders the introduction followed by the project deck.
func (p *Pages) Home(c *gin.Context) {
	data := p.data("Home", "home")
	p.projectCards(c, data)
	c.HTML(http.StatusOK, "index.html", data)
}

// Projects renders the project deck on its own.
func (p *Pages) Projects(c *gin.Context) {
	data := p.data("Projects", "projects")
	p.projectCards(c, data)
	c.HTML(http.StatusOK, "projects.html", data)
}

// Project renders the detail page with the image carousel.
func (p *Pages) Project(c *gin.Context) {
	slug := c.Param("slug")

	ctx, span := telemetry.Span(c.Request.Context(), "portfolio.GetProjectBySlug")
	span.SetAttributes(attribute.String("portfolio.slug", slug))
	project, err := portfolio.GetProjectBySlug(ctx, database.DB, config.AppConfig.PublicDir, slug)
	span.End()

	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			p.notFound(c, "Project not found")
			return
		}
		slog.Error("failed to load project", "slug", slug, "error", err)
		data := p.data("Error", "projects")
		data["Code"] = http.StatusInternalServerError
		data["Message"] = "Failed to load project. Please try again later."
		c.HTML(http.StatusInternalServerError, "not_found.html", data)
		return
	}

	data := p.data(project.Name, "projects")
	data["Detail"] = view.NewProjectDetail(project)
	c.HTML(http.StatusOK, "project.html", data)
}

// Skills renders the skill cards grouped by type.
func (p *Pages) Skills(c *gin.Context) {
	data := p.data("Skills", "skills")

	ctx, span := telemetry.Span(c.Request.Context(), "portfolio.ListTechnologies")
	skills, err := portfolio.ListTechnologies(ctx, database.DB)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list technologies")
	}
	span.End()

	if err != nil {
		slog.Error("failed to load skills", "error", err)
		data["SkillsError"] = SkillsFailedMessage
	} else {
		data["Sections"] = view.NewSkillSections(portfolio.GroupSkills(skills))
	}
	c.HTML(http.StatusOK, "skills.html", data)
}

// Contact renders the contact directory.
func (p *Pages) Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", p.data("Contact", "contact"))
}

// CV renders the printable curriculum vitae.
func (p *Pages) CV(c *gin.Context) {
	c.HTML(http.StatusOK, "cv.html", p.data("CV", ""))
}

// NotFound renders the 404 page for unknown routes. API routes get JSON.
func (p *Pages) NotFound(c *gin.Context) {
	if isAPIPath(c.Request.URL.Path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	p.notFound(c, "Page not found")
}

func (p *Pages) notFound(c *gin.Context, message string) {
	data := p.data("Not found", "")
	data["Code"] = http.StatusNotFound
	data["Message"] = message
	c.HTML(http.StatusNotFound, "not_found.html", data)
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
