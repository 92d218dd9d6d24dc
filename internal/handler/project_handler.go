package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio/site/internal/config"
	"portfolio/site/internal/database"
	"portfolio/site/internal/hub"
	"portfolio/site/internal/models"
	"portfolio/site/internal/portfolio"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// ProjectInput is the body of project create and update requests. An empty
// slug is derived from the name.
type ProjectInput struct {
	Name          string   `json:"name" binding:"required,max=255" example:"Shop Front"`
	Slug          string   `json:"slug" example:"shop-front"`
	Description   *string  `json:"description" example:"Storefront for a local bakery"`
	Tags          []string `json:"tags" example:"Client,Web"`
	ImagesPath    *string  `json:"images_path" example:"/images/projects/shop-front"`
	TechnologyIDs []uint   `json:"technology_ids"`
}

// ProjectResponse is a project as returned by the admin API.
type ProjectResponse struct {
	ID           uint                 `json:"id"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Name         string               `json:"name"`
	Slug         string               `json:"slug"`
	Description  *string              `json:"description"`
	Tags         []string             `json:"tags"`
	ImagesPath   *string              `json:"images_path"`
	Technologies []TechnologyResponse `json:"technologies"`
}

func newProjectResponse(project models.Project) ProjectResponse {
	techs := make([]TechnologyResponse, 0, len(project.Technologies))
	for _, tech := range project.Technologies {
		if tech != nil {
			techs = append(techs, newTechnologyResponse(*tech))
		}
	}
	tags := project.Tags
	if tags == nil {
		tags = []string{}
	}

	return ProjectResponse{
		ID:           project.ID,
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
		Name:         project.Name,
		Slug:         project.Slug,
		Description:  project.Description,
		Tags:         tags,
		ImagesPath:   project.ImagesPath,
		Technologies: techs,
	}
}

// normalize fills in the slug and trims tags. It returns false when the slug
// cannot be used in a URL.
func (in *ProjectInput) normalize() bool {
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = portfolio.Slugify(in.Name)
	}

	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	in.Tags = tags

	return portfolio.ValidSlug(in.Slug)
}

// findTechnologies loads the requested technologies. Unknown ids are an error.
func findTechnologies(db *gorm.DB, ids []uint) ([]*models.Technology, error) {
	var techs []*models.Technology
	if len(ids) == 0 {
		return techs, nil
	}
	if err := db.Find(&techs, ids).Error; err != nil {
		return nil, err
	}
	if len(techs) != len(uniqueIDs(ids)) {
		return nil, errUnknownTechnology
	}
	return techs, nil
}

var errUnknownTechnology = errors.New("unknown technology id")

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// endregion

// region --- Admin Handlers ---

// CreateProject godoc
// @Summary      Create a new project
// @Description  Creates a project and associates it with the given technologies.
// @Tags         admin-projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ProjectInput true "Project Info"
// @Success      201  {object}  ProjectResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "Slug already taken"
// @Router       /admin/projects [post]
func CreateProject(c *gin.Context) {
	var input ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.normalize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slug"})
		return
	}

	techs, err := findTechnologies(database.DB, input.TechnologyIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more technologies do not exist"})
		return
	}

	var count int64
	if err := database.DB.Model(&models.Project{}).Where("slug = ?", input.Slug).Count(&count).Error; err != nil {
		slog.Error("failed to check slug", "slug", input.Slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already taken"})
		return
	}

	project := models.Project{
		Name:         input.Name,
		Slug:         input.Slug,
		Description:  input.Description,
		Tags:         input.Tags,
		ImagesPath:   input.ImagesPath,
		Technologies: techs,
	}
	if err := database.DB.Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Slug already taken"})
			return
		}
		slog.Error("failed to create project", "slug", input.Slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	response := newProjectResponse(project)
	hub.GlobalHub.Broadcast(hub.TopicProjects, hub.Event{Type: "project.created", Payload: response})
	c.JSON(http.StatusCreated, response)
}

// UpdateProject godoc
// @Summary      Update a project
// @Description  Updates a project's details and replaces its technologies.
// @Tags         admin-projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Project ID"
// @Param        input body      ProjectInput  true  "New Project Info"
// @Success      200   {object}  ProjectResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Project not found"
// @Failure      409   {object}  ErrorResponse "Slug already taken"
// @Failure      500   {object}  ErrorResponse
// @Router       /admin/projects/{id} [put]
func UpdateProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		slog.Error("failed to load project", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	var input ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.normalize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slug"})
		return
	}

	techs, err := findTechnologies(database.DB, input.TechnologyIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more technologies do not exist"})
		return
	}

	var count int64
	if err := database.DB.Model(&models.Project{}).Where("slug = ? AND id <> ?", input.Slug, project.ID).Count(&count).Error; err != nil {
		slog.Error("failed to check slug", "slug", input.Slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already taken"})
		return
	}

	project.Name = input.Name
	project.Slug = input.Slug
	project.Description = input.Description
	project.Tags = input.Tags
	project.ImagesPath = input.ImagesPath

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&project).Association("Technologies").Replace(techs); err != nil {
			return err
		}
		return tx.Omit("Technologies").Save(&project).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Slug already taken"})
			return
		}
		slog.Error("failed to update project", "id", project.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	database.DB.Preload("Technologies", func(db *gorm.DB) *gorm.DB {
		return db.Order("technologies.id ASC")
	}).First(&project, project.ID)

	response := newProjectResponse(project)
	hub.GlobalHub.Broadcast(hub.TopicProjects, hub.Event{Type: "project.updated", Payload: response})
	c.JSON(http.StatusOK, response)
}

// DeleteProject godoc
// @Summary      Delete a project
// @Description  Deletes a project and its technology links.
// @Tags         admin-projects
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Project ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Project not found"
// @Router       /admin/projects/{id} [delete]
func DeleteProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		slog.Error("failed to load project", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	// Hard delete so the slug can be reused.
	if err := database.DB.Unscoped().Select("Technologies").Delete(&project).Error; err != nil {
		slog.Error("failed to delete project", "id", project.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	hub.GlobalHub.Broadcast(hub.TopicProjects, hub.Event{Type: "project.deleted", Payload: gin.H{"id": project.ID, "slug": project.Slug}})
	c.JSON(http.StatusOK, MessageResponse{Message: "Project deleted"})
}

// endregion

// region --- Public Handlers ---

// GetProjects godoc
// @Summary      List projects
// @Description  Retrieves a paginated list of projects, newest first, with their screenshots.
// @Tags         projects
// @Produce      json
// @Param        page   query     int  false  "Page number"     default(1)
// @Param        limit  query     int  false  "Items per page"  default(12)
// @Success      200  {object}  PaginatedResponse[portfolio.Project]
// @Failure      500  {object}  ErrorResponse
// @Router       /projects [get]
func GetProjects(c *gin.Context) {
	page, limit := pageParams(c)

	projects, total, err := portfolio.ProjectsPage(c.Request.Context(), database.DB, config.AppConfig.PublicDir, page, limit)
	if err != nil {
		slog.Error("failed to list projects", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(projects, total, page, limit))
}

// GetProjectBySlug godoc
// @Summary      Get a project
// @Description  Retrieves one project by its slug.
// @Tags         projects
// @Produce      json
// @Param        slug path string true "Project slug"
// @Success      200  {object}  portfolio.Project
// @Failure      404  {object}  ErrorResponse "Project not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /projects/{slug} [get]
func GetProjectBySlug(c *gin.Context) {
	project, err := portfolio.GetProjectBySlug(c.Request.Context(), database.DB, config.AppConfig.PublicDir, c.Param("slug"))
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		slog.Error("failed to get project", "slug", c.Param("slug"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// endregion
