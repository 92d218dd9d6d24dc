package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio/site/internal/database"
	"portfolio/site/internal/hub"
	"portfolio/site/internal/models"
	"portfolio/site/internal/portfolio"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// TechnologyInput is the body of technology create and update requests.
type TechnologyInput struct {
	Name        string  `json:"name" binding:"required,max=100" example:"Go"`
	Description *string `json:"description" example:"Services and CLIs"`
	IconPath    *string `json:"icon_path" example:"/icons/Go.svg"`
	SkillLevel  *int    `json:"skill_level" binding:"omitempty,min=0,max=10" example:"8"`
	Type        string  `json:"type" example:"Backend"`
}

// TechnologyResponse is a technology as returned by the admin API.
type TechnologyResponse struct {
	ID          uint      `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IconPath    *string   `json:"icon_path"`
	SkillLevel  *int      `json:"skill_level"`
	Type        string    `json:"type"`
}

func newTechnologyResponse(tech models.Technology) TechnologyResponse {
	return TechnologyResponse{
		ID:          tech.ID,
		CreatedAt:   tech.CreatedAt,
		UpdatedAt:   tech.UpdatedAt,
		Name:        tech.Name,
		Description: tech.Description,
		IconPath:    tech.IconPath,
		SkillLevel:  tech.SkillLevel,
		Type:        string(tech.Type),
	}
}

// techType validates the requested category. Empty means Others.
func techType(raw string) (models.TechType, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.TechOthers, true
	}
	return models.TechType(raw), portfolio.KnownType(raw)
}

// endregion

// region --- Admin Handlers ---

// CreateTechnology godoc
// @Summary      Create a new technology
// @Description  Creates a technology that projects can reference and the skills page lists.
// @Tags         admin-technologies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body TechnologyInput true "Technology Info"
// @Success      201  {object}  TechnologyResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "Technology already exists"
// @Router       /admin/technologies [post]
func CreateTechnology(c *gin.Context) {
	var input TechnologyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, ok := techType(input.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown technology type"})
		return
	}

	var count int64
	if err := database.DB.Model(&models.Technology{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
		slog.Error("failed to check technology name", "name", input.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create technology"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Technology already exists"})
		return
	}

	tech := models.Technology{
		Name:        input.Name,
		Description: input.Description,
		IconPath:    input.IconPath,
		SkillLevel:  input.SkillLevel,
		Type:        kind,
	}
	if err := database.DB.Create(&tech).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Technology already exists"})
			return
		}
		slog.Error("failed to create technology", "name", input.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create technology"})
		return
	}

	response := newTechnologyResponse(tech)
	hub.GlobalHub.Broadcast(hub.TopicTechnologies, hub.Event{Type: "technology.created", Payload: response})
	c.JSON(http.StatusCreated, response)
}

// GetTechnologies godoc
// @Summary      List technologies
// @Description  Retrieves a paginated list of technologies ordered by name.
// @Tags         admin-technologies
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"     default(1)
// @Param        limit  query     int  false  "Items per page"  default(12)
// @Success      200  {object}  PaginatedResponse[TechnologyResponse]
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/technologies [get]
func GetTechnologies(c *gin.Context) {
	page, limit := pageParams(c)

	result, err := Paginate[models.Technology](database.DB.Order("name ASC"), page, limit)
	if err != nil {
		slog.Error("failed to list technologies", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve technologies"})
		return
	}

	data := make([]TechnologyResponse, 0, len(result.Data))
	for _, tech := range result.Data {
		data = append(data, newTechnologyResponse(tech))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(data, result.Meta.TotalItems, page, limit))
}

// UpdateTechnology godoc
// @Summary      Update a technology
// @Description  Replaces every field of a technology.
// @Tags         admin-technologies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Technology ID"
// @Param        input body      TechnologyInput  true  "New Technology Info"
// @Success      200   {object}  TechnologyResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Technology not found"
// @Failure      409   {object}  ErrorResponse "Technology already exists"
// @Failure      500   {object}  ErrorResponse
// @Router       /admin/technologies/{id} [put]
func UpdateTechnology(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid technology ID"})
		return
	}

	var tech models.Technology
	if err := database.DB.First(&tech, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Technology not found"})
			return
		}
		slog.Error("failed to load technology", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update technology"})
		return
	}

	var input TechnologyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, ok := techType(input.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown technology type"})
		return
	}

	var count int64
	if err := database.DB.Model(&models.Technology{}).Where("name = ? AND id <> ?", input.Name, tech.ID).Count(&count).Error; err != nil {
		slog.Error("failed to check technology name", "name", input.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update technology"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Technology already exists"})
		return
	}

	tech.Name = input.Name
	tech.Description = input.Description
	tech.IconPath = input.IconPath
	tech.SkillLevel = input.SkillLevel
	tech.Type = kind
	if err := database.DB.Save(&tech).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Technology already exists"})
			return
		}
		slog.Error("failed to update technology", "id", tech.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update technology"})
		return
	}

	response := newTechnologyResponse(tech)
	hub.GlobalHub.Broadcast(hub.TopicTechnologies, hub.Event{Type: "technology.updated", Payload: response})
	c.JSON(http.StatusOK, response)
}

// DeleteTechnology godoc
// @Summary      Delete a technology
// @Description  Deletes a technology and detaches it from every project.
// @Tags         admin-technologies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Technology ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Technology not found"
// @Router       /admin/technologies/{id} [delete]
func DeleteTechnology(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid technology ID"})
		return
	}

	var tech models.Technology
	if err := database.DB.First(&tech, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Technology not found"})
			return
		}
		slog.Error("failed to load technology", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete technology"})
		return
	}

	// Hard delete so the unique name can be reused.
	if err := database.DB.Unscoped().Select("Projects").Delete(&tech).Error; err != nil {
		slog.Error("failed to delete technology", "id", tech.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete technology"})
		return
	}

	hub.GlobalHub.Broadcast(hub.TopicTechnologies, hub.Event{Type: "technology.deleted", Payload: gin.H{"id": tech.ID}})
	c.JSON(http.StatusOK, MessageResponse{Message: "Technology deleted"})
}

// endregion

// region --- Public Handlers ---

// GetSkills godoc
// @Summary      List skills
// @Description  Returns every technology grouped by type. Higher skill levels come first and unrated skills last.
// @Tags         skills
// @Produce      json
// @Success      200  {array}   portfolio.SkillGroup
// @Failure      500  {object}  ErrorResponse
// @Router       /skills [get]
func GetSkills(c *gin.Context) {
	skills, err := portfolio.ListTechnologies(c.Request.Context(), database.DB)
	if err != nil {
		slog.Error("failed to list skills", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve skills"})
		return
	}

	groups := portfolio.GroupSkills(skills)
	if groups == nil {
		groups = []portfolio.SkillGroup{}
	}
	c.JSON(http.StatusOK, groups)
}

// endregion
