// Package portfolio reads projects and technologies for the pages and the API.
package portfolio

import (
	"context"
	"errors"
	"fmt"

	"portfolio/site/internal/gallery"
	"portfolio/site/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// TechRef is the slice of a technology shown on project cards.
type TechRef struct {
	Name     string  `json:"name"`
	IconPath *string `json:"iconPath"`
}

// Project is a portfolio entry with its screenshots resolved from disk.
// Images is nil when the project has none.
type Project struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description"`
	Tags         []string  `json:"tags"`
	Images       []string  `json:"images"`
	Technologies []TechRef `json:"technologies"`
}

// Skill is a technology as shown on the skills page.
type Skill struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IconPath    *string `json:"iconPath"`
	SkillLevel  *int    `json:"skillLevel"`
	Type        string  `json:"type"`
}

// ListProjects returns every project, newest first.
func ListProjects(ctx context.Context, db *gorm.DB, publicDir string) ([]Project, error) {
	var rows []models.Project
	err := db.WithContext(ctx).
		Preload("Technologies", orderByID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, newProject(row, publicDir))
	}
	return projects, nil
}

// ProjectsPage returns one page of projects in ListProjects order together
// with the total number of projects. page starts at 1.
func ProjectsPage(ctx context.Context, db *gorm.DB, publicDir string, page, limit int) ([]Project, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&models.Project{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	var rows []models.Project
	err := db.WithContext(ctx).
		Preload("Technologies", orderByID).
		Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("page projects: %w", err)
	}

	projects := make([]Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, newProject(row, publicDir))
	}
	return projects, total, nil
}

// GetProjectBySlug returns one project or ErrNotFound.
func GetProjectBySlug(ctx context.Context, db *gorm.DB, publicDir, slug string) (Project, error) {
	var row models.Project
	err := db.WithContext(ctx).
		Preload("Technologies", orderByID).
		Where("slug = ?", slug).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, fmt.Errorf("get project %q: %w", slug, err)
	}
	return newProject(row, publicDir), nil
}

// ListTechnologies returns technologies ordered by type, then level (highest
// first, unrated last), then name.
func ListTechnologies(ctx context.Context, db *gorm.DB) ([]Skill, error) {
	var rows []models.Technology
	err := db.WithContext(ctx).
		Order("type ASC").
		Order("CASE WHEN skill_level IS NULL THEN 1 ELSE 0 END").
		Order("skill_level DESC").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list technologies: %w", err)
	}

	skills := make([]Skill, 0, len(rows))
	for _, row := range rows {
		skills = append(skills, NewSkill(row))
	}
	return skills, nil
}

// NewSkill converts a stored technology.
func NewSkill(t models.Technology) Skill {
	return Skill{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		IconPath:    t.IconPath,
		SkillLevel:  t.SkillLevel,
		Type:        string(t.Type),
	}
}

func newProject(row models.Project, publicDir string) Project {
	p := Project{
		ID:           row.ID,
		Name:         row.Name,
		Slug:         row.Slug,
		Description:  row.Description,
		Tags:         row.Tags,
		Technologies: make([]TechRef, 0, len(row.Technologies)),
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if row.ImagesPath != nil {
		p.Images = gallery.ProjectImages(publicDir, *row.ImagesPath)
	}
	for _, t := range row.Technologies {
		if t == nil {
			continue
		}
		p.Technologies = append(p.Technologies, TechRef{Name: t.Name, IconPath: t.IconPath})
	}
	return p
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
