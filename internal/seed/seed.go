// Package seed loads demo content into an empty database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"portfolio/site/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls what Run writes besides the demo content.
type Options struct {
	AdminUsername string
	// AdminPassword creates or resets the admin account when non-empty.
	AdminPassword string
}

type technology struct {
	name, description, icon string
	level                   int
	kind                    models.TechType
}

var technologies = []technology{
	{"TypeScript", "Typed JavaScript for large front-end and Node codebases.", "/icons/TypeScript.svg", 9, models.TechLanguage},
	{"Go", "Services, CLIs and the server behind this site.", "/icons/Go.svg", 7, models.TechLanguage},
	{"Python", "Data processing scripts and ML experiments.", "/icons/Python.svg", 6, models.TechLanguage},
	{"React", "Component-driven user interfaces.", "/icons/React.svg", 9, models.TechCoreWeb},
	{"Next.js", "Server-rendered React applications.", "/icons/Nextjs.svg", 9, models.TechCoreWeb},
	{"Tailwind CSS", "Utility-first styling.", "/icons/Tailwind.svg", 8, models.TechUIDesign},
	{"Figma", "Wireframes and design hand-off.", "/icons/Figma.svg", 5, models.TechUIDesign},
	{"Express.js", "REST APIs on Node.", "/icons/Express.svg", 8, models.TechBackend},
	{"Node.js", "JavaScript on the server.", "/icons/Nodejs.svg", 8, models.TechBackend},
	{"PostgreSQL", "Relational storage with rich indexing.", "/icons/PostgreSQL.svg", 7, models.TechDatabase},
	{"Prisma", "Typed ORM for Node.", "/icons/Prisma.svg", 7, models.TechDatabase},
	{"Docker", "Reproducible local and CI environments.", "/icons/Docker.svg", 6, models.TechToolsInfra},
	{"Git", "Version control.", "/icons/Git.svg", 8, models.TechToolsInfra},
	{"Google Cloud", "Hosting and managed databases.", "/icons/GoogleCloud.svg", 3, models.TechCloud},
	{"Jest", "Unit and component tests.", "/icons/Jest.svg", 7, models.TechTesting},
	{"OpenAI API", "LLM-backed features.", "/icons/OpenAI.svg", 6, models.TechAI},
	{"Teamwork", "", "", 0, models.TechSoftSkills},
}

type project struct {
	name, slug, description, images string
	tags                             []string
	techs                            []string
}

var projects = []project{
	{
		name:        "Portfolio",
		slug:        "portfolio",
		description: "This site: a project showcase with a skills deck, a CV and a contact page.",
		images:      "/images/projects/portfolio",
		tags:        []string{"Personal", "Web"},
		techs:       []string{"Go", "TypeScript", "Tailwind CSS", "PostgreSQL", "Docker"},
	},
	{
		name:        "Shop Front",
		slug:        "shop-front",
		description: "An e-commerce storefront backed by a headless CMS.",
		images:      "/images/projects/shop-front",
		tags:        []string{"Client", "E-commerce", "Web"},
		techs:       []string{"Next.js", "React", "TypeScript", "Tailwind CSS", "Prisma", "PostgreSQL", "Jest", "Docker"},
	},
	{
		name:  "Data Lab",
		slug:  "data-lab",
		tags:  []string{"Research"},
		techs: []string{"Python", "OpenAI API"},
	},
}

// Run inserts the demo technologies, projects and (optionally) the admin
// account. Existing rows are left untouched, so Run can be repeated.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byName := make(map[string]*models.Technology, len(technologies))
		for _, t := range technologies {
			row := models.Technology{
				Name:        t.name,
				Type:        t.kind,
				Description: optional(t.description),
				IconPath:    optional(t.icon),
			}
			if t.level > 0 {
				level := t.level
				row.SkillLevel = &level
			}
			if err := tx.Where(models.Technology{Name: t.name}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed technology %s: %w", t.name, err)
			}
			byName[t.name] = &row
		}

		for _, p := range projects {
			var existing models.Project
			err := tx.Where("slug = ?", p.slug).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("seed project %s: %w", p.slug, err)
			}

			row := models.Project{
				Name:        p.name,
				Slug:        p.slug,
				Description: optional(p.description),
				Tags:        p.tags,
				ImagesPath:  optional(p.images),
			}
			for _, name := range p.techs {
				if t, ok := byName[name]; ok {
					row.Technologies = append(row.Technologies, t)
				}
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed project %s: %w", p.slug, err)
			}
		}

		if opts.AdminPassword != "" {
			if err := EnsureAdmin(tx, opts.AdminUsername, opts.AdminPassword); err != nil {
				return err
			}
		}
		slog.Info("seed complete", "technologies", len(technologies), "projects", len(projects))
		return nil
	})
}

// EnsureAdmin creates the admin user or resets its password.
func EnsureAdmin(db *gorm.DB, username, password string) error {
	if username == "" {
		return errors.New("admin username is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	var user models.User
	err = db.Where("username = ?", username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Username: username, PasswordHash: string(hash), Role: models.RoleAdmin}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
	case err != nil:
		return fmt.Errorf("find admin: %w", err)
	default:
		if err := db.Model(&user).Updates(map[string]any{"password_hash": string(hash), "role": models.RoleAdmin}).Error; err != nil {
			return fmt.Errorf("update admin: %w", err)
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
