// Package view turns portfolio records into the values the HTML templates
// render: truncated lists, badges, fallbacks and ARIA strings.
package view

import (
	"fmt"
	"strconv"

	"portfolio/site/internal/gallery"
	"portfolio/site/internal/motion"
	"portfolio/site/internal/portfolio"
)

const (
	// MaxCardTechnologies is how many technology icons a project card shows.
	MaxCardTechnologies = 6
	// MaxCardTags is how many tag chips a project card shows.
	MaxCardTags = 3
	// MaxTagLength is the longest tag shown before it is shortened.
	MaxTagLength = 8
	// MaxSkillLevel is the number of stars on a skill card.
	MaxSkillLevel = 10
	// AutoRotateInterval is the carousel auto-advance period in milliseconds.
	AutoRotateInterval = 6000

	// NoImagesText replaces the carousel when a project has no screenshots.
	NoImagesText = "No images available for this project"

	nbsp = "\u00a0"
)

// ProjectCard is a project as shown in the projects grid.
type ProjectCard struct {
	Name        string
	Slug        string
	Href        string
	Description string
	Image       string
	ImageAlt    string
	Images      []string
	// Badge is the last tag, shown when there is at most one image.
	Badge        string
	ShowBadge    bool
	ShowControls bool
	Technologies []portfolio.TechRef
	TechOverflow int
	Tags         []string
	TagOverflow  int
}

// NewProjectCard applies the card presentation rules to p.
func NewProjectCard(p portfolio.Project) ProjectCard {
	card := ProjectCard{
		Name:         p.Name,
		Slug:         p.Slug,
		Href:         "/projects/" + p.Slug,
		Description:  orNBSP(p.Description),
		Image:        gallery.FallbackImage,
		ImageAlt:     p.Name + " preview",
		Images:       p.Images,
		ShowControls: len(p.Images) > 1,
	}
	if len(p.Images) > 0 {
		card.Image = p.Images[0]
	}
	if len(p.Images) <= 1 && len(p.Tags) > 0 {
		card.Badge = p.Tags[len(p.Tags)-1]
		card.ShowBadge = true
	}

	card.Technologies = p.Technologies
	if len(p.Technologies) > MaxCardTechnologies {
		card.Technologies = p.Technologies[:MaxCardTechnologies]
		card.TechOverflow = len(p.Technologies) - MaxCardTechnologies
	}

	shown := p.Tags
	if len(shown) > MaxCardTags {
		shown = shown[:MaxCardTags]
		card.TagOverflow = len(p.Tags) - MaxCardTags
	}
	card.Tags = make([]string, 0, len(shown))
	for _, tag := range shown {
		card.Tags = append(card.Tags, ShortTag(tag))
	}
	return card
}

// NewProjectCards maps NewProjectCard over projects.
func NewProjectCards(projects []portfolio.Project) []ProjectCard {
	cards := make([]ProjectCard, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, NewProjectCard(p))
	}
	return cards
}

// ShortTag shortens tags longer than MaxTagLength runes to their first
// MaxTagLength runes followed by a dot.
func ShortTag(tag string) string {
	r := []rune(tag)
	if len(r) <= MaxTagLength {
		return tag
	}
	return string(r[:MaxTagLength]) + "."
}

// Star is one of the ten proficiency stars.
type Star struct {
	Filled bool
}

// SkillCard is a technology as shown in the skills deck.
type SkillCard struct {
	ID          uint
	Name        string
	Description string
	HasDesc     bool
	IconPath    string
	IconAlt     string
	HasLevel    bool
	// LevelText is the numeric level, or "?" when the level is unknown.
	LevelText  string
	BarWidth   string
	LevelClass string
	Stars      []Star
	AriaLabel  string
	Expanded   bool
}

// NewSkillCard applies the skill card presentation rules to s.
func NewSkillCard(s portfolio.Skill) SkillCard {
	card := SkillCard{
		ID:        s.ID,
		Name:      s.Name,
		IconAlt:   s.Name + " icon",
		LevelText: "?",
		AriaLabel: "View details for " + s.Name,
	}
	if s.Description != nil && *s.Description != "" {
		card.Description = *s.Description
		card.HasDesc = true
	}
	if s.IconPath != nil {
		card.IconPath = *s.IconPath
	}
	if s.SkillLevel != nil {
		level := clampLevel(*s.SkillLevel)
		card.HasLevel = true
		card.LevelText = strconv.Itoa(level)
		card.BarWidth = fmt.Sprintf("%d%%", level*10)
		card.LevelClass = LevelClass(level)
		card.Stars = make([]Star, MaxSkillLevel)
		for i := range card.Stars {
			card.Stars[i].Filled = i < level
		}
	}
	return card
}

// LevelClass picks the bar colour for a proficiency level.
func LevelClass(level int) string {
	switch {
	case level >= 8:
		return "bg-emerald-500"
	case level >= 6:
		return "bg-blue-500"
	case level >= 4:
		return "bg-amber-500"
	default:
		return "bg-gray-400"
	}
}

// SkillSection is one category heading with its cards.
type SkillSection struct {
	Type  string
	Label string
	Cards []SkillCard
}

// NewSkillSections converts grouped skills into renderable sections.
func NewSkillSections(groups []portfolio.SkillGroup) []SkillSection {
	sections := make([]SkillSection, 0, len(groups))
	for _, g := range groups {
		section := SkillSection{Type: g.Type, Label: g.Label, Cards: make([]SkillCard, 0, len(g.Skills))}
		for _, s := range g.Skills {
			section.Cards = append(section.Cards, NewSkillCard(s))
		}
		sections = append(sections, section)
	}
	return sections
}

// CarouselImage is one slide of the project detail carousel.
type CarouselImage struct {
	ID        string
	Src       string
	Alt       string
	Caption   string
	Index     int
	Transform string
	Opacity   float64
	ZIndex    int
}

// ProjectDetail is the project page model.
type ProjectDetail struct {
	Project      portfolio.Project
	Description  string
	Images       []CarouselImage
	HasImages    bool
	AutoRotate   bool
	IntervalMS   int
	Counter      string
	Technologies []portfolio.TechRef
	Tags         []string
}

// NewProjectDetail builds the detail page model with initial carousel
// positions for the first slide.
func NewProjectDetail(p portfolio.Project) ProjectDetail {
	d := ProjectDetail{
		Project:      p,
		Description:  orNBSP(p.Description),
		HasImages:    len(p.Images) > 0,
		AutoRotate:   len(p.Images) > 1,
		IntervalMS:   AutoRotateInterval,
		Technologies: p.Technologies,
		Tags:         p.Tags,
	}
	if d.HasImages {
		d.Counter = fmt.Sprintf("1 / %d", len(p.Images))
	}
	for i, src := range p.Images {
		pos := motion.Position(i, len(p.Images), 0)
		d.Images = append(d.Images, CarouselImage{
			ID:        fmt.Sprintf("%s-%d", p.Slug, i),
			Src:       src,
			Alt:       fmt.Sprintf("%s screenshot %d", p.Name, i+1),
			Caption:   gallery.Caption(src),
			Index:     i,
			Transform: pos.Transform(),
			Opacity:   pos.Opacity,
			ZIndex:    pos.ZIndex(),
		})
	}
	return d
}

func orNBSP(s *string) string {
	if s == nil || *s == "" {
		return nbsp
	}
	return *s
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxSkillLevel {
		return MaxSkillLevel
	}
	return level
}
