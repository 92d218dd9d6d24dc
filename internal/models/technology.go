package models

import "gorm.io/gorm"

// TechType is the category a technology is grouped under on the skills page.
type TechType string

const (
	TechCoreWeb         TechType = "CoreWeb"
	TechBackend         TechType = "Backend"
	TechDatabase        TechType = "Database"
	TechToolsInfra      TechType = "ToolsInfra"
	TechUIDesign        TechType = "UIDesign"
	TechMachineLearning TechType = "MachineLearning"
	TechGameDev         TechType = "GameDev"
	TechCloud           TechType = "Cloud"
	TechAI              TechType = "AI"
	TechLanguage        TechType = "Language"
	TechSoftSkills      TechType = "SoftSkills"
	TechTesting         TechType = "Testing"
	TechOthers          TechType = "Others"
)

// Technology is a tool or language with an optional proficiency level (0-10).
// The skills page renders every technology as a skill card.
type Technology struct {
	gorm.Model
	Name        string   `gorm:"size:100;uniqueIndex;not null"`
	Description *string  `gorm:"type:text"`
	IconPath    *string  `gorm:"size:255"`
	SkillLevel  *int     `gorm:"index"`
	Type        TechType `gorm:"size:50;not null;default:'Others';index"`

	Projects []*Project `gorm:"many2many:project_technologies;"`
}
