package models

import "gorm.io/gorm"

// Project represents a portfolio entry.
type Project struct {
	gorm.Model
	Name        string   `gorm:"size:255;not null"`
	Slug        string   `gorm:"size:255;uniqueIndex;not null"`
	Description *string  `gorm:"type:text"`
	Tags        []string `gorm:"serializer:json"`
	// ImagesPath is a directory relative to the public assets root, e.g. "/images/projects/foo".
	ImagesPath   *string       `gorm:"size:255"`
	Technologies []*Technology `gorm:"many2many:project_technologies;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
