package portfolio

import "portfolio/site/internal/models"

var typeLabels = map[models.TechType]string{
	models.TechCoreWeb:         "Core Web",
	models.TechBackend:         "Backend",
	models.TechDatabase:        "Database",
	models.TechToolsInfra:      "Tools & Infrastructure",
	models.TechUIDesign:        "UI & Design",
	models.TechMachineLearning: "Machine Learning",
	models.TechGameDev:         "Game Development",
	models.TechCloud:           "Cloud",
	models.TechAI:              "AI",
	models.TechLanguage:        "Programming Languages",
	models.TechSoftSkills:      "Soft Skills",
	models.TechTesting:         "Testing",
	models.TechOthers:          "Other Technologies",
}

// TypeLabel is the heading for a technology category. Unknown keys are
// returned unchanged.
func TypeLabel(key string) string {
	if label, ok := typeLabels[models.TechType(key)]; ok {
		return label
	}
	return key
}

// KnownType reports whether key is one of the predefined categories.
func KnownType(key string) bool {
	_, ok := typeLabels[models.TechType(key)]
	return ok
}

// SkillGroup is one section of the skills page.
type SkillGroup struct {
	Type   string  `json:"type"`
	Label  string  `json:"label"`
	Skills []Skill `json:"skills"`
}

// GroupSkills buckets skills by type, keeping the order in which each type
// first appears and the order of skills within it.
func GroupSkills(skills []Skill) []SkillGroup {
	var groups []SkillGroup
	index := make(map[string]int)
	for _, s := range skills {
		i, ok := index[s.Type]
		if !ok {
			i = len(groups)
			index[s.Type] = i
			groups = append(groups, SkillGroup{Type: s.Type, Label: TypeLabel(s.Type)})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}
	return groups
}
