// Package profile loads the static copy of the site: introduction, contact
// directory and CV.
package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Profile is the site owner's public information.
type Profile struct {
	Name     string `mapstructure:"name"`
	Title    string `mapstructure:"title"`
	Greeting string `mapstructure:"greeting"`
	Intro    string `mapstructure:"intro"`
	Photo    string `mapstructure:"photo"`
	Bitmoji  string `mapstructure:"bitmoji"`

	Contact   Contact      `mapstructure:"contact"`
	Jobs      []Job        `mapstructure:"employment"`
	Education []Education  `mapstructure:"education"`
	Languages []LevelEntry `mapstructure:"languages"`
	Favorites []LevelEntry `mapstructure:"favorites"`
}

// Contact lists the ways to reach the owner.
type Contact struct {
	Email    string `mapstructure:"email"`
	Phone    string `mapstructure:"phone"`
	Location string `mapstructure:"location"`
	GitHub   string `mapstructure:"github"`
	Repo     string `mapstructure:"repo"`
	Site     string `mapstructure:"site"`
}

// Job is one entry of the employment history.
type Job struct {
	Position string   `mapstructure:"position"`
	Company  string   `mapstructure:"company"`
	Location string   `mapstructure:"location"`
	Start    string   `mapstructure:"start"`
	End      string   `mapstructure:"end"`
	Duties   []string `mapstructure:"duties"`
}

// Education is one school entry.
type Education struct {
	Degree      string `mapstructure:"degree"`
	Institution string `mapstructure:"institution"`
	Location    string `mapstructure:"location"`
	Years       string `mapstructure:"years"`
}

// LevelEntry is a named item with a free-form level ("Native", "Expert").
type LevelEntry struct {
	Name  string `mapstructure:"name"`
	Level string `mapstructure:"level"`
}

// Default is the profile used when no file is configured.
func Default() *Profile {
	return &Profile{
		Name:     "Bartłomiej Słowik",
		Title:    "Full Stack Developer",
		Greeting: "Hello I'm Bartłomiej!",
		Intro: "I'm a fullstack developer ready for new experiences and challenges. " +
			"I encourage you to learn more about my experience and previous work.",
		Photo:   "/images/profile.png",
		Bitmoji: "/bitmoji.png",
		Contact: Contact{
			Email:    "bslowik4@gmail.com",
			Location: "Kraków, Poland",
			GitHub:   "https://github.com/bslowik4",
			Repo:     "https://github.com/bslowik4/portfolio_bs",
		},
		Jobs: []Job{
			{
				Position: "Self-employed - Full Stack Developer",
				Company:  "Self-employed",
				Location: "Kraków, Poland",
				Start:    "October 2024",
				End:      "Present",
				Duties: []string{
					"Worked on various client projects involving web development",
					"Collaborated with clients to gather requirements and deliver solutions",
					"Worked in small teams, ensuring effective communication",
				},
			},
			{
				Position: "Internship - Data Engineer",
				Company:  "IBM",
				Location: "Kraków, Poland",
				Start:    "October 2022",
				End:      "October 2022",
				Duties: []string{
					"Worked with Python algorithms to process and analyze data",
					"Compared libraries to improve ML models",
					"Presented findings to the data science team",
				},
			},
			{
				Position: "Frontend Developer",
				Company:  "Krakweb",
				Location: "Kraków, Poland",
				Start:    "Feb 2021",
				End:      "Feb 2021",
				Duties: []string{
					"Designed and built a modern e-commerce website",
					"Managed products and content in the company CMS",
					"Worked on documentation and the project repository",
				},
			},
		},
		Education: []Education{
			{Degree: "IT Technician", Institution: "Technikum Łączności w Krakowie", Location: "Kraków, Poland", Years: "2019-2024"},
			{Degree: "Psychology", Institution: "Jagiellonian University", Location: "Kraków, Poland", Years: "2024-present"},
		},
		Languages: []LevelEntry{
			{Name: "Polish", Level: "Native"},
			{Name: "English", Level: "C1"},
		},
		Favorites: []LevelEntry{
			{Name: "Next.js", Level: "Expert"},
			{Name: "TypeScript", Level: "Expert"},
			{Name: "Express.js", Level: "Expert"},
			{Name: "SQL Databases", Level: "Advanced"},
			{Name: "AI Solutions", Level: "Advanced"},
			{Name: "Google Cloud", Level: "Beginner"},
		},
	}
}

// Load reads path over the defaults. A missing file is not an error; sections
// absent from the file keep their default values.
func Load(path string) (*Profile, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return p, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	var loaded Profile
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", path, err)
	}
	loaded.fill(p)
	return &loaded, nil
}

// fill copies every top-level field of def that p leaves empty.
func (p *Profile) fill(def *Profile) {
	str := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	str(&p.Name, def.Name)
	str(&p.Title, def.Title)
	str(&p.Greeting, def.Greeting)
	str(&p.Intro, def.Intro)
	str(&p.Photo, def.Photo)
	str(&p.Bitmoji, def.Bitmoji)
	if p.Contact == (Contact{}) {
		p.Contact = def.Contact
	}
	if p.Jobs == nil {
		p.Jobs = def.Jobs
	}
	if p.Education == nil {
		p.Education = def.Education
	}
	if p.Languages == nil {
		p.Languages = def.Languages
	}
	if p.Favorites == nil {
		p.Favorites = def.Favorites
	}
}

// FirstName is the first word of Name.
func (p *Profile) FirstName() string {
	if f := strings.Fields(p.Name); len(f) > 0 {
		return f[0]
	}
	return ""
}
