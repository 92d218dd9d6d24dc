// Package gallery finds project screenshots under the public assets directory.
package gallery

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FallbackImage is shown for projects without screenshots.
const FallbackImage = "/images/projects/shield.svg"

var imageExtensions = map[string]bool{
	".png": true,
	".jpg": true,
	".gif": true,
	".svg": true,
}

// IsImage reports whether name has one of the accepted image extensions.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// ProjectImages lists the images stored in imagesPath (public-relative, e.g.
// "/images/projects/foo") and returns their public URLs sorted by file name.
// A missing directory or an empty imagesPath yields nil.
func ProjectImages(publicDir, imagesPath string) []string {
	if imagesPath == "" {
		return nil
	}
	dir, ok := resolve(publicDir, imagesPath)
	if !ok {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	urls := make([]string, 0, len(names))
	for _, name := range names {
		urls = append(urls, imagesPath+"/"+name)
	}
	if len(urls) == 0 {
		return nil
	}
	return urls
}

// resolve maps imagesPath into publicDir, refusing paths that climb out of it.
func resolve(publicDir, imagesPath string) (string, bool) {
	rel := filepath.FromSlash(strings.TrimPrefix(imagesPath, "/"))
	dir := filepath.Join(publicDir, rel)
	r, err := filepath.Rel(publicDir, dir)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", false
	}
	return dir, true
}

var orderPrefix = regexp.MustCompile(`^\d+-`)

// Caption turns an image URL into a human label: "/x/01-home_page.png" -> "Home Page".
func Caption(src string) string {
	name := path.Base(src)
	if name == "." || name == "/" {
		return ""
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	name = orderPrefix.ReplaceAllString(name, "")

	// Only the first rune changes: "2d" stays "2d", "iOS" becomes "IOS".
	// Casers carry state, so each call gets its own.
	upper := cases.Upper(language.English)
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}
