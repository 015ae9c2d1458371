// Package derive holds the pure functions that compute stored fields from
// user input: post slugs, placeholder license numbers and post excerpts.
package derive

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9 -]+`)
	slugSpaces     = regexp.MustCompile(` +`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slug lowercases title, drops every character outside [a-z0-9 -] and
// turns spaces into hyphens. Runs of hyphens collapse and leading or
// trailing hyphens are trimmed, so "  Hello,  World! " becomes "hello-world".
func Slug(title string) string {
	s := strings.ToLower(title)
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UniqueSlug appends a suffix to a slug already taken by another post.
func UniqueSlug(slug string, suffix int64) string {
	return fmt.Sprintf("%s-%d", slug, suffix)
}

// LicensePlaceholder is the license number given to agents created from the
// add-user screen, e.g. 42 -> "LIC-000042".
func LicensePlaceholder(userID int64) string {
	return fmt.Sprintf("LIC-%06d", userID)
}

// Excerpt extracts the visible text of an HTML fragment and shortens it to at
// most maxRunes runes, cutting on a word boundary and adding an ellipsis when
// anything was dropped.
func Excerpt(content string, maxRunes int) string {
	text := strings.Join(strings.Fields(plainText(content)), " ")
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	cut := runes[:maxRunes]
	if i := lastSpace(cut); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "..."
}

func plainText(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
