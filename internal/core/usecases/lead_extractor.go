package usecases

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"sleuth/internal/core/domain"
	"sleuth/internal/platform/errors"
)

// resultSections are the SerpApi arrays scanned for profile links, in
// priority order.
var resultSections = []string{"image_results", "visual_matches", "inline_images", "organic_results"}

var profilePattern = regexp.MustCompile(`(?i)linkedin\.com/in/([^/?#\s"'<>)]+)`)

type searchRecord struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// ExtractTargets collects LinkedIn usernames from a reverse-image search
// document. Usernames are URL-decoded and lower-cased; the first sighting
// fixes the order.
func ExtractTargets(doc json.RawMessage) (domain.TargetList, error) {
	var targets domain.TargetList
	if len(doc) == 0 {
		return targets, nil
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(doc, &sections); err != nil {
		return targets, errors.Wrap(errors.ErrInvalidResponse, "search document is not a JSON object")
	}

	for _, name := range resultSections {
		raw, ok := sections[name]
		if !ok {
			continue
		}
		var records []searchRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			// a section with an unexpected shape is skipped, not fatal
			continue
		}
		for _, rec := range records {
			for _, field := range []string{rec.Link, rec.Title, rec.Snippet} {
				for _, u := range usernamesIn(field) {
					targets.Add(u)
				}
			}
		}
	}
	return targets, nil
}

func usernamesIn(s string) []string {
	matches := profilePattern.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		slug := m[1]
		if decoded, err := url.PathUnescape(slug); err == nil {
			slug = decoded
		}
		slug = strings.ToLower(strings.Trim(slug, ".,;:"))
		if slug != "" {
			out = append(out, slug)
		}
	}
	return out
}
