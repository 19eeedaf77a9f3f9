package domain

import "strings"

// DietaryCategories is the universe of categories the safety classifier knows about.
var DietaryCategories = []string{
	"vegan",
	"vegetarian",
	"kosher",
	"nut allergy",
	"halal",
	"dairy",
	"gluten",
}

// ParseTags splits a comma-separated tag string into a tag set, trimming
// each element. Empty elements and repeats are dropped, so an empty string
// yields an empty slice.
func ParseTags(input string) []string {
	tags := []string{}
	for _, part := range strings.Split(input, ",") {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return MergeTags(tags)
}

// SelectTags returns the entries of tags named in said. Matching ignores
// case and surrounding whitespace; the result follows the order and
// spelling of tags and holds each tag once.
func SelectTags(said, tags []string) []string {
	named := make(map[string]struct{}, len(said))
	for _, s := range said {
		if key := tagKey(s); key != "" {
			named[key] = struct{}{}
		}
	}

	selected := []string{}
	for _, tag := range tags {
		key := tagKey(tag)
		if _, ok := named[key]; !ok {
			continue
		}
		delete(named, key)
		selected = append(selected, tag)
	}
	return selected
}

func tagKey(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// MergeTags concatenates tag lists in order, dropping duplicates.
func MergeTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	merged := []string{}
	for _, list := range lists {
		for _, tag := range list {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}
