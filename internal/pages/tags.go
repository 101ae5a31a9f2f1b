package pages

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// MaxTagLength bounds a single tag.
const MaxTagLength = 64

// NormalizeTags lower-cases, trims and de-duplicates tags, returning them sorted.
func NormalizeTags(tags []string) ([]string, error) {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" || len(tag) > MaxTagLength {
			return nil, fmt.Errorf("%w: %q", ErrTagInvalid, raw)
		}
		set.Add(tag)
	}
	out := set.ToSlice()
	sort.Strings(out)
	return out, nil
}
