package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// supportedMajor is the catalog format major version this build reads.
const supportedMajor = "v1"

// ValidationError lists every structural problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// validate performs all structural checks on a decoded catalog file.
// Returns a combined error describing all problems found, or nil if valid.
func validate(f catalogFile) error {
	var errs []string

	switch {
	case !semver.IsValid(f.Version):
		errs = append(errs, fmt.Sprintf("invalid catalog version %q", f.Version))
	case semver.Major(f.Version) != supportedMajor:
		errs = append(errs, fmt.Sprintf("unsupported catalog version %s (want %s.x.x)", f.Version, supportedMajor))
	}

	if len(f.Categories) == 0 {
		errs = append(errs, "catalog has no categories")
	}

	keys := make(map[CategoryKey]bool, len(f.Categories))
	ids := make(map[string]bool)

	for _, cat := range f.Categories {
		if cat.Key == "" {
			errs = append(errs, "category with empty key")
		} else if keys[cat.Key] {
			errs = append(errs, fmt.Sprintf("duplicate category key: %q", cat.Key))
		}
		keys[cat.Key] = true

		if cat.Baseline != nil && (*cat.Baseline < 0 || *cat.Baseline > 100) {
			errs = append(errs, fmt.Sprintf("category %q baseline %d outside 0..100", cat.Key, *cat.Baseline))
		}
		if len(cat.Questions) == 0 {
			errs = append(errs, fmt.Sprintf("category %q has no questions", cat.Key))
		}

		for _, q := range cat.Questions {
			if q.ID == "" {
				errs = append(errs, fmt.Sprintf("category %q has a question with empty id", cat.Key))
				continue
			}
			if ids[q.ID] {
				errs = append(errs, fmt.Sprintf("duplicate question ID: %q", q.ID))
			}
			ids[q.ID] = true

			if len(q.Choices) == 0 {
				errs = append(errs, fmt.Sprintf("question %q has no choices", q.ID))
			}
			for i, ch := range q.Choices {
				if ch.Score < 0 {
					errs = append(errs, fmt.Sprintf("question %q choice %d has negative score %d", q.ID, i, ch.Score))
				}
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}
