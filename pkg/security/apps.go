package security

import (
	"strings"

	"github.com/grendel/noprints/pkg/patterns"
)

// AppUnknown is the category of applications not in any known list
const AppUnknown = "unknown"

var (
	appCategories = patterns.GetAppCategories()
	appOrder      = patterns.GetAppCategoryOrder()
)

// Categorize returns the category of an application by name, e.g. "terminal"
// or "password_manager". Matching is case-insensitive on a substring of the name.
func Categorize(appName string) string {
	if appName == "" {
		return AppUnknown
	}
	lower := strings.ToLower(appName)
	for _, category := range appOrder {
		for _, known := range appCategories[category] {
			if strings.Contains(lower, strings.ToLower(known)) {
				return category
			}
		}
	}
	return AppUnknown
}
