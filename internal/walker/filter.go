package walker

import (
	"strings"

	"golang.org/x/text/cases"
)

// readmeFolded is "README" under Unicode case folding.
var readmeFolded = cases.Fold().String("README")

// IsDocFile reports whether name is a documentation file: it ends in ".md",
// ends in ".rst", or contains "README" in any letter case.
func IsDocFile(name string) bool {
	if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".rst") {
		return true
	}
	// A Caser keeps state between calls, so each call gets its own.
	return strings.Contains(cases.Fold().String(name), readmeFolded)
}
