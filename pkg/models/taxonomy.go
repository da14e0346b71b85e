package models

// DefaultCategory is the slug substituted when classification or extraction
// yields a value outside the taxonomy.
const DefaultCategory = "machine-learning"

// TaxonomyCategories is the closed set of category slugs a job may carry.
var TaxonomyCategories = []string{
	"machine-learning",
	"computer-vision",
	"data-science",
	"data-engineering",
	"software-engineering",
	"infrastructure",
	"research",
	"product",
}

// IsValidCategory reports whether slug belongs to the taxonomy.
func IsValidCategory(slug string) bool {
	for _, c := range TaxonomyCategories {
		if c == slug {
			return true
		}
	}
	return false
}

// DefaultCategoryAliases corrects near-miss slugs the model commonly invents.
// The map is injected into the classifier so it can be versioned and tested
// independently of the pipeline logic.
func DefaultCategoryAliases() map[string]string {
	return map[string]string{
		"ml":               "machine-learning",
		"ai":               "machine-learning",
		"nlp":              "machine-learning",
		"deep-learning":    "machine-learning",
		"llm":              "machine-learning",
		"cv":               "computer-vision",
		"vision":           "computer-vision",
		"data":             "data-science",
		"analytics":        "data-science",
		"data-analytics":   "data-science",
		"etl":              "data-engineering",
		"data-platform":    "data-engineering",
		"swe":              "software-engineering",
		"backend":          "software-engineering",
		"frontend":         "software-engineering",
		"full-stack":       "software-engineering",
		"fullstack":        "software-engineering",
		"devops":           "infrastructure",
		"sre":              "infrastructure",
		"mlops":            "infrastructure",
		"platform":         "infrastructure",
		"applied-research": "research",
		"science":          "research",
		"pm":               "product",
		"product-manager":  "product",
	}
}
