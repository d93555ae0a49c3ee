package ai

// Canonical entity categories. The classifier's sensitive set is drawn from
// these; extractors may report others, which flow through to document
// metadata untouched.
const (
	CategoryPerson       = "person"
	CategoryOrganization = "organization"
	CategoryLocation     = "location"
	CategoryMoney        = "money"
	CategoryDate         = "date"
)

// EntityCategories defines the known categories for extracted entities.
var EntityCategories = []string{
	CategoryPerson,
	CategoryOrganization,
	CategoryLocation,
	CategoryMoney,
	CategoryDate,
	"event",
	"product",
	"law",
	"language",
	"quantity",
	"time",
}
