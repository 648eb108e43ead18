// Package catalog holds the in-memory product list served to the storefront
// and the pure predicates used to browse it.
package catalog

// Categories is the fixed storefront category list, in display order.
var Categories = []string{
	"Para la Clínica",
	"Para Mamita",
	"Mi llegada a casa",
	"Aseo",
	"Mis accesorios",
	"Extras importantes",
}

// DefaultCategory is preselected in the admin product form.
func DefaultCategory() string {
	return Categories[0]
}

// IsCategory reports whether name is one of the storefront categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
