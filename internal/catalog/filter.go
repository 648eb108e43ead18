package catalog

import (
	"strings"

	"github.com/todobabyrio/todobaby_api/internal/models"
)

// DefaultRelatedLimit is the number of related products shown on a detail page.
const DefaultRelatedLimit = 4

// Query narrows the product list. Zero values match everything.
type Query struct {
	Category        string
	Search          string
	IncludeInactive bool
}

// Filter returns the products matching q, preserving input order.
// Search is a case-insensitive substring match across name, description,
// category and tags; there is no ranking.
func Filter(products []models.Product, q Query) []models.Product {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Product, 0, len(products))
	for i := range products {
		p := &products[i]
		if !q.IncludeInactive && !p.IsActive() {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func matches(p *models.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Related returns up to limit active products sharing the category of p,
// excluding p itself.
func Related(products []models.Product, p *models.Product, limit int) []models.Product {
	if p == nil {
		return []models.Product{}
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	out := make([]models.Product, 0, limit)
	for i := range products {
		if len(out) == limit {
			break
		}
		cand := &products[i]
		if cand.ID == p.ID || cand.Category != p.Category || !cand.IsActive() {
			continue
		}
		out = append(out, *cand)
	}
	return out
}
