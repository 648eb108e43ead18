package service

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/todobabyrio/todobaby_api/internal/catalog"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// ProductForm is the flat admin form. List fields are comma separated and
// numbers arrive as strings.
type ProductForm struct {
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Price       string `json:"price"`
	Stock       string `json:"stock"`
	Status      string `json:"status"`
	Images      string `json:"images"`
	Colors      string `json:"colors"`
	Sizes       string `json:"sizes"`
	Material    string `json:"material"`
	Tags        string `json:"tags"`
	Hashtags    string `json:"hashtags"`
	Badge       string `json:"badge"`
}

// ParseList splits on commas, trims each piece and drops empties.
func ParseList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList renders a list for editing.
func JoinList(xs []string) string {
	return strings.Join(xs, ", ")
}

// FormFromProduct fills the form for editing an existing product.
func FormFromProduct(p *models.Product) ProductForm {
	return ProductForm{
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Price:       p.Price.StringFixed(2),
		Stock:       strconv.Itoa(p.Stock),
		Status:      string(p.Status),
		Images:      JoinList(p.Images),
		Colors:      JoinList(p.Colors),
		Sizes:       JoinList(p.Sizes),
		Material:    p.Material,
		Tags:        JoinList(p.Tags),
		Hashtags:    JoinList(p.Hashtags),
		Badge:       p.Badge,
	}
}

// maxPrice is the first value that does not fit the NUMERIC(12,2) column.
var maxPrice = decimal.New(1, 10)

// ToInput validates the form and converts it to a product input.
func (f *ProductForm) ToInput() (*models.ProductInput, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, utils.NewValidationError("name", "El nombre es obligatorio")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil {
		return nil, utils.NewValidationError("price", "El precio debe ser un número mayor que cero")
	}
	price = price.Round(2)
	if !price.IsPositive() {
		return nil, utils.NewValidationError("price", "El precio debe ser un número mayor que cero")
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return nil, utils.NewValidationError("price", "El precio es demasiado alto")
	}

	stock := 0
	if s := strings.TrimSpace(f.Stock); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil || stock < 0 {
			return nil, utils.NewValidationError("stock", "El stock debe ser un entero mayor o igual a cero")
		}
	}

	status := models.ProductStatus(strings.TrimSpace(f.Status))
	if status == "" {
		status = models.ProductStatusActive
	}
	if !status.Valid() {
		return nil, utils.NewValidationError("status", "Estado inválido")
	}

	category := strings.TrimSpace(f.Category)
	if category == "" {
		category = catalog.DefaultCategory()
	}

	badge := strings.TrimSpace(f.Badge)
	switch badge {
	case "", models.BadgeNew, models.BadgeSale, models.BadgeBestSeller:
	default:
		return nil, utils.NewValidationError("badge", "Insignia inválida")
	}

	return &models.ProductInput{
		Name:        name,
		SKU:         strings.TrimSpace(f.SKU),
		Description: strings.TrimSpace(f.Description),
		Category:    category,
		Subcategory: strings.TrimSpace(f.Subcategory),
		Price:       price,
		Stock:       stock,
		Status:      status,
		Images:      ParseList(f.Images),
		Colors:      ParseList(f.Colors),
		Sizes:       ParseList(f.Sizes),
		Material:    strings.TrimSpace(f.Material),
		Tags:        ParseList(f.Tags),
		Hashtags:    ParseList(f.Hashtags),
		Badge:       badge,
	}, nil
}
