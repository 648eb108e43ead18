package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/todobabyrio/todobaby_api/internal/models"
)

// checklist is the store's newborn shopping list, per category.
var checklist = map[string][]string{
	"Para la Clínica":    {"Pañales desechables R.N.", "Pañitos húmedos", "Crema antipañalitis", "Toallas", "Juegos de sábanas (x2)", "Cobilas", "Pijamas (primer día)", "Medias (escarpines)", "Mitones", "Gorritos", "1 Biberón", "Termo", "1 Babero (saca gases)", "Fajeros", "Bolso pañalera"},
	"Para Mamita":        {"Toallas maternas", "Dos batas", "Pantuflas", "Lacti Nosotras", "Jabón", "Jabonera", "Sábanas", "Toalla de baño", "Salida de baño", "Almohadas"},
	"Mi llegada a casa":  {"Corral o cuna", "Colchoneta", "Coche", "Juego de sabanitas con funda", "Ule (cambiador plástico)", "3 Almohadas", "1 Semanario", "1 Semanario de babero", "4 Pijamas", "Pañalera", "Canastilla", "Toldo", "Protector de cuna", "Móvil musical", "Cargador de bebé", "Ropita"},
	"Aseo":               {"Pañales x 30 etapa 1", "Toallitas húmedas", "Jabón", "Shampoo", "Colonia", "Copitos", "Crema líquida", "Baño líquido antes de dormir", "Algodón, gasa, alcohol, esparadrapo", "Aceite", "Isodine", "Agua oxigenada", "Toallas, salida de baño", "Pantuflas"},
	"Mis accesorios":     {"Bañera", "Jabón esponja", "Mosquitero", "Set de manicure", "Termómetro digital", "Jabonera", "Dosificador de medicamentos", "Cepillo de peinar", "Pera nasal", "Rasca encías", "Lavateteros", "Teteros de 2 oz, 4 oz, 9 oz", "Vaso pitillo", "Porta teteros", "Extractor de leche", "Termo para el agua", "Olla para calentar teteros", "Calentador de teteros"},
	"Extras importantes": {"Crema para pezones agrietados", "Almohada para lactancia", "Té para lactar", "App de ruido blanco", "Extractor de leche"},
}

var seedBadges = []string{models.BadgeNew, models.BadgeSale, models.BadgeBestSeller}

// Seed builds the demo catalog from the newborn checklist. Prices fall in
// [5, 80), stock in [10, 60) and roughly one product in five gets a badge.
func Seed(rng *rand.Rand) []models.ProductInput {
	var out []models.ProductInput
	n := 0
	for _, category := range Categories {
		for _, name := range checklist[category] {
			n++
			in := models.ProductInput{
				Name:        name,
				Description: fmt.Sprintf("La solución perfecta para tu bebé. %s de la más alta calidad, pensado para el cuidado y confort que tu pequeño merece.", name),
				Category:    category,
				Price:       decimal.NewFromFloat(5 + rng.Float64()*75).Round(2),
				Stock:       10 + rng.Intn(50),
				Status:      models.ProductStatusActive,
				Images:      []string{fmt.Sprintf("https://picsum.photos/seed/p%d/400/400", n)},
				Colors:      []string{"Varios"},
				Sizes:       []string{"N/A"},
				Tags:        SeedTags(category, name),
			}
			if rng.Float64() > 0.8 {
				in.Badge = seedBadges[rng.Intn(len(seedBadges))]
			}
			out = append(out, in)
		}
	}
	return out
}

// SeedTags derives search tags: the lower-cased category followed by the
// distinct words of the name, punctuation removed.
func SeedTags(category, name string) []string {
	seen := map[string]bool{}
	var tags []string
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	add(strings.ToLower(category))
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, name)
	for _, word := range strings.Fields(cleaned) {
		add(word)
	}
	return tags
}
