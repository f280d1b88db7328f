package models

// DefaultCatalog es el catálogo inicial que se escribe en el primer arranque
func DefaultCatalog() Catalog {
	return Catalog{Categories: []Category{
		{Name: "manga", Products: []Product{{
			ID:               101,
			Title:            "Jujutsu Kaisen Vol. 1",
			Description:      "...",
			Price:            "12,90€",
			MainImageURL:     "https://placehold.co/400x600/e74c3c/ffffff?text=Jujutsu+Kaisen",
			AdditionalImages: []string{},
		}}},
		{Name: "fumettiAmericani", Products: []Product{}},
		{Name: "tcg", Products: []Product{}},
		{Name: "giochiTavolo", Products: []Product{}},
		{Name: "actionFigure", Products: []Product{}},
		{Name: "funkoPop", Products: []Product{}},
		{Name: "libri", Products: []Product{}},
	}}
}
