package models

// Product representa un producto del catálogo
type Product struct {
	ID               int64    `json:"id" bson:"id"`
	Title            string   `json:"title" bson:"title"`
	Description      string   `json:"description" bson:"description"`
	Price            string   `json:"price" bson:"price"`
	MainImageURL     string   `json:"mainImageUrl" bson:"mainImageUrl"`
	AdditionalImages []string `json:"additionalImages" bson:"additionalImages"`
	Category         string   `json:"category,omitempty" bson:"category,omitempty"`
}

// Normalize evita que additionalImages se serialice como null
func (p *Product) Normalize() {
	if p.AdditionalImages == nil {
		p.AdditionalImages = []string{}
	}
}

// ProductRequest es el cuerpo de alta del perfil v1: la categoría es obligatoria
// y no se guarda en el registro, solo decide la lista destino.
type ProductRequest struct {
	Category         string   `json:"category" binding:"required"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Price            string   `json:"price"`
	MainImageURL     string   `json:"mainImageUrl"`
	AdditionalImages []string `json:"additionalImages"`
}

// Product construye el registro sin categoría
func (r ProductRequest) Product() Product {
	p := Product{
		Title:            r.Title,
		Description:      r.Description,
		Price:            r.Price,
		MainImageURL:     r.MainImageURL,
		AdditionalImages: r.AdditionalImages,
	}
	p.Normalize()
	return p
}
