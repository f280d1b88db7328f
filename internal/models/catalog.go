package models

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
)

// Category es una lista de productos con nombre
type Category struct {
	Name     string
	Products []Product
}

// Catalog es el mapeo categoría -> productos. Conserva el orden de inserción
// de las categorías tanto en JSON como en BSON.
type Catalog struct {
	Categories []Category
}

// Index devuelve la posición de la categoría o -1
func (c *Catalog) Index(name string) int {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return i
		}
	}
	return -1
}

// Category devuelve un puntero a la categoría o nil si no existe
func (c *Catalog) Category(name string) *Category {
	if i := c.Index(name); i >= 0 {
		return &c.Categories[i]
	}
	return nil
}

// Ensure devuelve la categoría, creándola al final si no existe
func (c *Catalog) Ensure(name string) *Category {
	if i := c.Index(name); i >= 0 {
		return &c.Categories[i]
	}
	c.Categories = append(c.Categories, Category{Name: name, Products: []Product{}})
	return &c.Categories[len(c.Categories)-1]
}

// Locate busca un producto por id en todas las categorías, en orden
func (c *Catalog) Locate(id int64) (catIdx, prodIdx int, ok bool) {
	for i := range c.Categories {
		for j := range c.Categories[i].Products {
			if c.Categories[i].Products[j].ID == id {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

// HasID indica si algún producto usa ya el id
func (c *Catalog) HasID(id int64) bool {
	_, _, ok := c.Locate(id)
	return ok
}

// MaxID devuelve el id más alto del catálogo (0 si está vacío)
func (c *Catalog) MaxID() int64 {
	var max int64
	for _, cat := range c.Categories {
		for _, p := range cat.Products {
			if p.ID > max {
				max = p.ID
			}
		}
	}
	return max
}

// RemoveIf quita de la categoría los productos que cumplen match y devuelve cuántos
func (cat *Category) RemoveIf(match func(Product) bool) int {
	kept := cat.Products[:0]
	removed := 0
	for _, p := range cat.Products {
		if match(p) {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	cat.Products = kept
	return removed
}

func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		products := cat.Products
		if products == nil {
			products = []Product{}
		}
		value, err := json.Marshal(products)
		if err != nil {
			return nil, fmt.Errorf("catalog: encode category %q: %w", cat.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON recorre los tokens para conservar el orden de las claves
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := stdjson.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if delim, ok := tok.(stdjson.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog: expected object, got %v", tok)
	}

	categories := []Category{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog: unexpected key %v", tok)
		}

		var products []Product
		if err := dec.Decode(&products); err != nil {
			return fmt.Errorf("catalog: decode category %q: %w", name, err)
		}
		if products == nil {
			products = []Product{}
		}
		categories = append(categories, Category{Name: name, Products: products})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	c.Categories = categories
	return nil
}

func (c Catalog) MarshalBSON() ([]byte, error) {
	doc := make(bson.D, 0, len(c.Categories))
	for _, cat := range c.Categories {
		products := cat.Products
		if products == nil {
			products = []Product{}
		}
		doc = append(doc, bson.E{Key: cat.Name, Value: products})
	}
	return bson.Marshal(doc)
}

func (c *Catalog) UnmarshalBSON(data []byte) error {
	elems, err := bson.Raw(data).Elements()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	categories := make([]Category, 0, len(elems))
	for _, elem := range elems {
		var products []Product
		if err := elem.Value().Unmarshal(&products); err != nil {
			return fmt.Errorf("catalog: decode category %q: %w", elem.Key(), err)
		}
		if products == nil {
			products = []Product{}
		}
		categories = append(categories, Category{Name: elem.Key(), Products: products})
	}
	c.Categories = categories
	return nil
}
