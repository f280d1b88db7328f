package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"storefront/internal/idgen"
	"storefront/internal/locks"
	"storefront/internal/models"
	"storefront/internal/store"
)

type ProductRepository struct {
	store store.Store
	locks *locks.Registry
	ids   idgen.Generator
}

func NewProductRepository(s store.Store, l *locks.Registry, ids idgen.Generator) *ProductRepository {
	return &ProductRepository{
		store: s,
		locks: l,
		ids:   ids,
	}
}

// All devuelve el catálogo completo
func (r *ProductRepository) All(ctx context.Context) (models.Catalog, error) {
	unlock := r.locks.Lock(store.ProductsKey)
	defer unlock()

	return r.load(ctx)
}

// FindInCategory busca dentro de una categoría con igualdad laxa sobre el id
func (r *ProductRepository) FindInCategory(ctx context.Context, category, rawID string) (*models.Product, error) {
	catalog, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	cat := catalog.Category(category)
	if cat == nil {
		return nil, ErrCategoryNotFound
	}

	for _, p := range cat.Products {
		if looseIDMatch(p.ID, rawID) {
			product := p
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}

// FindByID busca en todas las categorías; rawID se interpreta como parseInt
func (r *ProductRepository) FindByID(ctx context.Context, rawID string) (*models.Product, error) {
	id, ok := ParseIntPrefix(rawID)
	if !ok {
		return nil, ErrProductNotFound
	}

	catalog, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	catIdx, prodIdx, found := catalog.Locate(id)
	if !found {
		return nil, ErrProductNotFound
	}
	product := catalog.Categories[catIdx].Products[prodIdx]
	return &product, nil
}

// Create asigna un id nuevo y añade el producto a la categoría, creándola si
// no existe. product.Category se guarda tal cual (vacío en el perfil v1).
func (r *ProductRepository) Create(ctx context.Context, category string, product models.Product) (*models.Product, error) {
	var created models.Product

	err := r.mutate(ctx, func(catalog *models.Catalog) error {
		id := r.ids.Next()
		for catalog.HasID(id) {
			id = r.ids.Next()
		}

		product.ID = id
		product.Normalize()

		cat := catalog.Ensure(category)
		cat.Products = append(cat.Products, product)
		created = product
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotPersisted) {
		return nil, err
	}
	return &created, err
}

// Update reemplaza el producto. Si la categoría nueva es distinta de la
// actual, el producto se mueve al final de la nueva lista.
func (r *ProductRepository) Update(ctx context.Context, rawID string, product models.Product) (*models.Product, error) {
	id, ok := ParseIntPrefix(rawID)
	if !ok {
		return nil, ErrProductNotFound
	}

	var updated models.Product

	err := r.mutate(ctx, func(catalog *models.Catalog) error {
		catIdx, prodIdx, found := catalog.Locate(id)
		if !found {
			return ErrProductNotFound
		}

		current := &catalog.Categories[catIdx]
		if product.Category == "" {
			product.Category = current.Name
		}
		product.ID = id
		product.Normalize()

		if product.Category == current.Name {
			current.Products[prodIdx] = product
		} else {
			current.Products = append(current.Products[:prodIdx], current.Products[prodIdx+1:]...)
			target := catalog.Ensure(product.Category)
			target.Products = append(target.Products, product)
		}
		updated = product
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotPersisted) {
		return nil, err
	}
	return &updated, err
}

// DeleteInCategory elimina todas las coincidencias laxas dentro de la categoría
func (r *ProductRepository) DeleteInCategory(ctx context.Context, category, rawID string) error {
	return r.mutate(ctx, func(catalog *models.Catalog) error {
		cat := catalog.Category(category)
		if cat == nil {
			return ErrCategoryNotFound
		}
		removed := cat.RemoveIf(func(p models.Product) bool { return looseIDMatch(p.ID, rawID) })
		if removed == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

// Delete recorre las categorías en orden y se detiene en la primera donde
// eliminó algo.
func (r *ProductRepository) Delete(ctx context.Context, rawID string) error {
	id, ok := ParseIntPrefix(rawID)
	if !ok {
		return ErrProductNotFound
	}

	return r.mutate(ctx, func(catalog *models.Catalog) error {
		for i := range catalog.Categories {
			if catalog.Categories[i].RemoveIf(func(p models.Product) bool { return p.ID == id }) > 0 {
				return nil
			}
		}
		return ErrProductNotFound
	})
}

// mutate ejecuta lectura-modificación-escritura con la clave bloqueada. Si fn
// devuelve error no se escribe nada.
func (r *ProductRepository) mutate(ctx context.Context, fn func(*models.Catalog) error) error {
	unlock := r.locks.Lock(store.ProductsKey)
	defer unlock()

	catalog, err := r.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(&catalog); err != nil {
		return err
	}
	if err := r.store.Save(ctx, store.ProductsKey, catalog); err != nil {
		return &PersistError{Key: store.ProductsKey, Err: err}
	}
	return nil
}

func (r *ProductRepository) load(ctx context.Context) (models.Catalog, error) {
	var catalog models.Catalog
	if err := r.store.Load(ctx, store.ProductsKey, &catalog); err != nil {
		return models.Catalog{}, &ReadError{Key: store.ProductsKey, Err: err}
	}
	return catalog, nil
}

func looseIDMatch(id int64, rawID string) bool {
	n, ok := models.ParseLooseNumber(rawID)
	return ok && float64(id) == n
}

// ParseIntPrefix imita parseInt: ignora espacios iniciales, acepta signo y
// prefijo 0x, y descarta lo que sigue a los dígitos.
func ParseIntPrefix(raw string) (int64, bool) {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && ((c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')):
		return true
	}
	return false
}
