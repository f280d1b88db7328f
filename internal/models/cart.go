package models

// Cart es el documento de carrito de un usuario. Guardar reemplaza el
// documento completo, así que se conserva cualquier campo que envíe el cliente.
type Cart map[string]any

// EmptyCart devuelve {"items": []}
func EmptyCart() Cart {
	return Cart{"items": []any{}}
}
