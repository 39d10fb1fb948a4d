package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los errores con datos de
// contexto tienen tipo propio más abajo y responden a errors.Is contra su
// centinela, para que el mapeo HTTP no dependa del mensaje.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrMissingParameter   = errors.New("parámetro requerido ausente")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidQuantity    = errors.New("cantidad inválida: debe ser mayor a cero")
	ErrSameStorage        = errors.New("la ubicación de origen y destino son la misma")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrPositionOutOfRange = errors.New("posición fuera de rango")
	ErrInvalidState       = errors.New("estado inválido para la operación")
)

// NotFoundError identifica qué entidad no se encontró y con qué clave.
type NotFoundError struct {
	Entity string // "producto", "ubicación", "orden de movimiento", ...
	Key    string // identificador legible, ej. "ean=111, sku=A"
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado: %s", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError reporta disponible vs. solicitado; es una validación
// de cara al usuario, no una aserción interna.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// PositionOutOfRangeError reporta la posición parseada contra el máximo
// configurado en la ubicación.
type PositionOutOfRangeError struct {
	Position int
	Max      int
}

func (e *PositionOutOfRangeError) Error() string {
	return fmt.Sprintf("posición fuera de rango: %d > %d", e.Position, e.Max)
}

func (e *PositionOutOfRangeError) Is(target error) bool { return target == ErrPositionOutOfRange }
