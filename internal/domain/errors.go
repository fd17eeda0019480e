package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// StockError detalle de un ajuste rechazado por dejar la cantidad en negativo.
// errors.Is(err, ErrInsufficientStock) sigue funcionando vía Unwrap.
type StockError struct {
	ItemID    string
	ItemName  string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %d, solicitado %d", e.ItemName, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
