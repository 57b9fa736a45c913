package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrNotDraft     = errors.New("el documento ya no está en borrador")
)

// Kinds distinguibles por máquina para errores expuestos al exterior.
const (
	KindValidation = "validation"
	KindNetwork    = "network"
	KindRender     = "render"
	KindStorage    = "storage"
	KindEmail      = "email"
)

// Error error con kind distinguible y mensaje legible. Envuelve la causa.
type Error struct {
	Kind    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError construye un error con kind.
func NewError(kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf devuelve el kind del error, o "" si no es un *Error.
func KindOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
