package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para dar contexto;
// los llamadores comparan con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("validación fallida")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrPersistence       = errors.New("persistencia no disponible")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrExternalTimeout   = errors.New("tiempo de espera agotado en API externa")
	ErrExternalAPI       = errors.New("fallo en API externa")
)

// IsDomainError indica si err es una respuesta legítima del dominio (no un fallo de infraestructura).
// Un error de dominio nunca debe provocar el cambio al almacenamiento de respaldo.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrConflict)
}
