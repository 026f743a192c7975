package repository

import "github.com/jhoicas/stock-tracker/internal/domain/entity"

// UserRepository define el puerto de lectura del directorio de usuarios.
// Devuelve (nil, nil) si el usuario no existe.
type UserRepository interface {
	FindByUsername(username string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
}
