package memory

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var _ repository.UserRepository = (*UserDirectory)(nil)

// DemoPassword contraseña compartida por los usuarios de demostración.
const DemoPassword = "password"

type demoUser struct {
	id, username, name, role string
}

var demoUsers = []demoUser{
	{"1", "admin", "Administrator", entity.RoleAdmin},
	{"2", "user", "John Doe", entity.RoleUser},
	{"3", "bart", "Bart", entity.RoleUser},
	{"4", "mae", "Mae", entity.RoleUser},
	{"5", "angela", "Angela", entity.RoleUser},
	{"6", "chris", "Chris", entity.RoleUser},
	{"7", "andre", "Andre", entity.RoleUser},
	{"8", "akeem", "Akeem", entity.RoleUser},
	{"9", "guest", "Guest User", entity.RoleUser},
}

// UserDirectory directorio de usuarios en memoria, de solo lectura.
type UserDirectory struct {
	byUsername map[string]*entity.User
	byID       map[string]*entity.User
}

// NewDemoDirectory crea el directorio con los usuarios de demostración.
// cost es el costo bcrypt (bcrypt.DefaultCost en producción, bcrypt.MinCost en tests).
func NewDemoDirectory(cost int) (*UserDirectory, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash contraseña demo: %w", err)
	}
	d := &UserDirectory{
		byUsername: make(map[string]*entity.User, len(demoUsers)),
		byID:       make(map[string]*entity.User, len(demoUsers)),
	}
	for _, u := range demoUsers {
		user := &entity.User{ID: u.id, Username: u.username, Name: u.name, Role: u.role, PasswordHash: string(hash)}
		d.byUsername[u.username] = user
		d.byID[u.id] = user
	}
	return d, nil
}

// FindByUsername busca sin distinguir mayúsculas. Devuelve (nil, nil) si no existe.
func (d *UserDirectory) FindByUsername(username string) (*entity.User, error) {
	u, ok := d.byUsername[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// GetByID devuelve (nil, nil) si no existe.
func (d *UserDirectory) GetByID(id string) (*entity.User, error) {
	u, ok := d.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
