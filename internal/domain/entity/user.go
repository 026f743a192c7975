package entity

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario de la aplicación (directorio de demostración).
type User struct {
	ID           string
	Username     string
	Name         string
	Role         string // admin, user
	PasswordHash string // bcrypt
}

// Session identifica a quién ejecuta una operación. Se pasa explícitamente a los casos de uso.
type Session struct {
	UserID   string
	UserName string
	Role     string
}

// IsElevated indica si la sesión tiene privilegios de administrador.
// Los reportes de una sesión elevada se aplican sin pasar por revisión.
func (s Session) IsElevated() bool {
	return s.Role == RoleAdmin
}
