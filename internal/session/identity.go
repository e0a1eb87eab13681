package session

import (
	"strings"

	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// Identity is the user information cached alongside the token
type Identity struct {
	UsuarioID      int              `json:"usuarioId"`
	EstudianteID   int              `json:"estudianteId"`
	Identificacion string           `json:"usuarioIdentificacion"`
	Nombres        string           `json:"usuarioNombres"`
	Apellidos      string           `json:"usuarioApellidos"`
	Correo         string           `json:"usuarioCorreo"`
	Celular        string           `json:"usuarioCelular"`
	Roles          []types.UserRole `json:"roles"`
}

// DisplayName is the name shown in the console header
func (i *Identity) DisplayName() string {
	return strings.TrimSpace(i.Nombres + " " + i.Apellidos)
}

// IsAdmin reports whether the first role is the admin role. Accounts without roles are students.
func (i *Identity) IsAdmin() bool {
	return len(i.Roles) > 0 && i.Roles[0].RolID == types.RoleAdmin
}
