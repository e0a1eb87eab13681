package types

// =============================================================================
// AUTHENTICATION TYPES (Seguridad controller)
// =============================================================================
// Shared to avoid circular imports between session ↔ client ↔ fakebackend

// RoleAdmin is the rolId of administrative accounts. Every other role is treated as a student.
const RoleAdmin = 1

// LoginRequest is the body of Seguridad/LoginUsuario
type LoginRequest struct {
	UsuarioIdentificacion string `json:"usuarioIdentificacion"`
	UsuarioContrasena     string `json:"usuarioContrasena"`
}

// UserRole links a user to a role
type UserRole struct {
	UsuarioRolID int `json:"usuarioRolId"`
	UsuarioID    int `json:"usuarioId"`
	RolID        int `json:"rolId"`
}

// LoginResponse carries the JWT and the identity of the authenticated user
type LoginResponse struct {
	TokenJWT              string     `json:"tokenJWT"`
	UsuarioID             int        `json:"usuarioId"`
	UsuarioIdentificacion string     `json:"usuarioIdentificacion"`
	UsuarioNombres        string     `json:"usuarioNombres"`
	UsuarioApellidos      string     `json:"usuarioApellidos"`
	UsuarioCorreo         string     `json:"usuarioCorreo"`
	UsuarioCelular        string     `json:"usuarioCelular"`
	EstudianteID          int        `json:"estudianteId"`
	Roles                 []UserRole `json:"roles"`
}

// RegisterRequest is the body of Seguridad/RegistrarUsuario
type RegisterRequest struct {
	UsuarioIdentificacion      string `json:"usuarioIdentificacion"`
	UsuarioNombres             string `json:"usuarioNombres"`
	UsuarioApellidos           string `json:"usuarioApellidos"`
	UsuarioCelular             string `json:"usuarioCelular"`
	UsuarioCorreo              string `json:"usuarioCorreo"`
	UsuarioContrasena          string `json:"usuarioContrasena"`
	UsuarioContrasenaConfirmar string `json:"usuarioContrasenaConfirmar"`
}

// RegisterResponse describes the user created by RegistrarUsuario
type RegisterResponse struct {
	UsuarioID             int    `json:"usuarioId"`
	UsuarioIdentificacion string `json:"usuarioIdentificacion"`
	UsuarioNombres        string `json:"usuarioNombres"`
	UsuarioApellidos      string `json:"usuarioApellidos"`
	UsuarioCorreo         string `json:"usuarioCorreo"`
	UsuarioCelular        string `json:"usuarioCelular"`
}
