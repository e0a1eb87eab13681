// the session package owns the console's authentication state: the bearer token sent with every
// backend request and the identity attributes returned at login.
//
// State lives in a Backend (in memory or a SQLite file). Clear wipes the whole backend, which
// is reserved for session state, so logout and a 401 from either service leave nothing behind.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Brayan980312/ProyectoUniversidad/internal/logger"
	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// ErrMissingToken is returned by SaveLogin when the login response carries no token
var ErrMissingToken = errors.New("la respuesta de inicio de sesión no incluye token")

// storage keys
const (
	KeyToken                 = "auth_token"
	KeyUsuarioID             = "usuarioId"
	KeyEstudianteID          = "estudianteId"
	KeyUsuarioIdentificacion = "usuarioIdentificacion"
	KeyUsuarioNombres        = "usuarioNombres"
	KeyUsuarioApellidos      = "usuarioApellidos"
	KeyUsuarioCorreo         = "usuarioCorreo"
	KeyUsuarioCelular        = "usuarioCelular"
	KeyRoles                 = "roles"
)

// Store is the credential store shared by every request the console makes
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// NewStore wraps a backend. A nil logger discards log output.
func NewStore(backend Backend, log *slog.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		backend: backend,
		logger:  log.With(slog.String("component", "session")),
	}
}

// Token returns the current bearer token. An empty or unreadable token counts as absent.
func (s *Store) Token() (string, bool) {
	token, ok, err := s.backend.Get(context.Background(), KeyToken)
	if err != nil {
		s.logger.Error("could not read session token", slog.String("error", err.Error()))
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// SetToken persists the token, replacing any previous one
func (s *Store) SetToken(token string) error {
	if err := s.backend.Set(context.Background(), KeyToken, token); err != nil {
		return fmt.Errorf("could not store session token: %w", err)
	}
	return nil
}

// Clear erases the token and every cached identity attribute. It never fails; backend errors are logged.
func (s *Store) Clear() {
	if err := s.backend.Clear(context.Background()); err != nil {
		s.logger.Error("could not clear session state", slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("session state cleared")
}

// SaveLogin replaces the session with the token and identity returned by a successful login
// The previous session is left untouched when res has no token.
func (s *Store) SaveLogin(res types.LoginResponse) error {
	if res.TokenJWT == "" {
		return ErrMissingToken
	}

	roles, err := json.Marshal(res.Roles)
	if err != nil {
		return fmt.Errorf("could not encode roles: %w", err)
	}
	if res.Roles == nil {
		roles = []byte("[]")
	}

	s.Clear()

	if err := s.SetToken(res.TokenJWT); err != nil {
		return err
	}

	entries := []struct {
		key   string
		value string
	}{
		{KeyUsuarioID, strconv.Itoa(res.UsuarioID)},
		{KeyEstudianteID, strconv.Itoa(res.EstudianteID)},
		{KeyUsuarioIdentificacion, res.UsuarioIdentificacion},
		{KeyUsuarioNombres, res.UsuarioNombres},
		{KeyUsuarioApellidos, res.UsuarioApellidos},
		{KeyUsuarioCorreo, res.UsuarioCorreo},
		{KeyUsuarioCelular, res.UsuarioCelular},
		{KeyRoles, string(roles)},
	}

	ctx := context.Background()
	for _, e := range entries {
		if err := s.backend.Set(ctx, e.key, e.value); err != nil {
			return fmt.Errorf("could not store %s: %w", e.key, err)
		}
	}

	s.logger.Debug("session saved",
		slog.Int("usuario_id", res.UsuarioID),
		slog.Int("roles", len(res.Roles)),
	)
	return nil
}

// Identity returns the attributes saved at login. ok is false when nobody is logged in.
func (s *Store) Identity() (*Identity, bool) {
	if _, ok := s.Token(); !ok {
		return nil, false
	}

	ctx := context.Background()
	get := func(key string) string {
		v, _, err := s.backend.Get(ctx, key)
		if err != nil {
			s.logger.Warn("could not read session attribute",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return v
	}

	id := &Identity{
		Identificacion: get(KeyUsuarioIdentificacion),
		Nombres:        get(KeyUsuarioNombres),
		Apellidos:      get(KeyUsuarioApellidos),
		Correo:         get(KeyUsuarioCorreo),
		Celular:        get(KeyUsuarioCelular),
		Roles:          []types.UserRole{},
	}
	id.UsuarioID, _ = strconv.Atoi(get(KeyUsuarioID))
	id.EstudianteID, _ = strconv.Atoi(get(KeyEstudianteID))

	if raw := get(KeyRoles); raw != "" {
		if err := json.Unmarshal([]byte(raw), &id.Roles); err != nil {
			s.logger.Warn("stored roles are not valid JSON", slog.String("error", err.Error()))
			id.Roles = []types.UserRole{}
		}
	}

	return id, true
}
