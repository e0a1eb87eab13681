package fakebackend

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Brayan980312/ProyectoUniversidad/internal/logger"
	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// queryValue finds a query parameter ignoring the case of its name, as ASP.NET model binding does
func queryValue(r *http.Request, key string) string {
	for k, v := range r.URL.Query() {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// queryInt answers 400 itself when the value is not an integer
func queryInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	raw := queryValue(r, key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		RespondWithProblem(w, r, http.StatusBadRequest, fmt.Sprintf("El valor '%s' no es válido para %s", raw, key))
		return 0, false
	}
	return v, true
}

// respondWithResult maps business errors to 422 and anything else to 500
func respondWithResult(w http.ResponseWriter, r *http.Request, status int, payload any, err error) {
	if err != nil {
		if IsValidation(err) {
			RespondWithProblem(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		RespondWithProblem(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	RespondWithJSON(w, status, payload)
}

// =============================================================================
// Seguridad
// =============================================================================

type SecurityHandler struct {
	records *Records
	auth    *AuthService
}

func NewSecurityHandler(records *Records, auth *AuthService) *SecurityHandler {
	return &SecurityHandler{records: records, auth: auth}
}

// LoginHandler answers 422 "Usuario o clave incorrectos" for an unknown user or a wrong password
func (h *SecurityHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, ok := h.records.UserByIdentification(req.UsuarioIdentificacion)
	if !ok || h.auth.CheckPasswordHash(u.passwordHash, req.UsuarioContrasena) != nil {
		RespondWithProblem(w, r, http.StatusUnprocessableEntity, "Usuario o clave incorrectos")
		return
	}

	token, err := h.auth.CreateAccessToken(u)
	if err != nil {
		RespondWithProblem(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.Int("usuario_id", u.id))
	RespondWithJSON(w, http.StatusOK, u.loginResponse(token))
}

// RegisterHandler creates a student account
func (h *SecurityHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch {
	case strings.TrimSpace(req.UsuarioIdentificacion) == "":
		RespondWithProblem(w, r, http.StatusUnprocessableEntity, "La identificación es obligatoria")
		return
	case strings.TrimSpace(req.UsuarioNombres) == "" || strings.TrimSpace(req.UsuarioApellidos) == "":
		RespondWithProblem(w, r, http.StatusUnprocessableEntity, "Los nombres y apellidos son obligatorios")
		return
	case req.UsuarioContrasena == "":
		RespondWithProblem(w, r, http.StatusUnprocessableEntity, "La contraseña es obligatoria")
		return
	case req.UsuarioContrasena != req.UsuarioContrasenaConfirmar:
		RespondWithProblem(w, r, http.StatusUnprocessableEntity, "Las contraseñas no coinciden")
		return
	}

	hash, err := h.auth.HashPassword(req.UsuarioContrasena)
	if err != nil {
		RespondWithProblem(w, r, http.StatusUnprocessableEntity, "La contraseña no es válida")
		return
	}

	u, err := h.records.AddUser(req, hash, RoleStudent)
	if err != nil {
		respondWithResult(w, r, 0, nil, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, types.RegisterResponse{
		UsuarioID:             u.id,
		UsuarioIdentificacion: u.identificacion,
		UsuarioNombres:        u.nombres,
		UsuarioApellidos:      u.apellidos,
		UsuarioCorreo:         u.correo,
		UsuarioCelular:        u.celular,
	})
}

// =============================================================================
// Principal
// =============================================================================

type PrincipalHandler struct {
	records *Records
}

func NewPrincipalHandler(records *Records) *PrincipalHandler {
	return &PrincipalHandler{records: records}
}

func (h *PrincipalHandler) SearchParametersHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt(w, r, "ParametrosId")
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, h.records.SearchParameters(id, queryValue(r, "ParametrosNombre")))
}

func (h *PrincipalHandler) UpdateParameterHandler(w http.ResponseWriter, r *http.Request) {
	var req types.ParameterUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.records.UpdateParameter(req)
	respondWithResult(w, r, http.StatusOK, p, err)
}

func (h *PrincipalHandler) SaveCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req types.Course
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := h.records.SaveCourse(req)
	respondWithResult(w, r, http.StatusOK, c, err)
}

func (h *PrincipalHandler) SearchCoursesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt(w, r, "MateriaId")
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, h.records.SearchCourses(id, queryValue(r, "MateriaNombre")))
}

func (h *PrincipalHandler) SaveProfessorHandler(w http.ResponseWriter, r *http.Request) {
	var req types.Professor
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.records.SaveProfessor(req)
	respondWithResult(w, r, http.StatusOK, p, err)
}

func (h *PrincipalHandler) SearchProfessorsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt(w, r, "ProfesorId")
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, h.records.SearchProfessors(id))
}

func (h *PrincipalHandler) SearchProfessorCoursesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt(w, r, "ProfesorId")
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, h.records.SearchProfessorCourses(id))
}

func (h *PrincipalHandler) AssignProfessorCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req types.ProfessorAssignment
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.records.AssignProfessorCourse(req)
	respondWithResult(w, r, http.StatusOK, a, err)
}

func (h *PrincipalHandler) SearchStudentsHandler(w http.ResponseWriter, r *http.Request) {
	estudianteID, ok := queryInt(w, r, "EstudianteId")
	if !ok {
		return
	}
	usuarioID, ok := queryInt(w, r, "UsuarioId")
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, h.records.SearchStudents(estudianteID, usuarioID))
}

// studentScope returns the student the request may act on. Students are limited to their own record.
func studentScope(w http.ResponseWriter, r *http.Request, requested int) (int, bool) {
	claims, ok := ContextAccessTokenClaims(r.Context())
	if !ok || claims.IsAdmin() {
		return requested, true
	}
	if requested != 0 && requested != claims.EstudianteID {
		RespondWithProblem(w, r, http.StatusForbidden, "Solo puede consultar su propia información")
		return 0, false
	}
	return claims.EstudianteID, true
}

func (h *PrincipalHandler) SearchStudentCoursesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt(w, r, "EstudianteId")
	if !ok {
		return
	}
	if id, ok = studentScope(w, r, id); !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, h.records.SearchStudentCourses(id))
}

func (h *PrincipalHandler) EnrollStudentCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req types.Enrollment
	if !decodeBody(w, r, &req) {
		return
	}
	id, ok := studentScope(w, r, req.EstudianteID)
	if !ok {
		return
	}
	req.EstudianteID = id

	e, err := h.records.EnrollStudentCourse(req)
	respondWithResult(w, r, http.StatusOK, e, err)
}

func (h *PrincipalHandler) SearchClassmatesHandler(w http.ResponseWriter, r *http.Request) {
	estudianteID, ok := queryInt(w, r, "EstudianteId")
	if !ok {
		return
	}
	materiaID, ok := queryInt(w, r, "MateriaId")
	if !ok {
		return
	}
	if estudianteID, ok = studentScope(w, r, estudianteID); !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, h.records.SearchClassmates(estudianteID, materiaID))
}
