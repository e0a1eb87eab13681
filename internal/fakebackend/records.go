package fakebackend

import (
	"cmp"
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// parameter names understood by the business rules
const (
	ParamCreditsPerCourse   = "CantidadCreditosPorMateria"
	ParamCoursesPerStudent  = "CantidadMateriasPorEstudiante"
	ParamCoursesPerProfesor = "CantidadMateriasPorProfesor"
)

const RoleStudent = 2

// ValidationError is a business rule violation, reported to the console as a 422 with the message as detail
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

func invalid(detail string) error { return &ValidationError{Detail: detail} }

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

type user struct {
	id             int
	identificacion string
	nombres        string
	apellidos      string
	correo         string
	celular        string
	passwordHash   string
	estudianteID   int
	roles          []types.UserRole
}

func (u *user) loginResponse(token string) types.LoginResponse {
	return types.LoginResponse{
		TokenJWT:              token,
		UsuarioID:             u.id,
		UsuarioIdentificacion: u.identificacion,
		UsuarioNombres:        u.nombres,
		UsuarioApellidos:      u.apellidos,
		UsuarioCorreo:         u.correo,
		UsuarioCelular:        u.celular,
		EstudianteID:          u.estudianteID,
		Roles:                 slices.Clone(u.roles),
	}
}

// Records is the in-memory state of both services. All methods are safe for concurrent use.
type Records struct {
	mu sync.RWMutex

	users       map[string]*user // keyed by identificacion
	parameters  map[int]types.Parameter
	courses     map[int]types.Course
	professors  map[int]types.Professor
	assignments map[int]types.ProfessorAssignment
	students    map[int]types.Student
	enrollments map[int]types.Enrollment

	nextID map[string]int
}

func NewRecords() *Records {
	return &Records{
		users:       make(map[string]*user),
		parameters:  make(map[int]types.Parameter),
		courses:     make(map[int]types.Course),
		professors:  make(map[int]types.Professor),
		assignments: make(map[int]types.ProfessorAssignment),
		students:    make(map[int]types.Student),
		enrollments: make(map[int]types.Enrollment),
		nextID:      make(map[string]int),
	}
}

// newID must be called with the write lock held
func (rs *Records) newID(table string) int {
	rs.nextID[table]++
	return rs.nextID[table]
}

// sortedValues returns the map values ordered by key
func sortedValues[V any](m map[int]V) []V {
	out := make([]V, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[k])
	}
	return out
}

// intParameter must be called with a lock held
func (rs *Records) intParameter(name string, fallback int) int {
	for _, p := range rs.parameters {
		if p.ParametrosNombre == name {
			if v, err := strconv.Atoi(p.ParametrosValor); err == nil && v > 0 {
				return v
			}
		}
	}
	return fallback
}

// =============================================================================
// Seguridad
// =============================================================================

// AddUser stores a user whose password is already hashed. Non-admin users also get a student record.
func (rs *Records) AddUser(req types.RegisterRequest, passwordHash string, rolID int) (*user, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	identificacion := strings.TrimSpace(req.UsuarioIdentificacion)
	if _, exists := rs.users[identificacion]; exists {
		return nil, invalid("El usuario ya se encuentra registrado")
	}

	u := &user{
		id:             rs.newID("usuario"),
		identificacion: identificacion,
		nombres:        strings.TrimSpace(req.UsuarioNombres),
		apellidos:      strings.TrimSpace(req.UsuarioApellidos),
		correo:         strings.TrimSpace(req.UsuarioCorreo),
		celular:        strings.TrimSpace(req.UsuarioCelular),
		passwordHash:   passwordHash,
	}
	u.roles = []types.UserRole{{UsuarioRolID: rs.newID("usuario_rol"), UsuarioID: u.id, RolID: rolID}}

	if rolID != types.RoleAdmin {
		student := types.Student{
			EstudianteID:             rs.newID("estudiante"),
			UsuarioID:                u.id,
			EstudianteIdentificacion: u.identificacion,
			EstudianteNombre:         u.nombres,
			EstudianteApellido:       u.apellidos,
			EstudianteCorreo:         u.correo,
			EstudianteEstado:         true,
		}
		rs.students[student.EstudianteID] = student
		u.estudianteID = student.EstudianteID
	}

	rs.users[identificacion] = u
	return u, nil
}

func (rs *Records) UserByIdentification(identificacion string) (*user, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	u, ok := rs.users[strings.TrimSpace(identificacion)]
	return u, ok
}

// =============================================================================
// Parametros
// =============================================================================

func (rs *Records) AddParameter(name, value string) types.Parameter {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	p := types.Parameter{ParametrosID: rs.newID("parametros"), ParametrosNombre: name, ParametrosValor: value}
	rs.parameters[p.ParametrosID] = p
	return p
}

func (rs *Records) SearchParameters(id int, name string) []types.Parameter {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	return slices.DeleteFunc(sortedValues(rs.parameters), func(p types.Parameter) bool {
		return (id != 0 && p.ParametrosID != id) || (name != "" && !strings.EqualFold(p.ParametrosNombre, name))
	})
}

func (rs *Records) UpdateParameter(req types.ParameterUpdate) (types.Parameter, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	p, ok := rs.parameters[req.ParametrosID]
	if !ok {
		return types.Parameter{}, invalid("El parámetro no existe")
	}
	if strings.TrimSpace(req.ParametrosValor) == "" {
		return types.Parameter{}, invalid("El valor del parámetro es obligatorio")
	}
	if req.ParametrosNombre != "" {
		p.ParametrosNombre = req.ParametrosNombre
	}
	p.ParametrosValor = strings.TrimSpace(req.ParametrosValor)
	rs.parameters[p.ParametrosID] = p
	return p, nil
}

// =============================================================================
// Materia
// =============================================================================

// SaveCourse creates the course when MateriaID is 0 and updates it otherwise.
// Courses created without credits get the CantidadCreditosPorMateria parameter.
func (rs *Records) SaveCourse(c types.Course) (types.Course, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	c.MateriaNombre = strings.TrimSpace(c.MateriaNombre)
	if c.MateriaNombre == "" {
		return types.Course{}, invalid("El nombre de la materia es obligatorio")
	}
	if c.MateriaCreditos < 0 {
		return types.Course{}, invalid("Los créditos de la materia no pueden ser negativos")
	}
	if c.MateriaCreditos == 0 {
		c.MateriaCreditos = rs.intParameter(ParamCreditsPerCourse, 3)
	}

	for _, existing := range rs.courses {
		if existing.MateriaID != c.MateriaID && strings.EqualFold(existing.MateriaNombre, c.MateriaNombre) {
			return types.Course{}, invalid("Ya existe una materia con ese nombre")
		}
	}

	if c.MateriaID == 0 {
		c.MateriaID = rs.newID("materia")
	} else if _, ok := rs.courses[c.MateriaID]; !ok {
		return types.Course{}, invalid("La materia no existe")
	}

	rs.courses[c.MateriaID] = c
	return c, nil
}

func (rs *Records) SearchCourses(id int, name string) []types.Course {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	return slices.DeleteFunc(sortedValues(rs.courses), func(c types.Course) bool {
		return (id != 0 && c.MateriaID != id) ||
			(name != "" && !strings.Contains(strings.ToLower(c.MateriaNombre), strings.ToLower(name)))
	})
}

// =============================================================================
// Profesor
// =============================================================================

func (rs *Records) SaveProfessor(p types.Professor) (types.Professor, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	p.ProfesorIdentificacion = strings.TrimSpace(p.ProfesorIdentificacion)
	if p.ProfesorIdentificacion == "" || strings.TrimSpace(p.ProfesorNombre) == "" {
		return types.Professor{}, invalid("La identificación y el nombre del profesor son obligatorios")
	}

	for _, existing := range rs.professors {
		if existing.ProfesorID != p.ProfesorID && existing.ProfesorIdentificacion == p.ProfesorIdentificacion {
			return types.Professor{}, invalid("Ya existe un profesor con esa identificación")
		}
	}

	if p.ProfesorID == 0 {
		p.ProfesorID = rs.newID("profesor")
	} else if _, ok := rs.professors[p.ProfesorID]; !ok {
		return types.Professor{}, invalid("El profesor no existe")
	}

	rs.professors[p.ProfesorID] = p
	return p, nil
}

func (rs *Records) SearchProfessors(id int) []types.Professor {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	return slices.DeleteFunc(sortedValues(rs.professors), func(p types.Professor) bool {
		return id != 0 && p.ProfesorID != id
	})
}

func (rs *Records) SearchProfessorCourses(profesorID int) []types.ProfessorCourse {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	out := []types.ProfessorCourse{}
	for _, a := range sortedValues(rs.assignments) {
		if !a.ProfesorMateriaEstado || (profesorID != 0 && a.ProfesorID != profesorID) {
			continue
		}
		c := rs.courses[a.MateriaID]
		out = append(out, types.ProfessorCourse{
			ProfesorMateriaID:  a.ProfesorMateriaID,
			ProfesorID:         a.ProfesorID,
			MateriaID:          a.MateriaID,
			MateriaNombre:      c.MateriaNombre,
			MateriaDescripcion: c.MateriaDescripcion,
			MateriaCreditos:    c.MateriaCreditos,
		})
	}
	return out
}

// professorOf returns the active assignment of a course. Must be called with a lock held.
func (rs *Records) professorOf(materiaID int) (types.ProfessorAssignment, bool) {
	for _, a := range rs.assignments {
		if a.MateriaID == materiaID && a.ProfesorMateriaEstado {
			return a, true
		}
	}
	return types.ProfessorAssignment{}, false
}

// AssignProfessorCourse assigns (ProfesorMateriaEstado true) or unassigns a course.
// A course has at most one active professor and a professor teaches at most CantidadMateriasPorProfesor courses.
func (rs *Records) AssignProfessorCourse(req types.ProfessorAssignment) (types.ProfessorAssignment, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if _, ok := rs.professors[req.ProfesorID]; !ok {
		return types.ProfessorAssignment{}, invalid("El profesor no existe")
	}
	if _, ok := rs.courses[req.MateriaID]; !ok {
		return types.ProfessorAssignment{}, invalid("La materia no existe")
	}

	current, assigned := rs.professorOf(req.MateriaID)

	if !req.ProfesorMateriaEstado {
		if !assigned || current.ProfesorID != req.ProfesorID {
			return types.ProfessorAssignment{}, invalid("El profesor no tiene asignada la materia")
		}
		current.ProfesorMateriaEstado = false
		rs.assignments[current.ProfesorMateriaID] = current
		return current, nil
	}

	if assigned {
		if current.ProfesorID == req.ProfesorID {
			return types.ProfessorAssignment{}, invalid("El profesor ya tiene asignada la materia")
		}
		return types.ProfessorAssignment{}, invalid("La materia ya tiene un profesor asignado")
	}

	active := 0
	for _, a := range rs.assignments {
		if a.ProfesorID == req.ProfesorID && a.ProfesorMateriaEstado {
			active++
		}
	}
	if limit := rs.intParameter(ParamCoursesPerProfesor, 2); active >= limit {
		return types.ProfessorAssignment{}, invalid("El profesor ya tiene el máximo de " + strconv.Itoa(limit) + " materias asignadas")
	}

	a := types.ProfessorAssignment{
		ProfesorMateriaID:     rs.newID("profesor_materia"),
		ProfesorID:            req.ProfesorID,
		MateriaID:             req.MateriaID,
		ProfesorMateriaEstado: true,
	}
	rs.assignments[a.ProfesorMateriaID] = a
	return a, nil
}

// =============================================================================
// Estudiante
// =============================================================================

func (rs *Records) SearchStudents(estudianteID, usuarioID int) []types.Student {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	return slices.DeleteFunc(sortedValues(rs.students), func(s types.Student) bool {
		return (estudianteID != 0 && s.EstudianteID != estudianteID) || (usuarioID != 0 && s.UsuarioID != usuarioID)
	})
}

// activeEnrollments must be called with a lock held
func (rs *Records) activeEnrollments(estudianteID int) []types.Enrollment {
	var out []types.Enrollment
	for _, e := range sortedValues(rs.enrollments) {
		if e.EstudianteID == estudianteID && e.EstudianteMateriaEstado {
			out = append(out, e)
		}
	}
	return out
}

func (rs *Records) SearchStudentCourses(estudianteID int) []types.StudentCourse {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	out := []types.StudentCourse{}
	for _, e := range sortedValues(rs.enrollments) {
		if !e.EstudianteMateriaEstado || (estudianteID != 0 && e.EstudianteID != estudianteID) {
			continue
		}
		c := rs.courses[e.MateriaID]
		out = append(out, types.StudentCourse{
			EstudianteMateriaID: e.EstudianteMateriaID,
			MateriaID:           e.MateriaID,
			EstudianteID:        e.EstudianteID,
			MateriaNombre:       c.MateriaNombre,
			MateriaDescripcion:  c.MateriaDescripcion,
			MateriaCreditos:     c.MateriaCreditos,
		})
	}
	return out
}

// EnrollStudentCourse enrolls (EstudianteMateriaEstado true) or withdraws a student.
//
// Enrolment rules: the course must be active and have a professor, the student takes at most
// CantidadMateriasPorEstudiante courses and never two courses with the same professor.
func (rs *Records) EnrollStudentCourse(req types.Enrollment) (types.Enrollment, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if _, ok := rs.students[req.EstudianteID]; !ok {
		return types.Enrollment{}, invalid("El estudiante no existe")
	}
	course, ok := rs.courses[req.MateriaID]
	if !ok {
		return types.Enrollment{}, invalid("La materia no existe")
	}

	enrolled := rs.activeEnrollments(req.EstudianteID)
	i := slices.IndexFunc(enrolled, func(e types.Enrollment) bool { return e.MateriaID == req.MateriaID })

	if !req.EstudianteMateriaEstado {
		if i < 0 {
			return types.Enrollment{}, invalid("El estudiante no está inscrito en la materia")
		}
		e := enrolled[i]
		e.EstudianteMateriaEstado = false
		rs.enrollments[e.EstudianteMateriaID] = e
		return e, nil
	}

	if i >= 0 {
		return types.Enrollment{}, invalid("El estudiante ya está inscrito en la materia")
	}
	if !course.MateriaEstado {
		return types.Enrollment{}, invalid("La materia no está activa")
	}
	assigned, ok := rs.professorOf(req.MateriaID)
	if !ok {
		return types.Enrollment{}, invalid("La materia no tiene profesor asignado")
	}
	if limit := rs.intParameter(ParamCoursesPerStudent, 3); len(enrolled) >= limit {
		return types.Enrollment{}, invalid("El estudiante ya tiene el máximo de " + strconv.Itoa(limit) + " materias")
	}
	for _, e := range enrolled {
		if other, ok := rs.professorOf(e.MateriaID); ok && other.ProfesorID == assigned.ProfesorID {
			return types.Enrollment{}, invalid("El estudiante ya tiene una materia con el mismo profesor")
		}
	}

	e := types.Enrollment{
		EstudianteMateriaID:     rs.newID("estudiante_materia"),
		EstudianteID:            req.EstudianteID,
		MateriaID:               req.MateriaID,
		EstudianteMateriaEstado: true,
	}
	rs.enrollments[e.EstudianteMateriaID] = e
	return e, nil
}

// SearchClassmates lists the other students sharing a course with the student, optionally limited to one course
func (rs *Records) SearchClassmates(estudianteID, materiaID int) []types.Classmate {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	courses := make(map[int]bool)
	for _, e := range rs.activeEnrollments(estudianteID) {
		if materiaID == 0 || e.MateriaID == materiaID {
			courses[e.MateriaID] = true
		}
	}

	out := []types.Classmate{}
	for _, e := range sortedValues(rs.enrollments) {
		if !e.EstudianteMateriaEstado || e.EstudianteID == estudianteID || !courses[e.MateriaID] {
			continue
		}
		s := rs.students[e.EstudianteID]
		out = append(out, types.Classmate{
			EstudianteMateriaID: e.EstudianteMateriaID,
			MateriaID:           e.MateriaID,
			EstudianteID:        s.EstudianteID,
			EstudianteNombre:    s.EstudianteNombre,
			EstudianteApellido:  s.EstudianteApellido,
			EstudianteCorreo:    s.EstudianteCorreo,
		})
	}

	slices.SortStableFunc(out, func(a, b types.Classmate) int {
		return cmp.Compare(a.MateriaID, b.MateriaID)
	})
	return out
}
