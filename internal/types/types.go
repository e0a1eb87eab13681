package types

// =============================================================================
// PARAMETERS (Parametros controller)
// =============================================================================

// Parameter is a named system setting, e.g. CantidadCreditosPorMateria
type Parameter struct {
	ParametrosID     int    `json:"parametrosId"`
	ParametrosNombre string `json:"parametrosNombre"`
	ParametrosValor  string `json:"parametrosValor"`
}

// ParameterUpdate is the body of Parametros/ActualizarParametro
type ParameterUpdate struct {
	ParametrosID     int    `json:"parametrosId"`
	ParametrosNombre string `json:"parametrosNombre"`
	ParametrosValor  string `json:"parametrosValor"`
}

// =============================================================================
// COURSES (Materia controller)
// =============================================================================

// Course is used both to create/update a course (MateriaID 0 creates) and to list courses
type Course struct {
	MateriaID          int    `json:"materiaId"`
	MateriaNombre      string `json:"materiaNombre"`
	MateriaDescripcion string `json:"materiaDescripcion"`
	MateriaCreditos    int    `json:"materiaCreditos"`
	MateriaEstado      bool   `json:"materiaEstado"`
}

// =============================================================================
// PROFESSORS (Profesor controller)
// =============================================================================

type Professor struct {
	ProfesorID             int    `json:"profesorId"`
	ProfesorIdentificacion string `json:"profesorIdentificacion"`
	ProfesorNombre         string `json:"profesorNombre"`
	ProfesorApellido       string `json:"profesorApellido"`
	ProfesorCorreo         string `json:"profesorCorreo"`
	ProfesorEstado         bool   `json:"profesorEstado"`
}

// ProfessorCourse is a course currently assigned to a professor
type ProfessorCourse struct {
	ProfesorMateriaID  int    `json:"profesorMateriaId"`
	ProfesorID         int    `json:"profesorId"`
	MateriaID          int    `json:"materiaId"`
	MateriaNombre      string `json:"materiaNombre"`
	MateriaDescripcion string `json:"materiaDescripcion"`
	MateriaCreditos    int    `json:"materiaCreditos"`
}

// ProfessorAssignment assigns (Estado true) or unassigns (Estado false) a course
type ProfessorAssignment struct {
	ProfesorMateriaID     int  `json:"profesorMateriaId"`
	ProfesorID            int  `json:"profesorId"`
	MateriaID             int  `json:"materiaId"`
	ProfesorMateriaEstado bool `json:"profesorMateriaEstado"`
}

// =============================================================================
// STUDENTS (Estudiante controller)
// =============================================================================

type Student struct {
	EstudianteID             int    `json:"estudianteId"`
	UsuarioID                int    `json:"usuarioId"`
	EstudianteIdentificacion string `json:"estudianteIdentificacion"`
	EstudianteNombre         string `json:"estudianteNombre"`
	EstudianteApellido       string `json:"estudianteApellido"`
	EstudianteCorreo         string `json:"estudianteCorreo"`
	EstudianteEstado         bool   `json:"estudianteEstado"`
}

// StudentCourse is a course the student is enrolled in
type StudentCourse struct {
	EstudianteMateriaID int    `json:"estudianteMateriaId"`
	MateriaID           int    `json:"materiaId"`
	EstudianteID        int    `json:"estudianteId"`
	MateriaNombre       string `json:"materiaNombre"`
	MateriaDescripcion  string `json:"materiaDescripcion"`
	MateriaCreditos     int    `json:"materiaCreditos"`
}

// Enrollment enrolls (Estado true) or withdraws (Estado false) a student from a course
type Enrollment struct {
	EstudianteMateriaID     int  `json:"estudianteMateriaId"`
	EstudianteID            int  `json:"estudianteId"`
	MateriaID               int  `json:"materiaId"`
	EstudianteMateriaEstado bool `json:"estudianteMateriaEstado"`
}

// Classmate is another student enrolled in the same course
type Classmate struct {
	EstudianteMateriaID int    `json:"estudianteMateriaId"`
	MateriaID           int    `json:"materiaId"`
	EstudianteID        int    `json:"estudianteId"`
	EstudianteNombre    string `json:"estudianteNombre"`
	EstudianteApellido  string `json:"estudianteApellido"`
	EstudianteCorreo    string `json:"estudianteCorreo"`
}
