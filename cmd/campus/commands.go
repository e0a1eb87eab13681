package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Brayan980312/ProyectoUniversidad/internal/client"
	"github.com/Brayan980312/ProyectoUniversidad/internal/config"
	"github.com/Brayan980312/ProyectoUniversidad/internal/fakebackend"
	"github.com/Brayan980312/ProyectoUniversidad/internal/logger"
	"github.com/Brayan980312/ProyectoUniversidad/internal/session"
	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

// run sets the app up before handing the command context to fn
func (a *app) run(fn func(ctx context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if err := a.setup(); err != nil {
			return err
		}
		return fn(cmd.Context())
	}
}

// newListCommand builds a GET command from one of the client's Search* methods, taking repeated --filter key=value flags.
// Student scoped commands default EstudianteId to the logged in student.
func newListCommand[T any](a *app, use, short string, search func(*client.Client, context.Context, client.Params) (T, error), studentScoped bool) *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context) error {
		params, err := parseFilters(filters)
		if err != nil {
			return err
		}
		if studentScoped {
			params = withStudent(params, a.store)
		}

		res, err := search(a.client, ctx, params)
		if err != nil {
			return err
		}
		return a.printJSON(res)
	})

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "query filter as key=value (repeatable, order is kept)")
	return cmd
}

// =============================================================================
// Seguridad
// =============================================================================

func newLoginCommand(a *app) *cobra.Command {
	var req types.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context) error {
		if req.UsuarioContrasena == "" {
			req.UsuarioContrasena = os.Getenv("CAMPUS_PASSWORD")
		}

		res, err := a.client.Login(ctx, req)
		if err != nil {
			return err
		}
		if err := a.store.SaveLogin(res); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		identity, ok := a.store.Identity()
		if !ok {
			return session.ErrMissingToken
		}
		fmt.Fprintf(a.out, "Bienvenido, %s\n", identity.DisplayName())
		return nil
	})

	cmd.Flags().StringVarP(&req.UsuarioIdentificacion, "user", "u", "", "identification number")
	cmd.Flags().StringVarP(&req.UsuarioContrasena, "password", "p", "", "password (defaults to $CAMPUS_PASSWORD)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context) error {
		a.store.Clear()
		fmt.Fprintln(a.out, "Sesión cerrada")
		return nil
	})
	return cmd
}

func newRegisterCommand(a *app) *cobra.Command {
	var req types.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new student account",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context) error {
		if req.UsuarioContrasenaConfirmar == "" {
			req.UsuarioContrasenaConfirmar = req.UsuarioContrasena
		}
		res, err := a.client.RegisterUser(ctx, req)
		if err != nil {
			return err
		}
		return a.printJSON(res)
	})

	f := cmd.Flags()
	f.StringVar(&req.UsuarioIdentificacion, "id", "", "identification number")
	f.StringVar(&req.UsuarioNombres, "names", "", "first names")
	f.StringVar(&req.UsuarioApellidos, "surnames", "", "surnames")
	f.StringVar(&req.UsuarioCorreo, "email", "", "email address")
	f.StringVar(&req.UsuarioCelular, "phone", "", "mobile number")
	f.StringVar(&req.UsuarioContrasena, "password", "", "password")
	f.StringVar(&req.UsuarioContrasenaConfirmar, "confirm", "", "password confirmation (defaults to --password)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// whoamiOutput is the console header: display name, roles and token state
type whoamiOutput struct {
	Nombre       string           `json:"nombre"`
	UsuarioID    int              `json:"usuarioId"`
	EstudianteID int              `json:"estudianteId,omitempty"`
	Correo       string           `json:"correo,omitempty"`
	Admin        bool             `json:"admin"`
	Roles        []types.UserRole `json:"roles"`
	Token        string           `json:"token"`
	ExpiresAt    *time.Time       `json:"expiresAt,omitempty"`
}

func newWhoamiCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context) error {
		identity, ok := a.store.Identity()
		if !ok {
			a.navigate(client.LoginPath)
			return nil
		}

		out := whoamiOutput{
			Nombre:       identity.DisplayName(),
			UsuarioID:    identity.UsuarioID,
			EstudianteID: identity.EstudianteID,
			Correo:       identity.Correo,
			Admin:        identity.IsAdmin(),
			Roles:        identity.Roles,
			Token:        a.store.Status(time.Now()).String(),
		}
		if exp, ok := a.store.Expiry(); ok {
			out.ExpiresAt = &exp
		}
		return a.printJSON(out)
	})
	return cmd
}

// =============================================================================
// Parametros
// =============================================================================

func newParamsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "params", Short: "System parameters"}

	var req types.ParameterUpdate
	update := &cobra.Command{
		Use:   "update",
		Short: "Update a parameter value",
		Args:  cobra.NoArgs,
	}
	update.RunE = a.run(func(ctx context.Context) error {
		res, err := a.client.UpdateParameter(ctx, req)
		if err != nil {
			return err
		}
		return a.printJSON(res)
	})
	update.Flags().IntVar(&req.ParametrosID, "id", 0, "parameter id")
	update.Flags().StringVar(&req.ParametrosNombre, "name", "", "parameter name")
	update.Flags().StringVar(&req.ParametrosValor, "value", "", "new value")
	_ = update.MarkFlagRequired("id")
	_ = update.MarkFlagRequired("value")

	cmd.AddCommand(
		newListCommand(a, "list", "List parameters", (*client.Client).SearchParameters, false),
		update,
	)
	return cmd
}

// =============================================================================
// Materia
// =============================================================================

func newCoursesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "courses", Short: "Courses"}

	course := types.Course{MateriaEstado: true}
	save := &cobra.Command{
		Use:   "save",
		Short: "Create (no --id) or update a course",
		Args:  cobra.NoArgs,
	}
	save.RunE = a.run(func(ctx context.Context) error {
		res, err := a.client.SaveCourse(ctx, course)
		if err != nil {
			return err
		}
		return a.printJSON(res)
	})
	f := save.Flags()
	f.IntVar(&course.MateriaID, "id", 0, "course id, 0 creates a new course")
	f.StringVar(&course.MateriaNombre, "name", "", "course name")
	f.StringVar(&course.MateriaDescripcion, "description", "", "course description")
	f.IntVar(&course.MateriaCreditos, "credits", 0, "credits")
	f.BoolVar(&course.MateriaEstado, "active", true, "whether the course is active")
	_ = save.MarkFlagRequired("name")

	cmd.AddCommand(
		newListCommand(a, "list", "List courses", (*client.Client).SearchCourses, false),
		save,
	)
	return cmd
}

// =============================================================================
// Profesor
// =============================================================================

func newProfessorsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "professors", Short: "Professors and their course assignments"}

	professor := types.Professor{ProfesorEstado: true}
	save := &cobra.Command{
		Use:   "save",
		Short: "Create (no --id) or update a professor",
		Args:  cobra.NoArgs,
	}
	save.RunE = a.run(func(ctx context.Context) error {
		res, err := a.client.SaveProfessor(ctx, professor)
		if err != nil {
			return err
		}
		return a.printJSON(res)
	})
	f := save.Flags()
	f.IntVar(&professor.ProfesorID, "id", 0, "professor id, 0 creates a new professor")
	f.StringVar(&professor.ProfesorIdentificacion, "identification", "", "identification number")
	f.StringVar(&professor.ProfesorNombre, "name", "", "first name")
	f.StringVar(&professor.ProfesorApellido, "surname", "", "surname")
	f.StringVar(&professor.ProfesorCorreo, "email", "", "email address")
	f.BoolVar(&professor.ProfesorEstado, "active", true, "whether the professor is active")

	var assignment types.ProfessorAssignment
	var unassign bool
	assign := &cobra.Command{
		Use:   "assign",
		Short: "Assign a course to a professor (or remove it with --unassign)",
		Args:  cobra.NoArgs,
	}
	assign.RunE = a.run(func(ctx context.Context) error {
		assignment.ProfesorMateriaEstado = !unassign
		res, err := a.client.AssignProfessorCourse(ctx, assignment)
		if err != nil {
			return err
		}
		return a.printJSON(res)
	})
	assign.Flags().IntVar(&assignment.ProfesorID, "professor", 0, "professor id")
	assign.Flags().IntVar(&assignment.MateriaID, "course", 0, "course id")
	assign.Flags().BoolVar(&unassign, "unassign", false, "remove the assignment instead")
	_ = assign.MarkFlagRequired("professor")
	_ = assign.MarkFlagRequired("course")

	cmd.AddCommand(
		newListCommand(a, "list", "List professors", (*client.Client).SearchProfessors, false),
		newListCommand(a, "courses", "List the courses assigned to professors (filter ProfesorId)", (*client.Client).SearchProfessorCourses, false),
		save,
		assign,
	)
	return cmd
}

// =============================================================================
// Estudiante
// =============================================================================

func newStudentsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "students", Short: "Students, enrolments and classmates"}

	var enrollment types.Enrollment
	var withdraw bool
	enroll := &cobra.Command{
		Use:   "enroll",
		Short: "Enroll the student in a course (or withdraw with --withdraw)",
		Args:  cobra.NoArgs,
	}
	enroll.RunE = a.run(func(ctx context.Context) error {
		if enrollment.EstudianteID == 0 {
			if identity, ok := a.store.Identity(); ok {
				enrollment.EstudianteID = identity.EstudianteID
			}
		}
		enrollment.EstudianteMateriaEstado = !withdraw

		res, err := a.client.EnrollStudentCourse(ctx, enrollment)
		if err != nil {
			return err
		}
		return a.printJSON(res)
	})
	enroll.Flags().IntVar(&enrollment.EstudianteID, "student", 0, "student id (defaults to the logged in student)")
	enroll.Flags().IntVar(&enrollment.MateriaID, "course", 0, "course id")
	enroll.Flags().BoolVar(&withdraw, "withdraw", false, "withdraw from the course instead")
	_ = enroll.MarkFlagRequired("course")

	cmd.AddCommand(
		newListCommand(a, "list", "List students", (*client.Client).SearchStudents, false),
		newListCommand(a, "courses", "List the courses of a student", (*client.Client).SearchStudentCourses, true),
		newListCommand(a, "classmates", "List the classmates of a student", (*client.Client).SearchClassmates, true),
		enroll,
	)
	return cmd
}

// =============================================================================
// Fake backend
// =============================================================================

func newFakeBackendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fake-backend",
		Short: "Serve both services from memory for local development",
		Long: `Serves the Seguridad, Parametros, Materia, Profesor and Estudiante controllers under /api.
Point SECURITY_BASE_URL and PRINCIPAL_BASE_URL at http://HOST:PORT/api.

Seeded accounts: ` + fakebackend.DevAdminIdentification + ` / ` + fakebackend.DevAdminPassword + ` (admin) and ` +
			fakebackend.DevStudentIdentification + ` / ` + fakebackend.DevStudentPassword + ` (student).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewBackendConfig()
			if err != nil {
				return err
			}
			log := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment, "")

			server, err := fakebackend.New(cfg, log)
			if err != nil {
				return err
			}

			// the command context is cancelled on SIGINT/SIGTERM
			if err := server.Run(cmd.Context()); err != nil {
				return err
			}
			log.Info("fake backend shutdown complete")
			return nil
		},
	}
}
