package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/mattn/go-isatty"

	"github.com/Brayan980312/ProyectoUniversidad/internal/client"
	"github.com/Brayan980312/ProyectoUniversidad/internal/config"
	"github.com/Brayan980312/ProyectoUniversidad/internal/logger"
	"github.com/Brayan980312/ProyectoUniversidad/internal/session"
)

// app holds what the client commands share. It is set up on first use so that
// --help and fake-backend do not open the session database.
type app struct {
	ephemeral bool

	out    io.Writer
	errOut io.Writer

	cfg     *config.Config
	log     *slog.Logger
	store   *session.Store
	client  *client.Client
	closers []func() error
}

func (a *app) setup() error {
	if a.client != nil {
		return nil
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment, cfg.LogFile)

	var backend session.Backend
	if a.ephemeral {
		backend = session.NewMemoryBackend()
	} else {
		sqliteBackend, err := session.OpenSQLiteBackend(cfg.SessionDB)
		if err != nil {
			return fmt.Errorf("opening session database: %w", err)
		}
		a.closers = append(a.closers, sqliteBackend.Close)
		backend = sqliteBackend
	}
	a.store = session.NewStore(backend, a.log)

	a.client = client.NewClient(client.Config{
		SecurityBaseURL:  cfg.SecurityBaseURL,
		PrincipalBaseURL: cfg.PrincipalBaseURL,
		Timeout:          cfg.RequestTimeout,
		Logger:           a.log,
	}, a.store, client.NavigatorFunc(a.navigate))

	a.log.Debug("console ready",
		slog.String("security_base_url", cfg.SecurityBaseURL),
		slog.String("principal_base_url", cfg.PrincipalBaseURL),
		slog.Bool("ephemeral_session", a.ephemeral),
	)
	return nil
}

func (a *app) close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && a.log != nil {
			a.log.Warn("close failed", slog.String("error", err.Error()))
		}
	}
}

// navigate is the console's login boundary: the session is gone, so tell the user how to get a new one
func (a *app) navigate(path string) {
	if path == client.LoginPath {
		fmt.Fprintln(a.errOut, "Sesión expirada. Inicie sesión nuevamente con: campus login")
		return
	}
	fmt.Fprintf(a.errOut, "→ %s\n", path)
}

// printJSON writes v as indented JSON, highlighted when stdout is a terminal
func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if f, ok := a.out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		if err := quick.Highlight(a.out, string(data)+"\n", "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}

	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

// parseFilters turns repeated key=value flags into query params, keeping their order
func parseFilters(raw []string) (client.Params, error) {
	params := client.Params{}
	for _, f := range raw {
		key, value, ok := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q, expected key=value", f)
		}
		params = params.Add(key, value)
	}
	return params, nil
}

// withStudent adds EstudianteId from the stored session when the caller did not give one
func withStudent(params client.Params, store *session.Store) client.Params {
	for _, p := range params {
		if strings.EqualFold(p.Key, "EstudianteId") {
			return params
		}
	}
	if identity, ok := store.Identity(); ok && identity.EstudianteID != 0 {
		return params.Add("EstudianteId", identity.EstudianteID)
	}
	return params
}
