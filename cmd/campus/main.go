package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/spf13/cobra"

	"github.com/Brayan980312/ProyectoUniversidad/internal/client"
	"github.com/Brayan980312/ProyectoUniversidad/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

func run() error {
	a := &app{out: os.Stdout, errOut: os.Stderr}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCommand(a).ExecuteContext(ctx)
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "campus",
		Short:         "Academic records console",
		Long:          `Command line console for the university security and academic records services`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Version = version.Get().String()

	cmd.PersistentFlags().BoolVar(&a.ephemeral, "ephemeral", false, "keep the session in memory for this run only")

	cmd.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newRegisterCommand(a),
		newWhoamiCommand(a),
		newParamsCommand(a),
		newCoursesCommand(a),
		newProfessorsCommand(a),
		newStudentsCommand(a),
		newFakeBackendCommand(),
	)
	return cmd
}

// errorMessage shows backend validation messages as is and adds the cause to the generic message
func errorMessage(err error) string {
	msg := client.UserMessage(err)
	var apiErr *client.APIError
	if msg == client.MsgUnknownError && !errors.As(err, &apiErr) {
		return fmt.Sprintf("%s (%v)", msg, err)
	}
	return msg
}
