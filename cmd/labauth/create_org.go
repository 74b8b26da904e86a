package main

import (
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/labauth/internal/bootstrap"
	"github.com/dropDatabas3/labauth/internal/http/server"
)

func newCreateOrgCmd(f *rootFlags) *cobra.Command {
	var in bootstrap.OrgBootstrapConfig
	cmd := &cobra.Command{
		Use:   "create-org",
		Short: "Crea una organización con su OWNER (interactivo si faltan datos)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			app, err := server.Build(ctx, cfg, server.Options{Version: version})
			if err != nil {
				return err
			}
			defer app.Close()

			in.Signup = app.Auth.Signup
			in.Out = cmd.OutOrStdout()
			in.SkipPrompt = in.Email != "" && in.Password != ""
			_, err = bootstrap.CreateOrganization(ctx, in)
			return err
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "Email del OWNER")
	cmd.Flags().StringVar(&in.Password, "password", "", "Contraseña del OWNER (si falta se pide)")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "Nombre")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "Apellido")
	cmd.Flags().StringVar(&in.LabName, "lab-name", "", "Nombre del laboratorio")
	return cmd
}
