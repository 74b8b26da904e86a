// Command labauth sirve la API de autenticación y expone tareas operativas.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/labauth/internal/config"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

var version = "dev"

type rootFlags struct {
	configPath string
	envFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "labauth",
		Short:         "Autenticación, sesiones y permisos multi-organización",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env es opcional; el entorno real siempre gana.
			if err := godotenv.Load(f.envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load %s: %w", f.envFile, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", envOr("CONFIG_PATH", ""), "Ruta al YAML de configuración (env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&f.envFile, "env-file", ".env", "Archivo .env a cargar si existe")

	root.AddCommand(
		newServeCmd(f),
		newMigrateCmd(f),
		newHashPasswordCmd(),
		newCreateOrgCmd(f),
	)
	return root
}

// loadConfig carga la configuración e inicializa el logger global.
func loadConfig(f *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	env := "dev"
	if cfg.App.Env == "prod" {
		env = "prod"
	}
	logger.Init(logger.Config{Env: env, Level: cfg.Log.Level, ServiceName: cfg.App.Name, Version: version})
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
