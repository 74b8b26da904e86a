// Package bootstrap crea la primera organización desde la línea de comandos.
package bootstrap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	dto "github.com/dropDatabas3/labauth/internal/http/dto/auth"
	"github.com/dropDatabas3/labauth/internal/http/services/auth"
)

// OrgBootstrapConfig configura CreateOrganization.
type OrgBootstrapConfig struct {
	Signup auth.SignupService

	// SkipPrompt usa los campos pre-cargados sin preguntar.
	SkipPrompt bool
	Email      string
	Password   string
	FirstName  string
	LastName   string
	LabName    string

	In  io.Reader // default os.Stdin
	Out io.Writer // default os.Stdout
}

// CreateOrganization da de alta una organización y su OWNER pasando por el
// mismo flujo que POST /api/auth/signup.
func CreateOrganization(ctx context.Context, cfg OrgBootstrapConfig) (*dto.LoginResult, error) {
	if cfg.Signup == nil {
		return nil, errors.New("bootstrap: signup service is required")
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	req := dto.SignupRequest{
		Email:     cfg.Email,
		Password:  cfg.Password,
		FirstName: cfg.FirstName,
		LastName:  cfg.LastName,
		LabName:   cfg.LabName,
	}
	if !cfg.SkipPrompt {
		if err := prompt(cfg.In, cfg.Out, &req); err != nil {
			return nil, fmt.Errorf("bootstrap: prompt: %w", err)
		}
	} else if req.Email == "" || req.Password == "" {
		return nil, errors.New("bootstrap: SkipPrompt requires Email and Password")
	}

	res, err := cfg.Signup.Signup(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: create organization: %w", err)
	}
	fmt.Fprintf(cfg.Out, "organization %d created, owner %s (%s)\n", res.User.OrgID, res.User.Email, res.User.ID)
	return res, nil
}

// prompt completa los campos vacíos. La contraseña no se muestra si In es una terminal.
func prompt(in io.Reader, out io.Writer, req *dto.SignupRequest) error {
	r := bufio.NewReader(in)
	ask := func(label string, dst *string) error {
		if strings.TrimSpace(*dst) != "" {
			return nil
		}
		fmt.Fprintf(out, "%s: ", label)
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return err
		}
		*dst = strings.TrimSpace(line)
		return nil
	}

	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"Owner email", &req.Email},
		{"First name", &req.FirstName},
		{"Last name", &req.LastName},
		{"Lab name (optional)", &req.LabName},
	} {
		if err := ask(f.label, f.dst); err != nil {
			return err
		}
	}
	if req.Password != "" {
		return nil
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		p1, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return err
		}
		fmt.Fprint(out, "Confirm password: ")
		p2, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return err
		}
		if string(p1) != string(p2) {
			return errors.New("passwords do not match")
		}
		req.Password = string(p1)
		return nil
	}
	return ask("Password", &req.Password)
}
