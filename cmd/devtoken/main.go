// devtoken emite un access token con el mismo formato que el proveedor de identidad,
// para probar la API y el edge gate en local sin pasar por el login real.
//
// Uso: go run ./cmd/devtoken --sub <uuid> --email a@x.com --role rrhh --company <uuid>
// El secreto se toma de IDENTITY_JWT_SECRET (o --secret).
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
	"github.com/jhoicas/bienestar-api/pkg/jwt"
	"github.com/spf13/pflag"
)

func main() {
	var (
		secret   = pflag.String("secret", os.Getenv("IDENTITY_JWT_SECRET"), "secreto HS256 del proveedor")
		issuer   = pflag.String("issuer", os.Getenv("IDENTITY_JWT_ISSUER"), "claim iss")
		sub      = pflag.String("sub", "", "ID del principal (uuid); vacío = uno nuevo")
		email    = pflag.String("email", "", "email del principal")
		name     = pflag.String("name", "", "user_metadata.full_name")
		role     = pflag.String("role", "", "app_metadata.role")
		roles    = pflag.StringSlice("roles", nil, "app_metadata.roles (separados por coma)")
		active   = pflag.String("active-role", "", "app_metadata.active_role")
		company  = pflag.String("company", "", "app_metadata.company_id")
		expMin   = pflag.Int("exp", 60, "minutos de validez")
		asHeader = pflag.Bool("header", false, "imprimir como header Authorization")
	)
	pflag.Parse()

	if *sub == "" {
		*sub = uuid.NewString()
	} else if _, err := uuid.Parse(*sub); err != nil {
		fail("--sub debe ser un uuid: %v", err)
	}

	md := map[string]any{}
	for key, v := range map[string]string{authz.MetaRole: *role, authz.MetaActiveRole: *active} {
		if v == "" {
			continue
		}
		if _, ok := authz.ParseRole(v); !ok {
			fail("rol desconocido en --%s: %q", key, v)
		}
		md[key] = v
	}
	if len(*roles) > 0 {
		md[authz.MetaRoles] = *roles
	}
	if *company != "" {
		md[authz.MetaCompanyID] = *company
	}

	spec := jwt.TokenSpec{
		Subject:     *sub,
		Email:       *email,
		Issuer:      *issuer,
		AppMetadata: md,
		ExpMinutes:  *expMin,
	}
	if *name != "" {
		spec.UserMetadata = map[string]any{"full_name": *name}
	}

	tok, err := jwt.Generate(*secret, spec)
	if err != nil {
		fail("generar token: %v", err)
	}
	if *asHeader {
		fmt.Println("Authorization: Bearer " + tok)
		return
	}
	fmt.Println(tok)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "devtoken: "+format+"\n", args...)
	os.Exit(1)
}
