package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/jhoicas/bienestar-api/internal/application/ports"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
	"github.com/jhoicas/bienestar-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que AdminClient implementa IdentityDirectory.
var _ ports.IdentityDirectory = (*AdminClient)(nil)

// AdminClient adaptador de la API administrativa de GoTrue (Supabase Auth).
type AdminClient struct {
	auth gotrue.Client
}

// NewAdminClient envuelve el cliente de auth del proyecto (supabase.Client.Auth).
// Los endpoints admin exigen la service key como bearer. El timeout es el techo de red;
// los llamadores imponen además su context.WithTimeout.
func NewAdminClient(auth gotrue.Client, serviceKey string, timeout time.Duration) (*AdminClient, error) {
	if auth == nil || serviceKey == "" {
		return nil, fmt.Errorf("identity: cliente de auth o IDENTITY_SERVICE_KEY no configurados")
	}
	return &AdminClient{
		auth: auth.WithToken(serviceKey).WithClient(http.Client{Timeout: timeout}),
	}, nil
}

// GetIdentity lee el registro actual del principal.
func (c *AdminClient) GetIdentity(ctx context.Context, id string) (*entity.Identity, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("identity: id inválido %q: %w", id, err)
	}
	resp, err := withContext(ctx, func() (*types.AdminGetUserResponse, error) {
		return c.auth.AdminGetUser(types.AdminGetUserRequest{UserID: uid})
	})
	if err != nil {
		return nil, fmt.Errorf("identity: get user: %w", err)
	}

	fullName, _ := resp.UserMetadata["full_name"].(string)
	return &entity.Identity{
		ID:       resp.ID.String(),
		Email:    resp.Email,
		FullName: strings.TrimSpace(fullName),
		Metadata: resp.AppMetadata,
	}, nil
}

// MirrorAccess copia el acceso resuelto en app_metadata. company_id vacío se envía
// como null para que una pista antigua no siga ganando sobre el perfil.
func (c *AdminClient) MirrorAccess(ctx context.Context, id string, m entity.AccessMirror) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("identity: id inválido %q: %w", id, err)
	}
	md := map[string]any{
		authz.MetaRole:       m.Role,
		authz.MetaActiveRole: m.ActiveRole,
		authz.MetaRoles:      m.Roles,
		authz.MetaCompanyID:  nil,
	}
	if m.CompanyID != "" {
		md[authz.MetaCompanyID] = m.CompanyID
	}

	_, err = withContext(ctx, func() (*types.AdminUpdateUserResponse, error) {
		return c.auth.AdminUpdateUser(types.AdminUpdateUserRequest{UserID: uid, AppMetadata: md})
	})
	if err != nil {
		return fmt.Errorf("identity: update user: %w", err)
	}
	return nil
}

// withContext corre una llamada del SDK (que no recibe context) y deja de esperarla
// cuando ctx vence. La llamada abandonada termina por el timeout del http.Client.
func withContext[T any](ctx context.Context, call func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := call()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
