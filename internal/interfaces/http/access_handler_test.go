package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bienestar-api/internal/application/dto"
	"github.com/jhoicas/bienestar-api/internal/domain"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
	"github.com/jhoicas/bienestar-api/internal/domain/entity"
	apphttp "github.com/jhoicas/bienestar-api/internal/interfaces/http"
)

type syncMock struct{ mock.Mock }

func (m *syncMock) Login(ctx context.Context, ident entity.Identity) (*authz.AccessContext, error) {
	args := m.Called(ctx, ident)
	ac, _ := args.Get(0).(*authz.AccessContext)
	return ac, args.Error(1)
}

func (m *syncMock) SwitchRole(ctx context.Context, ident entity.Identity, target string) (*authz.AccessContext, error) {
	args := m.Called(ctx, ident, target)
	ac, _ := args.Get(0).(*authz.AccessContext)
	return ac, args.Error(1)
}

func (m *syncMock) ForceUpdate(ctx context.Context, actor *authz.AccessContext, targetID string, in dto.ForceUpdateRequest) (*authz.AccessContext, error) {
	args := m.Called(ctx, actor, targetID, in)
	ac, _ := args.Get(0).(*authz.AccessContext)
	return ac, args.Error(1)
}

func buildAPIApp(sync *syncMock, resolver fixedResolver) *fiber.App {
	app := fiber.New()
	authn := apphttp.AuthMiddleware(testToken)
	resolved := apphttp.AccessMiddleware(resolver)

	authHandler := apphttp.NewAuthHandler(sync)
	accessHandler := apphttp.NewAccessHandler(sync)
	app.Post("/api/auth/callback", authn, authHandler.Callback)
	app.Get("/api/access/me", authn, resolved, accessHandler.Me)
	app.Post("/api/access/switch", authn, accessHandler.Switch)
	app.Put("/api/admin/profiles/:id/access", authn, resolved,
		apphttp.RequireRole(authz.RoleSuperAdmin, authz.RoleCompanyAdmin), accessHandler.ForceUpdate)
	return app
}

func send(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", bearer(t, "a@x.com", nil))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestCallback_DevuelveAterrizaje(t *testing.T) {
	sync := new(syncMock)
	sync.On("Login", mock.Anything, mock.MatchedBy(func(i entity.Identity) bool { return i.ID == testUserID })).
		Return(accessWith(authz.RoleCompanyAdmin), nil)

	resp := send(t, buildAPIApp(sync, fixedResolver{}), http.MethodPost, "/api/auth/callback", "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.AccessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "/admin/company", out.Landing)
	assert.Equal(t, authz.RoleCompanyAdmin, out.Access.ActiveRole)
}

func TestCallback_CuentaDeshabilitada(t *testing.T) {
	sync := new(syncMock)
	sync.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrAccountDisabled)

	resp := send(t, buildAPIApp(sync, fixedResolver{}), http.MethodPost, "/api/auth/callback", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMe_DevuelveContextoResuelto(t *testing.T) {
	ac := accessWith(authz.RoleRRHH)
	ac.CompanyID = testCompanyID

	resp := send(t, buildAPIApp(new(syncMock), fixedResolver{ac: ac}), http.MethodGet, "/api/access/me", "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.AccessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, []authz.Role{authz.RoleRRHH, authz.RoleEmployee}, out.Access.Roles)
	assert.Equal(t, testCompanyID, out.Access.CompanyID)
	assert.Equal(t, "/app", out.Landing)
}

func TestSwitch_Exito(t *testing.T) {
	sync := new(syncMock)
	next := accessWith(authz.RoleCompanyAdmin, authz.RoleRRHH)
	next.ActiveRole = authz.RoleRRHH
	sync.On("SwitchRole", mock.Anything, mock.Anything, "rrhh").Return(next, nil)

	resp := send(t, buildAPIApp(sync, fixedResolver{}), http.MethodPost, "/api/access/switch", `{"role":"rrhh"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.AccessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, authz.RoleRRHH, out.Access.ActiveRole)
}

func TestSwitch_RolNoPoseidoRetorna403(t *testing.T) {
	sync := new(syncMock)
	sync.On("SwitchRole", mock.Anything, mock.Anything, "super_admin").
		Return(nil, &domain.AuthorizationError{Required: []string{"super_admin"}, Held: []string{"employee"}})

	resp := send(t, buildAPIApp(sync, fixedResolver{}), http.MethodPost, "/api/access/switch", `{"role":"super_admin"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSwitch_RolDesconocidoRetorna400(t *testing.T) {
	sync := new(syncMock)
	sync.On("SwitchRole", mock.Anything, mock.Anything, "owner").Return(nil, domain.ErrInvalidRole)

	resp := send(t, buildAPIApp(sync, fixedResolver{}), http.MethodPost, "/api/access/switch", `{"role":"owner"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSwitch_SinRolRetorna400(t *testing.T) {
	sync := new(syncMock)
	resp := send(t, buildAPIApp(sync, fixedResolver{}), http.MethodPost, "/api/access/switch", `{}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	sync.AssertNotCalled(t, "SwitchRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestForceUpdate_EmployeeBloqueado(t *testing.T) {
	sync := new(syncMock)
	resp := send(t, buildAPIApp(sync, fixedResolver{ac: accessWith()}), http.MethodPut,
		"/api/admin/profiles/"+testCompanyID+"/access", `{"roles":["rrhh"]}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	sync.AssertNotCalled(t, "ForceUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestForceUpdate_CompanyAdminActualiza(t *testing.T) {
	sync := new(syncMock)
	actor := accessWith(authz.RoleCompanyAdmin)
	sync.On("ForceUpdate", mock.Anything, actor, testCompanyID, dto.ForceUpdateRequest{Roles: []string{"rrhh"}}).
		Return(accessWith(authz.RoleRRHH), nil)

	resp := send(t, buildAPIApp(sync, fixedResolver{ac: actor}), http.MethodPut,
		"/api/admin/profiles/"+testCompanyID+"/access", `{"roles":["rrhh"]}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	sync.AssertExpectations(t)
}

func TestForceUpdate_PerfilInexistente(t *testing.T) {
	sync := new(syncMock)
	sync.On("ForceUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrProfileNotFound)

	resp := send(t, buildAPIApp(sync, fixedResolver{ac: accessWith(authz.RoleSuperAdmin)}), http.MethodPut,
		"/api/admin/profiles/"+testCompanyID+"/access", `{"admin_status":"suspended"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestForceUpdate_ValidacionNoExponeDetalleInterno(t *testing.T) {
	sync := new(syncMock)
	sync.On("ForceUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("sincronizar perfil: upsert profile: %w", domain.ErrInvalidInput))

	resp := send(t, buildAPIApp(sync, fixedResolver{ac: accessWith(authz.RoleSuperAdmin)}), http.MethodPut,
		"/api/admin/profiles/"+testCompanyID+"/access", `{"roles":["rrhh"]}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Equal(t, "datos inválidos", out.Message)
	assert.NotContains(t, string(body), "upsert")
}
