package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-central-api/internal/application/auth"
	"github.com/jhoicas/pos-central-api/internal/application/dto"
	"github.com/jhoicas/pos-central-api/internal/domain"
	"github.com/jhoicas/pos-central-api/internal/domain/entity"
	"github.com/jhoicas/pos-central-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-central-api/pkg/config"
	pkgjwt "github.com/jhoicas/pos-central-api/pkg/jwt"
)

var testJWT = config.JWTConfig{
	Secret:         "test-secret-key-for-unit-tests",
	Issuer:         "pos-central-test",
	AccessExpHours: 24,
	RefreshExpDays: 7,
}

func newUseCase() (*auth.UseCase, *memory.UserRepo) {
	repo := memory.NewUserRepository()
	return auth.NewUseCase(repo, testJWT), repo
}

func TestLogin_Exitoso(t *testing.T) {
	uc, _ := newUseCase()

	out, err := uc.Login(dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)

	assert.Equal(t, "admin", out.User.Username)
	assert.NotEmpty(t, out.Token)
	assert.NotEmpty(t, out.RefreshToken)
	assert.NotNil(t, out.User.LastLogin, "el login registra lastLogin")

	claims, err := pkgjwt.ParseAccess(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

// Usuario inexistente y contraseña incorrecta producen exactamente el mismo
// error, para no revelar qué usuarios existen.
func TestLogin_ErrorGenericoIdentico(t *testing.T) {
	uc, _ := newUseCase()

	_, errUnknown := uc.Login(dto.LoginRequest{Username: "no-existe", Password: "x"})
	_, errBadPass := uc.Login(dto.LoginRequest{Username: "admin", Password: "incorrecta"})

	require.Error(t, errUnknown)
	require.Error(t, errBadPass)
	assert.Equal(t, errUnknown, errBadPass)
	assert.ErrorIs(t, errUnknown, domain.ErrUnauthorized)
}

func TestRefresh_RotaTokens(t *testing.T) {
	uc, _ := newUseCase()

	login, err := uc.Login(dto.LoginRequest{Username: "cashier", Password: "cashier123"})
	require.NoError(t, err)

	out, err := uc.Refresh(dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, "cashier", out.User.Username)
	assert.NotEmpty(t, out.Token)
	assert.NotEmpty(t, out.RefreshToken)
}

// El flujo de refresh rechaza un access token aunque sea válido.
func TestRefresh_RechazaAccessToken(t *testing.T) {
	uc, _ := newUseCase()

	login, err := uc.Login(dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)

	_, err = uc.Refresh(dto.RefreshRequest{RefreshToken: login.Token})
	assert.ErrorIs(t, err, pkgjwt.ErrTokenInvalid)
}

func TestRefresh_UsuarioDadoDeBaja(t *testing.T) {
	uc, repo := newUseCase()

	login, err := uc.Login(dto.LoginRequest{Username: "cashier", Password: "cashier123"})
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(login.User.ID))

	_, err = uc.Refresh(dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized,
		"un refresh token de un usuario inactivo no debe emitir tokens nuevos")
}

func TestRegister_DefaultsYDuplicados(t *testing.T) {
	uc, _ := newUseCase()

	user, err := uc.Register(dto.RegisterRequest{
		Username: "ana", Email: "ana@pos.com", Password: "secreta1",
		FirstName: "Ana", LastName: "García",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCashier, user.Role, "el rol por defecto es cashier")
	assert.True(t, user.IsActive)

	_, err = uc.Register(dto.RegisterRequest{
		Username: "ana", Email: "otra@pos.com", Password: "secreta1",
		FirstName: "Ana", LastName: "García",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameExists)
}

func TestChangePassword(t *testing.T) {
	uc, _ := newUseCase()

	login, err := uc.Login(dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)

	err = uc.ChangePassword(login.User.ID, dto.ChangePasswordRequest{
		CurrentPassword: "incorrecta", NewPassword: "nueva123",
	})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	err = uc.ChangePassword(login.User.ID, dto.ChangePasswordRequest{
		CurrentPassword: "admin123", NewPassword: "nueva123",
	})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Username: "admin", Password: "nueva123"})
	assert.NoError(t, err)
	_, err = uc.Login(dto.LoginRequest{Username: "admin", Password: "admin123"})
	assert.Error(t, err)
}

func TestDeleteUser_NoPuedeEliminarseASiMismo(t *testing.T) {
	uc, _ := newUseCase()

	login, err := uc.Login(dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)

	err = uc.DeleteUser(login.User.ID, login.User.ID)
	assert.ErrorIs(t, err, domain.ErrSelfDelete)
}

// La página se corta antes de aplicar los filtros de rol y búsqueda: una
// página puede venir corta aunque existan coincidencias en otras páginas.
func TestListUsers_PaginaLuegoFiltra(t *testing.T) {
	uc, _ := newUseCase() // sembrados: admin (página 1), cashier (página 1)

	for i := 0; i < 3; i++ {
		_, err := uc.Register(dto.RegisterRequest{
			Username:  "cajero" + string(rune('a'+i)),
			Email:     "cajero" + string(rune('a'+i)) + "@pos.com",
			Password:  "secreta1",
			FirstName: "Cajero", LastName: "Demo",
			Role: entity.RoleCashier,
		})
		require.NoError(t, err)
	}

	// Página 1 con límite 2: admin + cashier. El filtro role=cashier se aplica
	// después del corte, así que solo queda cashier.
	out, err := uc.ListUsers(dto.ListUsersRequest{Page: 1, Limit: 2, Role: entity.RoleCashier})
	require.NoError(t, err)
	require.Len(t, out.Users, 1)
	assert.Equal(t, "cashier", out.Users[0].Username)
	// La paginación refleja el total sin filtrar.
	assert.Equal(t, 5, out.Pagination.Total)

	// Búsqueda insensible a mayúsculas, también tras el corte de página.
	out, err = uc.ListUsers(dto.ListUsersRequest{Page: 1, Limit: 10, Search: "CAJERO"})
	require.NoError(t, err)
	assert.Len(t, out.Users, 3)
}
