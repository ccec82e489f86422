package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/domain"
	"github.com/jhoicas/ventas-admin/internal/domain/entity"
	"github.com/jhoicas/ventas-admin/internal/domain/validation"
	pkgjwt "github.com/jhoicas/ventas-admin/pkg/jwt"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

var testJWT = JWTConfig{Secret: "secreto-de-pruebas", ExpMinutes: 10, Issuer: "test"}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	uc := NewAuthUseCase(newMemUsers(), testJWT)

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Ana@Example.com ", Password: "supersecreto"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, entity.RoleStaff, user.Role)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "supersecreto"})
	require.NoError(t, err)
	userID, role, err := pkgjwt.Parse(testJWT.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, entity.RoleStaff, role)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	ctx := context.Background()
	uc := NewAuthUseCase(newMemUsers(), testJWT)
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "12345678", Role: entity.RoleAdmin})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Validacion(t *testing.T) {
	uc := NewAuthUseCase(newMemUsers(), testJWT)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "no-es-email", Password: "corta", Role: "root"})

	fields, ok := validation.FieldsOf(err)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"email", "password", "role"}, fields.Fields())
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	ctx := context.Background()
	uc := NewAuthUseCase(newMemUsers(), testJWT)
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@b.co", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
