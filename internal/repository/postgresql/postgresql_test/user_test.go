package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/cmlabs-hris/workforce-attendance/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func createTestUser(t *testing.T, repo user.UserRepository, companyID, email string, role user.Role) user.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	created, err := repo.Create(context.Background(), user.User{
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     "Test " + string(role),
		Role:         role,
		Language:     user.LanguageEnglish,
	})
	require.NoError(t, err)
	return created
}

func TestUserRepository_Create_Success(t *testing.T) {
	setup := NewTestDatabase(t)
	companyID := setup.CreateCompany(t, "Acme Contracting")
	repo := postgresql.NewUserRepository(setup.DB)

	created := createTestUser(t, repo, companyID, "hr@acme.test", user.RoleHR)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "hr@acme.test", created.Email)
	assert.Equal(t, user.RoleHR, created.Role)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	setup := NewTestDatabase(t)
	companyID := setup.CreateCompany(t, "Acme Contracting")
	repo := postgresql.NewUserRepository(setup.DB)

	createTestUser(t, repo, companyID, "hr@acme.test", user.RoleHR)

	_, err := repo.Create(context.Background(), user.User{
		CompanyID:    companyID,
		Email:        "HR@acme.test",
		PasswordHash: "x",
		FullName:     "Dup",
		Role:         user.RoleAccountant,
		Language:     user.LanguageEnglish,
	})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	setup := NewTestDatabase(t)
	companyID := setup.CreateCompany(t, "Acme Contracting")
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	created := createTestUser(t, repo, companyID, "foreman@acme.test", user.RoleForeman)

	got, err := repo.GetByEmail(ctx, "Foreman@Acme.test")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@acme.test")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_ListByCompany_FiltersRole(t *testing.T) {
	setup := NewTestDatabase(t)
	companyID := setup.CreateCompany(t, "Acme Contracting")
	otherID := setup.CreateCompany(t, "Other Co")
	repo := postgresql.NewUserRepository(setup.DB)

	createTestUser(t, repo, companyID, "hr@acme.test", user.RoleHR)
	foreman := createTestUser(t, repo, companyID, "f1@acme.test", user.RoleForeman)
	createTestUser(t, repo, otherID, "f2@other.test", user.RoleForeman)

	role := user.RoleForeman
	got, err := repo.ListByCompany(context.Background(), companyID, &role)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, foreman.ID, got[0].ID)

	all, err := repo.ListByCompany(context.Background(), companyID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserRepository_Delete(t *testing.T) {
	setup := NewTestDatabase(t)
	companyID := setup.CreateCompany(t, "Acme Contracting")
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	created := createTestUser(t, repo, companyID, "eng@acme.test", user.RoleEngineer)

	require.NoError(t, repo.Delete(ctx, companyID, created.ID))

	_, err := repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
