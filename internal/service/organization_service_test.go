package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newOrgService(db *gorm.DB) *OrganizationService {
	return NewOrganizationService(repository.NewUserRepository(db), zap.NewNop())
}

func TestOrganizationGet(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, &domain.User{
		Email:            "owner@example.org",
		OrganizationName: "PHED Rajasthan",
		OrganizationNIF:  testNIF,
		Role:             domain.RoleOwner,
	})
	createTestUser(t, db, &domain.User{
		Email:           "member@example.org",
		OrganizationNIF: testNIF,
		Role:            domain.RoleViewer,
	})

	org, err := newOrgService(db).Get(context.Background(), userContextFor(owner))
	require.NoError(t, err)

	assert.Equal(t, "PHED Rajasthan", org.Name)
	assert.Equal(t, testNIF, org.NIF)
	assert.Equal(t, 2, org.MembersCount)
}

func TestOrganizationListMembersRoleFilter(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, &domain.User{
		Email:           "owner@example.org",
		OrganizationNIF: testNIF,
		Role:            domain.RoleOwner,
	})
	createTestUser(t, db, &domain.User{
		Email:           "editor@example.org",
		OrganizationNIF: testNIF,
		Role:            domain.RoleEditor,
	})

	svc := newOrgService(db)

	all, err := svc.ListMembers(context.Background(), userContextFor(owner), "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	editors, err := svc.ListMembers(context.Background(), userContextFor(owner), "editor")
	require.NoError(t, err)
	require.Len(t, editors, 1)
	assert.Equal(t, "editor@example.org", editors[0].Email)
}

func TestOrganizationListAvailableUsers(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, &domain.User{
		Email:           "member@example.org",
		OrganizationNIF: testNIF,
	})
	createTestUser(t, db, &domain.User{Email: "free@example.org"})

	available, err := newOrgService(db).ListAvailableUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "free@example.org", available[0].Email)
	assert.Equal(t, "free@example.org", available[0].Name, "name falls back to email")
}

func TestAddMember(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, &domain.User{
		Email:            "owner@example.org",
		OrganizationName: "PHED Rajasthan",
		OrganizationNIF:  testNIF,
		Role:             domain.RoleOwner,
	})
	free := createTestUser(t, db, &domain.User{Email: "free@example.org"})

	member, err := newOrgService(db).AddMember(context.Background(), userContextFor(owner), &domain.AddMemberRequest{
		UserID:     free.ID,
		Role:       domain.RoleEditor,
		Department: "Water Supply",
	})
	require.NoError(t, err)

	assert.Equal(t, testNIF, member.OrganizationNIF)
	assert.Equal(t, "PHED Rajasthan", member.OrganizationName)
	assert.Equal(t, domain.RoleEditor, member.Role)
	assert.Equal(t, "Water Supply", member.Department)
}

func TestAddMemberRequiresManagementRole(t *testing.T) {
	db := newTestDB(t)
	viewer := createTestUser(t, db, &domain.User{
		Email:           "viewer@example.org",
		OrganizationNIF: testNIF,
		Role:            domain.RoleViewer,
	})
	free := createTestUser(t, db, &domain.User{Email: "free@example.org"})

	_, err := newOrgService(db).AddMember(context.Background(), userContextFor(viewer), &domain.AddMemberRequest{
		UserID: free.ID,
		Role:   domain.RoleEditor,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateMemberRole(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, &domain.User{
		Email:           "owner@example.org",
		OrganizationNIF: testNIF,
		Role:            domain.RoleOwner,
	})
	member := createTestUser(t, db, &domain.User{
		Email:           "member@example.org",
		OrganizationNIF: testNIF,
		Role:            domain.RoleViewer,
	})

	updated, err := newOrgService(db).UpdateMemberRole(context.Background(), userContextFor(owner), member.ID, &domain.UpdateMemberRoleRequest{
		Role:       domain.RoleAdmin,
		Department: "Finance",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, "Finance", updated.Department)
}

func TestRemoveMember(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, &domain.User{
		Email:           "owner@example.org",
		OrganizationNIF: testNIF,
		Role:            domain.RoleOwner,
	})
	member := createTestUser(t, db, &domain.User{
		Email:           "member@example.org",
		OrganizationNIF: testNIF,
		Role:            domain.RoleEditor,
	})

	require.NoError(t, newOrgService(db).RemoveMember(context.Background(), userContextFor(owner), member.ID))

	detached, err := repository.NewUserRepository(db).GetByID(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Empty(t, detached.OrganizationNIF)
	assert.Equal(t, domain.RoleViewer, detached.Role)
}

func TestRemoveMemberUnknownUser(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, &domain.User{
		Email:           "owner@example.org",
		OrganizationNIF: testNIF,
		Role:            domain.RoleOwner,
	})

	err := newOrgService(db).RemoveMember(context.Background(), userContextFor(owner), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
