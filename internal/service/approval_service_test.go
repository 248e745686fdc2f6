package service

import (
	"context"
	"testing"

	"panjarku-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	byRoleAndUnit map[string][]model.User
	byRole        map[string][]model.User
	bySlug        map[string]*model.User
}

func (f *fakeDirectory) FindUsersByRoleAndUnit(_ context.Context, roleName string, _ uuid.UUID) ([]model.User, error) {
	return f.byRoleAndUnit[roleName], nil
}

func (f *fakeDirectory) FindUsersByRole(_ context.Context, roleName string) ([]model.User, error) {
	return f.byRole[roleName], nil
}

func (f *fakeDirectory) FindFirstUserByPositionSlug(_ context.Context, slug string) (*model.User, error) {
	return f.bySlug[slug], nil
}

func userWithRole(name, role string) model.User {
	return model.User{
		ID:    uuid.New(),
		Name:  name,
		Email: name + "@sekolah.sch.id",
		Roles: []model.Role{{ID: uuid.New(), Name: role}},
	}
}

func TestHierarchyForKepalaUrusan(t *testing.T) {
	wakil := userWithRole("wakil", model.RoleWakilKepalaSekolah)
	kepsek := userWithRole("kepsek", model.RoleKepalaSekolah)
	dir := &fakeDirectory{
		byRoleAndUnit: map[string][]model.User{model.RoleWakilKepalaSekolah: {wakil}},
		byRole:        map[string][]model.User{model.RoleKepalaSekolah: {kepsek}},
	}
	svc := NewApprovalService(dir)

	creator := userWithRole("kaur", model.RoleKepalaUrusan)
	h, err := svc.HierarchyFor(context.Background(), &creator, uuid.New())
	require.NoError(t, err)
	require.Len(t, h.Verifiers, 1)
	assert.Equal(t, wakil.ID, h.Verifiers[0].ID)
	require.Len(t, h.Approvers, 1)
	assert.Equal(t, kepsek.ID, h.Approvers[0].ID)
}

func TestHierarchyForWakilVerifiesOwnRequests(t *testing.T) {
	kepsek := userWithRole("kepsek", model.RoleKepalaSekolah)
	dir := &fakeDirectory{
		byRole: map[string][]model.User{model.RoleKepalaSekolah: {kepsek}},
	}
	svc := NewApprovalService(dir)

	creator := userWithRole("wakil", model.RoleWakilKepalaSekolah)
	h, err := svc.HierarchyFor(context.Background(), &creator, uuid.New())
	require.NoError(t, err)
	require.Len(t, h.Verifiers, 1)
	assert.Equal(t, creator.ID, h.Verifiers[0].ID)
	require.Len(t, h.Approvers, 1)
	assert.Equal(t, kepsek.ID, h.Approvers[0].ID)
}

func TestHierarchyForKepalaSekolahApprovesSelf(t *testing.T) {
	wakil := userWithRole("wakil", model.RoleWakilKepalaSekolah)
	dir := &fakeDirectory{
		byRole: map[string][]model.User{model.RoleWakilKepalaSekolah: {wakil}},
	}
	svc := NewApprovalService(dir)

	creator := userWithRole("kepsek", model.RoleKepalaSekolah)
	h, err := svc.HierarchyFor(context.Background(), &creator, uuid.New())
	require.NoError(t, err)
	require.Len(t, h.Approvers, 1)
	assert.Equal(t, creator.ID, h.Approvers[0].ID)
	require.Len(t, h.Verifiers, 1)
	assert.Equal(t, wakil.ID, h.Verifiers[0].ID)
}

func TestHierarchyForKepalaAdministrasi(t *testing.T) {
	wakil := userWithRole("wakil", model.RoleWakilKepalaSekolah)
	kepsek := userWithRole("kepsek", model.RoleKepalaSekolah)
	dir := &fakeDirectory{
		byRole: map[string][]model.User{
			model.RoleWakilKepalaSekolah: {wakil},
			model.RoleKepalaSekolah:      {kepsek},
		},
	}
	svc := NewApprovalService(dir)

	creator := userWithRole("ka", model.RoleKepalaAdministrasi)
	h, err := svc.HierarchyFor(context.Background(), &creator, uuid.New())
	require.NoError(t, err)
	require.Len(t, h.Verifiers, 1)
	require.Len(t, h.Approvers, 1)
	assert.Equal(t, kepsek.ID, h.Approvers[0].ID)
}

func TestHierarchyForUnknownRole(t *testing.T) {
	svc := NewApprovalService(&fakeDirectory{})

	creator := userWithRole("guru", "guru")
	h, err := svc.HierarchyFor(context.Background(), &creator, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, h.Verifiers)
	assert.Empty(t, h.Approvers)
	assert.NotNil(t, h.Verifiers)
	assert.NotNil(t, h.Approvers)
}

func TestHierarchyForNilUser(t *testing.T) {
	svc := NewApprovalService(&fakeDirectory{})

	h, err := svc.HierarchyFor(context.Background(), nil, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, h.Verifiers)
	assert.Empty(t, h.Approvers)
}

func TestFinanceHierarchies(t *testing.T) {
	hc := userWithRole("hc", model.RoleKepalaUrusan)
	ka := userWithRole("ka", model.RoleKepalaAdministrasi)
	dir := &fakeDirectory{
		bySlug: map[string]*model.User{
			model.PositionSlugKepalaUrusanHumanCapital: &hc,
			model.PositionSlugKepalaAdministrasi:       &ka,
		},
	}
	svc := NewApprovalService(dir)

	fh, err := svc.FinanceHierarchies(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fh.Verifier)
	require.NotNil(t, fh.TaxVerifier)
	require.NotNil(t, fh.Approver)
	assert.Equal(t, hc.ID, fh.Verifier.ID)
	assert.Equal(t, hc.ID, fh.TaxVerifier.ID)
	assert.Equal(t, ka.ID, fh.Approver.ID)
}

func TestFinanceHierarchiesUnoccupied(t *testing.T) {
	svc := NewApprovalService(&fakeDirectory{bySlug: map[string]*model.User{}})

	fh, err := svc.FinanceHierarchies(context.Background())
	require.NoError(t, err)
	assert.Nil(t, fh.Verifier)
	assert.Nil(t, fh.TaxVerifier)
	assert.Nil(t, fh.Approver)
}

func TestCanVerifyAndApprove(t *testing.T) {
	wakil := userWithRole("wakil", model.RoleWakilKepalaSekolah)
	kepsek := userWithRole("kepsek", model.RoleKepalaSekolah)
	dir := &fakeDirectory{
		byRoleAndUnit: map[string][]model.User{model.RoleWakilKepalaSekolah: {wakil}},
		byRole:        map[string][]model.User{model.RoleKepalaSekolah: {kepsek}},
	}
	svc := NewApprovalService(dir)

	creator := userWithRole("kaur", model.RoleKepalaUrusan)
	unitID := uuid.New()

	ok, err := svc.CanVerify(context.Background(), &wakil, &creator, unitID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanVerify(context.Background(), &kepsek, &creator, unitID)
	require.NoError(t, err)
	assert.False(t, ok, "approver is not a verifier")

	ok, err = svc.CanApprove(context.Background(), &kepsek, &creator, unitID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanApprove(context.Background(), &wakil, &creator, unitID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanVerify(context.Background(), nil, &creator, unitID)
	require.NoError(t, err)
	assert.False(t, ok)
}
