package service

import (
	"testing"

	"panjarku-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitWithParent(name string, parent *model.Unit) model.Unit {
	u := model.Unit{ID: uuid.New(), Name: name, Code: name}
	if parent != nil {
		id := parent.ID
		u.ParentID = &id
	}
	return u
}

func TestUnitGraphAncestorChain(t *testing.T) {
	root := unitWithParent("yayasan", nil)
	school := unitWithParent("smp", &root)
	dept := unitWithParent("kurikulum", &school)

	g := NewUnitGraph([]model.Unit{dept, root, school})

	chain := g.AncestorChain(dept.ID)
	require.Len(t, chain, 3)
	assert.Equal(t, root.ID, chain[0].ID)
	assert.Equal(t, school.ID, chain[1].ID)
	assert.Equal(t, dept.ID, chain[2].ID)
}

func TestUnitGraphAncestorChainRoot(t *testing.T) {
	root := unitWithParent("yayasan", nil)
	g := NewUnitGraph([]model.Unit{root})

	chain := g.AncestorChain(root.ID)
	require.Len(t, chain, 1)
	assert.Equal(t, root.ID, chain[0].ID)
}

func TestUnitGraphAncestorChainMissingNode(t *testing.T) {
	g := NewUnitGraph(nil)
	assert.Empty(t, g.AncestorChain(uuid.New()))
}

func TestUnitGraphAncestorChainTerminatesOnCycle(t *testing.T) {
	a := model.Unit{ID: uuid.New(), Name: "a", Code: "a"}
	b := model.Unit{ID: uuid.New(), Name: "b", Code: "b"}
	a.ParentID = &b.ID
	b.ParentID = &a.ID

	g := NewUnitGraph([]model.Unit{a, b})

	chain := g.AncestorChain(a.ID)
	// Each node appears at most once; the walk must not loop forever
	assert.Len(t, chain, 2)
	seen := map[uuid.UUID]bool{}
	for _, u := range chain {
		assert.False(t, seen[u.ID], "node visited twice")
		seen[u.ID] = true
	}
}

func TestUnitGraphDescendants(t *testing.T) {
	root := unitWithParent("yayasan", nil)
	school := unitWithParent("smp", &root)
	deptA := unitWithParent("kurikulum", &school)
	deptB := unitWithParent("kesiswaan", &school)
	other := unitWithParent("sd", &root)

	g := NewUnitGraph([]model.Unit{root, school, deptA, deptB, other})

	got := g.Descendants(school.ID)
	ids := map[uuid.UUID]bool{}
	for _, u := range got {
		ids[u.ID] = true
	}
	assert.Len(t, got, 2)
	assert.True(t, ids[deptA.ID])
	assert.True(t, ids[deptB.ID])
	assert.False(t, ids[school.ID], "node must not contain itself")
	assert.False(t, ids[other.ID])
}

func TestUnitGraphDescendantsCycleSafe(t *testing.T) {
	a := model.Unit{ID: uuid.New(), Name: "a", Code: "a"}
	b := model.Unit{ID: uuid.New(), Name: "b", Code: "b"}
	a.ParentID = &b.ID
	b.ParentID = &a.ID

	g := NewUnitGraph([]model.Unit{a, b})

	got := g.Descendants(a.ID)
	assert.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestPositionGraphAncestorChain(t *testing.T) {
	head := model.Position{ID: uuid.New(), Name: "Kepala Sekolah", Slug: "kepala-sekolah"}
	deputy := model.Position{ID: uuid.New(), Name: "Wakil Kepala Sekolah", Slug: "wakil-kepala-sekolah", SuperiorID: &head.ID}
	staff := model.Position{ID: uuid.New(), Name: "Kepala Urusan", Slug: "kepala-urusan", SuperiorID: &deputy.ID}

	g := NewPositionGraph([]model.Position{staff, head, deputy})

	chain := g.AncestorChain(staff.ID)
	require.Len(t, chain, 3)
	assert.Equal(t, head.ID, chain[0].ID)
	assert.Equal(t, deputy.ID, chain[1].ID)
	assert.Equal(t, staff.ID, chain[2].ID)
}

func TestPositionGraphSubordinates(t *testing.T) {
	head := model.Position{ID: uuid.New(), Name: "Kepala Sekolah", Slug: "kepala-sekolah"}
	deputy := model.Position{ID: uuid.New(), Name: "Wakil", Slug: "wakil", SuperiorID: &head.ID}
	staff := model.Position{ID: uuid.New(), Name: "Staf", Slug: "staf", SuperiorID: &deputy.ID}

	g := NewPositionGraph([]model.Position{head, deputy, staff})

	got := g.Subordinates(head.ID)
	assert.Len(t, got, 2)

	assert.Empty(t, g.Subordinates(staff.ID))
}
