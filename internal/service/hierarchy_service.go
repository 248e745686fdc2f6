package service

import (
	"context"
	"errors"

	"panjarku-backend/internal/model"
	"panjarku-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnitGraph is an in-memory adjacency view over the unit tree, built per
// request from a full table snapshot. Traversal carries a visited set so a
// cyclic parent chain terminates instead of looping.
type UnitGraph struct {
	nodes    map[uuid.UUID]model.Unit
	children map[uuid.UUID][]uuid.UUID
}

// NewUnitGraph builds the adjacency maps from a unit snapshot
func NewUnitGraph(units []model.Unit) *UnitGraph {
	g := &UnitGraph{
		nodes:    make(map[uuid.UUID]model.Unit, len(units)),
		children: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, u := range units {
		g.nodes[u.ID] = u
		if u.ParentID != nil {
			g.children[*u.ParentID] = append(g.children[*u.ParentID], u.ID)
		}
	}
	return g
}

// AncestorChain walks the parent links upward and returns the ordered
// root-to-node list. A missing node yields an empty chain; a cycle stops at
// the first repeated node.
func (g *UnitGraph) AncestorChain(id uuid.UUID) []model.Unit {
	var reversed []model.Unit
	visited := make(map[uuid.UUID]bool)

	current, ok := g.nodes[id]
	for ok && !visited[current.ID] {
		visited[current.ID] = true
		reversed = append(reversed, current)
		if current.ParentID == nil {
			break
		}
		current, ok = g.nodes[*current.ParentID]
	}

	// Reverse into root-first order
	chain := make([]model.Unit, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		chain = append(chain, reversed[i])
	}
	return chain
}

// Descendants collects every unit whose parent chain includes id, depth-first,
// excluding the node itself. Cycles are skipped via the visited set.
func (g *UnitGraph) Descendants(id uuid.UUID) []model.Unit {
	var result []model.Unit
	visited := map[uuid.UUID]bool{id: true}

	stack := append([]uuid.UUID(nil), g.children[id]...)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[next] {
			continue
		}
		visited[next] = true
		if node, ok := g.nodes[next]; ok {
			result = append(result, node)
		}
		stack = append(stack, g.children[next]...)
	}
	return result
}

// PositionGraph is the same adjacency view over the position tree
// (superior/subordinate links).
type PositionGraph struct {
	nodes        map[uuid.UUID]model.Position
	subordinates map[uuid.UUID][]uuid.UUID
}

// NewPositionGraph builds the adjacency maps from a position snapshot
func NewPositionGraph(positions []model.Position) *PositionGraph {
	g := &PositionGraph{
		nodes:        make(map[uuid.UUID]model.Position, len(positions)),
		subordinates: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, p := range positions {
		g.nodes[p.ID] = p
		if p.SuperiorID != nil {
			g.subordinates[*p.SuperiorID] = append(g.subordinates[*p.SuperiorID], p.ID)
		}
	}
	return g
}

// AncestorChain walks superior links upward, root-first, cycle-safe
func (g *PositionGraph) AncestorChain(id uuid.UUID) []model.Position {
	var reversed []model.Position
	visited := make(map[uuid.UUID]bool)

	current, ok := g.nodes[id]
	for ok && !visited[current.ID] {
		visited[current.ID] = true
		reversed = append(reversed, current)
		if current.SuperiorID == nil {
			break
		}
		current, ok = g.nodes[*current.SuperiorID]
	}

	chain := make([]model.Position, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		chain = append(chain, reversed[i])
	}
	return chain
}

// Subordinates collects the whole subtree below id, excluding the node itself
func (g *PositionGraph) Subordinates(id uuid.UUID) []model.Position {
	var result []model.Position
	visited := map[uuid.UUID]bool{id: true}

	stack := append([]uuid.UUID(nil), g.subordinates[id]...)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[next] {
			continue
		}
		visited[next] = true
		if node, ok := g.nodes[next]; ok {
			result = append(result, node)
		}
		stack = append(stack, g.subordinates[next]...)
	}
	return result
}

// --- Service ---

// HierarchyService resolves ancestor/descendant relationships for the unit
// and position trees. All operations are pure reads; missing links yield
// empty results, never errors.
type HierarchyService interface {
	UnitAncestors(ctx context.Context, unitID uuid.UUID) ([]model.Unit, error)
	UnitDescendants(ctx context.Context, unitID uuid.UUID) ([]model.Unit, error)
	PositionAncestors(ctx context.Context, positionID uuid.UUID) ([]model.Position, error)
	DirectSuperior(ctx context.Context, employeeID uuid.UUID) (*model.Employee, error)
}

type hierarchyService struct {
	unitRepo     repository.UnitRepository
	positionRepo repository.PositionRepository
	employeeRepo repository.EmployeeRepository
}

func NewHierarchyService(
	unitRepo repository.UnitRepository,
	positionRepo repository.PositionRepository,
	employeeRepo repository.EmployeeRepository,
) HierarchyService {
	return &hierarchyService{
		unitRepo:     unitRepo,
		positionRepo: positionRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *hierarchyService) UnitAncestors(ctx context.Context, unitID uuid.UUID) ([]model.Unit, error) {
	units, err := s.unitRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewUnitGraph(units).AncestorChain(unitID), nil
}

func (s *hierarchyService) UnitDescendants(ctx context.Context, unitID uuid.UUID) ([]model.Unit, error) {
	units, err := s.unitRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewUnitGraph(units).Descendants(unitID), nil
}

func (s *hierarchyService) PositionAncestors(ctx context.Context, positionID uuid.UUID) ([]model.Position, error) {
	positions, err := s.positionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewPositionGraph(positions).AncestorChain(positionID), nil
}

// DirectSuperior returns the employee occupying the superior of the given
// employee's position, or nil when the position has no superior or no one
// holds it.
func (s *hierarchyService) DirectSuperior(ctx context.Context, employeeID uuid.UUID) (*model.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee.Position == nil || employee.Position.SuperiorID == nil {
		return nil, nil
	}

	superior, err := s.employeeRepo.GetByPositionID(ctx, *employee.Position.SuperiorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No one occupies the superior position
			return nil, nil
		}
		return nil, err
	}
	return superior, nil
}
