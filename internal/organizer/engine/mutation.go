package engine

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
	orgErrors "github.com/furnidesk/FurniOrganizer/internal/organizer/errors"
)

// MutationEngine orchestrates every state-changing operation on the
// CategoryStore. Each operation applies its effect locally first so the UI
// stays responsive, then confirms it against the remote category service in
// the background. A confirmed creation gets its temp id reconciled to the
// server id; a failed confirmation rolls the affected state back to its exact
// pre-operation value. No operation blocks the caller and no gateway failure
// ever surfaces past the engine: the visible state reverting is the error
// signal.
type MutationEngine struct {
	store   *CategoryStore
	gateway domain.CategoryGateway
	notify  func()

	wg sync.WaitGroup

	mu            sync.Mutex
	nextTempID    int64
	paletteCursor int
	reconciled    map[int64]int64
	pending       map[int64]*pendingCreate
}

// pendingCreate tracks a creation whose server id is not known yet.
// Operations issued against the temp id wait on done before talking to the
// gateway.
type pendingCreate struct {
	done     chan struct{}
	serverID int64
	ok       bool
}

// NewMutationEngine wires the engine to its store and gateway. notify is
// invoked after every visible state change so the UI can re-render; it may be
// nil.
func NewMutationEngine(store *CategoryStore, gateway domain.CategoryGateway, notify func()) *MutationEngine {
	return &MutationEngine{
		store:      store,
		gateway:    gateway,
		notify:     notify,
		nextTempID: -1,
		reconciled: make(map[int64]int64),
		pending:    make(map[int64]*pendingCreate),
	}
}

// Load pulls the full category snapshot from the service into the store.
// Called once at session start, before any mutation is issued.
func (e *MutationEngine) Load(ctx context.Context) error {
	snapshot, err := e.gateway.Load(ctx)
	if err != nil {
		return err
	}
	e.store.SetCategories(snapshot.Categories)
	e.store.SetAssignments(snapshot.Assignments)
	e.changed()
	return nil
}

// Flush blocks until every in-flight confirmation has settled. Used on
// session teardown and by tests; UI code never calls it.
func (e *MutationEngine) Flush() {
	e.wg.Wait()
}

// Create appends a category with a locally issued temp id and confirms it in
// the background. The returned id is temporary; queries resolve it until the
// server id arrives. An unspecified color is picked round-robin from the
// palette.
func (e *MutationEngine) Create(name, color string, rule domain.AutoFilterRule) (int64, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return 0, err
	}
	if color == "" {
		color = e.nextPaletteColor()
	} else if !domain.IsPaletteColor(color) {
		return 0, orgErrors.ErrUnknownPaletteColor
	}
	if rule != "" && !domain.KnownRule(rule) {
		return 0, orgErrors.ErrUnknownAutoFilter
	}

	e.mu.Lock()
	tempID := e.nextTempID
	e.nextTempID--
	creation := &pendingCreate{done: make(chan struct{})}
	e.pending[tempID] = creation
	e.mu.Unlock()

	category := domain.Category{
		ID:         tempID,
		Name:       name,
		Color:      color,
		AutoFilter: rule,
		Order:      len(e.store.Categories()),
	}
	e.store.appendCategory(category)
	e.changed()

	e.wg.Add(1)
	go e.confirmCreate(tempID, creation, name, color, rule)
	return tempID, nil
}

func (e *MutationEngine) confirmCreate(tempID int64, creation *pendingCreate, name, color string, rule domain.AutoFilterRule) {
	defer e.wg.Done()
	created, err := e.gateway.Create(context.Background(), name, color, rule)

	e.mu.Lock()
	delete(e.pending, tempID)
	if err == nil {
		e.reconciled[tempID] = created.ID
		creation.serverID = created.ID
		creation.ok = true
	}
	e.mu.Unlock()
	close(creation.done)

	if err != nil {
		log.Printf("organizer: creating category %q failed, discarding optimistic entry: %v", name, err)
		e.store.removeCategory(tempID)
		e.changed()
		return
	}
	e.store.replaceCategoryID(tempID, created.ID)
	e.changed()
}

// Rename sets the category name in place and restores the prior name if the
// service rejects the change.
func (e *MutationEngine) Rename(id int64, name string) error {
	name, err := validateCategoryName(name)
	if err != nil {
		return err
	}
	prior, ok := e.store.CategoryByID(id)
	if !ok {
		return orgErrors.ErrCategoryNotFound
	}
	e.store.updateCategory(id, func(c *domain.Category) { c.Name = name })
	e.changed()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		serverID, ok := e.awaitServerID(id)
		if !ok {
			return
		}
		patchName := name
		if _, err := e.gateway.Update(context.Background(), serverID, domain.CategoryPatch{Name: &patchName}); err != nil {
			log.Printf("organizer: renaming category %d failed, restoring %q: %v", serverID, prior.Name, err)
			e.store.updateCategory(e.currentID(id), func(c *domain.Category) { c.Name = prior.Name })
			e.changed()
		}
	}()
	return nil
}

// Recolor sets the category color in place and restores the prior color if
// the service rejects the change.
func (e *MutationEngine) Recolor(id int64, color string) error {
	if !domain.IsPaletteColor(color) {
		return orgErrors.ErrUnknownPaletteColor
	}
	prior, ok := e.store.CategoryByID(id)
	if !ok {
		return orgErrors.ErrCategoryNotFound
	}
	e.store.updateCategory(id, func(c *domain.Category) { c.Color = color })
	e.changed()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		serverID, ok := e.awaitServerID(id)
		if !ok {
			return
		}
		patchColor := color
		if _, err := e.gateway.Update(context.Background(), serverID, domain.CategoryPatch{Color: &patchColor}); err != nil {
			log.Printf("organizer: recoloring category %d failed, restoring %s: %v", serverID, prior.Color, err)
			e.store.updateCategory(e.currentID(id), func(c *domain.Category) { c.Color = prior.Color })
			e.changed()
		}
	}()
	return nil
}

// Delete removes the category, prunes it from every assignment set and clears
// the active selection if it pointed at it, all atomically. A failed
// confirmation restores the full prior categories list and assignment table.
func (e *MutationEngine) Delete(id int64) error {
	if _, ok := e.store.CategoryByID(id); !ok {
		return orgErrors.ErrCategoryNotFound
	}
	snapshot := e.store.Snapshot()
	e.store.removeCategory(id)
	e.changed()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		serverID, ok := e.awaitServerID(id)
		if !ok {
			return
		}
		if err := e.gateway.Remove(context.Background(), serverID); err != nil {
			log.Printf("organizer: deleting category %d failed, restoring snapshot: %v", serverID, err)
			e.store.Restore(snapshot)
			e.changed()
		}
	}()
	return nil
}

// Assign adds the category to the item's explicit assignment set. Assigning
// an already-present pairing is a no-op: no state change, no gateway call.
func (e *MutationEngine) Assign(itemType, categoryID int64) error {
	if _, ok := e.store.CategoryByID(categoryID); !ok {
		return orgErrors.ErrCategoryNotFound
	}
	if e.store.IsAssigned(itemType, categoryID) {
		return nil
	}
	e.store.addAssignment(itemType, categoryID)
	e.changed()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		serverID, ok := e.awaitServerID(categoryID)
		if !ok {
			return
		}
		if err := e.gateway.Assign(context.Background(), serverID, itemType); err != nil {
			log.Printf("organizer: assigning item %d to category %d failed, reverting: %v", itemType, serverID, err)
			e.store.removeAssignment(itemType, e.currentID(categoryID))
			e.changed()
		}
	}()
	return nil
}

// Unassign removes the category from the item's explicit assignment set.
// Unassigning an absent pairing is a no-op: no state change, no gateway call.
func (e *MutationEngine) Unassign(itemType, categoryID int64) error {
	if _, ok := e.store.CategoryByID(categoryID); !ok {
		return orgErrors.ErrCategoryNotFound
	}
	if !e.store.IsAssigned(itemType, categoryID) {
		return nil
	}
	e.store.removeAssignment(itemType, categoryID)
	e.changed()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		serverID, ok := e.awaitServerID(categoryID)
		if !ok {
			return
		}
		if err := e.gateway.Unassign(context.Background(), serverID, itemType); err != nil {
			log.Printf("organizer: unassigning item %d from category %d failed, reverting: %v", itemType, serverID, err)
			e.store.addAssignment(itemType, e.currentID(categoryID))
			e.changed()
		}
	}()
	return nil
}

// ToggleAssignment dispatches to Assign or Unassign based on current
// membership.
func (e *MutationEngine) ToggleAssignment(itemType, categoryID int64) error {
	if e.store.IsAssigned(itemType, categoryID) {
		return e.Unassign(itemType, categoryID)
	}
	return e.Assign(itemType, categoryID)
}

// Reorder rewrites the rank of every listed category to its index in
// orderedIDs. A failed confirmation restores the full prior list so the exact
// pre-reorder ranks come back.
func (e *MutationEngine) Reorder(orderedIDs []int64) error {
	seen := make(map[int64]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			return orgErrors.ErrIncompleteOrder
		}
		seen[id] = struct{}{}
		if _, ok := e.store.CategoryByID(id); !ok {
			return orgErrors.ErrCategoryNotFound
		}
	}
	snapshot := e.store.Snapshot()
	e.store.applyOrder(orderedIDs)
	e.changed()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		serverOrder := make([]int64, 0, len(orderedIDs))
		for _, id := range orderedIDs {
			serverID, ok := e.awaitServerID(id)
			if !ok {
				// The creation behind this temp id failed; its category is
				// gone from the list, so the server never sees it.
				continue
			}
			serverOrder = append(serverOrder, serverID)
		}
		if err := e.gateway.Reorder(context.Background(), serverOrder); err != nil {
			log.Printf("organizer: reordering categories failed, restoring snapshot: %v", err)
			e.store.Restore(snapshot)
			e.changed()
		}
	}()
	return nil
}

func (e *MutationEngine) changed() {
	if e.notify != nil {
		e.notify()
	}
}

func (e *MutationEngine) nextPaletteColor() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	color := domain.Palette[e.paletteCursor%len(domain.Palette)]
	e.paletteCursor++
	return color
}

// awaitServerID resolves the id an operation was issued against to the id the
// server knows. Positive ids pass through; a temp id waits until its creation
// settles. ok is false when the creation failed, in which case the dependent
// operation has nothing left to confirm: the create rollback already pruned
// its local effect.
func (e *MutationEngine) awaitServerID(id int64) (int64, bool) {
	if id > 0 {
		return id, true
	}
	e.mu.Lock()
	if serverID, ok := e.reconciled[id]; ok {
		e.mu.Unlock()
		return serverID, true
	}
	creation, ok := e.pending[id]
	e.mu.Unlock()
	if !ok {
		return 0, false
	}
	<-creation.done
	if !creation.ok {
		return 0, false
	}
	return creation.serverID, true
}

// currentID maps a possibly stale temp id to whatever id the category carries
// right now, without blocking. Rollbacks use it so a revert lands on the
// reconciled entry when the creation confirmed mid-flight.
func (e *MutationEngine) currentID(id int64) int64 {
	if id > 0 {
		return id
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if serverID, ok := e.reconciled[id]; ok {
		return serverID
	}
	return id
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", orgErrors.ErrEmptyCategoryName
	}
	if len(name) > domain.MaxCategoryNameLength {
		return "", orgErrors.ErrCategoryNameTooLong
	}
	return name, nil
}
