package devserver

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
	"github.com/goliatone/go-formstruct/pkg/structure"
)

// Error is a request failure with the status it maps to.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("devserver: %d %s", e.Status, e.Message)
}

func badRequest(message string) error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func notFound(message string) error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

const (
	msgStepNotFound  = "Step not found"
	msgFieldNotFound = "Field not found"
)

// Memory keeps the template and every draft or project override in memory.
// Deletes are soft; reset removes an override for good.
type Memory struct {
	mu     sync.RWMutex
	steps  []*stepRow
	fields []*fieldRow
	now    func() time.Time
	newID  func() string
}

// MemoryOption customises a Memory.
type MemoryOption func(*Memory)

// WithClock sets the timestamp source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIDGenerator sets the row id source. Defaults to random UUIDs.
func WithIDGenerator(next func() string) MemoryOption {
	return func(m *Memory) {
		if next != nil {
			m.newID = next
		}
	}
}

// NewMemory returns a backend whose template holds seed.
func NewMemory(seed Seed, opts ...MemoryOption) (*Memory, error) {
	m := &Memory{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	for idx, step := range seed.Steps {
		created, err := m.CreateStep(step.body(idx))
		if err != nil {
			return nil, fmt.Errorf("devserver: seed step %q: %w", step.Title, err)
		}
		for fieldIdx, field := range step.Fields {
			if _, err := m.CreateField(field.body(created.ID, fieldIdx)); err != nil {
				return nil, fmt.Errorf("devserver: seed field %q: %w", field.FieldID, err)
			}
		}
	}
	return m, nil
}

// Structure returns the nested structure for scope. Draft and project scopes
// fall back to the template until they are customised.
func (m *Memory) Structure(scope structure.Scope) ([]stepTree, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	custom := scope.Customizable() && m.hasCustom(scope)
	source := scope
	if !custom {
		source = structure.TemplateScope(scope.DocumentType)
	}
	return m.tree(source), custom
}

// HasCustomStructure reports whether scope owns at least one live step.
func (m *Memory) HasCustomStructure(scope structure.Scope) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasCustom(scope)
}

// FieldTypes returns the catalogue derived from the field type registry.
func (m *Memory) FieldTypes() []structure.FieldTypeInfo {
	descriptors := fieldtypes.All()
	out := make([]structure.FieldTypeInfo, 0, len(descriptors))
	for _, d := range descriptors {
		info := structure.FieldTypeInfo{
			Type:           d.Type,
			Label:          d.Label,
			Category:       string(d.Category),
			Icon:           d.Icon,
			HasPlaceholder: d.HasPlaceholder,
			HasOptions:     d.HasOptions,
			HasColumns:     d.HasColumns,
		}
		if !d.IsFormField {
			info.IsFormField = structure.Ptr(false)
		}
		out = append(out, info)
	}
	return out
}

// CreateStep inserts a step. The order index defaults to the end of the
// owner's sibling list.
func (m *Memory) CreateStep(body stepBody) (stepRow, error) {
	if body.Title == nil || strings.TrimSpace(*body.Title) == "" || body.StepNumber == nil || *body.StepNumber == "" {
		return stepRow{}, badRequest("title and step_number are required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.timestamp()
	row := &stepRow{
		ID:          m.newID(),
		ProjectID:   nonEmpty(body.ProjectID),
		DraftID:     nonEmpty(body.DraftID),
		StepNumber:  body.StepNumber.String(),
		Title:       *body.Title,
		Description: nonEmpty(body.Description),
		Category:    structure.CategoryManagement,
		IsVisible:   1,
		Icon:        nonEmpty(body.Icon),
		BEPType:     structure.DocumentBoth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c := text(body.Category); c != "" {
		row.Category = c
	}
	if b := text(body.BEPType); b != "" {
		row.BEPType = b
	}
	if body.IsVisible != nil {
		row.IsVisible = flagInt(*body.IsVisible)
	}
	if body.OrderIndex != nil {
		row.OrderIndex = *body.OrderIndex
	} else {
		row.OrderIndex = m.nextStepIndex(row.ProjectID, row.DraftID)
	}
	m.steps = append(m.steps, row)
	return row.clone(), nil
}

// UpdateStep applies the present members of body.
func (m *Memory) UpdateStep(id string, body stepBody) (stepTree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := m.liveStep(id)
	if row == nil {
		return stepTree{}, notFound(msgStepNotFound)
	}
	if body.StepNumber != nil {
		row.StepNumber = body.StepNumber.String()
	}
	if body.Title != nil {
		row.Title = *body.Title
	}
	if body.Description != nil {
		row.Description = nonEmpty(body.Description)
	}
	if body.Category != nil {
		row.Category = *body.Category
	}
	if body.OrderIndex != nil {
		row.OrderIndex = *body.OrderIndex
	}
	if body.IsVisible != nil {
		row.IsVisible = flagInt(*body.IsVisible)
	}
	if body.Icon != nil {
		row.Icon = nonEmpty(body.Icon)
	}
	if body.BEPType != nil {
		row.BEPType = *body.BEPType
	}
	row.UpdatedAt = m.timestamp()
	return m.withFields(row, ""), nil
}

// DeleteStep soft deletes a step and its fields. Unknown ids succeed.
func (m *Memory) DeleteStep(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.timestamp()
	for _, row := range m.steps {
		if row.ID == id {
			row.IsDeleted = 1
			row.UpdatedAt = now
		}
	}
	for _, row := range m.fields {
		if row.StepID == id {
			row.IsDeleted = 1
			row.UpdatedAt = now
		}
	}
}

// ReorderSteps writes every order index in one critical section. Unknown
// ids are ignored.
func (m *Memory) ReorderSteps(orders []structure.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.timestamp()
	for _, order := range orders {
		for _, row := range m.steps {
			if row.ID == order.ID {
				row.OrderIndex = order.OrderIndex
				row.UpdatedAt = now
			}
		}
	}
}

// ToggleStepVisibility flips the visibility flag.
func (m *Memory) ToggleStepVisibility(id string) (stepTree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := m.liveStep(id)
	if row == nil {
		return stepTree{}, notFound(msgStepNotFound)
	}
	row.IsVisible = 1 - row.IsVisible
	row.UpdatedAt = m.timestamp()
	return m.withFields(row, ""), nil
}

// CreateField inserts a field. Missing owner ids are inherited from the step.
func (m *Memory) CreateField(body fieldBody) (fieldRow, error) {
	if text(body.StepID) == "" || text(body.FieldID) == "" || text(body.Label) == "" || text(body.Type) == "" {
		return fieldRow{}, badRequest("step_id, field_id, label, and type are required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	step := m.liveStep(*body.StepID)
	if step == nil {
		return fieldRow{}, notFound(msgStepNotFound)
	}
	now := m.timestamp()
	row := &fieldRow{
		ID:           m.newID(),
		ProjectID:    nonEmpty(body.ProjectID),
		DraftID:      nonEmpty(body.DraftID),
		StepID:       step.ID,
		FieldID:      *body.FieldID,
		Label:        *body.Label,
		Type:         *body.Type,
		IsVisible:    1,
		Placeholder:  nonEmpty(body.Placeholder),
		HelpText:     nonEmpty(body.HelpText),
		DefaultValue: nonEmpty(body.DefaultValue),
		BEPType:      structure.FieldShared,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if row.ProjectID == nil && row.DraftID == nil {
		row.ProjectID, row.DraftID = step.ProjectID, step.DraftID
	}
	if body.Number != nil && *body.Number != "" {
		number := body.Number.String()
		row.Number = &number
	}
	if body.IsVisible != nil {
		row.IsVisible = flagInt(*body.IsVisible)
	}
	if body.IsRequired != nil {
		row.IsRequired = flagInt(*body.IsRequired)
	}
	if b := text(body.BEPType); b != "" {
		row.BEPType = b
	}
	if cfg, ok := body.config(); ok {
		row.Config = cfg
	}
	if body.OrderIndex != nil {
		row.OrderIndex = *body.OrderIndex
	} else {
		row.OrderIndex = m.nextFieldIndex(step.ID)
	}
	m.fields = append(m.fields, row)
	return row.clone(), nil
}

// UpdateField applies the present members of body. A null config clears it.
func (m *Memory) UpdateField(id string, body fieldBody) (fieldRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := m.liveField(id)
	if row == nil {
		return fieldRow{}, notFound(msgFieldNotFound)
	}
	if body.FieldID != nil {
		row.FieldID = *body.FieldID
	}
	if body.Label != nil {
		row.Label = *body.Label
	}
	if body.Type != nil {
		row.Type = *body.Type
	}
	if body.Number != nil {
		number := body.Number.String()
		row.Number = nonEmpty(&number)
	}
	if body.OrderIndex != nil {
		row.OrderIndex = *body.OrderIndex
	}
	if body.IsVisible != nil {
		row.IsVisible = flagInt(*body.IsVisible)
	}
	if body.IsRequired != nil {
		row.IsRequired = flagInt(*body.IsRequired)
	}
	if body.Placeholder != nil {
		row.Placeholder = nonEmpty(body.Placeholder)
	}
	if body.HelpText != nil {
		row.HelpText = nonEmpty(body.HelpText)
	}
	if cfg, ok := body.config(); ok {
		row.Config = cfg
	}
	if body.DefaultValue != nil {
		row.DefaultValue = nonEmpty(body.DefaultValue)
	}
	if body.BEPType != nil {
		row.BEPType = *body.BEPType
	}
	row.UpdatedAt = m.timestamp()
	return row.clone(), nil
}

// DeleteField soft deletes a field. Unknown ids succeed.
func (m *Memory) DeleteField(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.timestamp()
	for _, row := range m.fields {
		if row.ID == id {
			row.IsDeleted = 1
			row.UpdatedAt = now
		}
	}
}

// ReorderFields writes every order index in one critical section.
func (m *Memory) ReorderFields(orders []structure.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.timestamp()
	for _, order := range orders {
		for _, row := range m.fields {
			if row.ID == order.ID {
				row.OrderIndex = order.OrderIndex
				row.UpdatedAt = now
			}
		}
	}
}

// ToggleFieldVisibility flips the visibility flag.
func (m *Memory) ToggleFieldVisibility(id string) (fieldRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := m.liveField(id)
	if row == nil {
		return fieldRow{}, notFound(msgFieldNotFound)
	}
	row.IsVisible = 1 - row.IsVisible
	row.UpdatedAt = m.timestamp()
	return row.clone(), nil
}

// MoveField reparents a field at orderIndex within the target step.
func (m *Memory) MoveField(id, newStepID string, orderIndex int) (fieldRow, error) {
	if strings.TrimSpace(newStepID) == "" {
		return fieldRow{}, badRequest("newStepId is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	row := m.liveField(id)
	if row == nil {
		return fieldRow{}, notFound(msgFieldNotFound)
	}
	if m.liveStep(newStepID) == nil {
		return fieldRow{}, notFound(msgStepNotFound)
	}
	row.StepID = newStepID
	row.OrderIndex = orderIndex
	row.UpdatedAt = m.timestamp()
	return row.clone(), nil
}

// Clone copies the whole template, every document type included, into a
// draft or project scope that has no structure of its own yet.
func (m *Memory) Clone(scope structure.Scope) ([]stepTree, error) {
	if !scope.Customizable() || strings.TrimSpace(scope.ID) == "" {
		return nil, badRequest(ownerRequired(scope))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasCustom(scope) {
		return nil, badRequest(ownerLabel(scope) + " already has custom structure. Use reset endpoint to start fresh.")
	}
	m.cloneTemplate(scope)
	return m.tree(scope), nil
}

// Reset drops the scope's structure for good and clones the template again.
func (m *Memory) Reset(scope structure.Scope) ([]stepTree, error) {
	if !scope.Customizable() || strings.TrimSpace(scope.ID) == "" {
		return nil, badRequest(ownerRequired(scope))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	keepStep := m.steps[:0]
	for _, row := range m.steps {
		if !owns(scope, row.ProjectID, row.DraftID) {
			keepStep = append(keepStep, row)
		}
	}
	m.steps = keepStep
	keepField := m.fields[:0]
	for _, row := range m.fields {
		if !owns(scope, row.ProjectID, row.DraftID) {
			keepField = append(keepField, row)
		}
	}
	m.fields = keepField

	m.cloneTemplate(scope)
	return m.tree(scope), nil
}

func (m *Memory) cloneTemplate(scope structure.Scope) {
	projectID, draftID := scope.Owner()
	template := structure.TemplateScope("")
	now := m.timestamp()

	for _, step := range m.sortedSteps(template) {
		copied := step.clone()
		copied.ID = m.newID()
		copied.ProjectID, copied.DraftID = nonEmpty(&projectID), nonEmpty(&draftID)
		copied.CreatedAt, copied.UpdatedAt = now, now
		m.steps = append(m.steps, &copied)

		for _, field := range m.sortedFields(step.ID, "") {
			fieldCopy := field.clone()
			fieldCopy.ID = m.newID()
			fieldCopy.StepID = copied.ID
			fieldCopy.ProjectID, fieldCopy.DraftID = copied.ProjectID, copied.DraftID
			fieldCopy.CreatedAt, fieldCopy.UpdatedAt = now, now
			m.fields = append(m.fields, &fieldCopy)
		}
	}
}

func (m *Memory) tree(scope structure.Scope) []stepTree {
	steps := m.sortedSteps(scope)
	out := make([]stepTree, 0, len(steps))
	for _, step := range steps {
		out = append(out, m.withFields(step, scope.DocumentType))
	}
	return out
}

func (m *Memory) withFields(step *stepRow, documentType string) stepTree {
	fields := m.sortedFields(step.ID, documentType)
	tree := stepTree{stepRow: step.clone(), Fields: make([]fieldRow, 0, len(fields))}
	for _, field := range fields {
		tree.Fields = append(tree.Fields, field.clone())
	}
	return tree
}

func (m *Memory) sortedSteps(scope structure.Scope) []*stepRow {
	var out []*stepRow
	for _, row := range m.steps {
		if row.IsDeleted == 1 || !owns(scope, row.ProjectID, row.DraftID) {
			continue
		}
		if dt := scope.DocumentType; dt != "" && row.BEPType != dt && row.BEPType != structure.DocumentBoth {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func (m *Memory) sortedFields(stepID, documentType string) []*fieldRow {
	var out []*fieldRow
	for _, row := range m.fields {
		if row.IsDeleted == 1 || row.StepID != stepID {
			continue
		}
		if documentType != "" && row.BEPType != documentType && row.BEPType != structure.FieldShared {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func (m *Memory) hasCustom(scope structure.Scope) bool {
	if !scope.Customizable() {
		return false
	}
	for _, row := range m.steps {
		if row.IsDeleted == 0 && owns(scope, row.ProjectID, row.DraftID) {
			return true
		}
	}
	return false
}

func (m *Memory) liveStep(id string) *stepRow {
	for _, row := range m.steps {
		if row.ID == id && row.IsDeleted == 0 {
			return row
		}
	}
	return nil
}

func (m *Memory) liveField(id string) *fieldRow {
	for _, row := range m.fields {
		if row.ID == id && row.IsDeleted == 0 {
			return row
		}
	}
	return nil
}

func (m *Memory) nextStepIndex(projectID, draftID *string) int {
	next := 0
	for _, row := range m.steps {
		if row.IsDeleted == 0 && sameOwner(row.ProjectID, projectID) && sameOwner(row.DraftID, draftID) && row.OrderIndex >= next {
			next = row.OrderIndex + 1
		}
	}
	return next
}

func (m *Memory) nextFieldIndex(stepID string) int {
	next := 0
	for _, row := range m.fields {
		if row.IsDeleted == 0 && row.StepID == stepID && row.OrderIndex >= next {
			next = row.OrderIndex + 1
		}
	}
	return next
}

func (m *Memory) timestamp() string {
	return m.now().UTC().Format(time.RFC3339Nano)
}

func owns(scope structure.Scope, projectID, draftID *string) bool {
	switch scope.Kind {
	case structure.ScopeDraft:
		return draftID != nil && *draftID == scope.ID
	case structure.ScopeProject:
		return projectID != nil && *projectID == scope.ID && draftID == nil
	default:
		return projectID == nil && draftID == nil
	}
}

func sameOwner(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func ownerLabel(scope structure.Scope) string {
	if scope.Kind == structure.ScopeDraft {
		return "Draft"
	}
	return "Project"
}

func ownerRequired(scope structure.Scope) string {
	if scope.Kind == structure.ScopeDraft {
		return "draftId is required"
	}
	return "projectId is required"
}
