package crud

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/guilhermemouraovc/cm-admin/internal/api"
	"github.com/guilhermemouraovc/cm-admin/internal/model"
	"github.com/guilhermemouraovc/cm-admin/internal/validate"
)

// ErrInvalid is returned by Submit when local validation fails; the field
// messages are in the returned Result
var ErrInvalid = errors.New("dados inválidos")

// Service is the remote collection a controller manages
type Service[T model.Record] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id int, rec T) (T, error)
	Delete(ctx context.Context, id int) error
}

// State is the list's loading state
type State int

const (
	StateIdle State = iota
	StateLoading
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	default:
		return "error"
	}
}

// FormMode is the form sub-state
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreating
	FormEditing
)

// Controller drives one entity page: list loading, the create/edit form
// and delete confirmation. Methods are safe to call from tea.Cmd goroutines.
type Controller[T model.Record] struct {
	mu     sync.Mutex
	info   model.KindInfo
	svc    Service[T]
	logger *slog.Logger

	records []T
	state   State
	loadErr string
	seq     uint64

	form        FormMode
	editing     T
	fieldErrors map[string]string
	formErr     string
	options     validate.Options

	pending   *T
	removeErr string
	table     *Table[T]
	detached  bool
}

// NewController creates a controller for one kind
func NewController[T model.Record](info model.KindInfo, svc Service[T], logger *slog.Logger) *Controller[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller[T]{
		info:   info,
		svc:    svc,
		logger: logger.With("kind", string(info.Kind)),
		table:  NewTable[T](info.SearchKeys),
	}
}

// Info returns the kind declaration
func (c *Controller[T]) Info() model.KindInfo {
	return c.info
}

// Load fetches the collection. When several loads overlap only the newest
// one's result is kept.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	tag := c.seq
	c.state = StateLoading
	c.mu.Unlock()

	items, err := c.svc.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached || tag != c.seq {
		c.logger.Debug("discarding stale load", "tag", tag, "latest", c.seq)
		return nil
	}
	if err != nil {
		c.state = StateError
		c.loadErr = api.Message(err)
		c.logger.Warn("load failed", "error", err)
		return err
	}
	c.records = items
	c.state = StateIdle
	c.loadErr = ""
	return nil
}

// OpenCreate opens an empty form with defaults applied
func (c *Controller[T]) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.form = FormCreating
	c.editing = validate.ApplyDefaults(zero)
	c.fieldErrors = nil
	c.formErr = ""
}

// OpenEdit opens the form pre-filled from rec
func (c *Controller[T]) OpenEdit(rec T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = FormEditing
	c.editing = rec
	c.fieldErrors = nil
	c.formErr = ""
}

// CloseForm abandons the form
func (c *Controller[T]) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeFormLocked()
}

func (c *Controller[T]) closeFormLocked() {
	var zero T
	c.form = FormClosed
	c.editing = zero
	c.fieldErrors = nil
	c.formErr = ""
}

// SetOptions stores the reference collections used for form choices and
// membership checks
func (c *Controller[T]) SetOptions(opts validate.Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options = opts
}

// Options returns the loaded reference collections
func (c *Controller[T]) Options() validate.Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options
}

// Submit validates candidate and, if it passes, creates or updates it and
// reloads the list. Invalid input never reaches the service.
func (c *Controller[T]) Submit(ctx context.Context, candidate T) (validate.Result, error) {
	c.mu.Lock()
	mode := c.form
	editing := c.editing
	opts := c.options
	c.mu.Unlock()

	if mode == FormClosed {
		return validate.Result{}, errors.New("form is not open")
	}

	res := validate.Validate(c.info.Kind, candidate, opts)
	if !res.Valid {
		c.mu.Lock()
		c.fieldErrors = res.FieldErrors
		c.formErr = ""
		c.mu.Unlock()
		return res, ErrInvalid
	}

	var err error
	if mode == FormCreating {
		_, err = c.svc.Create(ctx, validate.ApplyDefaults(candidate))
	} else {
		_, err = c.svc.Update(ctx, editing.RecordID(), candidate)
	}

	if err != nil {
		c.mu.Lock()
		if api.IsKind(err, api.KindUnauthorized) {
			c.closeFormLocked()
		} else {
			c.fieldErrors = nil
			c.formErr = api.Message(err)
		}
		c.mu.Unlock()
		c.logger.Warn("submit failed", "mode", mode, "error", err)
		return res, err
	}

	c.mu.Lock()
	c.closeFormLocked()
	c.mu.Unlock()
	c.logger.Info("record saved", "mode", mode)

	return res, c.Load(ctx)
}

// RequestRemove stages rec for deletion pending confirmation
func (c *Controller[T]) RequestRemove(rec T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &rec
	c.removeErr = ""
}

// CancelRemove drops the staged deletion
func (c *Controller[T]) CancelRemove() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}

// ConfirmRemove deletes the staged record. A record the server no longer
// has counts as deleted.
func (c *Controller[T]) ConfirmRemove(ctx context.Context) error {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return nil
	}
	id := (*c.pending).RecordID()
	c.pending = nil
	c.mu.Unlock()

	err := c.svc.Delete(ctx, id)
	if err != nil && !api.IsKind(err, api.KindNotFound) {
		c.mu.Lock()
		c.removeErr = api.Message(err)
		c.mu.Unlock()
		c.logger.Warn("delete failed", "id", id, "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return nil
	}
	kept := c.records[:0:0]
	for _, r := range c.records {
		if r.RecordID() != id {
			kept = append(kept, r)
		}
	}
	c.records = kept
	c.removeErr = ""
	// a load issued before the delete would bring the record back
	c.seq++
	if c.state == StateLoading {
		c.state = StateIdle
	}
	c.logger.Info("record deleted", "id", id)
	return nil
}

// Detach marks the page as gone; results arriving afterwards are ignored
func (c *Controller[T]) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detached = true
}

// SortBy toggles the sort on field
func (c *Controller[T]) SortBy(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table.SortBy(field)
}

// Sort returns the active sort field and direction
func (c *Controller[T]) Sort() (string, SortOrder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.Sort()
}

// Search filters the visible rows
func (c *Controller[T]) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table.Search(term)
}

// SearchTerm returns the active filter
func (c *Controller[T]) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.Term()
}

// Rows returns the sorted, filtered view
func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.Apply(c.records)
}

// Records returns the full collection in server order
func (c *Controller[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// State returns the list state and, for StateError, its message
func (c *Controller[T]) State() (State, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.loadErr
}

// Form returns the form mode and the record being edited
func (c *Controller[T]) Form() (FormMode, T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form, c.editing
}

// FormErrors returns the field errors and the server error of the last submit
func (c *Controller[T]) FormErrors() (map[string]string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrors, c.formErr
}

// Pending returns the record staged for deletion, if any
func (c *Controller[T]) Pending() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		var zero T
		return zero, false
	}
	return *c.pending, true
}

// RemoveError returns the message of the last failed delete
func (c *Controller[T]) RemoveError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeErr
}
