// Package console implements the master-detail workflow behind every
// entity screen: the fetched list, the search filter, the dialog with its
// working copy, and the save/remove orchestration.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dentalcare/console/internal/clinic"
	"github.com/dentalcare/console/internal/repository"
)

// Mode is the dialog state. There is no draft or partial-save state: a
// working copy either round-trips through the server or is discarded.
type Mode string

const (
	ModeNone Mode = "none"
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// Alert is the blocking message surface for validation and save failures.
type Alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Open    bool   `json:"open"`
}

// Repo is the slice of the repository the controller needs; tests swap in
// fakes.
type Repo[T clinic.Record] interface {
	Fetch(ctx context.Context) ([]T, error)
	Save(ctx context.Context, record T, isUpdate bool) error
	Remove(ctx context.Context, id int64) error
}

// Screen configures one entity screen's variant of the shared workflow.
type Screen[T clinic.Record] struct {
	Repo       Repo[T]
	NewRecord  func(now time.Time) T
	Missing    func(T) []string
	SearchText func(T) []string
	// OpenInEdit controls whether clicking a row opens the dialog directly
	// in edit mode (procedures) or read-only first (everything else).
	OpenInEdit bool
	// Confirm guards destructive actions. Nil declines everything.
	Confirm func(title, message string) bool
	Now     func() time.Time
	Log     zerolog.Logger
}

type Controller[T clinic.Record] struct {
	screen Screen[T]

	records    []T
	searchTerm string
	selected   *T
	mode       Mode
	dialogOpen bool
	alert      Alert

	// fetchGen discards responses from superseded fetch cycles;
	// dialogEpoch discards save/remove completions for torn-down dialogs.
	fetchGen    uint64
	dialogEpoch uint64
}

func NewController[T clinic.Record](screen Screen[T]) *Controller[T] {
	if screen.Now == nil {
		screen.Now = time.Now
	}
	return &Controller[T]{screen: screen, mode: ModeNone}
}

// Refresh runs one fetch cycle. On failure the previous records stay
// visible; there is no retry.
func (c *Controller[T]) Refresh(ctx context.Context) {
	gen := c.beginFetch()
	records, err := c.screen.Repo.Fetch(ctx)
	c.finishFetch(gen, records, err)
}

func (c *Controller[T]) beginFetch() uint64 {
	c.fetchGen++
	return c.fetchGen
}

func (c *Controller[T]) finishFetch(gen uint64, records []T, err error) {
	if gen != c.fetchGen {
		c.screen.Log.Debug().Uint64("gen", gen).Msg("discarding stale fetch result")
		return
	}
	if err != nil {
		// Logged by the repository; the stale list stays on screen.
		return
	}
	c.records = records
}

// Records returns the last successfully fetched list.
func (c *Controller[T]) Records() []T { return c.records }

func (c *Controller[T]) Search(term string) { c.searchTerm = term }

func (c *Controller[T]) SearchTerm() string { return c.searchTerm }

// Visible derives the filtered list: records whose searchable fields
// contain the term, case-insensitively. Pure; records are never reordered
// or mutated.
func (c *Controller[T]) Visible() []T {
	term := strings.ToLower(strings.TrimSpace(c.searchTerm))
	out := make([]T, 0, len(c.records))
	for _, rec := range c.records {
		if term == "" || matches(c.screen.SearchText(rec), term) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(fields []string, term string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// OpenNew opens the dialog on a freshly defaulted working copy.
func (c *Controller[T]) OpenNew() {
	rec := c.screen.NewRecord(c.screen.Now())
	c.selected = &rec
	c.mode = ModeEdit
	c.dialogOpen = true
}

// OpenExisting opens the dialog on a copy of the clicked record. The
// original in the list is never aliased: edits touch only the copy.
func (c *Controller[T]) OpenExisting(record T) {
	rec := record
	c.selected = &rec
	if c.screen.OpenInEdit {
		c.mode = ModeEdit
	} else {
		c.mode = ModeView
	}
	c.dialogOpen = true
}

// Edit switches a read-only dialog into edit mode.
func (c *Controller[T]) Edit() {
	if c.dialogOpen && c.mode == ModeView {
		c.mode = ModeEdit
	}
}

// Update applies a field mutation to the working copy only.
func (c *Controller[T]) Update(mutate func(*T)) {
	if c.dialogOpen && c.selected != nil && c.mode == ModeEdit {
		mutate(c.selected)
	}
}

func (c *Controller[T]) Selected() (T, bool) {
	if c.selected == nil {
		var zero T
		return zero, false
	}
	return *c.selected, true
}

func (c *Controller[T]) Mode() Mode       { return c.mode }
func (c *Controller[T]) DialogOpen() bool { return c.dialogOpen }

func (c *Controller[T]) Alert() Alert { return c.alert }

func (c *Controller[T]) DismissAlert() { c.alert = Alert{} }

func (c *Controller[T]) showAlert(title, message string) {
	c.alert = Alert{Title: title, Message: message, Open: true}
}

// Save validates the working copy and pushes it to the server. Validation
// failure raises the alert and makes no network call. On success the
// dialog closes and a fresh fetch replaces the list; on failure the dialog
// stays open behind the alert.
func (c *Controller[T]) Save(ctx context.Context) bool {
	if !c.dialogOpen || c.selected == nil || c.mode != ModeEdit {
		return false
	}

	if missing := c.screen.Missing(*c.selected); len(missing) > 0 {
		c.showAlert("Missing required fields",
			fmt.Sprintf("Please fill in: %s.", strings.Join(missing, ", ")))
		return false
	}

	record := *c.selected
	isUpdate := record.RecordID() != 0
	epoch := c.dialogEpoch

	err := c.screen.Repo.Save(ctx, record, isUpdate)

	if epoch != c.dialogEpoch {
		// Dialog was torn down while the request was in flight; the
		// response must not touch screen state.
		return err == nil
	}

	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTaxID) {
			c.showAlert("Duplicate tax id", "A patient with this tax id is already registered.")
		} else {
			c.showAlert("Save failed", "The record could not be saved. Nothing was changed.")
		}
		return false
	}

	c.closeDialog()
	c.Refresh(ctx)
	return true
}

// Remove deletes the selected record after explicit confirmation.
// Declining is a pure no-op: no request, dialog stays open.
func (c *Controller[T]) Remove(ctx context.Context) bool {
	if !c.dialogOpen || c.selected == nil {
		return false
	}
	record := *c.selected
	if record.RecordID() == 0 {
		return false
	}
	if c.screen.Confirm == nil || !c.screen.Confirm("Delete record", "This cannot be undone. Delete?") {
		return false
	}

	epoch := c.dialogEpoch
	err := c.screen.Repo.Remove(ctx, record.RecordID())

	if epoch != c.dialogEpoch {
		return err == nil
	}

	if err != nil {
		c.showAlert("Delete failed", "The record could not be deleted. Nothing was changed.")
		return false
	}

	c.closeDialog()
	c.Refresh(ctx)
	return true
}

// CloseDialog discards the working copy without persisting anything.
func (c *Controller[T]) CloseDialog() { c.closeDialog() }

func (c *Controller[T]) closeDialog() {
	c.selected = nil
	c.mode = ModeNone
	c.dialogOpen = false
	c.dialogEpoch++
}
