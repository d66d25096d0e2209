// Package repository implements the fetch/enrich/save/remove cycle shared
// by every entity screen, parameterized by an entity spec instead of being
// copied per screen.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dentalcare/console/internal/clinic"
	"github.com/dentalcare/console/internal/platform/rest"
)

// ErrDuplicateTaxID marks the one business rejection the screens report
// with a specific message instead of the generic failure text.
var ErrDuplicateTaxID = errors.New("a patient with this tax id already exists")

// AuxCollection is a referenced collection fetched alongside the primary
// one so foreign keys can be resolved in-memory.
type AuxCollection struct {
	Key  string
	Path string
}

// Spec describes one entity: where its collection lives, which collections
// it references, and how its records map to and from the server shape.
type Spec[T clinic.Record] struct {
	Kind      string
	Path      string
	Aux       []AuxCollection
	Decode    func(primary []byte, aux map[string][]byte) ([]T, error)
	Payload   func(T) any
	Duplicate func(*rest.APIError) bool
}

type Repository[T clinic.Record] struct {
	client *rest.Client
	spec   Spec[T]
	log    zerolog.Logger
}

func New[T clinic.Record](client *rest.Client, spec Spec[T], log zerolog.Logger) *Repository[T] {
	return &Repository[T]{
		client: client,
		spec:   spec,
		log:    log.With().Str("entity", spec.Kind).Logger(),
	}
}

func (r *Repository[T]) Kind() string { return r.spec.Kind }

// Fetch loads the primary collection and every auxiliary collection in
// parallel, then decodes and enriches. Any failure abandons the whole
// cycle: the error is logged and returned, no partial enrichment happens,
// and the caller keeps whatever it was already showing.
func (r *Repository[T]) Fetch(ctx context.Context) ([]T, error) {
	var primary json.RawMessage
	auxBodies := make([]json.RawMessage, len(r.spec.Aux))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.client.Get(gctx, r.spec.Path, &primary)
	})
	for i, a := range r.spec.Aux {
		i, a := i, a
		g.Go(func() error {
			if err := r.client.Get(gctx, a.Path, &auxBodies[i]); err != nil {
				return fmt.Errorf("%s: %w", a.Key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.log.Error().Err(err).Msg("fetch cycle failed")
		return nil, err
	}

	auxRaw := make(map[string][]byte, len(r.spec.Aux))
	for i, a := range r.spec.Aux {
		auxRaw[a.Key] = auxBodies[i]
	}
	records, err := r.spec.Decode(primary, auxRaw)
	if err != nil {
		r.log.Error().Err(err).Msg("decode failed")
		return nil, err
	}
	r.log.Debug().Int("count", len(records)).Msg("fetched")
	return records, nil
}

// Save creates or updates one record. Creates post without an id; updates
// put to the record's address. The cached collection is never touched:
// callers re-fetch after a successful save.
func (r *Repository[T]) Save(ctx context.Context, record T, isUpdate bool) error {
	var err error
	if isUpdate {
		if record.RecordID() == 0 {
			return fmt.Errorf("update %s: record has no id", r.spec.Kind)
		}
		path := fmt.Sprintf("%s%d/", r.spec.Path, record.RecordID())
		err = r.client.DoJSON(ctx, http.MethodPut, path, r.spec.Payload(record), nil)
	} else {
		err = r.client.DoJSON(ctx, http.MethodPost, r.spec.Path, r.spec.Payload(record), nil)
	}
	if err != nil {
		var apiErr *rest.APIError
		if errors.As(err, &apiErr) && r.spec.Duplicate != nil && r.spec.Duplicate(apiErr) {
			r.log.Warn().Int("status", apiErr.StatusCode).Msg("uniqueness rejection")
			return fmt.Errorf("save %s: %w", r.spec.Kind, ErrDuplicateTaxID)
		}
		r.log.Error().Err(err).Bool("update", isUpdate).Msg("save failed")
		return fmt.Errorf("save %s: %w", r.spec.Kind, err)
	}
	return nil
}

// Remove deletes the record by id; callers re-fetch on success.
func (r *Repository[T]) Remove(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("remove %s: record has no id", r.spec.Kind)
	}
	path := fmt.Sprintf("%s%d/", r.spec.Path, id)
	if err := r.client.DoJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		r.log.Error().Err(err).Int64("id", id).Msg("delete failed")
		return fmt.Errorf("remove %s: %w", r.spec.Kind, err)
	}
	return nil
}
