// Package registry manages the set of named account lists: their
// metadata records, the protected default list, and list lifecycle.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"followdeck/internal/model"
	"followdeck/internal/store"
)

var (
	// ErrDuplicateList is returned when a list id is already taken.
	ErrDuplicateList = errors.New("list already exists")

	// ErrDefaultList is returned on attempts to delete the default list.
	ErrDefaultList = errors.New("the default list cannot be deleted")

	// ErrEmptyName is returned when a list name produces an empty slug.
	ErrEmptyName = errors.New("list name must contain at least one letter or digit")
)

const createdAtLayout = "2006/01/02 15:04:05"

// Registry manages list metadata on top of the record store.
type Registry struct {
	store store.Store
	log   *slog.Logger
	coll  *collate.Collator
	now   func() time.Time
}

// New creates a Registry. A nil logger disables logging.
func New(s store.Store, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		store: s,
		log:   log,
		// List names are predominantly Japanese in the source data
		coll: collate.New(language.Japanese),
		now:  time.Now,
	}
}

// Lists returns all known lists with live account counts. The default
// list is always present (provisioned if absent) and pinned first; the
// remainder is ordered by name.
func (r *Registry) Lists(ctx context.Context) ([]model.List, error) {
	lists, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		// Registry is empty: provision the default list and retry once.
		if err := r.provisionDefault(ctx); err != nil {
			return nil, err
		}
		if lists, err = r.load(ctx); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

func (r *Registry) load(ctx context.Context) ([]model.List, error) {
	records, err := r.store.ReadAll(ctx, model.MetadataCollection)
	if err != nil {
		return nil, fmt.Errorf("read list metadata: %w", err)
	}

	var lists []model.List
	haveDefault := false
	for id, bag := range records {
		list, ok := model.ListFromRecord(id, bag)
		if !ok {
			continue
		}
		if list.IsDefault() {
			haveDefault = true
		}
		lists = append(lists, list)
	}

	// The default list exists even when its metadata record was never
	// written; synthesize it from the live collection.
	if !haveDefault && len(lists) > 0 {
		lists = append(lists, r.defaultList())
	}

	for i := range lists {
		n, err := r.store.Count(ctx, lists[i].ID)
		if err != nil {
			r.log.Warn("could not count list records", "list", lists[i].ID, "error", err)
			continue
		}
		lists[i].AccountCount = n
	}

	sort.SliceStable(lists, func(i, j int) bool {
		if lists[i].IsDefault() != lists[j].IsDefault() {
			return lists[i].IsDefault()
		}
		return r.coll.CompareString(lists[i].Name, lists[j].Name) < 0
	})

	return lists, nil
}

// Create registers a new empty list. The id is derived from the name;
// a collision with any existing list id is rejected.
func (r *Registry) Create(ctx context.Context, name, description string) (model.List, error) {
	id := model.SlugFromName(name)
	if id == "" {
		return model.List{}, ErrEmptyName
	}

	taken, err := r.Exists(ctx, id)
	if err != nil {
		return model.List{}, err
	}
	if taken {
		return model.List{}, fmt.Errorf("list %q: %w", id, ErrDuplicateList)
	}

	list := model.List{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   r.now().Format(createdAtLayout),
	}
	if err := r.store.CreateOrReplace(ctx, model.MetadataCollection, id, list.Record()); err != nil {
		return model.List{}, fmt.Errorf("create list %q: %w", id, err)
	}

	r.log.Info("created list", "list", id)
	return list, nil
}

// Delete removes a list's records and metadata. The default list is
// protected; no store call is issued for it.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if id == model.DefaultListID {
		return ErrDefaultList
	}

	if err := r.store.DeleteCollection(ctx, id); err != nil {
		return fmt.Errorf("delete list %q: %w", id, err)
	}
	if err := r.store.Delete(ctx, model.MetadataCollection, id); err != nil {
		return fmt.Errorf("delete list metadata %q: %w", id, err)
	}

	r.log.Info("deleted list", "list", id)
	return nil
}

// Exists reports whether id names a known list: metadata present, a
// non-empty collection, or the default list id.
func (r *Registry) Exists(ctx context.Context, id string) (bool, error) {
	if id == model.DefaultListID {
		return true, nil
	}

	records, err := r.store.ReadAll(ctx, model.MetadataCollection)
	if err != nil {
		return false, fmt.Errorf("read list metadata: %w", err)
	}
	if _, ok := records[id]; ok {
		return true, nil
	}

	n, err := r.store.Count(ctx, id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Registry) defaultList() model.List {
	return model.List{
		ID:        model.DefaultListID,
		Name:      "My Follow",
		CreatedAt: r.now().Format(createdAtLayout),
	}
}

func (r *Registry) provisionDefault(ctx context.Context) error {
	def := r.defaultList()
	if err := r.store.CreateOrReplace(ctx, model.MetadataCollection, def.ID, def.Record()); err != nil {
		return fmt.Errorf("provision default list: %w", err)
	}
	r.log.Info("provisioned default list")
	return nil
}
