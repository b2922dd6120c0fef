// Package catalog stores element records and structure snapshots in a
// local pebble database, keyed by the binary form of model ids and element
// keys.
package catalog

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/twinkeys/pkg/keys"
	"github.com/ssargent/twinkeys/pkg/structure"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Key prefixes
const (
	elementPrefix  byte = 'e'
	snapshotPrefix byte = 's'
)

// ErrNotFound is returned when an element or snapshot has no record.
var ErrNotFound = errors.New("not found")

// Stats summarizes catalog contents.
type Stats struct {
	Models    int `json:"models"`
	Elements  int `json:"elements"`
	Snapshots int `json:"snapshots"`
}

// SnapshotInfo describes a stored snapshot.
type SnapshotInfo struct {
	ID          string    `json:"id"`
	FacilityURN string    `json:"facility_urn"`
	CreatedAt   time.Time `json:"created_at"`
	Levels      int       `json:"levels"`
	Rooms       int       `json:"rooms"`
	Assets      int       `json:"assets"`
}

// Catalog is a pebble backed element and snapshot store. It is safe for
// concurrent use.
type Catalog struct {
	db *pebble.DB
}

// Open opens or creates a catalog in dir.
func Open(dir string) (*Catalog, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open catalog %s", dir)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func elementKey(modelID, key string) ([]byte, string, error) {
	model, err := keys.ModelIDBytes(modelID)
	if err != nil {
		return nil, "", err
	}
	id, err := keys.ElementID(key)
	if err != nil {
		return nil, "", err
	}

	k := make([]byte, 0, 1+keys.ModelIDSize+keys.ElementIDSize)
	k = append(k, elementPrefix)
	k = append(k, model...)
	k = append(k, id...)
	return k, keys.EncodeKey(id), nil
}

func modelPrefix(modelID string) ([]byte, error) {
	model, err := keys.ModelIDBytes(modelID)
	if err != nil {
		return nil, err
	}
	return append([]byte{elementPrefix}, model...), nil
}

// PutElement stores an element under a model. The element key and level ref
// may be short or full keys; both are stored and returned as short keys.
func (c *Catalog) PutElement(modelID string, e structure.Element) (structure.Element, error) {
	k, short, err := elementKey(modelID, e.Key)
	if err != nil {
		return structure.Element{}, err
	}
	e.Key = short

	if e.Level != "" {
		if e.Level, err = structure.ShortKey(e.Level); err != nil {
			return structure.Element{}, errors.Wrapf(err, "element %s level", short)
		}
	}

	data, err := json.Marshal(e)
	if err != nil {
		return structure.Element{}, errors.Wrap(err, "encode element")
	}
	if err := c.db.Set(k, data, pebble.Sync); err != nil {
		return structure.Element{}, errors.Wrapf(err, "put element %s", short)
	}
	return e, nil
}

// GetElement returns the element stored under a model.
func (c *Catalog) GetElement(modelID, key string) (structure.Element, error) {
	k, short, err := elementKey(modelID, key)
	if err != nil {
		return structure.Element{}, err
	}

	var e structure.Element
	if err := c.get(k, &e); err != nil {
		return structure.Element{}, errors.Wrapf(err, "element %s", short)
	}
	return e, nil
}

// ListElements returns every element of a model in key order.
func (c *Catalog) ListElements(modelID string) ([]structure.Element, error) {
	return c.listElements(context.Background(), modelID, nil)
}

// DeleteElement removes an element. Deleting a missing element returns
// ErrNotFound.
func (c *Catalog) DeleteElement(modelID, key string) error {
	k, short, err := elementKey(modelID, key)
	if err != nil {
		return err
	}
	if err := c.get(k, nil); err != nil {
		return errors.Wrapf(err, "element %s", short)
	}
	return c.db.Delete(k, pebble.Sync)
}

// Assets returns the assets of a model.
func (c *Catalog) Assets(ctx context.Context, modelURN string) ([]structure.Element, error) {
	return c.listElements(ctx, modelURN, structure.Element.IsAsset)
}

// Levels returns the levels of a model.
func (c *Catalog) Levels(ctx context.Context, modelURN string) ([]structure.Element, error) {
	return c.listElements(ctx, modelURN, structure.Element.IsLevel)
}

// Rooms returns the rooms of a model. With a non-empty levelKey only rooms
// on that level are returned.
func (c *Catalog) Rooms(ctx context.Context, modelURN, levelKey string) ([]structure.Element, error) {
	keep := structure.Element.IsRoom
	if levelKey != "" {
		level, err := structure.ShortKey(levelKey)
		if err != nil {
			return nil, err
		}
		keep = func(e structure.Element) bool {
			return e.IsRoom() && e.Level == level
		}
	}
	return c.listElements(ctx, modelURN, keep)
}

// Elements returns the elements of a model with the given keys, skipping
// keys that have no record.
func (c *Catalog) Elements(ctx context.Context, modelURN string, lookup []string) ([]structure.Element, error) {
	out := make([]structure.Element, 0, len(lookup))
	for _, key := range lookup {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := c.GetElement(modelURN, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Catalog) listElements(ctx context.Context, modelID string, keep func(structure.Element) bool) ([]structure.Element, error) {
	prefix, err := modelPrefix(modelID)
	if err != nil {
		return nil, err
	}

	var out []structure.Element
	err = c.scan(ctx, prefix, func(_, value []byte) error {
		var e structure.Element
		if err := json.Unmarshal(value, &e); err != nil {
			return errors.Wrap(err, "decode element")
		}
		if keep == nil || keep(e) {
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

// SaveSnapshot stores a structure snapshot and returns its id. Ids sort by
// creation time.
func (c *Catalog) SaveSnapshot(snap structure.Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", errors.Wrap(err, "encode snapshot")
	}

	id := ksuid.New()
	if err := c.db.Set(snapshotKey(id), data, pebble.Sync); err != nil {
		return "", errors.Wrapf(err, "save snapshot %s", id)
	}
	return id.String(), nil
}

// LoadSnapshot returns the snapshot with the given id.
func (c *Catalog) LoadSnapshot(id string) (structure.Snapshot, error) {
	parsed, err := ksuid.Parse(id)
	if err != nil {
		return structure.Snapshot{}, errors.Mark(errors.Wrapf(err, "snapshot id %q", id), keys.ErrMalformedKey)
	}

	var snap structure.Snapshot
	if err := c.get(snapshotKey(parsed), &snap); err != nil {
		return structure.Snapshot{}, errors.Wrapf(err, "snapshot %s", id)
	}
	return snap, nil
}

// ListSnapshots describes every stored snapshot, oldest first.
func (c *Catalog) ListSnapshots() ([]SnapshotInfo, error) {
	var out []SnapshotInfo
	err := c.scan(context.Background(), []byte{snapshotPrefix}, func(key, value []byte) error {
		id, err := ksuid.FromBytes(key[1:])
		if err != nil {
			return errors.Wrap(err, "snapshot key")
		}
		var snap structure.Snapshot
		if err := json.Unmarshal(value, &snap); err != nil {
			return errors.Wrapf(err, "decode snapshot %s", id)
		}
		out = append(out, SnapshotInfo{
			ID:          id.String(),
			FacilityURN: snap.FacilityURN,
			CreatedAt:   id.Time(),
			Levels:      len(snap.Levels),
			Rooms:       len(snap.Rooms),
			Assets:      len(snap.Assets),
		})
		return nil
	})
	return out, err
}

// Stats counts the models, elements and snapshots in the catalog.
func (c *Catalog) Stats() (Stats, error) {
	var stats Stats
	var lastModel []byte

	err := c.scan(context.Background(), nil, func(key, _ []byte) error {
		switch key[0] {
		case elementPrefix:
			stats.Elements++
			model := key[1 : 1+keys.ModelIDSize]
			if !slices.Equal(model, lastModel) {
				stats.Models++
				lastModel = slices.Clone(model)
			}
		case snapshotPrefix:
			stats.Snapshots++
		}
		return nil
	})
	return stats, err
}

func snapshotKey(id ksuid.KSUID) []byte {
	return append([]byte{snapshotPrefix}, id.Bytes()...)
}

// get reads key into v. A nil v only checks for existence.
func (c *Catalog) get(key []byte, v any) error {
	data, closer, err := c.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	defer closer.Close()

	if v == nil {
		return nil
	}
	return json.Unmarshal(data, v)
}

// scan calls fn for every key with the prefix, in key order. A nil prefix
// scans the whole database.
func (c *Catalog) scan(ctx context.Context, prefix []byte, fn func(key, value []byte) error) (err error) {
	opts := &pebble.IterOptions{}
	if prefix != nil {
		opts.LowerBound = prefix
		opts.UpperBound = prefixUpperBound(prefix)
	}

	iter, err := c.db.NewIterWithContext(ctx, opts)
	if err != nil {
		return err
	}
	defer closeWith(iter, &err)

	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func prefixUpperBound(prefix []byte) []byte {
	end := slices.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func closeWith(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
