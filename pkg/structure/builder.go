package structure

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/twinkeys/pkg/keys"
)

// Builder accumulates assets, rooms and levels for one facility. Callers
// add assets first, resolve RoomRefs, add the rooms, resolve LevelRefs and
// add the levels, then call Build.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	facilityURN string

	assets elementList
	rooms  elementList
	levels elementList

	roomAssets map[string][]string
	roomLevel  map[string]string

	roomRefs  refSet
	levelRefs refSet
}

// NewBuilder returns an empty builder for the facility.
func NewBuilder(facilityURN string) *Builder {
	return &Builder{
		facilityURN: facilityURN,
		assets:      newElementList(),
		rooms:       newElementList(),
		levels:      newElementList(),
		roomAssets:  make(map[string][]string),
		roomLevel:   make(map[string]string),
		roomRefs:    newRefSet(),
		levelRefs:   newRefSet(),
	}
}

// AddAssets records the assets of a model and the rooms they reference.
// Assets of the facility's default model are ignored. Same-model room refs
// take precedence over cross-model refs when an asset carries both.
func (b *Builder) AddAssets(modelURN string, assets []Element) error {
	if keys.IsDefaultModel(b.facilityURN, modelURN) {
		return nil
	}

	for _, asset := range assets {
		refs, err := assetRooms(modelURN, asset)
		if err != nil {
			return errors.Wrapf(err, "asset %s", asset.Key)
		}

		b.assets.put(asset)
		for _, ref := range refs {
			if !slices.Contains(b.roomAssets[ref.Key], asset.Key) {
				b.roomAssets[ref.Key] = append(b.roomAssets[ref.Key], asset.Key)
			}
			b.roomRefs.add(ref)
		}
	}
	return nil
}

func assetRooms(modelURN string, asset Element) ([]Ref, error) {
	var refs []Ref

	if asset.Rooms != "" {
		seq, err := keys.DecodeShortKeyArray(asset.Rooms, keys.ArrayOptions{})
		if err != nil {
			return nil, errors.Wrap(err, "room refs")
		}
		for key := range seq {
			refs = append(refs, Ref{ModelURN: modelURN, Key: key})
		}
		return refs, nil
	}

	seq, err := keys.DecodeXrefKeyArray(asset.XRooms, keys.ArrayOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "room xrefs")
	}
	for xref := range seq {
		key, err := keys.ToShortKey(xref.ElementKey)
		if err != nil {
			return nil, errors.Wrap(err, "room xrefs")
		}
		refs = append(refs, Ref{ModelURN: keys.ModelURN(xref.ModelID), Key: key})
	}
	return refs, nil
}

// RoomRefs returns the rooms referenced by the assets added so far, grouped
// by model.
func (b *Builder) RoomRefs() []RefGroup {
	return b.roomRefs.groups()
}

// AddRooms records rooms read from a model and the levels they sit on. A
// level ref given as a full key is recorded as its short key.
func (b *Builder) AddRooms(modelURN string, rooms []Element) error {
	for _, room := range rooms {
		if room.Level != "" {
			level, err := ShortKey(room.Level)
			if err != nil {
				return errors.Wrapf(err, "room %s level", room.Key)
			}
			room.Level = level
		}

		b.rooms.put(room)
		if room.Level == "" {
			continue
		}
		b.roomLevel[room.Key] = room.Level
		b.levelRefs.add(Ref{ModelURN: modelURN, Key: room.Level})
	}
	return nil
}

// LevelRefs returns the levels referenced by the rooms added so far, grouped
// by model.
func (b *Builder) LevelRefs() []RefGroup {
	return b.levelRefs.groups()
}

// AddLevels records levels read from a model.
func (b *Builder) AddLevels(_ string, levels []Element) {
	for _, level := range levels {
		b.levels.put(level)
	}
}

// Build returns the structure collected so far. Later changes to the builder
// do not affect it.
func (b *Builder) Build() *Structure {
	roomAssets := make(map[string][]string, len(b.roomAssets))
	for room, assets := range b.roomAssets {
		roomAssets[room] = slices.Clone(assets)
	}
	roomLevel := make(map[string]string, len(b.roomLevel))
	for room, level := range b.roomLevel {
		roomLevel[room] = level
	}

	return newStructure(b.facilityURN, b.levels.all(), b.rooms.all(), b.assets.all(), roomAssets, roomLevel)
}
