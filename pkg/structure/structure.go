package structure

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Structure is an immutable level -> room -> asset hierarchy.
type Structure struct {
	facilityURN string

	levels []Element
	rooms  []Element
	assets map[string]Element
	order  []string // asset keys in insertion order

	roomAssets map[string][]string
	roomLevel  map[string]string
}

// Snapshot is the serialized form of a Structure.
type Snapshot struct {
	FacilityURN string              `json:"facility_urn"`
	Levels      []Element           `json:"levels"`
	Rooms       []Element           `json:"rooms"`
	Assets      []Element           `json:"assets"`
	RoomAssets  map[string][]string `json:"room_assets_map"`
	RoomLevel   map[string]string   `json:"room_level_map"`
}

func newStructure(facilityURN string, levels, rooms, assets []Element, roomAssets map[string][]string, roomLevel map[string]string) *Structure {
	s := &Structure{
		facilityURN: facilityURN,
		levels:      levels,
		rooms:       rooms,
		assets:      make(map[string]Element, len(assets)),
		roomAssets:  roomAssets,
		roomLevel:   roomLevel,
	}
	for _, asset := range assets {
		if _, ok := s.assets[asset.Key]; !ok {
			s.order = append(s.order, asset.Key)
		}
		s.assets[asset.Key] = asset
	}
	if s.roomAssets == nil {
		s.roomAssets = make(map[string][]string)
	}
	if s.roomLevel == nil {
		s.roomLevel = make(map[string]string)
	}
	return s
}

// FromSnapshot rebuilds a structure from its serialized form.
func FromSnapshot(snap Snapshot) *Structure {
	roomAssets := make(map[string][]string, len(snap.RoomAssets))
	for room, assets := range snap.RoomAssets {
		roomAssets[room] = slices.Clone(assets)
	}
	return newStructure(
		snap.FacilityURN,
		slices.Clone(snap.Levels),
		slices.Clone(snap.Rooms),
		snap.Assets,
		roomAssets,
		maps.Clone(snap.RoomLevel),
	)
}

// FacilityURN returns the facility the structure was built for.
func (s *Structure) FacilityURN() string {
	return s.facilityURN
}

// Levels returns the resolved levels.
func (s *Structure) Levels() []Element {
	return slices.Clone(s.levels)
}

// Rooms returns every resolved room, placed on a level or not.
func (s *Structure) Rooms() []Element {
	return slices.Clone(s.rooms)
}

// Assets returns every recorded asset.
func (s *Structure) Assets() []Element {
	out := make([]Element, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.assets[key])
	}
	return out
}

// RoomsByLevel returns the rooms placed on the level.
func (s *Structure) RoomsByLevel(levelKey string) []Element {
	var out []Element
	for _, room := range s.rooms {
		if level, ok := s.roomLevel[room.Key]; ok && level == levelKey {
			out = append(out, room)
		}
	}
	return out
}

// AssetsByRoom returns the assets that reference the room. Assets that were
// referenced but never recorded are returned with only their key set.
func (s *Structure) AssetsByRoom(roomKey string) []Element {
	keys := s.roomAssets[roomKey]
	out := make([]Element, 0, len(keys))
	for _, key := range keys {
		asset, ok := s.assets[key]
		if !ok {
			asset = Element{Key: key}
		}
		out = append(out, asset)
	}
	return out
}

// WriteTree writes one line per level, room and asset, indented by depth.
func (s *Structure) WriteTree(w io.Writer) error {
	for _, level := range s.levels {
		if _, err := fmt.Fprintln(w, displayName(level)); err != nil {
			return err
		}
		for _, room := range s.RoomsByLevel(level.Key) {
			if _, err := fmt.Fprintf(w, "  %s\n", displayName(room)); err != nil {
				return err
			}
			for _, asset := range s.AssetsByRoom(room.Key) {
				if _, err := fmt.Fprintf(w, "    %s\n", displayName(asset)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Tree returns the output of WriteTree as a string.
func (s *Structure) Tree() string {
	var sb strings.Builder
	_ = s.WriteTree(&sb)
	return sb.String()
}

// Snapshot returns a copy of the structure in serializable form.
func (s *Structure) Snapshot() Snapshot {
	roomAssets := make(map[string][]string, len(s.roomAssets))
	for room, assets := range s.roomAssets {
		roomAssets[room] = slices.Clone(assets)
	}
	return Snapshot{
		FacilityURN: s.facilityURN,
		Levels:      s.Levels(),
		Rooms:       s.Rooms(),
		Assets:      s.Assets(),
		RoomAssets:  roomAssets,
		RoomLevel:   maps.Clone(s.roomLevel),
	}
}

func displayName(e Element) string {
	if e.Name != "" {
		return e.Name
	}
	return e.Key
}
