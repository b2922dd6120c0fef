// Package structure assembles the level, room and asset hierarchy of a
// facility from element records and their packed reference columns.
package structure

import (
	"github.com/ssargent/twinkeys/pkg/keys"
)

// Element is the subset of an element record needed to place it in the
// facility hierarchy. Reference fields hold packed key text as stored by the
// data service.
type Element struct {
	Key       string            `json:"key"`
	Name      string            `json:"name"`
	Flags     keys.ElementFlags `json:"flags"`
	Elevation *float64          `json:"elevation,omitempty"` // levels only
	Level     string            `json:"level,omitempty"`     // short key of the level, same model
	Rooms     string            `json:"rooms,omitempty"`     // short key array, same model
	XRooms    string            `json:"xrooms,omitempty"`    // xref key array, other models
	Parent    string            `json:"parent,omitempty"`    // xref key of the host element
}

// IsAsset reports whether e is a plain element that may sit in a room.
func (e Element) IsAsset() bool {
	return e.Flags == keys.ElementFlagsSimpleElement
}

// IsLevel reports whether e is a level.
func (e Element) IsLevel() bool {
	return e.Flags == keys.ElementFlagsLevel
}

// IsRoom reports whether e is a room.
func (e Element) IsRoom() bool {
	return e.Flags == keys.ElementFlagsRoom
}

// ShortKey returns the short key of a short or full element key.
func ShortKey(key string) (string, error) {
	id, err := keys.ElementID(key)
	if err != nil {
		return "", err
	}
	return keys.EncodeKey(id), nil
}

// Ref points at an element in a specific model.
type Ref struct {
	ModelURN string `json:"model_urn"`
	Key      string `json:"key"`
}

// RefGroup is a batch of element keys to resolve from one model.
type RefGroup struct {
	ModelURN string   `json:"model_urn"`
	Keys     []string `json:"keys"`
}
