package structure

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/twinkeys/pkg/keys"
)

// Source reads element records by model.
type Source interface {
	// Assets returns the assets of a model.
	Assets(ctx context.Context, modelURN string) ([]Element, error)
	// Elements returns the elements of a model with the given keys. Keys with
	// no record are left out.
	Elements(ctx context.Context, modelURN string, keys []string) ([]Element, error)
}

// Load builds the structure of a facility from the given models, resolving
// rooms and levels through src.
func Load(ctx context.Context, src Source, facilityURN string, modelURNs []string) (*Structure, error) {
	b := NewBuilder(facilityURN)

	for _, modelURN := range modelURNs {
		if keys.IsDefaultModel(facilityURN, modelURN) {
			continue
		}
		assets, err := src.Assets(ctx, modelURN)
		if err != nil {
			return nil, errors.Wrapf(err, "read assets of %s", modelURN)
		}
		if err := b.AddAssets(modelURN, assets); err != nil {
			return nil, errors.Wrapf(err, "model %s", modelURN)
		}
	}

	for _, group := range b.RoomRefs() {
		rooms, err := src.Elements(ctx, group.ModelURN, group.Keys)
		if err != nil {
			return nil, errors.Wrapf(err, "read rooms of %s", group.ModelURN)
		}
		if err := b.AddRooms(group.ModelURN, rooms); err != nil {
			return nil, errors.Wrapf(err, "model %s", group.ModelURN)
		}
	}

	for _, group := range b.LevelRefs() {
		levels, err := src.Elements(ctx, group.ModelURN, group.Keys)
		if err != nil {
			return nil, errors.Wrapf(err, "read levels of %s", group.ModelURN)
		}
		b.AddLevels(group.ModelURN, levels)
	}

	return b.Build(), nil
}

// HostedStream pairs a stream with the element hosting it.
type HostedStream struct {
	Stream Element `json:"stream"`
	Host   Element `json:"host"`
}

// ResolveHosts looks up the host element of each stream. Streams whose host
// has no record are left out. Results are ordered by host model, then by
// stream order.
func ResolveHosts(ctx context.Context, src Source, streams []Element) ([]HostedStream, error) {
	groups, err := GroupStreamsByHost(streams)
	if err != nil {
		return nil, err
	}

	var out []HostedStream
	for _, group := range groups {
		lookup := make([]string, 0, len(group.Hosts))
		for _, host := range group.Hosts {
			lookup = append(lookup, host.Key)
		}

		elements, err := src.Elements(ctx, group.ModelURN, lookup)
		if err != nil {
			return nil, errors.Wrapf(err, "read hosts of %s", group.ModelURN)
		}
		byKey := make(map[string]Element, len(elements))
		for _, e := range elements {
			byKey[e.Key] = e
		}

		for _, host := range group.Hosts {
			parent, ok := byKey[host.Key]
			if !ok {
				continue
			}
			out = append(out, HostedStream{Stream: streams[host.StreamIndex], Host: parent})
		}
	}
	return out, nil
}
