package structure

import (
	"github.com/cockroachdb/errors"
	"github.com/ssargent/twinkeys/pkg/keys"
)

// StreamHost links a stream, by its index in the input, to the short key of
// the element hosting it.
type StreamHost struct {
	StreamIndex int    `json:"stream_index"`
	Key         string `json:"key"`
}

// HostGroup is the set of stream hosts living in one model.
type HostGroup struct {
	ModelURN string       `json:"model_urn"`
	Hosts    []StreamHost `json:"hosts"`
}

// GroupStreamsByHost decodes each stream's parent xref and groups the hosts
// by model. Streams without a parent are skipped. Groups appear in the order
// their model is first seen; hosts keep stream order.
func GroupStreamsByHost(streams []Element) ([]HostGroup, error) {
	var groups []HostGroup
	index := make(map[string]int)

	for i, stream := range streams {
		if stream.Parent == "" {
			continue
		}

		modelID, elementKey, err := keys.DecodeXrefKey(stream.Parent)
		if err != nil {
			return nil, errors.Wrapf(err, "stream %s", stream.Key)
		}
		key, err := keys.ToShortKey(elementKey)
		if err != nil {
			return nil, errors.Wrapf(err, "stream %s", stream.Key)
		}

		modelURN := keys.ModelURN(modelID)
		g, ok := index[modelURN]
		if !ok {
			g = len(groups)
			index[modelURN] = g
			groups = append(groups, HostGroup{ModelURN: modelURN})
		}
		groups[g].Hosts = append(groups[g].Hosts, StreamHost{StreamIndex: i, Key: key})
	}
	return groups, nil
}
