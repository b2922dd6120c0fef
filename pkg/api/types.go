package api

import (
	"github.com/ssargent/twinkeys/pkg/keys"
	"github.com/ssargent/twinkeys/pkg/structure"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
	Keys   keys.ArrayOptions // defaults for array decoding requests
}

// KeyRequest carries a single key
type KeyRequest struct {
	Key     string `json:"key"`
	Logical bool   `json:"logical,omitempty"`
}

// KeyResponse carries a single converted key
type KeyResponse struct {
	Key string `json:"key"`
}

// GUIDResponse carries a rendered unique id
type GUIDResponse struct {
	GUID string `json:"guid"`
}

// SystemIDResponse carries a system id and its integer value
type SystemIDResponse struct {
	SystemID string `json:"system_id"`
	Value    uint32 `json:"value"`
}

// XrefRequest carries the parts of an xref key
type XrefRequest struct {
	ModelID    string `json:"model_id"`
	ElementKey string `json:"element_key"`
}

// ArrayRequest carries packed key array text. Unset options fall back to
// the server defaults.
type ArrayRequest struct {
	Text     string `json:"text"`
	FullKeys *bool  `json:"full_keys,omitempty"`
	Logical  *bool  `json:"logical,omitempty"`
	Strict   *bool  `json:"strict,omitempty"`
}

// KeysResponse carries decoded short or full keys
type KeysResponse struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// XrefsResponse carries decoded xrefs
type XrefsResponse struct {
	Xrefs []keys.Xref `json:"xrefs"`
	Count int         `json:"count"`
}

// StructureRequest asks for the structure of a facility built from catalog
// contents
type StructureRequest struct {
	FacilityURN string   `json:"facility_urn"`
	Models      []string `json:"models"`
	Save        bool     `json:"save,omitempty"`
}

// StructureResponse carries a built structure
type StructureResponse struct {
	SnapshotID string             `json:"snapshot_id,omitempty"`
	Tree       string             `json:"tree"`
	Snapshot   structure.Snapshot `json:"snapshot"`
}

// StreamsRequest asks for the hosts of stream elements stored in a model
type StreamsRequest struct {
	ModelID string `json:"model_id"`
}
