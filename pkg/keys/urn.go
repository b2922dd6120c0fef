package keys

import "strings"

// URN prefixes used by the facility data service
const (
	FacilityURNPrefix = "urn:adsk.dtt:"
	ModelURNPrefix    = "urn:adsk.dtm:"
)

// ModelURN returns the model URN for a bare model id. Ids that already
// carry the prefix are returned unchanged.
func ModelURN(modelID string) string {
	if strings.HasPrefix(modelID, ModelURNPrefix) {
		return modelID
	}
	return ModelURNPrefix + modelID
}

// ModelIDFromURN strips the model URN prefix.
func ModelIDFromURN(urn string) string {
	return strings.TrimPrefix(urn, ModelURNPrefix)
}

// DefaultModelURN returns the URN of a facility's default model, which shares
// the facility id.
func DefaultModelURN(facilityURN string) string {
	return strings.ReplaceAll(facilityURN, FacilityURNPrefix, ModelURNPrefix)
}

// IsDefaultModel reports whether modelURN is the default model of the facility.
func IsDefaultModel(facilityURN, modelURN string) bool {
	return DefaultModelURN(facilityURN) == modelURN
}
