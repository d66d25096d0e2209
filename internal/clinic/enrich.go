package clinic

import "encoding/json"

// Placeholders for unresolved references. A required reference that points
// at nothing resolves to Unknown; an optional reference that was never set
// resolves to NA. Neither case is an error.
const (
	PlaceholderUnknown = "Unknown"
	PlaceholderNA      = "N/A"
)

// NameIndex is the in-memory join table: record id to display name. It
// stands in for the server-side join the API does not provide.
type NameIndex map[int64]string

// ResolveRequired looks up a reference that must exist.
func (ix NameIndex) ResolveRequired(id int64) string {
	if name, ok := ix[id]; ok {
		return name
	}
	return PlaceholderUnknown
}

// Resolve looks up an optional reference: nil or zero means "not set".
func (ix NameIndex) Resolve(id *int64) string {
	if id == nil || *id == 0 {
		return PlaceholderNA
	}
	if name, ok := ix[*id]; ok {
		return name
	}
	return PlaceholderUnknown
}

// References are the auxiliary collections of one fetch cycle, reduced to
// what enrichment needs.
type References struct {
	Patients      NameIndex
	Professionals NameIndex
	Procedures    NameIndex
}

// namedDTO is the minimal shape shared by every referenced collection.
type namedDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BuildIndex reduces a raw collection body to a NameIndex. Extra fields in
// the payload are ignored.
func BuildIndex(raw []byte) (NameIndex, error) {
	var dtos []namedDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, err
	}
	ix := make(NameIndex, len(dtos))
	for _, d := range dtos {
		ix[d.ID] = d.Name
	}
	return ix, nil
}

// BuildReferences assembles the References for one fetch cycle from the raw
// auxiliary bodies keyed by collection name.
func BuildReferences(aux map[string][]byte) (References, error) {
	var refs References
	var err error
	if raw, ok := aux["patients"]; ok {
		if refs.Patients, err = BuildIndex(raw); err != nil {
			return References{}, err
		}
	}
	if raw, ok := aux["professionals"]; ok {
		if refs.Professionals, err = BuildIndex(raw); err != nil {
			return References{}, err
		}
	}
	if raw, ok := aux["procedures"]; ok {
		if refs.Procedures, err = BuildIndex(raw); err != nil {
			return References{}, err
		}
	}
	return refs, nil
}
