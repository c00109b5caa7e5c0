package stateful

// Collection names served by the store. The set is fixed for the process
// lifetime.
const (
	Companies = "companies"
	Cities    = "cities"
	Tags      = "tags"
	Jobs      = "jobs"
	CVs       = "cvs"
)

// CollectionNames lists every collection in mount order.
var CollectionNames = []string{Companies, Cities, Tags, Jobs, CVs}

// StateOverview provides information about all collections.
type StateOverview struct {
	// Collections is the number of collections
	Collections int `json:"collections"`
	// TotalItems is the total items across all collections
	TotalItems int `json:"totalItems"`
	// Items maps collection name to its current length
	Items map[string]int `json:"items"`
	// Source names the seed source
	Source string `json:"source"`
}
