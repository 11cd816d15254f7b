package domain

// OutpostNode identifies one independently addressable outpost.
// Nodes never share mutable state with each other.
type OutpostNode struct {
	// Name is the outpost identity (e.g., "fishing_fort").
	Name string `json:"name"`

	// BaseURL is the network address of the outpost API.
	BaseURL string `json:"base_url"`
}

// NodeStatus is the wire shape of an outpost's /status response.
type NodeStatus struct {
	Fort        string `json:"fort"`
	Online      bool   `json:"online"`
	RecordCount int    `json:"record_count"`
	Version     string `json:"version"`
}
