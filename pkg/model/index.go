package model

// Index accumulates add/delete intents between commits. id is "" for the
// main index; repositories may keep additional named indexes side by side.
type Index struct {
	ID             string              `json:"id"`
	AddRelPaths    map[string]struct{} `json:"addRelPaths"`
	DeleteRelPaths map[string]struct{} `json:"deleteRelPaths"`
	ProcessedMap   map[string]FileInfo `json:"processedMap"`
	Valid          bool                `json:"valid"`
}

// NewIndex returns an empty, valid index with the given id.
func NewIndex(id string) *Index {
	return &Index{
		ID:             id,
		AddRelPaths:    map[string]struct{}{},
		DeleteRelPaths: map[string]struct{}{},
		ProcessedMap:   map[string]FileInfo{},
		Valid:          true,
	}
}
