// pkg/api/structure_v1.go
package api

// StructureV1 is the stable JSON schema for one predicted structure.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type StructureV1 struct {
	Name       string   `json:"name"`
	SourceFile string   `json:"source_file,omitempty"`
	Length     int      `json:"length"`
	Sequence   string   `json:"sequence"`
	Partners   []int    `json:"partners"` // 1-based, 0 = unpaired (as in .ct)
	Pairs      []PairV1 `json:"pairs"`
	Asymmetric []int    `json:"asymmetric,omitempty"` // 1-based positions
}

// PairV1 is one mutual base pair, 1-based, I < J.
type PairV1 struct {
	I     int     `json:"i"`
	J     int     `json:"j"`
	Score float32 `json:"score,omitempty"`
}

// SummaryV1 is the per-file run summary row.
type SummaryV1 struct {
	RunID        string `json:"run_id"`
	File         string `json:"file"`
	Output       string `json:"output"`
	Length       int    `json:"length"`
	Candidates1D int    `json:"candidates_1d"`
	Candidates2D int    `json:"candidates_2d"`
	Pairs        int    `json:"pairs"`
	Asymmetric   int    `json:"asymmetric"`
}
