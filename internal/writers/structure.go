// internal/writers/structure.go
package writers

import (
	"io"
	"path/filepath"

	"deepfold-core/ct"

	"deepfold/internal/jsonutil"
	"deepfold/internal/pipeline"
	"deepfold/internal/scan"
	"deepfold/pkg/api"
)

// Structure is the presentation view of one folded sequence.
type Structure struct {
	Name       string // header title and output file name
	Source     string
	Seq        []byte
	Partners   []int // 0-based, -1 unpaired
	Pairs      [][2]int
	Scores     map[[2]int]float32
	Asymmetric []int
}

func init() {
	RegisterStructure("ct", "", func(w io.Writer, s Structure) error {
		return ct.Write(w, s.Name, s.Seq, s.Partners)
	})
	RegisterStructure("json", ".json", func(w io.Writer, s Structure) error {
		return jsonutil.EncodePretty(w, ToAPIStructure(s))
	})
}

// FromOutcome builds the Structure for a pipeline outcome. The name is the
// input file's base name, as the reference tool does.
func FromOutcome(o pipeline.Outcome) Structure {
	r := o.Result
	scores := make(map[[2]int]float32, len(r.Pairs))
	for k, p := range r.Pairs {
		if k < len(r.Scores) {
			scores[[2]int{p.I, p.J}] = r.Scores[k]
		}
	}
	return Structure{
		Name:       filepath.Base(o.Path),
		Source:     o.Path,
		Seq:        r.Seq,
		Partners:   r.Map.Partners(),
		Pairs:      r.Map.Pairs(),
		Scores:     scores,
		Asymmetric: r.Map.Asymmetric(),
	}
}

// OutputName is the file name a structure is written under.
func OutputName(format string, s Structure) string {
	ext := structureExt[format]
	if ext == "" {
		return s.Name
	}
	return scan.Stem(s.Name) + ext
}

// ToAPIStructure converts to the v1 wire type (1-based positions).
func ToAPIStructure(s Structure) api.StructureV1 {
	out := api.StructureV1{
		Name:       s.Name,
		SourceFile: s.Source,
		Length:     len(s.Seq),
		Sequence:   string(s.Seq),
		Partners:   make([]int, len(s.Partners)),
		Pairs:      make([]api.PairV1, 0, len(s.Pairs)),
	}
	for i, p := range s.Partners {
		out.Partners[i] = p + 1
	}
	for _, p := range s.Pairs {
		out.Pairs = append(out.Pairs, api.PairV1{I: p[0] + 1, J: p[1] + 1, Score: s.Scores[p]})
	}
	for _, i := range s.Asymmetric {
		out.Asymmetric = append(out.Asymmetric, i+1)
	}
	return out
}
