// internal/workers/takes/generate-take/models.go
package generatetake

import "github.com/xeipuuv/gojsonschema"

// Input is the job's variables. Extra strings join the candidate pools.
type Input struct {
	Extra []string `json:"extra,omitempty"`
}

// Output becomes the completed job's variables. Images is always a list so
// process expressions can test its size.
type Output struct {
	Take   string   `json:"take"`
	Images []string `json:"images"`
}

func (o *Output) Variables() map[string]interface{} {
	return map[string]interface{}{
		"take":   o.Take,
		"images": o.Images,
	}
}

var inputSchema = gojsonschema.NewGoLoader(map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"extra": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	},
})
