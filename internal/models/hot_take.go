// internal/models/hot_take.go
package models

import "path/filepath"

// HotTakeData is the whole data file: the word categories and the take templates.
type HotTakeData struct {
	People       []TakeItem       `json:"people"`
	Companies    []TakeItem       `json:"companies"`
	Languages    []TakeItem       `json:"languages"`
	Technologies []TakeItem       `json:"technologies"`
	Problems     []string         `json:"problems"`
	TLDs         []string         `json:"tlds"`
	Takes        []TakeDefinition `json:"takes"`
}

// Empty returns data with every collection present and empty.
func Empty() *HotTakeData {
	return &HotTakeData{
		People:       []TakeItem{},
		Companies:    []TakeItem{},
		Languages:    []TakeItem{},
		Technologies: []TakeItem{},
		Problems:     []string{},
		TLDs:         []string{},
		Takes:        []TakeDefinition{},
	}
}

// HotTakeResult is a generated take. Images is nil when nothing contributed an
// image, otherwise it holds 1 to MaxImages references.
type HotTakeResult struct {
	Take   string   `json:"take"`
	Images []string `json:"images,omitempty"`
}

// HasImages reports whether the take carries at least one image.
func (r *HotTakeResult) HasImages() bool {
	return len(r.Images) > 0
}

// ImageFiles returns the base filename of every image reference. Media lookup
// only cares about this part; the references themselves are passed through as-is.
func (r *HotTakeResult) ImageFiles() []string {
	if len(r.Images) == 0 {
		return nil
	}
	files := make([]string, len(r.Images))
	for i, img := range r.Images {
		files[i] = filepath.Base(img)
	}
	return files
}

// CollectionNames lists the data file's collections in file order.
var CollectionNames = []string{"people", "companies", "languages", "technologies", "problems", "tlds", "takes"}

// Counts reports the number of entries in each collection, keyed by the names in
// CollectionNames.
func (d *HotTakeData) Counts() map[string]int {
	return map[string]int{
		"people":       len(d.People),
		"companies":    len(d.Companies),
		"languages":    len(d.Languages),
		"technologies": len(d.Technologies),
		"problems":     len(d.Problems),
		"tlds":         len(d.TLDs),
		"takes":        len(d.Takes),
	}
}
