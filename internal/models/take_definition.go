// internal/models/take_definition.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MaxImages is the most images a single post can carry.
const MaxImages = 4

// TakeDefinition is a take template. In the data file it is either a bare
// template string or {"take": "...", "image": "a.png" | ["a.png", ...]}.
type TakeDefinition struct {
	Take   string
	Images []string // nil when the template has no images of its own
}

// Template builds a TakeDefinition; Images stays nil when none are given.
func Template(take string, images ...string) TakeDefinition {
	if len(images) == 0 {
		return TakeDefinition{Take: take}
	}
	return TakeDefinition{Take: take, Images: images}
}

type takeDefinitionObject struct {
	Take  string          `json:"take"`
	Image json.RawMessage `json:"image,omitempty"`
}

func (d *TakeDefinition) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Template(s)
		return nil
	}

	var obj takeDefinitionObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("take must be a string or {take, image} object: %w", err)
	}

	images, err := decodeImageField(obj.Image)
	if err != nil {
		return err
	}
	*d = Template(obj.Take, images...)
	return nil
}

// decodeImageField accepts a single filename, a list of filenames, or nothing.
func decodeImageField(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		return []string{single}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("image must be a filename or a list of filenames: %w", err)
	}
	if len(list) > MaxImages {
		return nil, fmt.Errorf("image list has %d entries, at most %d allowed", len(list), MaxImages)
	}
	return list, nil
}

func (d TakeDefinition) MarshalJSON() ([]byte, error) {
	switch len(d.Images) {
	case 0:
		return json.Marshal(d.Take)
	case 1:
		return json.Marshal(struct {
			Take  string `json:"take"`
			Image string `json:"image"`
		}{d.Take, d.Images[0]})
	default:
		return json.Marshal(struct {
			Take  string   `json:"take"`
			Image []string `json:"image"`
		}{d.Take, d.Images})
	}
}
