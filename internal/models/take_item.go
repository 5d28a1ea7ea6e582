// internal/models/take_item.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TakeItem is one entry of a word category. In the data file it is either a bare
// string or an object {"value": "...", "image": "..."}.
type TakeItem struct {
	Value string
	Image string // empty for the bare-string form
}

// Bare returns a TakeItem with no image.
func Bare(value string) TakeItem {
	return TakeItem{Value: value}
}

// WithImage returns a TakeItem carrying a single image reference.
func WithImage(value, image string) TakeItem {
	return TakeItem{Value: value, Image: image}
}

// BareItems wraps plain strings as image-less items, preserving order.
func BareItems(values []string) []TakeItem {
	items := make([]TakeItem, len(values))
	for i, v := range values {
		items[i] = Bare(v)
	}
	return items
}

// HasImage reports whether the item has an attached image.
func (t TakeItem) HasImage() bool {
	return t.Image != ""
}

// Images returns the item's images in order; nil for bare items.
func (t TakeItem) Images() []string {
	if t.Image == "" {
		return nil
	}
	return []string{t.Image}
}

// MapValue applies f to the display text and keeps the image.
func (t TakeItem) MapValue(f func(string) string) TakeItem {
	return TakeItem{Value: f(t.Value), Image: t.Image}
}

type takeItemObject struct {
	Value string `json:"value"`
	Image string `json:"image"`
}

func (t *TakeItem) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Bare(s)
		return nil
	}

	var obj takeItemObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("take item must be a string or {value, image} object: %w", err)
	}
	*t = WithImage(obj.Value, obj.Image)
	return nil
}

func (t TakeItem) MarshalJSON() ([]byte, error) {
	if !t.HasImage() {
		return json.Marshal(t.Value)
	}
	return json.Marshal(takeItemObject{Value: t.Value, Image: t.Image})
}
