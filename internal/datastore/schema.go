package datastore

import (
	"encoding/json"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/bristermitten/hot-takes/internal/models"
)

const draft07 = "http://json-schema.org/draft-07/schema#"

func ref(name string) map[string]interface{} {
	return map[string]interface{}{"$ref": "#/definitions/" + name}
}

func arrayOf(title, description string, items map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"description": description,
		"type":        "array",
		"items":       items,
	}
}

// Schema returns the JSON Schema of the hot take data file. A fresh document is
// built on every call so callers may modify it.
func Schema() map[string]interface{} {
	definitions := map[string]interface{}{
		"TakeItemValue": map[string]interface{}{
			"title":       "Value",
			"description": "The text value of the take item, which will be used when replacing placeholders.",
			"type":        "string",
			"minLength":   1,
		},
		"ImageFilename": map[string]interface{}{
			"title":       "Image Filename",
			"description": "The filename of the image associated with this item.",
			"type":        "string",
			"minLength":   1,
		},
		"TakeItem": map[string]interface{}{
			"title":       "Take Item",
			"description": "A take item which can be either a text value or an object with a value and an image.",
			"oneOf": []interface{}{
				ref("TakeItemValue"),
				map[string]interface{}{
					"title":       "Take Item Object",
					"description": "An object that contains a text value and an image filename.",
					"type":        "object",
					"properties": map[string]interface{}{
						"value": ref("TakeItemValue"),
						"image": ref("ImageFilename"),
					},
					"required": []interface{}{"value", "image"},
				},
			},
		},
		"Take": map[string]interface{}{
			"title":       "Take",
			"description": "The take template string, which may contain placeholders.",
			"type":        "string",
		},
		"TakeDefinition": map[string]interface{}{
			"title":       "Take Definition",
			"description": "A take definition which can be either a text template string or an object with a take and optional images.",
			"oneOf": []interface{}{
				ref("Take"),
				map[string]interface{}{
					"title":       "Take Definition Object",
					"description": "An object that contains a take template string and an optional image or images.",
					"type":        "object",
					"properties": map[string]interface{}{
						"take": ref("Take"),
						"image": map[string]interface{}{
							"title":       "Image or Images",
							"description": "An optional image filename or an array of image filenames associated with this take.",
							"oneOf": []interface{}{
								ref("ImageFilename"),
								map[string]interface{}{
									"type":     "array",
									"items":    ref("ImageFilename"),
									"minItems": 1,
									"maxItems": models.MaxImages,
								},
							},
						},
					},
					"required": []interface{}{"take"},
				},
			},
		},
	}

	return map[string]interface{}{
		"$schema":     draft07,
		"title":       "Hot Take Data",
		"description": "The complete data structure containing all possible take items and templates for generating hot takes.",
		"type":        "object",
		"properties": map[string]interface{}{
			"people":       arrayOf("People", "A list of influential people in the tech industry.", ref("TakeItem")),
			"companies":    arrayOf("Companies", "A list of tech companies.", ref("TakeItem")),
			"languages":    arrayOf("Programming Languages", "A list of programming languages.", ref("TakeItem")),
			"technologies": arrayOf("Technologies", "A list of technologies, frameworks, and technical concepts", ref("TakeItem")),
			"problems":     arrayOf("Problems", "A list of common problems in software development.", map[string]interface{}{"type": "string"}),
			"tlds":         arrayOf("Top-Level Domains", "A list of top-level domains.", map[string]interface{}{"type": "string"}),
			"takes":        arrayOf("Takes", "A list of hot take templates.", ref("TakeDefinition")),
		},
		"required": []interface{}{
			"people", "companies", "languages", "technologies", "problems", "tlds", "takes",
		},
		"definitions": definitions,
	}
}

// SchemaJSON renders Schema() with four-space indentation, the layout editors
// get when the schema file is exported.
func SchemaJSON() ([]byte, error) {
	out, err := json.MarshalIndent(Schema(), "", "    ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

var (
	compiledOnce   sync.Once
	compiledSchema *gojsonschema.Schema
	compileErr     error
)

func compiled() (*gojsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(Schema()))
	})
	return compiledSchema, compileErr
}
