// Package generator turns take templates into finished hot takes.
package generator

import (
	"fmt"
	"strings"

	"github.com/bristermitten/hot-takes/internal/common/errors"
	"github.com/bristermitten/hot-takes/internal/common/logger"
	"github.com/bristermitten/hot-takes/internal/datastore"
	"github.com/bristermitten/hot-takes/internal/models"
)

// Generator picks templates and resolves their placeholders against the data held
// by a datastore.Provider. It holds no mutable state and is safe for concurrent
// use when its Random is.
type Generator struct {
	store  datastore.Provider
	random Random
	logger logger.Logger
}

// New returns a Generator. A nil random uses NewRandom; a nil log discards output.
func New(store datastore.Provider, random Random, log logger.Logger) *Generator {
	if random == nil {
		random = NewRandom()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Generator{
		store:  store,
		random: random,
		logger: log,
	}
}

// Generate produces one hot take. extra strings join every non-synthetic
// placeholder's candidates for this call only.
func (g *Generator) Generate(extra []string) (*models.HotTakeResult, error) {
	data := g.store.Data()
	if data == nil || len(data.Takes) == 0 {
		return nil, errors.NewEmptyDataError("no take templates loaded")
	}

	definition := data.Takes[g.random.IntN(len(data.Takes))]

	var (
		images []string
		out    strings.Builder
		last   int
	)
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(definition.Take, -1) {
		out.WriteString(definition.Take[last:m[0]])
		token := definition.Take[m[2]:m[3]]

		pool := g.candidates(data, token, extra)
		if len(pool) == 0 {
			return nil, errors.NewEmptyDataError(fmt.Sprintf("no candidates for placeholder {%s}", token))
		}
		choice := pool[g.random.IntN(len(pool))]

		out.WriteString(choice.Value)
		images = append(images, choice.Images()...)
		last = m[1]
	}
	out.WriteString(definition.Take[last:])

	images = append(images, definition.Images...)
	if len(images) > models.MaxImages {
		return nil, errors.NewTooManyImagesError(len(images), models.MaxImages)
	}

	result := &models.HotTakeResult{Take: out.String()}
	if len(images) > 0 {
		result.Images = images
	}

	g.logger.Debug("Generated hot take", map[string]interface{}{
		"template": definition.Take,
		"take":     result.Take,
		"images":   len(images),
	})
	return result, nil
}

// Candidates returns the pool a placeholder token draws from: the concatenated
// categories of its known names, in name order, followed by extra. Synthetic names
// draw a fresh number each call.
func (g *Generator) Candidates(token string, extra []string) []models.TakeItem {
	data := g.store.Data()
	if data == nil {
		data = models.Empty()
	}
	return g.candidates(data, token, extra)
}

func (g *Generator) candidates(data *models.HotTakeData, token string, extra []string) []models.TakeItem {
	var (
		pool      []models.TakeItem
		known     int
		synthetic int
	)
	for _, name := range strings.Split(token, "|") {
		p, ok := placeholders[name]
		if !ok {
			continue
		}
		known++
		if p.synthetic {
			synthetic++
		}
		pool = append(pool, p.items(data, g.random)...)
	}

	// Extras never join a token built only from synthetic numbers.
	if known == 0 || synthetic < known {
		pool = append(pool, models.BareItems(extra)...)
	}
	return pool
}
