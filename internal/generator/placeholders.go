package generator

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bristermitten/hot-takes/internal/models"
)

// placeholderPattern matches {name} and {name1|name2}.
var placeholderPattern = regexp.MustCompile(`\{([\w|]+)\}`)

type placeholder struct {
	// synthetic placeholders produce a fresh number and never take extra candidates.
	synthetic bool
	items     func(data *models.HotTakeData, r Random) []models.TakeItem
}

func concat(lists ...[]models.TakeItem) []models.TakeItem {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	out := make([]models.TakeItem, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func things(d *models.HotTakeData) []models.TakeItem {
	return concat(d.Languages, d.Technologies)
}

func anything(d *models.HotTakeData) []models.TakeItem {
	return concat(d.Languages, d.Technologies, d.People, d.Companies)
}

// removeFirstSpace turns "Visual Basic" into "VisualBasic". Only the first space goes.
func removeFirstSpace(s string) string {
	return strings.Replace(s, " ", "", 1)
}

func oneWord(items []models.TakeItem) []models.TakeItem {
	out := make([]models.TakeItem, len(items))
	for i, it := range items {
		out[i] = it.MapValue(removeFirstSpace)
	}
	return out
}

func number(min, max int) placeholder {
	return placeholder{
		synthetic: true,
		items: func(_ *models.HotTakeData, r Random) []models.TakeItem {
			return []models.TakeItem{models.Bare(strconv.Itoa(uniformInclusive(r, min, max)))}
		},
	}
}

func category(f func(d *models.HotTakeData) []models.TakeItem) placeholder {
	return placeholder{
		items: func(d *models.HotTakeData, _ Random) []models.TakeItem {
			return f(d)
		},
	}
}

var placeholders = map[string]placeholder{
	"language":   category(func(d *models.HotTakeData) []models.TakeItem { return d.Languages }),
	"technology": category(func(d *models.HotTakeData) []models.TakeItem { return d.Technologies }),
	"tld":        category(func(d *models.HotTakeData) []models.TakeItem { return models.BareItems(d.TLDs) }),
	"person":     category(func(d *models.HotTakeData) []models.TakeItem { return d.People }),
	"company":    category(func(d *models.HotTakeData) []models.TakeItem { return d.Companies }),
	"problem":    category(func(d *models.HotTakeData) []models.TakeItem { return models.BareItems(d.Problems) }),
	"thing":      category(things),
	"group":      category(func(d *models.HotTakeData) []models.TakeItem { return concat(d.People, d.Companies) }),
	"anything":   category(anything),

	"oneWordThing":    category(func(d *models.HotTakeData) []models.TakeItem { return oneWord(things(d)) }),
	"oneWordAnything": category(func(d *models.HotTakeData) []models.TakeItem { return oneWord(anything(d)) }),

	"year":       number(1500, 2021),
	"age":        number(1, 49),
	"bigNumber":  number(2, 99999),
	"percentage": number(1, 99),
}

// IsPlaceholder reports whether name is a known category name.
func IsPlaceholder(name string) bool {
	_, ok := placeholders[name]
	return ok
}

// PlaceholderNames lists every known category name, sorted.
func PlaceholderNames() []string {
	names := make([]string, 0, len(placeholders))
	for name := range placeholders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tokens returns the inner text of every placeholder token in template, in order.
func Tokens(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	tokens := make([]string, len(matches))
	for i, m := range matches {
		tokens[i] = m[1]
	}
	return tokens
}

// UnknownPlaceholders returns category names used in template that the generator
// will ignore. Templates are allowed to contain them; this is for linting.
func UnknownPlaceholders(template string) []string {
	var unknown []string
	for _, token := range Tokens(template) {
		for _, name := range strings.Split(token, "|") {
			if !IsPlaceholder(name) {
				unknown = append(unknown, name)
			}
		}
	}
	return unknown
}
