package sketch

import (
	"slices"
)

// Styles is the enumerated set of generation styles. The first entry is the
// default.
var Styles = []string{
	"Photorealistic and Digital art",
	"Oil painting",
	"Watercolor",
	"Pencil sketch",
	"Anime",
	"Comic book",
	"Abstract",
	"Impressionist",
	"Pop art",
}

func DefaultStyle() string {
	return Styles[0]
}

func validStyle(styles []string, style string) bool {
	return slices.Contains(styles, style)
}
