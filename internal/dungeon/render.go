package dungeon

import "strings"

// Glyphs used by Render.
const (
	GlyphWall  = '#'
	GlyphFloor = '.'
	GlyphDoor  = '+'
)

// Glyph returns the ASCII glyph for t.
func (t Tile) Glyph() rune {
	switch t {
	case TileFloor:
		return GlyphFloor
	case TileDoor:
		return GlyphDoor
	default:
		return GlyphWall
	}
}

// Render draws d's tilemap as one line of glyphs per row.
//
// Postcondition: the result has exactly Metadata.Height lines, each
// terminated by '\n'.
func Render(d Data) string {
	var b strings.Builder
	b.Grow((d.Metadata.Width + 1) * d.Metadata.Height)
	for _, row := range d.Tilemap {
		for _, t := range row {
			b.WriteRune(t.Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
