package model

// TaskColor is one entry of the task palette.
type TaskColor struct {
	Name       string
	Background string
	Text       string
	Stroke     string
}

// Palette is the fixed set of task colors. Task color indexes wrap around it.
var Palette = []TaskColor{
	{Name: "orange", Background: "#FFEDD5", Text: "#EA580C", Stroke: "#EA580C"},
	{Name: "blue", Background: "#DBEAFE", Text: "#2563EB", Stroke: "#2563EB"},
	{Name: "green", Background: "#DCFCE7", Text: "#16A34A", Stroke: "#16A34A"},
	{Name: "rose", Background: "#FFE4E6", Text: "#E11D48", Stroke: "#E11D48"},
	{Name: "purple", Background: "#F3E8FF", Text: "#9333EA", Stroke: "#9333EA"},
}

// PaletteSize is the number of palette entries.
var PaletteSize = len(Palette)

// PaletteIndex maps any stored color index, including negative or
// out-of-range values from imported data, onto [0, size).
func PaletteIndex(colorIndex, size int) int {
	if size <= 0 {
		return 0
	}
	i := colorIndex % size
	if i < 0 {
		i += size
	}
	return i
}

// ColorFor returns the palette entry for a color index.
func ColorFor(colorIndex int) TaskColor {
	return Palette[PaletteIndex(colorIndex, len(Palette))]
}

// NextColorIndex returns the color index for a new task given how many tasks
// already exist.
func NextColorIndex(taskCount, size int) int {
	return PaletteIndex(taskCount, size)
}
