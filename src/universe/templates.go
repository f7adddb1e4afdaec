package universe

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates []Coord //cells to settle
}

//Settle makes the template cells alive, shifted by the offset
//the shifted coordinates wrap around the grid edges
func (u *Universe) Settle(tmpl Template, offset Coord) error {
	if u.width == 0 || u.height == 0 {
		if len(tmpl.Coordinates) == 0 {
			return nil
		}
		return outOfRange(offset.Row, offset.Col, u.width, u.height)
	}
	cs := make([]Coord, len(tmpl.Coordinates))
	for i, c := range tmpl.Coordinates {
		cs[i] = Coord{
			Row: uint32((uint64(c.Row) + uint64(offset.Row)) % uint64(u.height)),
			Col: uint32((uint64(c.Col) + uint64(offset.Col)) % uint64(u.width)),
		}
	}
	return u.SetCells(cs)
}

//Bounds returns the smallest height and width enclosing the template
func (t Template) Bounds() (rows, cols uint32) {
	for _, c := range t.Coordinates {
		if c.Row+1 > rows {
			rows = c.Row + 1
		}
		if c.Col+1 > cols {
			cols = c.Col + 1
		}
	}
	return
}

//Templates shipped with the engine
var (
	TemplateBlock = Template{"block", "2x2 still life", []Coord{
		{0, 0}, {0, 1},
		{1, 0}, {1, 1},
	}}
	TemplateBlinker = Template{"blinker", "period 2 oscillator", []Coord{
		{0, 0}, {0, 1}, {0, 2},
	}}
	TemplateGlider = Template{"glider", "moves one cell down-right every 4 generations", []Coord{
		{0, 1},
		{1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}}
	TemplateSpaceship = Template{"spaceship", "lightweight spaceship", []Coord{
		{0, 1}, {0, 4},
		{1, 0},
		{2, 0}, {2, 4},
		{3, 0}, {3, 1}, {3, 2}, {3, 3},
	}}
	TemplateTestSample = Template{"testSample1", "the test sample with 3 stable patterns", []Coord{
		{1, 1}, {2, 1},
		{1, 2}, {2, 2},
		{3, 3},
		{2, 4},
		{3, 4},
		{3, 5},
	}}
)

// BuiltinTemplates returns the templates shipped with the engine.
func BuiltinTemplates() []Template {
	return []Template{TemplateBlock, TemplateBlinker, TemplateGlider, TemplateSpaceship, TemplateTestSample}
}
