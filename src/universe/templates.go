package universe

import (
	"sort"

	"github.com/pkg/errors"
)

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string   //template name
	Descr       string   //template descr
	Coordinates [][2]int //array of [row,col] coordinates
}

//ErrUnknownTemplate is returned by SettleTemplate for a name no template was added under
var ErrUnknownTemplate = errors.New("unknown template")

const DefTemplate = "sample"

//DefaultTemplates are added to every new universe
var DefaultTemplates = []Template{
	{"sample", "still block, beehive tail and a blinker", [][2]int{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2}, {4, 3},
		{5, 3},
		{10, 10}, {10, 11}, {10, 12},
	}},
	{"blinker", "period 2 oscillator", [][2]int{{1, 0}, {1, 1}, {1, 2}}},
	{"block", "still life", [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
	{"glider", "moves one cell diagonally every 4 generations", [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}},
	{"toad", "period 2 oscillator", [][2]int{{2, 2}, {2, 3}, {2, 4}, {3, 1}, {3, 2}, {3, 3}}},
}

//TemplateNames returns the sorted names of DefaultTemplates
func TemplateNames() []string {
	names := make([]string, 0, len(DefaultTemplates))
	for _, tmpl := range DefaultTemplates {
		names = append(names, tmpl.Name)
	}
	sort.Strings(names)
	return names
}
