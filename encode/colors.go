package encode

import (
	"strings"

	"github.com/fatih/color"

	"github.com/opal-format/go-opal"
)

type Colorable struct {
	Kind opal.Kind
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, k := range []opal.Kind{opal.KindObject, opal.KindList} {
		able := Colorable{Kind: k, Attr: SepColor}
		colors.Map[able] = color.RGB(196, 128, 128).SprintfFunc()
	}

	able := Colorable{Kind: opal.KindObject, Attr: FieldColor}
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()

	able = Colorable{Kind: opal.KindNumber, Attr: ValueColor}
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()

	able = Colorable{Kind: opal.KindString, Attr: ValueColor}
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()

	able = Colorable{Kind: opal.KindUnknown, Attr: ValueColor}
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()

	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(k opal.Kind, a ColorAttr, s string) string {
	return c.Get(k, a)(s)
}

func (c *Colors) Get(k opal.Kind, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Kind: k, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
