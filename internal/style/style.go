// Package style maps line roles to terminal colors.
package style

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/joshuapare/hivexcavator/excavate"
)

// Palette holds the four display colors as hex strings.
type Palette struct {
	Main   string `toml:"main"`   // store and key names
	Second string `toml:"second"` // ids
	Third  string `toml:"third"`  // value text
	Fourth string `toml:"fourth"` // value keys
}

// DefaultPalette is the stock color scheme.
var DefaultPalette = Palette{
	Main:   "#fe218b",
	Second: "#fed700",
	Third:  "#21b0fe",
	Fourth: "#06d6a0",
}

// Validate reports the first entry that is not a hex color.
func (p Palette) Validate() error {
	for _, c := range []struct{ name, hex string }{
		{"main", p.Main},
		{"second", p.Second},
		{"third", p.Third},
		{"fourth", p.Fourth},
	} {
		if _, err := colorful.Hex(c.hex); err != nil {
			return fmt.Errorf("palette %s: %q is not a hex color", c.name, c.hex)
		}
	}
	return nil
}

// colorFor picks the palette entry for a role.
func (p Palette) colorFor(r excavate.Role) (string, bool) {
	switch r {
	case excavate.RoleStoreName, excavate.RoleNodeName:
		return p.Main, true
	case excavate.RoleNodeID, excavate.RoleValueID:
		return p.Second, true
	case excavate.RoleValueText:
		return p.Third, true
	case excavate.RoleValueKey:
		return p.Fourth, true
	default:
		return "", false
	}
}

// Styler renders segments in palette colors. With color off it returns text
// unchanged.
//
// Roles are described as lipgloss styles, but segments are wrapped with
// termenv directly: lipgloss.Style.Render expands tabs and rewrites "\r\n",
// and colored output must carry the same characters as plain output.
type Styler struct {
	color   bool
	profile termenv.Profile
	styles  map[excavate.Role]lipgloss.Style
}

// New builds a styler for output written to w. The color decision is made by
// the caller; when color is on, truecolor escapes are always emitted.
func New(w io.Writer, p Palette, color bool) *Styler {
	s := &Styler{color: color, profile: termenv.Ascii, styles: map[excavate.Role]lipgloss.Style{}}
	if !color {
		return s
	}

	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.TrueColor)
	s.profile = r.ColorProfile()
	for _, role := range []excavate.Role{
		excavate.RoleStoreName,
		excavate.RoleNodeName,
		excavate.RoleNodeID,
		excavate.RoleValueKey,
		excavate.RoleValueText,
		excavate.RoleValueID,
	} {
		hex, _ := p.colorFor(role)
		st := r.NewStyle().Foreground(lipgloss.Color(hex))
		if role == excavate.RoleStoreName {
			st = st.Bold(true)
		}
		s.styles[role] = st
	}
	return s
}

// Render implements excavate.Styler.
func (s *Styler) Render(text string, role excavate.Role) string {
	if !s.color {
		return text
	}
	st, ok := s.styles[role]
	if !ok {
		return text
	}
	out := s.profile.String(text)
	if fg, ok := st.GetForeground().(lipgloss.Color); ok {
		out = out.Foreground(s.profile.Color(string(fg)))
	}
	if st.GetBold() {
		out = out.Bold()
	}
	return out.String()
}

// Color reports whether the styler emits escapes.
func (s *Styler) Color() bool {
	return s.color
}

var _ excavate.Styler = (*Styler)(nil)
