package style

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivexcavator/excavate"
)

func TestDefaultPaletteValid(t *testing.T) {
	require.NoError(t, DefaultPalette.Validate())
}

func TestPaletteValidate(t *testing.T) {
	p := DefaultPalette
	p.Third = "blue"
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "third")
}

func TestRenderPlain(t *testing.T) {
	s := New(&bytes.Buffer{}, DefaultPalette, false)
	require.False(t, s.Color())
	assert.Equal(t, "Description", s.Render("Description", excavate.RoleNodeName))
}

func TestRenderColor(t *testing.T) {
	s := New(&bytes.Buffer{}, DefaultPalette, true)

	out := s.Render("Description", excavate.RoleNodeName)
	assert.Contains(t, out, "Description")
	assert.Contains(t, out, "\x1b[")
	// #fe218b as a truecolor foreground.
	assert.Contains(t, out, "38;2;254;32;139")

	id := s.Render("32", excavate.RoleNodeID)
	assert.Contains(t, id, "38;2;254;215;0")

	assert.Equal(t, ": ", s.Render(": ", excavate.RolePlain))
}

func TestStyledTextSink(t *testing.T) {
	var out bytes.Buffer
	sink := excavate.NewTextSink(&out, New(&out, DefaultPalette, true))
	require.NoError(t, sink.Emit(excavate.Line{Kind: excavate.KindValue, Depth: 1, Name: "version", Text: "12.0", ID: 4, Indent: 2}))
	require.NoError(t, sink.Flush())

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "    \x1b["), "%q", got)
	assert.Contains(t, got, "12.0")
	assert.True(t, strings.HasSuffix(got, ")\n"))
}

func TestRenderKeepsRawCharacters(t *testing.T) {
	text := "a\tb\r\nc\r"
	plain := New(&bytes.Buffer{}, DefaultPalette, false).Render(text, excavate.RoleValueText)
	colored := New(&bytes.Buffer{}, DefaultPalette, true).Render(text, excavate.RoleValueText)

	assert.Equal(t, text, plain)
	assert.Contains(t, colored, text)
	assert.Contains(t, colored, "38;2;32;176;254")
}

func TestRenderStoreNameBold(t *testing.T) {
	out := New(&bytes.Buffer{}, DefaultPalette, true).Render("ROOT", excavate.RoleStoreName)
	assert.Contains(t, out, "ROOT")
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, ";1m")
	assert.Contains(t, out, "38;2;254;32;139")
}
