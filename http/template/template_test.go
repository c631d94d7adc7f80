package template_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ridgepath/traillog/http/template"
	"github.com/stretchr/testify/require"
)

func TestParseRequiresFiles(t *testing.T) {
	// Arrange
	p := template.NewParser()

	// Act
	_, err := p.Parse("")

	// Assert
	require.ErrorIs(t, err, template.ErrNoFiles)
}

func TestCloneIsolatesFns(t *testing.T) {
	// Arrange
	fsys := fstest.MapFS{
		"who.tmpl": {Data: []byte(`{{who}}`)},
	}
	base := template.NewParser(template.WithFS(fsys), template.WithFn("who", func() string { return "nobody" }))

	first := base.Clone()
	first.AddFn("who", func() string { return "gal1" })

	second := base.Clone()
	second.AddFn("who", func() string { return "gal2" })

	render := func(p template.Parser) string {
		tmpl, err := p.Parse("who.tmpl")
		require.Nil(t, err)

		var b strings.Builder
		require.Nil(t, tmpl.Execute(&b, nil))
		return b.String()
	}

	// Act + Assert: each clone keeps its own function, the base keeps the original
	require.Equal(t, "gal1", render(first))
	require.Equal(t, "gal2", render(second))
	require.Equal(t, "nobody", render(base))
}
