package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/classdiag/internal/uml"
)

func TestParse_Aliases(t *testing.T) {
	tests := []struct {
		input    string
		expected Language
	}{
		{"csharp", CSharp},
		{"C#", CSharp},
		{"cs", CSharp},
		{"Java", Java},
		{"py", Python},
		{" python ", Python},
		{"golang", Go},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := Parse("ruby")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestForLanguage_Unknown(t *testing.T) {
	_, err := ForLanguage(Language("cobol"))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestForLanguage_ReportsLanguage(t *testing.T) {
	for _, l := range Supported() {
		fe, err := ForLanguage(l)
		require.NoError(t, err)
		assert.Equal(t, l, fe.Language())
	}
}

func TestForExtension(t *testing.T) {
	l, ok := ForExtension(".CS")
	assert.True(t, ok)
	assert.Equal(t, CSharp, l)

	l, ok = ForExtension("py")
	assert.True(t, ok)
	assert.Equal(t, Python, l)

	_, ok = ForExtension(".rb")
	assert.False(t, ok)
}

func TestDetect(t *testing.T) {
	l, err := Detect([]string{"a/Order.cs", "b/Item.cs", "c/Main.java", "README.md"})
	require.NoError(t, err)
	assert.Equal(t, CSharp, l)

	l, err = Detect([]string{"x.go", "y.py"})
	require.NoError(t, err)
	assert.Equal(t, Go, l, "ties resolve alphabetically")

	_, err = Detect([]string{"notes.txt"})
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestDefaultUnitName(t *testing.T) {
	assert.Equal(t, "Untitled.cs", DefaultUnitName(CSharp, ""))
	assert.Equal(t, "Snippet.py", DefaultUnitName(Python, "Snippet"))
	assert.Equal(t, []string{".java"}, Extensions(Java))
}

func TestPatternFrontend_SourceNamePerUnit(t *testing.T) {
	fe, err := ForLanguage(CSharp)
	require.NoError(t, err)
	entities := fe.Parse([]uml.SourceUnit{
		{Name: "A.cs", Content: "class A { }"},
		{Name: "B.cs", Content: "class B : A { }"},
	})
	require.Len(t, entities, 2)
	assert.Equal(t, "A.cs", entities[0].Source)
	assert.Equal(t, "B.cs", entities[1].Source)
	assert.Equal(t, []string{"A"}, entities[1].Inherits)
}
