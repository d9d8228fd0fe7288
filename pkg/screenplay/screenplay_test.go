package screenplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsScreenplayFormatted(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "scene heading", text: "INT. HOUSE - DAY", want: true},
		{name: "exterior heading", text: "A story.\nEXT. BEACH - NIGHT\nWaves.", want: true},
		{name: "combined heading", text: "INT./EXT. CAR - MOVING", want: true},
		{name: "upper-case cue only", text: "Once upon a time.\n  JOHN  \nHello.", want: true},
		{name: "plain prose", text: "Once upon a time there was a girl.\nShe lived by the sea.", want: false},
		{name: "short caps", text: "OK\nfine", want: false},
		{name: "empty", text: "", want: false},
		{name: "crlf", text: "prose\r\nINT. ROOM - DAY\r\n", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsScreenplayFormatted(tt.text))
		})
	}
}

func TestExtractCharacters(t *testing.T) {
	t.Run("cues with parenthetical", func(t *testing.T) {
		script := "INT. ROOM - DAY\nJOHN\nHello.\nJANE (V.O.)\nHi."
		assert.Equal(t, []string{"JOHN", "JANE"}, ExtractCharacters(script))
	})

	t.Run("dedupe keeps first-seen order", func(t *testing.T) {
		script := "JANE\nHi.\nJOHN\nYo.\nJANE (CONT'D)\nAgain.\nJOHN"
		assert.Equal(t, []string{"JANE", "JOHN"}, ExtractCharacters(script))
	})

	t.Run("headings skipped", func(t *testing.T) {
		assert.Empty(t, ExtractCharacters("INT. HOUSE - DAY\nEXT. YARD - NIGHT"))
	})

	t.Run("long lines rejected", func(t *testing.T) {
		assert.Empty(t, ExtractCharacters("THIS LINE IS WAY TOO LONG TO BE A NAME"))
	})

	t.Run("known false positive and false negative", func(t *testing.T) {
		got := ExtractCharacters("McCLANE\nYippee.\nTHE END")
		assert.Equal(t, []string{"THE END"}, got)
	})

	t.Run("empty", func(t *testing.T) {
		got := ExtractCharacters("")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestExtractSceneBlocks(t *testing.T) {
	t.Run("two headings", func(t *testing.T) {
		script := "INT. HOUSE - DAY\nJOHN\nHi.\nEXT. YARD - NIGHT\nJANE\nBye."
		blocks := ExtractSceneBlocks(script)
		require.Len(t, blocks, 2)
		assert.Equal(t, "INT. HOUSE - DAY\nJOHN\nHi.", blocks[0])
		assert.Equal(t, "EXT. YARD - NIGHT\nJANE\nBye.", blocks[1])
	})

	t.Run("preamble before first heading is dropped", func(t *testing.T) {
		blocks := ExtractSceneBlocks("FADE IN:\nINT. HOUSE - DAY\nQuiet.")
		require.Len(t, blocks, 1)
		assert.Equal(t, "INT. HOUSE - DAY\nQuiet.", blocks[0])
	})

	t.Run("no heading means one block", func(t *testing.T) {
		blocks := ExtractSceneBlocks("Just prose.\nMore prose.")
		assert.Equal(t, []string{"Just prose.\nMore prose."}, blocks)
	})

	t.Run("crlf normalized", func(t *testing.T) {
		blocks := ExtractSceneBlocks("INT. A - DAY\r\nx\r\nINT. B - DAY\r\ny")
		assert.Equal(t, []string{"INT. A - DAY\nx", "INT. B - DAY\ny"}, blocks)
	})
}

func TestSceneNumbers(t *testing.T) {
	assert.Equal(t, []int{1, 2}, SceneNumbers("INT. A - DAY\nx\nEXT. B - DAY\ny"))
	assert.Equal(t, []int{1}, SceneNumbers("no headings"))
}
