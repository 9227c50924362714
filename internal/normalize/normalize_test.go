package normalize

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace collapses across blank lines",
			input: "a  b\n\nc   d",
			want:  "a b c d",
		},
		{
			name:  "only blank lines",
			input: "\n   \n\t\n",
			want:  "",
		},
		{
			name:  "diacritics are stripped",
			input: "José Muñoz",
			want:  "Jose Munoz",
		},
		{
			name:  "mojibake apostrophe loses its mark before the repair",
			input: "(Candidateâ€™s Name)",
			want:  "(Candidateas Name)",
		},
		{
			name:  "devanagari labels become delimiters",
			input: "नाम (Candidate's Name) Asha Rao राज्य (State) Bihar",
			want:  "| (Candidate's Name) Asha Rao | (State) Bihar",
		},
		{
			name:  "control characters are removed",
			input: "ab\x01c\x7fd\u0080e",
			want:  "abcde",
		},
		{
			name:  "non ascii symbols are removed",
			input: "price €5 ™",
			want:  "price 5 ",
		},
		{
			name:  "padding inside labels is removed",
			input: "( State )\n Bihar",
			want:  "(State) Bihar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotentOnCleanInput(t *testing.T) {
	inputs := []string{
		"",
		"a b c d",
		"(Candidate's Name) Asha Rao | (State) Bihar",
		"|(Email Address) asha@example.com |(Mobile Number) 9876543210",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestReplaceDevanagari(t *testing.T) {
	var b strings.Builder
	for r := rune(0x0900); r <= 0x097F; r++ {
		b.WriteRune(r)
		if r%7 == 0 {
			b.WriteString("|")
		}
	}

	out := ReplaceDevanagari(b.String())
	for _, r := range out {
		assert.False(t, r >= 0x0900 && r <= 0x097F, "found devanagari rune %U", r)
	}
	assert.NotEmpty(t, out)
	assert.Equal(t, "|", ReplaceDevanagari("कखग"))
	assert.Equal(t, "a|b|c", ReplaceDevanagari("aकbखगc"))
}

func TestNormalizeOutputIsPrintableASCII(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune{
		'a', 'Z', '0', ' ', '\t', '\n', '\r', '(', ')', '|', '\'',
		0x00, 0x07, 0x1b, 0x1f, 0x7f, 0x85, 0x9f, 0xa0,
		'é', 'â', '€', '™', '\u0301',
		'क', 'ा', '।', 'ॿ', '中', '\U0001F600',
	}

	for i := 0; i < 500; i++ {
		runes := make([]rune, rng.Intn(40))
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		out := Normalize(string(runes))
		for _, r := range out {
			if r < 0x20 || r > 0x7E {
				t.Fatalf("Normalize(%q) = %q contains %U", string(runes), out, r)
			}
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b", CollapseWhitespace("  a \t\r b  "))
	assert.Equal(t, "a b", CollapseWhitespace("a\x1cb"))
	assert.Equal(t, "one two", CollapseWhitespace("one\n\n\ntwo\n"))
}

func TestStripMarks(t *testing.T) {
	assert.Equal(t, "Cafe", StripMarks("Café"))
	assert.Equal(t, "e", StripMarks("é"))
}

func TestRemoveControl(t *testing.T) {
	assert.Equal(t, "ab", RemoveControl("a\x00\x1f\x7f\u0080\u009fb"))
	assert.Equal(t, "a b", RemoveControl("a b"))
}

func TestFixApostrophes(t *testing.T) {
	assert.Equal(t, "D'Souza", FixApostrophes("Dâ€™Souza"))
	assert.Equal(t, "Da€™Souza", FixApostrophes("Da€™Souza"))
	assert.Equal(t, "DaSouza", Normalize("Dâ€™Souza"))
}

func TestTidyParens(t *testing.T) {
	assert.Equal(t, "(State)", TidyParens("( State )"))
	assert.Equal(t, "( x", TidyParens("(  x"))
}
