package lemma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnglishLemma(t *testing.T) {
	cases := []struct {
		word, tag, want string
	}{
		{"has", "VBZ", "have"},
		{"antennae", "NNS", "antenna"},
		{"green", "JJ", "green"},
		{"Jennifer", "NNP", "Jennifer"},
		{"The", "DT", "the"},
		{"cats", "NNS", "cat"},
		{"boxes", "NNS", "box"},
		{"flies", "VBZ", "fly"},
		{"walks", "VBZ", "walk"},
		{"stopped", "VBD", "stop"},
		{"loved", "VBN", "love"},
		{"walked", "VBD", "walk"},
		{"running", "VBG", "run"},
		{"went", "VBD", "go"},
		{"bigger", "JJR", "big"},
		{"happiest", "JJS", "happy"},
		{"better", "JJR", "good"},
		{"glass", "NN", "glass"},
		{"them", "PRP", "they"},
	}
	for _, tc := range cases {
		t.Run(tc.word+"/"+tc.tag, func(t *testing.T) {
			assert.Equal(t, tc.want, English{}.Lemma(tc.word, tc.tag))
		})
	}
}

func TestForLanguage(t *testing.T) {
	l, err := ForLanguage("UniversalEnglish")
	require.NoError(t, err)
	assert.IsType(t, English{}, l)

	_, err = ForLanguage("French")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}
