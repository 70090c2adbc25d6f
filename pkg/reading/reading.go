// Package reading derives kana readings for Japanese voice-line text.
package reading

import (
	"regexp"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is a single analyzed unit of text.
type Token struct {
	Surface  string // as written, e.g. "行っ"
	BaseForm string // dictionary form, e.g. "行く"
	Reading  string // katakana pronunciation, e.g. "イッ"; empty when unknown
	// PrimaryPOS is the first part-of-speech label.
	PrimaryPOS string
}

// Analyzer segments Japanese text with the IPA dictionary.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates a new tokenizer instance.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze breaks text into tokens with readings and base forms.
// Whitespace-only tokens are dropped.
func (a *Analyzer) Analyze(text string) []Token {
	var result []Token
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features: 0 POS, 1-3 sub-POS, 4-5 conjugation, 6 base form, 7 reading.
		features := token.Features()
		tok := Token{Surface: token.Surface, BaseForm: token.Surface}
		if len(features) > 0 {
			tok.PrimaryPOS = features[0]
		}
		if len(features) > 6 && features[6] != "*" {
			tok.BaseForm = features[6]
		}
		if len(features) > 7 && features[7] != "*" {
			tok.Reading = features[7]
		}
		result = append(result, tok)
	}
	return result
}

// Reading returns the hiragana reading of text after game markup is
// removed. Tokens without a dictionary reading contribute their surface.
func (a *Analyzer) Reading(text string) string {
	var b strings.Builder
	for _, tok := range a.Analyze(StripMarkup(text)) {
		if tok.Reading != "" {
			b.WriteString(ToHiragana(tok.Reading))
		} else {
			b.WriteString(tok.Surface)
		}
	}
	return b.String()
}

var (
	reTag         = regexp.MustCompile(`<[^>]*>`)
	rePlaceholder = regexp.MustCompile(`\{[^}]*\}`)
	reNewline     = regexp.MustCompile(`\\n`)
)

// StripMarkup removes rich-text tags ("<color=#FFD780FF>"), placeholders
// ("{NICKNAME}") and escaped newlines from in-game text.
func StripMarkup(text string) string {
	text = reTag.ReplaceAllString(text, "")
	text = rePlaceholder.ReplaceAllString(text, "")
	return reNewline.ReplaceAllString(text, " ")
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
