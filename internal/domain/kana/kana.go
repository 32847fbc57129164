// Package kana folds hiragana into katakana so a query typed in either script
// matches catalog names written in katakana.
package kana

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

const (
	hiraganaFirst = 0x3041 // ぁ
	hiraganaLast  = 0x3096 // ゖ
	katakanaShift = 0x60
)

// fold maps a single hiragana code point onto its katakana counterpart.
func fold(r rune) rune {
	if r >= hiraganaFirst && r <= hiraganaLast {
		return r + katakanaShift
	}
	return r
}

// folder is a stateless transformer. Both kana blocks encode to three bytes,
// and bytes that are not valid UTF-8 are copied as they are, so output
// offsets always equal input offsets.
type folder struct{ transform.NopResetter }

func (folder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if c := src[nSrc]; c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}

		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 && !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		if f := fold(r); f != r {
			utf8.EncodeRune(dst[nDst:], f)
		} else {
			copy(dst[nDst:], src[nSrc:nSrc+size])
		}
		nDst += size
		nSrc += size
	}
	return nDst, nSrc, nil
}

// Transformer returns a transformer for streaming use.
func Transformer() transform.Transformer {
	return folder{}
}

// Normalize shifts every rune in U+3041..U+3096 by +0x60. All other runes,
// including katakana, ASCII and the long-vowel mark, pass through unchanged,
// as do invalid UTF-8 bytes, so len(Normalize(s)) == len(s). The result is
// idempotent.
func Normalize(s string) string {
	if !needsFold(s) {
		return s
	}
	out, _, err := transform.String(folder{}, s)
	if err != nil {
		return s
	}
	return out
}

func needsFold(s string) bool {
	for _, r := range s {
		if r >= hiraganaFirst && r <= hiraganaLast {
			return true
		}
	}
	return false
}
