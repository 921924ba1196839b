// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hliang/medshelf/pkg/types"
)

// Lexical patterns for the deterministic parser. Dates come first because
// a year like "2027" would otherwise be eaten by the quantity pattern.
var (
	// "2027年6月" / "2027年6月15日", whitespace tolerated.
	cnDateRe = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月(?:\s*(\d{1,2})\s*日)?`)

	// "2027-06" / "2027/6/15" / "2027.6".
	isoDateRe = regexp.MustCompile(`(\d{4})[-/.](\d{1,2})(?:[-/.](\d{1,2}))?`)

	// Dosage strength: "0.5g", "500mg", "100ml*2", "250毫克".
	specRe = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:mg|ml|μg|ug|iu|g|毫克|毫升|克)(?:\s*[*xX×]\s*\d+)?`)

	// Count plus measure word: "一盒", "30片", "2板".
	qtyRe = regexp.MustCompile(`(\d+(?:\.\d+)?|[一二两三四五六七八九十]+)\s*(盒|瓶|袋|包|罐|筒|板|条|支|片|粒|丸|颗|贴)`)

	// Expiry labels that would otherwise stick to the drug name.
	labelRe = regexp.MustCompile(`有效期至|有效期|到期日|到期时间|到期|过期时间|过期`)

	// Token separators for drug-name extraction.
	sepRe = regexp.MustCompile(`[，,、;；:：。.!！?？\s]+`)
)

// packageUnits are the measure words that count packages rather than doses.
var packageUnits = map[string]bool{
	"盒": true, "瓶": true, "袋": true, "包": true,
	"罐": true, "筒": true, "板": true, "条": true, "支": true,
}

// Fallback is the deterministic lexical parser. It needs no network, is
// idempotent, and always yields a non-empty drug name for non-empty input:
// when nothing better remains, the leading token of the raw text is used.
func Fallback(text string) (Fields, error) {
	work := strings.TrimSpace(text)
	if work == "" {
		return Fields{}, fmt.Errorf("%w: text is empty", types.ErrValidation)
	}

	var f Fields

	// Expiry date: Chinese form first, then numeric separators.
	if m := cnDateRe.FindStringSubmatchIndex(work); m != nil {
		f.ExpiryDate = canonicalDate(cnDateRe.FindStringSubmatch(work))
		work = work[:m[0]] + " " + work[m[1]:]
	} else if m := isoDateRe.FindStringSubmatchIndex(work); m != nil {
		f.ExpiryDate = canonicalDate(isoDateRe.FindStringSubmatch(work))
		work = work[:m[0]] + " " + work[m[1]:]
	}

	// Dosage strength, before quantities so "0.5g" is not read as a count.
	if m := specRe.FindStringIndex(work); m != nil {
		f.Specification = strings.Join(strings.Fields(work[m[0]:m[1]]), "")
		work = work[:m[0]] + " " + work[m[1]:]
	}

	// Quantity and measure word.
	if m := qtyRe.FindStringSubmatchIndex(work); m != nil {
		sub := qtyRe.FindStringSubmatch(work)
		if n, ok := parseCount(sub[1]); ok {
			f.Quantity = FlexNumber(n)
			f.Unit = sub[2]
			if packageUnits[sub[2]] && n == float64(int(n)) {
				f.PackageCount = FlexNumber(int(n))
			}
		}
		work = work[:m[0]] + " " + work[m[1]:]
	}

	work = labelRe.ReplaceAllString(work, " ")
	f.DrugName = firstToken(work)
	if f.DrugName == "" {
		f.DrugName = firstToken(strings.TrimSpace(text))
	}
	if f.DrugName == "" {
		f.DrugName = strings.TrimSpace(text)
	}
	return f, nil
}

// canonicalDate renders regex submatches [_, year, month, day] as
// "YYYY-MM-DD", or "YYYY-MM" when no day was stated. A partial date is
// never upgraded with a fabricated day. Returns "" for impossible values.
func canonicalDate(sub []string) string {
	year, _ := strconv.Atoi(sub[1])
	month, _ := strconv.Atoi(sub[2])
	if month < 1 || month > 12 {
		return ""
	}
	if sub[3] == "" {
		return fmt.Sprintf("%04d-%02d", year, month)
	}
	day, _ := strconv.Atoi(sub[3])
	if day < 1 || day > 31 {
		return fmt.Sprintf("%04d-%02d", year, month)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// parseCount reads either a decimal number or a Chinese numeral up to 99.
func parseCount(s string) (float64, bool) {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n, true
	}
	return cnNumeral(s)
}

var cnDigits = map[rune]float64{
	'一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

func cnNumeral(s string) (float64, bool) {
	runes := []rune(s)
	if len(runes) == 1 {
		if runes[0] == '十' {
			return 10, true
		}
		n, ok := cnDigits[runes[0]]
		return n, ok
	}

	// Compounds around 十: 十五 (15), 二十 (20), 二十五 (25).
	for i, r := range runes {
		if r != '十' {
			continue
		}
		tens := 1.0
		if i > 0 {
			if len(runes[:i]) != 1 {
				return 0, false
			}
			v, ok := cnDigits[runes[0]]
			if !ok {
				return 0, false
			}
			tens = v
		}
		ones := 0.0
		if i < len(runes)-1 {
			if len(runes[i+1:]) != 1 {
				return 0, false
			}
			v, ok := cnDigits[runes[i+1]]
			if !ok {
				return 0, false
			}
			ones = v
		}
		return tens*10 + ones, true
	}
	return 0, false
}

// firstToken returns the first separator-delimited token, stripped of any
// leftover trailing digits.
func firstToken(s string) string {
	for _, tok := range sepRe.Split(s, -1) {
		tok = strings.TrimRight(tok, "0123456789.")
		if tok != "" {
			return tok
		}
	}
	return ""
}
