// Package coerce turns raw extracted receipt values into typed values.
//
// Vision-model output is unpredictable: amounts arrive as numbers, as
// strings with thousands separators or a currency suffix, or in
// Arabic-Indic digits; absent fields arrive as sentinel strings like
// "N/A" or "غير متوفر" instead of null. Every function here absorbs
// malformed input and degrades to nil rather than returning an error.
package coerce

import (
	"fmt"
	"strconv"
	"strings"
)

// currencyToken is stripped from numeric strings before parsing.
const currencyToken = "SAR"

// nullSentinels are case-insensitive tokens treated as absent values.
// The input is trimmed of surrounding whitespace and lowercased before
// the lookup, so "  N/A " is nullish but "  x " is not.
var nullSentinels = map[string]struct{}{
	"":           {},
	"null":       {},
	"none":       {},
	"nil":        {},
	"n/a":        {},
	"na":         {},
	"-":          {},
	"—":     {}, // em-dash
	"غير متوفر":  {},
	"غير موجود":  {},
}

// arabicDigits translates Arabic-Indic digits (٠-٩) to ASCII.
var arabicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// Number coerces a raw extracted value to a float. Numeric input passes
// through unchanged. String input has thousands separators and the SAR
// currency token stripped and Arabic-Indic digits translated before
// parsing. Anything else, or a parse failure, yields nil.
func Number(x any) *float64 {
	switch v := x.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		s := strings.ReplaceAll(v, ",", "")
		s = strings.ReplaceAll(s, currencyToken, "")
		s = strings.TrimSpace(s)
		s = arabicDigits.Replace(s)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// Nullish maps sentinel "no value" strings to nil. Non-sentinel values
// pass through unchanged; only surrounding whitespace is trimmed before
// the sentinel comparison, never from the returned value.
func Nullish(x any) *string {
	if x == nil {
		return nil
	}
	s, ok := x.(string)
	if !ok {
		// extraction payloads sometimes put numbers in string fields
		s = fmt.Sprint(x)
	}
	probe := strings.ToLower(strings.TrimSpace(s))
	if _, isNull := nullSentinels[probe]; isNull {
		return nil
	}
	return &s
}
