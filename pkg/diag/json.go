package diag

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ToJSON encodes every diagnostic in s as a compact JSON array, built
// incrementally with sjson rather than reflection-based encoding/json so an
// embedding host (IDE extension, LSP shim — both out of this module's
// scope, but consumers of its public API) can stream diagnostics out over a
// pipe without defining a parallel Go struct on its end.
func ToJSON(s *Sink) (string, error) {
	doc := "[]"
	var err error
	for i, d := range s.All() {
		doc, err = sjson.Set(doc, fieldPath(i, "severity"), d.Severity.String())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, fieldPath(i, "code"), int(d.Code))
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, fieldPath(i, "file"), d.File)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, fieldPath(i, "line"), d.Pos.Line)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, fieldPath(i, "column"), d.Pos.Column)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, fieldPath(i, "message"), d.Message)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func fieldPath(i int, field string) string {
	return itoa(i) + "." + field
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// CountBySeverity queries a previously produced JSON document (see ToJSON)
// for the number of diagnostics at the given severity, using gjson rather
// than unmarshaling the whole document. Useful for embedders that persist
// diagnostics JSON and want a cheap summary without a full decode.
func CountBySeverity(jsonDoc string, sev Severity) int {
	count := 0
	result := gjson.Parse(jsonDoc)
	result.ForEach(func(_, value gjson.Result) bool {
		if value.Get("severity").String() == sev.String() {
			count++
		}
		return true
	})
	return count
}
