package online

import "strings"

// FilterShared keeps the documents whose name, type, creator or any effect
// name contains text, ignoring case. Empty text keeps everything.
func FilterShared(docs []SharedDrug, text string) []SharedDrug {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return docs
	}
	out := make([]SharedDrug, 0, len(docs))
	for _, d := range docs {
		if sharedMatches(d, needle) {
			out = append(out, d)
		}
	}
	return out
}

func sharedMatches(d SharedDrug, needle string) bool {
	fields := []string{d.Name, string(d.DrugType), d.Username, d.UserEmail}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	for _, e := range d.Effects {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			return true
		}
	}
	return false
}
