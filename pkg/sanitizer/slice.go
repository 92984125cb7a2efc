package sanitizer

import "hashgate/pkg/model"

// Dedupe removes repeated items, keeping the first occurrence of each.
func Dedupe(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}

	return result
}

// Append merges incoming identifiers into existing ones. When both sides are
// present the result holds existing items first, without duplicates, and
// collapses to a scalar when a single item remains.
func Append(existing, incoming model.Value) model.Value {
	if existing.IsAbsent() {
		return incoming
	}
	if incoming.IsAbsent() {
		return existing
	}

	merged := Dedupe(append(existing.Items(), incoming.Items()...))

	switch len(merged) {
	case 0:
		return model.Absent()
	case 1:
		return model.Scalar(merged[0])
	default:
		return model.Sequence(merged...)
	}
}
