package edit

import "strings"

// ApplyChanges applies a batch of non-overlapping changes expressed in
// old-text coordinates. The changes are validated and sorted first.
func ApplyChanges(original string, changes []TextChange) (string, error) {
	if len(changes) == 0 {
		return original, nil
	}

	sorted, err := PrepareChanges(changes, len(original))
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(len(original) + TotalDelta(sorted))

	cursor := 0
	for _, change := range sorted {
		out.WriteString(original[cursor:change.Start])
		out.WriteString(change.NewText)
		cursor = change.OldEnd()
	}
	out.WriteString(original[cursor:])

	return out.String(), nil
}
