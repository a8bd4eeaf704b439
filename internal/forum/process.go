package forum

// MergeMode selects how incoming tags combine with existing card tags.
type MergeMode string

const (
	// MergeModeMerge keeps existing tags and appends novel incoming ones.
	MergeModeMerge MergeMode = "merge"
	// MergeModeReplace discards existing tags entirely.
	MergeModeReplace MergeMode = "replace"
)

// Process filters and rewrites a tag list: tags in exclude are dropped, tags
// with an entry in replace are substituted, and the result is deduplicated on
// the post-substitution value with input order preserved. Pure and total.
func Process(tags []string, exclude map[string]struct{}, replace map[string]string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		if _, skip := exclude[tag]; skip {
			continue
		}
		if replacement, ok := replace[tag]; ok {
			tag = replacement
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

// Merge combines existing and incoming tag lists. MergeModeReplace returns a
// copy of incoming; any other mode keeps existing order and appends each
// incoming tag not already present. Pure and total.
func Merge(existing, incoming []string, mode MergeMode) []string {
	if mode == MergeModeReplace {
		out := make([]string, len(incoming))
		copy(out, incoming)
		return out
	}

	merged := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, tag := range existing {
		if _, dup := seen[tag]; !dup {
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	for _, tag := range incoming {
		if _, dup := seen[tag]; !dup {
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}
