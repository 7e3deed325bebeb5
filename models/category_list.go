package models

// MaxCategoriesPerPost caps how many categories a post may carry, the
// primary category included.
const MaxCategoriesPerPost = 4

// BuildCategoryIDs constructs a post's category-id list: the primary id
// first, then unseen AI-derived ids, then unseen client-supplied ids,
// deduplicated and truncated to MaxCategoriesPerPost entries.
func BuildCategoryIDs(primaryID string, aiIDs, clientIDs []string) StringList {
	ids := make(StringList, 0, MaxCategoriesPerPost)
	seen := make(map[string]bool, MaxCategoriesPerPost)

	add := func(id string) {
		if id == "" || seen[id] || len(ids) >= MaxCategoriesPerPost {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	add(primaryID)
	for _, id := range aiIDs {
		add(id)
	}
	for _, id := range clientIDs {
		add(id)
	}
	return ids
}

// MergeCategoryIDs unions existing ids with newly discovered ones, keeping
// existing order, appending unseen discoveries, and preserving the
// primary-first invariant. It returns the merged list and the ids that were
// actually added.
func MergeCategoryIDs(existing StringList, discovered []string) (StringList, []string) {
	merged := make(StringList, 0, len(existing)+len(discovered))
	seen := make(map[string]bool, len(existing)+len(discovered))
	for _, id := range existing {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, id)
	}
	var added []string
	for _, id := range discovered {
		if id == "" || seen[id] || len(merged) >= MaxCategoriesPerPost {
			continue
		}
		seen[id] = true
		merged = append(merged, id)
		added = append(added, id)
	}
	return merged, added
}
