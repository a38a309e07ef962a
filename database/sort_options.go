package database

const (
	SortIDAsc       = "id_asc"
	SortTitleAsc    = "title_asc"
	SortReleaseDesc = "release_desc"
	SortReleaseAsc  = "release_asc"
)

const DefaultSortOrder = SortIDAsc

// IsValidSortOrder checks if a string is a valid sort order constant
func IsValidSortOrder(order string) bool {
	switch order {
	case SortIDAsc, SortTitleAsc, SortReleaseDesc, SortReleaseAsc:
		return true
	default:
		return false
	}
}

// OrderClause returns the ORDER BY terms for a movie listing. Ties are broken
// by id; unknown orders fall back to DefaultSortOrder.
func OrderClause(order string) string {
	switch order {
	case SortTitleAsc:
		return "title ASC, id ASC"
	case SortReleaseDesc:
		return "release_date DESC, id ASC"
	case SortReleaseAsc:
		return "release_date ASC, id ASC"
	default:
		return "id ASC"
	}
}
