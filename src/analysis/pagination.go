package analysis

import "macro-observer/src/models"

// PageSize is the fixed number of table rows per page.
const PageSize = 20

// Page is one slice of an ordered record set.
type Page struct {
	Rows        []models.MCountryRecord `json:"rows"`
	CurrentPage int                     `json:"current_page"`
	TotalPages  int                     `json:"total_pages"`
	StartRank   int                     `json:"start_rank"`
	TotalCount  int                     `json:"total_count"`
}

// -----------------------------------------------------------------------------

// TotalPages is ceil(count / PageSize).
func TotalPages(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + PageSize - 1) / PageSize
}

// ClampPage bounds page to [1, max(totalPages, 1)].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// -----------------------------------------------------------------------------

// Paginate cuts page (clamped) out of ordered. Ranks are positional within ordered.
func Paginate(ordered []models.MCountryRecord, page int) Page {
	total := TotalPages(len(ordered))
	current := ClampPage(page, total)
	start := (current - 1) * PageSize
	end := start + PageSize
	if end > len(ordered) {
		end = len(ordered)
	}

	rows := []models.MCountryRecord{}
	if start < end {
		rows = make([]models.MCountryRecord, end-start)
		copy(rows, ordered[start:end])
	}

	return Page{
		Rows:        rows,
		CurrentPage: current,
		TotalPages:  total,
		StartRank:   start + 1,
		TotalCount:  len(ordered),
	}
}
