package titlesync

import "github.com/zirdl/bunubon/models"

// MapRowsToTitles turns a header row plus data rows into candidates. rows[0]
// is the header. Only mapped columns are copied, verbatim. The result has one
// candidate per data row and is empty (never nil) when there are no data rows.
func MapRowsToTitles(rows [][]string, mapping HeaderMapping) []models.CandidateTitle {
	if len(rows) < 2 {
		return []models.CandidateTitle{}
	}

	header := rows[0]
	out := make([]models.CandidateTitle, 0, len(rows)-1)
	for _, row := range rows[1:] {
		candidate := make(models.CandidateTitle)
		for i, column := range header {
			field, ok := mapping[column]
			if !ok || i >= len(row) {
				continue
			}
			candidate[field] = row[i]
		}
		out = append(out, candidate)
	}
	return out
}
