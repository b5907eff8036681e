package response

import "github.com/eventhub-app/eventhub-api/internal/domain"

type PaginatedEvents struct {
	Events      []domain.Event `json:"events"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int64          `json:"totalPages"`
	TotalCount  int64          `json:"totalCount"`
}

type PaginatedLocations struct {
	Locations   []domain.Location `json:"locations"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int64             `json:"totalPages"`
	TotalCount  int64             `json:"totalCount"`
}

// TotalPages is the ceiling of totalCount / perPage.
func TotalPages(total int64, perPage int) int64 {
	if perPage < 1 {
		return 0
	}
	return (total + int64(perPage) - 1) / int64(perPage)
}

type SweepResponse struct {
	Finished int64 `json:"finished"`
}
