package response

import (
	"time"

	"medroute/internal/data/entity"
)

type RecentSearchResponse struct {
	Medicine   string    `json:"medicine"`
	Location   *string   `json:"location,omitempty"`
	SearchedAt time.Time `json:"searched_at"`
}

type UserDashboardResponse struct {
	Profile        UserResponse           `json:"profile"`
	Orders         []OrderResponse        `json:"orders"`
	RecentSearches []RecentSearchResponse `json:"recent_searches"`
}

// Helper converters
func RecentSearchesToResponse(searches []*entity.RecentSearch) []RecentSearchResponse {
	responses := make([]RecentSearchResponse, 0, len(searches))
	for _, search := range searches {
		responses = append(responses, RecentSearchResponse{
			Medicine:   search.Medicine,
			Location:   search.Location,
			SearchedAt: search.CreatedAt,
		})
	}
	return responses
}
