package transport

import (
	"encoding/json"
	"errors"
	"time"
)

// StatusList accepts either a single JSON string or an array of strings.
type StatusList []string

func (s *StatusList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StatusList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = StatusList(many)
		return nil
	}
	return errors.New("status must be a string or an array of strings")
}

// SearchRequest is the POST body shape. Timestamps arrive as ISO-8601
// strings and are parsed by the handler so bad values can 400 cleanly.
type SearchRequest struct {
	Q          string     `json:"q"`
	EntityType string     `json:"entity_type"`
	Status     StatusList `json:"status"`
	ProjectID  string     `json:"project_id"`
	Client     string     `json:"client"`
	DateFrom   string     `json:"date_from"`
	DateTo     string     `json:"date_to"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}

type SearchResultItem struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	ClientName  *string    `json:"client_name,omitempty"`
	ProjectID   *string    `json:"project_id,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
}
