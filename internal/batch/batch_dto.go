package batch

import "encoding/json"

type Item struct {
	Method string          `json:"method" binding:"required"`
	Path   string          `json:"path" binding:"required"`
	Body   json.RawMessage `json:"body,omitempty"`
}

type Request struct {
	Requests []Item `json:"requests" binding:"required,min=1,dive"`
}

type ItemResult struct {
	Index  int             `json:"index"`
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body,omitempty"`
}

type Response struct {
	Results   []ItemResult `json:"results"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}
