package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Meta carries pagination metadata for list responses
type Meta struct {
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
}

// ListResponse is the envelope returned by every list endpoint
type ListResponse struct {
	Data interface{} `json:"data"`
	Meta Meta        `json:"meta"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// List returns a paginated list envelope with computed total_pages
func List(data interface{}, total int64, page, perPage int) ListResponse {
	totalPages := int64(0)
	if perPage > 0 {
		totalPages = (total + int64(perPage) - 1) / int64(perPage)
	}
	return ListResponse{
		Data: data,
		Meta: Meta{
			Total:      total,
			TotalPages: totalPages,
			Page:       page,
			PerPage:    perPage,
		},
	}
}
