package utils

import "time"

type SuccessResponse struct {
	Success bool  `json:"success"`
	Data    any   `json:"data"`
	Meta    *Meta `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Meta struct {
	Timestamp time.Time       `json:"timestamp"`
	Page      *PaginationMeta `json:"pagination,omitempty"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func CreateErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: APIError{
			Code:    code,
			Message: message,
		},
	}
}

func CreateSuccessResponse(data any) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Timestamp: time.Now(),
		},
	}
}

func CreatePagedResponse(data any, page, size, total int) SuccessResponse {
	resp := CreateSuccessResponse(data)
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	resp.Meta.Page = &PaginationMeta{Page: page, Size: size, Total: total, TotalPages: totalPages}
	return resp
}
