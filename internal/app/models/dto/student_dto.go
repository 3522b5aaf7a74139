package dto

import "github.com/yigit/taallocation/internal/app/models"

// StudentListResponse is one page of students
type StudentListResponse struct {
	Students   []*models.Student `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}
