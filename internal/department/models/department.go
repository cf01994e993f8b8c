package models

import (
	"time"

	"nadra/pkg/domain"
)

// Department is an organization whose officers access the registry. The
// origin department (Union Council) is the only one allowed to register
// citizens; all others are consumers of the verify and request surfaces.
type Department struct {
	ID        domain.DepartmentID `json:"id"`
	Name      string              `json:"name"`
	Type      string              `json:"type"`
	CreatedAt time.Time           `json:"created_at"`
}
