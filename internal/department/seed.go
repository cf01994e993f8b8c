// Package department manages the fixed set of organizations known to the
// registry and resolves the origin department at startup.
package department

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nadra/internal/department/models"
	"nadra/pkg/domain"
	"nadra/pkg/platform/sentinel"
)

// OriginDepartmentName is the department whose officers may register
// citizens.
const OriginDepartmentName = "Union Council"

// seedDepartments is the baseline department set created on first boot.
var seedDepartments = []struct {
	name string
	typ  string
}{
	{"NADRA Admin", "Government"},
	{OriginDepartmentName, "Government"},
	{"Bank", "Financial"},
	{"Police", "Law Enforcement"},
}

// Store is the persistence surface seeding needs.
type Store interface {
	Create(ctx context.Context, dept *models.Department) error
	FindByID(ctx context.Context, id domain.DepartmentID) (*models.Department, error)
	FindByName(ctx context.Context, name string) (*models.Department, error)
	List(ctx context.Context) ([]*models.Department, error)
}

// Seed ensures the baseline departments exist and returns the origin
// department's ID. Idempotent: existing departments are left untouched, so
// the origin ID is stable across restarts. Policy compares departments by
// this ID, never by display name.
func Seed(ctx context.Context, store Store, logger *slog.Logger) (domain.DepartmentID, error) {
	var origin domain.DepartmentID

	for _, seed := range seedDepartments {
		name := seed.name
		dept, err := store.FindByName(ctx, name)
		switch {
		case err == nil:
		case errors.Is(err, sentinel.ErrNotFound):
			dept = &models.Department{
				ID:        domain.NewDepartmentID(),
				Name:      name,
				Type:      seed.typ,
				CreatedAt: time.Now(),
			}
			if err := store.Create(ctx, dept); err != nil {
				// A concurrent replica may have seeded it first.
				if errors.Is(err, sentinel.ErrAlreadyUsed) {
					dept, err = store.FindByName(ctx, name)
					if err != nil {
						return domain.DepartmentID{}, fmt.Errorf("seed department %q: %w", name, err)
					}
				} else {
					return domain.DepartmentID{}, fmt.Errorf("seed department %q: %w", name, err)
				}
			} else {
				logger.InfoContext(ctx, "department seeded",
					slog.String("department_id", dept.ID.String()),
					slog.String("name", name),
				)
			}
		default:
			return domain.DepartmentID{}, fmt.Errorf("seed department %q: %w", name, err)
		}

		if name == OriginDepartmentName {
			origin = dept.ID
		}
	}

	if origin.IsNil() {
		return domain.DepartmentID{}, errors.New("origin department missing after seeding")
	}
	return origin, nil
}
