package repository

import (
	"context"

	"github.com/djaouedkh/airlineCompany/internal/criteria"
	"github.com/djaouedkh/airlineCompany/models"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CityRepository определяет методы для работы с городами.
type CityRepository interface {
	Store[models.City]
}

type postgresCityRepository struct {
	base[models.City]
}

// NewPostgresCityRepository создает новый экземпляр репозитория городов.
func NewPostgresCityRepository(db *sqlx.DB, logger *zap.Logger) CityRepository {
	return &postgresCityRepository{
		base: base[models.City]{
			db:     db,
			logger: logger.Named("cities"),
			t: table[models.City]{
				name:      "cities",
				selectSQL: "SELECT c.id_city, c.name, c.postal_code FROM cities c",
				idColumn:  "c.id_city",
				orderBy:   "c.name",
				insertSQL: `INSERT INTO cities (name, postal_code) VALUES ($1, $2) RETURNING id_city`,
				updateSQL: `UPDATE cities SET name = $1, postal_code = $2 WHERE id_city = $3`,
				deleteSQL: `DELETE FROM cities WHERE id_city = $1`,
				args: func(c *models.City) []any {
					return []any{c.Name, c.PostalCode}
				},
			},
		},
	}
}

// Search ищет города по подстроке почтового индекса.
func (r *postgresCityRepository) Search(ctx context.Context, c criteria.Criterion) (*SearchResult[models.City], error) {
	if c.Key != criteria.KeyPostalCode {
		return nil, r.unknownCriterion(c)
	}
	return r.search(ctx, c, "CAST(c.postal_code AS TEXT) LIKE $1", "c.postal_code", likePattern(c.Value))
}
