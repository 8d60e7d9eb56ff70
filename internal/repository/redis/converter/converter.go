package converter

import "github.com/DRSN-tech/inventory/internal/domain"

// CategoryConverter преобразует категории между domain и моделью кэша.
type CategoryConverter struct{}

func (CategoryConverter) ToArrRedisModel(entities []domain.Category) []CategoryRedisModel {
	out := make([]CategoryRedisModel, len(entities))
	for i, c := range entities {
		out[i] = CategoryRedisModel{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
	}

	return out
}

func (CategoryConverter) ToArrEntity(models []CategoryRedisModel) []domain.Category {
	out := make([]domain.Category, len(models))
	for i, m := range models {
		out[i] = domain.Category{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}
	}

	return out
}
