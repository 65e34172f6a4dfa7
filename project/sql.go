package project

import (
	"context"

	"github.com/udayip/portfolio/logger"
	"gorm.io/gorm"
)

// record is one row of the projects table. Position holds display order.
type record struct {
	ID          uint   `gorm:"primaryKey"`
	ProjectID   string `gorm:"column:project_id;size:191;not null"`
	Name        string `gorm:"size:255;not null"`
	URL         string `gorm:"column:url;type:text"`
	Description string `gorm:"type:text"`
	Position    int    `gorm:"not null;index:idx_projects_position"`
}

func (record) TableName() string { return "projects" }

// SQLStore keeps the collection as ordered rows in a SQL database.
type SQLStore struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewSQLStore creates a GORM-backed project store.
func NewSQLStore(db *gorm.DB, log logger.Logger) *SQLStore {
	return &SQLStore{
		db:     db,
		logger: log,
	}
}

// Name implements Store.
func (s *SQLStore) Name() string { return "sql" }

// Get returns all rows ordered by position.
func (s *SQLStore) Get(ctx context.Context) ([]Project, error) {
	var rows []record
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		s.logger.Error(ctx, "failed to list projects", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	projects := make([]Project, 0, len(rows))
	for _, r := range rows {
		projects = append(projects, Project{
			ID:          r.ProjectID,
			Name:        r.Name,
			URL:         r.URL,
			Description: r.Description,
		})
	}
	return projects, nil
}

// Put replaces every row in a single transaction.
func (s *SQLStore) Put(ctx context.Context, projects []Project) error {
	rows := make([]record, 0, len(projects))
	for i, p := range projects {
		rows = append(rows, record{
			ProjectID:   p.ID,
			Name:        p.Name,
			URL:         p.URL,
			Description: p.Description,
			Position:    i,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&record{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		s.logger.Error(ctx, "failed to replace projects", map[string]interface{}{
			"error": err.Error(),
			"count": len(projects),
		})
		return err
	}

	s.logger.Info(ctx, "projects replaced", map[string]interface{}{
		"store": s.Name(),
		"count": len(projects),
	})
	return nil
}
