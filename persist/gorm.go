package persist

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus_share/models"
)

// Gorm keeps each collection as one row of the documents table.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) Load(ctx context.Context, name string, v any) (bool, error) {
	var doc models.Document
	err := g.db.WithContext(ctx).First(&doc, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "load document %s", name)
	}
	if err := json.Unmarshal(doc.Payload, v); err != nil {
		return false, errors.Wrapf(err, "decode document %s", name)
	}
	return true, nil
}

func (g *Gorm) Save(ctx context.Context, name string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode document %s", name)
	}
	doc := models.Document{Name: name, Payload: payload, UpdatedAt: time.Now()}
	err = g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&doc).Error
	return errors.Wrapf(err, "save document %s", name)
}
