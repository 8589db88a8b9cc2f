package repository

import (
	"context"

	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/pkg/pg"
)

type EnquiryRepository struct {
	*pg.DB
}

func NewEnquiryRepository(db *pg.DB) *EnquiryRepository {
	return &EnquiryRepository{db}
}

func (r *EnquiryRepository) Create(ctx context.Context, enq *model.Enquiry) (*model.Enquiry, error) {
	entity := toEnquiryEntity(enq)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toEnquiryModel(entity), nil
}

// List returns enquiries newest first. Search and column sort happen
// client-side over this snapshot; the store only scopes by provenance.
func (r *EnquiryRepository) List(ctx context.Context, f model.EnquiryFilter) ([]*model.Enquiry, int64, error) {
	q := r.Read(ctx).Model(&EnquiryEntity{})

	if f.Source != nil {
		q = q.Where("source = ?", string(*f.Source))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*EnquiryEntity
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toEnquiryModels(entities), total, nil
}

// DeleteByID removes exactly one record. A repeat call after success
// reports not-found; deletion is not idempotent.
func (r *EnquiryRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.Write(ctx).Delete(&EnquiryEntity{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ReplaceImported swaps the whole imported pool for the given batch inside
// one transaction: delete everything imported, then insert. No merge, no
// upsert. Callers must reject empty batches before getting here.
func (r *EnquiryRepository) ReplaceImported(ctx context.Context, batch []*model.Enquiry) ([]*model.Enquiry, error) {
	entities := make([]*EnquiryEntity, len(batch))
	for i, m := range batch {
		e := toEnquiryEntity(m)
		e.Source = string(model.SourceImported)
		entities[i] = e
	}

	err := r.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := r.Write(ctx).Where("source = ?", string(model.SourceImported)).Delete(&EnquiryEntity{}).Error; err != nil {
			return err
		}
		return r.Write(ctx).Create(&entities).Error
	})
	if err != nil {
		return nil, err
	}

	return toEnquiryModels(entities), nil
}

func (r *EnquiryRepository) ClearImported(ctx context.Context) error {
	return r.Write(ctx).Where("source = ?", string(model.SourceImported)).Delete(&EnquiryEntity{}).Error
}
