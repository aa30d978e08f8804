package data

import (
	"errors"
)

func (r *Repository) Record(record *SynthesisRecord) error {
	record.Detail = truncateDetail(record.Detail)

	if err := r.DB.Create(record).Error; err != nil {
		return errors.Join(ErrDatabase, err)
	}

	return nil
}

// Recent returns the newest records first. A non-positive or oversized limit
// falls back to the configured history limit.
func (r *Repository) Recent(limit int) ([]SynthesisRecord, error) {
	if limit <= 0 || limit > r.Config.HistoryLimit {
		limit = r.Config.HistoryLimit
	}

	var records []SynthesisRecord
	if err := r.DB.Order("id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, errors.Join(ErrDatabase, err)
	}

	return records, nil
}
