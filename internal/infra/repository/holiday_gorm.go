package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

type HolidayGormRepository struct {
	db *gorm.DB
}

func NewHolidayGormRepository(db *gorm.DB) *HolidayGormRepository {
	return &HolidayGormRepository{db: db}
}

func (r *HolidayGormRepository) List(ctx context.Context) ([]models.Holiday, error) {
	var out []models.Holiday
	if err := r.db.WithContext(ctx).Order("date ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert stores the holiday, renaming it if the date already exists.
func (r *HolidayGormRepository) Upsert(ctx context.Context, h *models.Holiday) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(h).Error
}

func (r *HolidayGormRepository) Delete(ctx context.Context, date string) (bool, error) {
	res := r.db.WithContext(ctx).Where("date = ?", date).Delete(&models.Holiday{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SeedCalendar replaces cal's holiday set with the stored holidays plus
// extra ("2006-01-02" strings from configuration).
func (r *HolidayGormRepository) SeedCalendar(
	ctx context.Context,
	cal *calendar.Calendar,
	extra []string,
) (int, error) {

	stored, err := r.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing holidays: %w", err)
	}

	dates := make([]time.Time, 0, len(stored)+len(extra))
	for _, h := range stored {
		d, err := calendar.ParseDate(h.Date)
		if err != nil {
			return 0, fmt.Errorf("holiday %d has bad date %q: %w", h.ID, h.Date, err)
		}
		dates = append(dates, d)
	}
	for _, s := range extra {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return 0, fmt.Errorf("configured holiday %q: %w", s, err)
		}
		dates = append(dates, d)
	}

	cal.SetHolidays(dates)
	return len(cal.Holidays()), nil
}
