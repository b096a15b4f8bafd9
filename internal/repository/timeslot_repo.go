package repository

import (
	"context"
	"errors"

	"tavolina/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TimeSlotRepository struct {
	db *gorm.DB
}

func NewTimeSlotRepository(db *gorm.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// List returns the full catalog, active and inactive, with every override
// attached, ordered for presentation.
func (r *TimeSlotRepository) List(ctx context.Context) ([]domain.TimeSlot, error) {
	var slots []domain.TimeSlot
	tx := r.db.WithContext(ctx).
		Preload("Overrides").
		Order("display_order ASC").
		Find(&slots)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return slots, nil
}

// ListActiveForDay returns active slots carrying only the active override
// for the given weekday (0=Sunday..6=Saturday), if one exists.
func (r *TimeSlotRepository) ListActiveForDay(ctx context.Context, dayOfWeek int) ([]domain.TimeSlot, error) {
	var slots []domain.TimeSlot
	tx := r.db.WithContext(ctx).
		Preload("Overrides", "day_of_week = ? AND is_active = ?", dayOfWeek, true).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Find(&slots)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return slots, nil
}

// GetActiveByTime looks up the active slot whose time string matches exactly.
// Returns (nil, nil) when no such slot exists.
func (r *TimeSlotRepository) GetActiveByTime(ctx context.Context, timeOfDay string) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	tx := r.db.WithContext(ctx).
		Preload("Overrides", "is_active = ?", true).
		Where("time = ? AND is_active = ?", timeOfDay, true).
		First(&slot)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return &slot, nil
}

func (r *TimeSlotRepository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	tx := r.db.WithContext(ctx).Preload("Overrides").First(&slot, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &slot, nil
}

func (r *TimeSlotRepository) Create(ctx context.Context, slot *domain.TimeSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *TimeSlotRepository) Save(ctx context.Context, slot *domain.TimeSlot) error {
	return r.db.WithContext(ctx).Omit("Overrides").Save(slot).Error
}

// Delete removes the slot and its overrides.
func (r *TimeSlotRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("time_slot_id = ?", id).Delete(&domain.CapacityOverride{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.TimeSlot{}, id).Error
	})
}

// CreateIfTimeAbsent inserts the slot only when no row shares its time
// string. Reports whether a row was created. Existing slots are never
// modified, so repeated seeding is purely additive.
func (r *TimeSlotRepository) CreateIfTimeAbsent(ctx context.Context, slot *domain.TimeSlot) (bool, error) {
	var existing domain.TimeSlot
	err := r.db.WithContext(ctx).Where("time = ?", slot.Time).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	create := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "time"}},
			DoNothing: true,
		}).
		Create(slot)
	if create.Error != nil {
		return false, create.Error
	}
	return create.RowsAffected > 0, nil
}

// UpsertOverride creates or updates the override for a (slot, weekday)
// pair. The upsert always sets is_active, so a soft-deleted override is
// resurrected explicitly rather than left dormant.
func (r *TimeSlotRepository) UpsertOverride(ctx context.Context, timeSlotID int64, dayOfWeek, maxCapacity int) error {
	o := domain.CapacityOverride{
		TimeSlotID:  timeSlotID,
		DayOfWeek:   dayOfWeek,
		MaxCapacity: maxCapacity,
		IsActive:    true,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "time_slot_id"}, {Name: "day_of_week"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"max_capacity": maxCapacity,
				"is_active":    true,
			}),
		}).
		Create(&o).Error
}

// DeleteOverride removes the override row entirely. Availability falls back
// to the slot's default capacity for that weekday afterwards.
func (r *TimeSlotRepository) DeleteOverride(ctx context.Context, timeSlotID int64, dayOfWeek int) error {
	return r.db.WithContext(ctx).
		Where("time_slot_id = ? AND day_of_week = ?", timeSlotID, dayOfWeek).
		Delete(&domain.CapacityOverride{}).Error
}
