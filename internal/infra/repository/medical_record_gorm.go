package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type MedicalRecordGormRepository struct {
	db *gorm.DB
}

func NewMedicalRecordGormRepository(db *gorm.DB) *MedicalRecordGormRepository {
	return &MedicalRecordGormRepository{db: db}
}

func (r *MedicalRecordGormRepository) ByPatient(
	ctx context.Context,
	patientID string,
) (*models.MedicalRecord, error) {

	var rec models.MedicalRecord
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("medical_record_not_found")
		}
		return nil, err
	}
	return &rec, nil
}

// Upsert writes the record keyed by patient, creating it on first contact.
func (r *MedicalRecordGormRepository) Upsert(
	ctx context.Context,
	rec *models.MedicalRecord,
) error {

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "patient_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"date_of_birth", "gender", "blood_type",
				"diagnoses", "treatments", "updated_at",
			}),
		}).
		Create(rec).Error
}
