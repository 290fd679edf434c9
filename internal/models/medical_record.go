package models

import "time"

// MedicalRecord is the patient-side payload of a User with RolePatient.
// Diagnoses and Treatments hold JSON arrays of strings; doctors append to
// them, patients may only read.
type MedicalRecord struct {
	PatientID string `gorm:"primaryKey;size:64" json:"patient_id"`

	DateOfBirth string `gorm:"size:10" json:"date_of_birth"`
	Gender      string `gorm:"size:10" json:"gender"`
	BloodType   string `gorm:"size:5" json:"blood_type"`

	Diagnoses  string `gorm:"type:text" json:"diagnoses"`
	Treatments string `gorm:"type:text" json:"treatments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
