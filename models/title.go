package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Title statuses accepted by the CRUD endpoints. The sync path stores whatever
// the source sheet carries.
const (
	TitleStatusPending    = "pending"
	TitleStatusOnHand     = "on-hand"
	TitleStatusProcessing = "processing"
	TitleStatusReleased   = "released"
	TitleStatusCancelled  = "cancelled"
)

// Title types accepted by the CRUD endpoints.
const (
	TitleTypeCLOA       = "CLOA"
	TitleTypeEP         = "EP"
	TitleTypeFreePatent = "Free Patent"
	TitleTypeHomestead  = "Homestead"
	TitleTypeOther      = "Other"
)

// Title is a land title record. SerialNumber is the business key used to
// reconcile rows imported from spreadsheets. It is unique among live rows only,
// so a serial freed by a soft delete can be inserted again.
type Title struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SerialNumber    string         `gorm:"type:varchar(128);not null;uniqueIndex:idx_titles_serial_live,where:deleted_at IS NULL" json:"serial_number"`
	MunicipalityID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"municipality_id"`
	Municipality    *Municipality  `gorm:"foreignKey:MunicipalityID" json:"municipality,omitempty"`
	TitleType       string         `gorm:"type:varchar(64);index" json:"title_type"`
	Subtype         string         `gorm:"type:varchar(64)" json:"subtype"`
	BeneficiaryName string         `gorm:"type:varchar(256);index" json:"beneficiary_name"`
	LotNumber       string         `gorm:"type:varchar(128)" json:"lot_number"`
	Area            float64        `gorm:"not null;default:0" json:"area"`
	Status          string         `gorm:"type:varchar(32);index" json:"status"`
	DateIssued      string         `gorm:"type:varchar(32)" json:"date_issued"`
	Notes           string         `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TitleRequest is the payload for creating or updating a title through the API.
type TitleRequest struct {
	SerialNumber    string    `json:"serial_number" binding:"required,max=128"`
	MunicipalityID  uuid.UUID `json:"municipality_id" binding:"required"`
	TitleType       string    `json:"title_type" binding:"required,oneof=CLOA EP 'Free Patent' Homestead Other"`
	Subtype         string    `json:"subtype" binding:"max=64"`
	BeneficiaryName string    `json:"beneficiary_name" binding:"required,max=256"`
	LotNumber       string    `json:"lot_number" binding:"max=128"`
	Area            float64   `json:"area" binding:"gte=0"`
	Status          string    `json:"status" binding:"required,oneof=pending on-hand processing released cancelled"`
	DateIssued      string    `json:"date_issued" binding:"omitempty,datetime=2006-01-02"`
	Notes           string    `json:"notes"`
}

// TitleFilter narrows title listings and exports.
type TitleFilter struct {
	MunicipalityID *uuid.UUID
	Status         string
	TitleType      string
	Search         string
	SortBy         string
	SortDesc       bool
	Page           int
	Limit          int
}
