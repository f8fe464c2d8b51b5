package models

import (
	"time"

	"github.com/google/uuid"
)

// Municipality is a local government unit that titles are distributed in.
type Municipality struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	District  string    `gorm:"type:varchar(64)" json:"district"`
	Province  string    `gorm:"type:varchar(128)" json:"province"`
	ZipCode   string    `gorm:"type:varchar(16)" json:"zip_code"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// MunicipalityWithCount is a municipality plus the number of titles filed under it.
type MunicipalityWithCount struct {
	Municipality
	TitleCount int64 `json:"title_count"`
}

// MunicipalityRequest is the payload for creating or updating a municipality.
type MunicipalityRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=128"`
	District string `json:"district" binding:"max=64"`
	Province string `json:"province" binding:"max=128"`
	ZipCode  string `json:"zip_code" binding:"max=16"`
}
