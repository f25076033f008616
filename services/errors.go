package services

import (
	"errors"

	"gorm.io/gorm"
)

// Error taxonomy untuk core ini. Controller memetakan ke kode HTTP
// lewat errors.Is: ErrValidation -> 400, ErrNotFound -> 404, ErrNotMember -> 403.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrNotMember  = errors.New("not a member of this team")
)

// wrapNotFound mengubah record-not-found dari gorm menjadi ErrNotFound
// supaya caller tidak perlu tahu soal gorm.
func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
