package pets

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrInvalidPet = errors.New("pet name and species are required")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, p *Pet) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Species = strings.TrimSpace(p.Species)
	if p.Name == "" || p.Species == "" {
		return ErrInvalidPet
	}
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Service) Get(ctx context.Context, id uint64) (*Pet, error) {
	var p Pet
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID uint64) ([]Pet, error) {
	var out []Pet
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// Update applies the given fields to a pet the caller owns.
func (s *Service) Update(ctx context.Context, id, ownerID uint64, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&Pet{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&Pet{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("pet_id = ?", id).Delete(&PetPhoto{}).Error
	})
}

func (s *Service) AddPhoto(ctx context.Context, petID, ownerID uint64, url, caption string) (*PetPhoto, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("photo url is required")
	}
	var p Pet
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", petID, ownerID).
		First(&p).Error; err != nil {
		return nil, err
	}
	photo := &PetPhoto{PetID: petID, URL: url, Caption: caption}
	if err := s.db.WithContext(ctx).Create(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *Service) ListPhotos(ctx context.Context, petID uint64) ([]PetPhoto, error) {
	var out []PetPhoto
	err := s.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func (s *Service) DeletePhoto(ctx context.Context, photoID, ownerID uint64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND pet_id IN (?)", photoID,
			s.db.Model(&Pet{}).Select("id").Where("owner_id = ?", ownerID)).
		Delete(&PetPhoto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
