package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/pets"
)

type createPetReq struct {
	Name      string `json:"name" binding:"required"`
	Species   string `json:"species" binding:"required"`
	Breed     string `json:"breed"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

func (h *Handler) CreatePet(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var req createPetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	p := &pets.Pet{
		OwnerID:   uid,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	}
	if req.BirthDate != "" {
		bd, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			fail(c, http.StatusBadRequest, 10008, "invalid birth_date, want YYYY-MM-DD")
			return
		}
		p.BirthDate = &bd
	}

	if err := h.PetsSvc.Create(c.Request.Context(), p); err != nil {
		if errors.Is(err, pets.ErrInvalidPet) {
			fail(c, http.StatusBadRequest, 10009, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "failed to create pet")
		return
	}
	ok(c, gin.H{"pet": p})
}

func (h *Handler) ListUserPets(c *gin.Context) {
	ownerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid user id")
		return
	}
	list, err := h.PetsSvc.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50002, "failed to list pets")
		return
	}
	ok(c, gin.H{"pets": list})
}

func (h *Handler) GetPet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid pet id")
		return
	}
	p, err := h.PetsSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "pet not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50002, "failed to load pet")
		return
	}
	ok(c, gin.H{"pet": p})
}

type updatePetReq struct {
	Name      *string `json:"name"`
	Breed     *string `json:"breed"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

func (h *Handler) UpdatePet(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid pet id")
		return
	}
	var req updatePetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Breed != nil {
		fields["breed"] = *req.Breed
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if len(fields) == 0 {
		fail(c, http.StatusBadRequest, 10005, "nothing to update")
		return
	}
	if err := h.PetsSvc.Update(c.Request.Context(), id, uid, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "pet not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50003, "failed to update pet")
		return
	}
	ok(c, gin.H{"updated": true})
}

func (h *Handler) DeletePet(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid pet id")
		return
	}
	if err := h.PetsSvc.Delete(c.Request.Context(), id, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "pet not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50003, "failed to delete pet")
		return
	}
	ok(c, gin.H{"deleted": true})
}

type addPhotoReq struct {
	URL     string `json:"url" binding:"required"`
	Caption string `json:"caption"`
}

func (h *Handler) AddPetPhoto(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	petID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid pet id")
		return
	}
	var req addPhotoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	photo, err := h.PetsSvc.AddPhoto(c.Request.Context(), petID, uid, req.URL, req.Caption)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "pet not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "failed to add photo")
		return
	}
	ok(c, gin.H{"photo": photo})
}

func (h *Handler) ListPetPhotos(c *gin.Context) {
	petID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid pet id")
		return
	}
	photos, err := h.PetsSvc.ListPhotos(c.Request.Context(), petID)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50002, "failed to list photos")
		return
	}
	ok(c, gin.H{"photos": photos})
}

func (h *Handler) DeletePetPhoto(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	photoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid photo id")
		return
	}
	if err := h.PetsSvc.DeletePhoto(c.Request.Context(), photoID, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "photo not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50003, "failed to delete photo")
		return
	}
	ok(c, gin.H{"deleted": true})
}
