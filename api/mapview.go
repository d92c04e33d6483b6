package api

import (
	"net/http"

	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/gin-gonic/gin"
)

type mapBranch struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsActive  bool    `json:"is_active"`
}

// MapBranches returns the branch pins for the network map, skipping rows
// without coordinates.
func (a *API) MapBranches(c *gin.Context) {
	_, id := a.session(c)
	rows, err := utils.FetchAllModels[models.Branch](c.Request.Context(), id.TenantId)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]mapBranch, 0, len(rows))
	for _, b := range rows {
		if b.Latitude == 0 && b.Longitude == 0 {
			continue
		}
		active := b.IsActive == nil || *b.IsActive
		out = append(out, mapBranch{
			ID:        b.ID,
			Name:      b.Name,
			City:      b.City,
			Latitude:  b.Latitude,
			Longitude: b.Longitude,
			IsActive:  active,
		})
	}
	c.JSON(http.StatusOK, out)
}
