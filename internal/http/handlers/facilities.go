package handlers

import (
	"net/http"

	"github.com/geocoder89/arogyamitra/internal/domain/facility"
	"github.com/gin-gonic/gin"
)

type FacilitiesHandler struct{}

func NewFacilitiesHandler() *FacilitiesHandler {
	return &FacilitiesHandler{}
}

// Nearby never fails; unparseable or missing parameters are echoed as given.
func (h *FacilitiesHandler) Nearby(ctx *gin.Context) {
	q := facility.Query{
		Latitude:  ctx.Query("latitude"),
		Longitude: ctx.Query("longitude"),
		Location:  ctx.Query("location"),
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":           true,
		"facilities":        facility.Nearby(q),
		"location_searched": q.Searched(),
	})
}
