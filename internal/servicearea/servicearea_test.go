package servicearea

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilityassign/internal/geo"
	"facilityassign/internal/model"
)

func TestBuild_ServiceAreaContainsExclusiveAreaAndExtendsBeyondIt(t *testing.T) {
	diamond := orb.MultiPolygon{{{{0.5, 0.25}, {0.75, 0.5}, {0.5, 0.75}, {0.25, 0.5}}}}
	facility := model.Facility{ID: "f1", Name: "f1", Lat: 0.5, Lng: 0.5, ExclusiveArea: diamond}

	clients := []model.Client{
		{ID: "c1", Lat: 0, Lng: 0, Demand: 1},
		{ID: "c2", Lat: 0, Lng: 1, Demand: 1},
		{ID: "c3", Lat: 1, Lng: 1, Demand: 1},
		{ID: "c4", Lat: 1, Lng: 0, Demand: 1},
		{ID: "c5", Lat: 0.25, Lng: 0.5, Demand: 1},
		{ID: "c6", Lat: 0.75, Lng: 0.5, Demand: 1},
		{ID: "c7", Lat: 0.5, Lng: 0.25, Demand: 1},
		{ID: "c8", Lat: 0.5, Lng: 0.75, Demand: 1},
	}

	area := Build(facility, clients, Config{DispersedSubsetSize: 8, Alpha: 1.0})
	require.NotEmpty(t, area)

	exclusiveArea := geo.MultiPolygonArea(diamond)
	totalArea := geo.MultiPolygonArea(area)
	assert.Greater(t, totalArea, exclusiveArea)
}

func TestBuild_NoExclusiveAreaUsesAllClients(t *testing.T) {
	facility := model.Facility{ID: "f1", Name: "f1", Lat: 0.5, Lng: 0.5}
	clients := []model.Client{
		{ID: "c1", Lat: 0, Lng: 0, Demand: 1},
		{ID: "c2", Lat: 0, Lng: 1, Demand: 1},
		{ID: "c3", Lat: 1, Lng: 1, Demand: 1},
		{ID: "c4", Lat: 1, Lng: 0, Demand: 1},
	}

	area := Build(facility, clients, Config{DispersedSubsetSize: 4, Alpha: 1.0})
	assert.NotEmpty(t, area)
}

func TestBuild_FewerThanFourUniqueClientsYieldsJustExclusiveArea(t *testing.T) {
	diamond := orb.MultiPolygon{{{{0.5, 0.25}, {0.75, 0.5}, {0.5, 0.75}, {0.25, 0.5}}}}
	facility := model.Facility{ID: "f1", Name: "f1", Lat: 0.5, Lng: 0.5, ExclusiveArea: diamond}
	clients := []model.Client{
		{ID: "c1", Lat: 0, Lng: 0, Demand: 1},
		{ID: "c2", Lat: 0, Lng: 1, Demand: 1},
	}

	area := Build(facility, clients, Config{DispersedSubsetSize: 8, Alpha: 1.0})
	assert.Len(t, area, 1)
	assert.InDelta(t, geo.MultiPolygonArea(diamond), geo.MultiPolygonArea(area), 1e-9)
}
