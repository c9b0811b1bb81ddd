package scaling

import (
	"testing"

	"facilityassign/internal/model"
	"facilityassign/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleMatrix() model.CostMatrix {
	return model.CostMatrix{
		Values: [][]float64{
			{10.5, 20.25},
		},
		Facilities: []model.Facility{{ID: "f1", MinDemand: 1, MaxDemand: 5}},
		Clients:    []model.Client{{ID: "c1", Demand: 1.5}, {ID: "c2", Demand: 2.5}},
	}
}

func TestScale_MILP(t *testing.T) {
	sp, err := Scale(simpleMatrix(), 100, false)
	require.NoError(t, err)
	assert.Equal(t, []int{150, 250}, sp.ClientDemand)
	assert.Equal(t, []int{100}, sp.FacilityMinDemand)
	assert.Equal(t, []int{500}, sp.FacilityMaxDemand)
	assert.Equal(t, 1050, sp.Cost[0][0])
	assert.Equal(t, 2025, sp.Cost[0][1])
}

func TestScale_FlowPerUnitCost(t *testing.T) {
	sp, err := Scale(simpleMatrix(), 1000, true)
	require.NoError(t, err)
	require.Equal(t, []int{1500, 2500}, sp.ClientDemand)
	assert.Equal(t, int(10.5*1000)/1500, sp.Cost[0][0])
	assert.Equal(t, int(20.25*1000)/2500, sp.Cost[0][1])
}

func TestScale_ZeroScaledDemandIsValidationError(t *testing.T) {
	m := model.CostMatrix{
		Values:     [][]float64{{1}},
		Facilities: []model.Facility{{ID: "f1"}},
		Clients:    []model.Client{{ID: "c1", Demand: 0.0001}},
	}

	_, err := Scale(m, 1, true)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeZeroScaledDemand, apperror.Code(err))
}

func TestUnscaleObjective(t *testing.T) {
	assert.InDelta(t, 5.0, UnscaleObjective(5000, 1000, false), 1e-9)
	assert.InDelta(t, 5.0, UnscaleObjective(5*1000*1000, 1000, true), 1e-6)
}
