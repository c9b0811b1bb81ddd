package geo

import (
	"testing"

	"facilityassign/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExclusiveArea_Polygon(t *testing.T) {
	raw := []byte(`{
		"type": "Polygon",
		"coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]
	}`)

	mp, err := ParseExclusiveArea(raw)
	require.NoError(t, err)
	require.Len(t, mp, 1)
	assert.Len(t, mp[0][0], 4, "closing vertex should be deduped")
}

func TestParseExclusiveArea_MultiPolygon(t *testing.T) {
	raw := []byte(`{
		"type": "MultiPolygon",
		"coordinates": [
			[[[0,0],[1,0],[1,1],[0,1]]],
			[[[5,5],[6,5],[6,6],[5,6]]]
		]
	}`)

	mp, err := ParseExclusiveArea(raw)
	require.NoError(t, err)
	assert.Len(t, mp, 2)
}

func TestParseExclusiveArea_GeometryCollection(t *testing.T) {
	raw := []byte(`{
		"type": "GeometryCollection",
		"geometries": [
			{"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1]]]},
			{"type": "Polygon", "coordinates": [[[5,5],[6,5],[6,6],[5,6]]]}
		]
	}`)

	mp, err := ParseExclusiveArea(raw)
	require.NoError(t, err)
	assert.Len(t, mp, 2)
}

func TestParseExclusiveArea_RejectsFeatureCollection(t *testing.T) {
	raw := []byte(`{"type": "FeatureCollection", "features": []}`)

	_, err := ParseExclusiveArea(raw)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidGeometry, apperror.Code(err))
}

func TestParseExclusiveArea_RejectsDegeneratePolygon(t *testing.T) {
	raw := []byte(`{"type": "Polygon", "coordinates": [[[0,0],[1,1]]]}`)

	_, err := ParseExclusiveArea(raw)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeDegeneratePolygon, apperror.Code(err))
}

func TestParseExclusiveArea_RejectsUnsupportedType(t *testing.T) {
	raw := []byte(`{"type": "Point", "coordinates": [0,0]}`)

	_, err := ParseExclusiveArea(raw)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidGeometry, apperror.Code(err))
}

func TestParseExclusiveArea_Empty(t *testing.T) {
	mp, err := ParseExclusiveArea(nil)
	require.NoError(t, err)
	assert.Nil(t, mp)
}
