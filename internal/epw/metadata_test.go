package epw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStationMetadata(t *testing.T) {
	diags := &Diagnostics{}
	md := ExtractStationMetadata(epwContent(wideRow("2000,1,1,1,60")), diags)

	assert.Equal(t, "Testville", md.City)
	assert.Equal(t, "ST", md.StateProvince)
	assert.Equal(t, "USA", md.Country)
	assert.Equal(t, "TMY3", md.DataType)
	assert.Equal(t, "999999", md.WMO)
	require.NotNil(t, md.Latitude)
	assert.Equal(t, 40.0, *md.Latitude)
	require.NotNil(t, md.Longitude)
	assert.Equal(t, -105.0, *md.Longitude)
	require.NotNil(t, md.TimeZone)
	assert.Equal(t, -7.0, *md.TimeZone)
	require.NotNil(t, md.Altitude)
	assert.Equal(t, 1650.0, *md.Altitude)
	assert.Nil(t, md.SourceYear)
	assert.Empty(t, diags.Messages())
}

func TestExtractStationMetadataMissingLocationLine(t *testing.T) {
	content := []byte("HEADER 1\nHEADER 2\nHEADER 3\nHEADER 4\nHEADER 5\nHEADER 6\nHEADER 7\nHEADER 8\n")
	diags := &Diagnostics{}
	md := ExtractStationMetadata(content, diags)

	assert.Equal(t, DefaultStationMetadata(), md)
	require.Len(t, diags.Messages(), 1)
	assert.Equal(t, LevelWarning, diags.Messages()[0].Level)
	assert.Equal(t, "Could not find LOCATION line in EPW header.", diags.Messages()[0].Message)
}

func TestExtractStationMetadataShortLocationLine(t *testing.T) {
	content := []byte("LOCATION,Testville,ST,USA\nx\nx\nx\nx\nx\nx\nx\n")
	diags := &Diagnostics{}
	md := ExtractStationMetadata(content, diags)

	assert.Equal(t, DefaultStationMetadata(), md)
	require.Len(t, diags.Messages(), 1)
	assert.Equal(t, "LOCATION line has fewer than 10 fields.", diags.Messages()[0].Message)
}

func TestExtractStationMetadataBadNumericFields(t *testing.T) {
	content := []byte("LOCATION,Testville,ST,USA,TMY3,999999,not-a-lat,-105.0,bad-tz,1650.0\nx\nx\nx\nx\nx\nx\nx\n")
	diags := &Diagnostics{}
	md := ExtractStationMetadata(content, diags)

	assert.Nil(t, md.Latitude)
	require.NotNil(t, md.Longitude)
	assert.Equal(t, -105.0, *md.Longitude)
	assert.Nil(t, md.TimeZone)
	require.NotNil(t, md.Altitude)

	msgs := diags.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Could not parse Latitude: 'not-a-lat'", msgs[0].Message)
	assert.Equal(t, "Could not parse Time Zone (TZ): 'bad-tz'", msgs[1].Message)
}

func TestExtractStationMetadataEmptyFieldsSilentlyAbsent(t *testing.T) {
	content := []byte("LOCATION,Testville,,USA,TMY3,999999,,,-7.0,\nx\nx\nx\nx\nx\nx\nx\n")
	diags := &Diagnostics{}
	md := ExtractStationMetadata(content, diags)

	assert.Equal(t, "Testville", md.City)
	assert.Equal(t, "N/A", md.StateProvince, "empty string field keeps its default")
	assert.Nil(t, md.Latitude)
	assert.Nil(t, md.Longitude)
	require.NotNil(t, md.TimeZone)
	assert.Nil(t, md.Altitude)
	assert.Empty(t, diags.Messages(), "empty numeric fields warrant no warning")
}

func TestExtractStationMetadataLocationNotOnFirstLine(t *testing.T) {
	content := []byte("COMMENTS,whatever\nLOCATION,Testville,ST,USA,TMY3,999999,40.0,-105.0,-7.0,1650.0\nx\nx\nx\nx\nx\nx\n")
	diags := &Diagnostics{}
	md := ExtractStationMetadata(content, diags)

	assert.Equal(t, "Testville", md.City)
	assert.Empty(t, diags.Messages())
}
