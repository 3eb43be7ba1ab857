package epw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticsPreservesEmissionOrder(t *testing.T) {
	d := &Diagnostics{}
	d.Infof("first")
	d.Warningf("second %d", 2)
	d.Errorf("third")
	d.Successf("fourth")

	msgs := d.Messages()
	assert.Equal(t, []Diagnostic{
		{Level: LevelInfo, Message: "first"},
		{Level: LevelWarning, Message: "second 2"},
		{Level: LevelError, Message: "third"},
		{Level: LevelSuccess, Message: "fourth"},
	}, msgs)
}

func TestDiagnosticsCounts(t *testing.T) {
	d := &Diagnostics{}
	assert.False(t, d.HasErrors())
	assert.Equal(t, 0, d.Count(LevelInfo))

	d.Warningf("w1")
	d.Warningf("w2")
	d.Errorf("e1")

	assert.Equal(t, 2, d.Count(LevelWarning))
	assert.Equal(t, 1, d.Count(LevelError))
	assert.Equal(t, 0, d.Count(LevelSuccess))
	assert.True(t, d.HasErrors())
}
