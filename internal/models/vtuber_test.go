package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVTuber_AfterFindNormalizesToUTC(t *testing.T) {
	taipei := time.FixedZone("CST", 8*60*60)
	created := time.Date(2024, 3, 1, 20, 0, 0, 123000, taipei)
	v := &VTuber{Name: "Gawr Gura", CreatedAt: created, UpdatedAt: created.Add(time.Minute)}

	require.NoError(t, v.AfterFind(nil))

	assert.Equal(t, time.UTC, v.CreatedAt.Location())
	assert.Equal(t, time.UTC, v.UpdatedAt.Location())
	assert.True(t, v.CreatedAt.Equal(created))

	body, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"created_at":"2024-03-01T12:00:00.000123Z"`)
}

func TestDate_JSONAndScan(t *testing.T) {
	d, err := ParseDate("2020-09-13")
	require.NoError(t, err)

	body, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2020-09-13"`, string(body))

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(2020, 9, 13, 0, 0, 0, 0, time.FixedZone("X", -5*3600))))
	assert.Equal(t, "2020-09-13", scanned.String())
	require.NoError(t, scanned.Scan([]byte("2021-01-02T00:00:00Z")))
	assert.Equal(t, "2021-01-02", scanned.String())

	_, err = ParseDate("2020-02-30")
	assert.Error(t, err)
}
