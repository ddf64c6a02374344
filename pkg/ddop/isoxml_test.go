package ddop

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_ValidPool(t *testing.T) {
	pool := NewPool()
	require.True(t, NewBuilder(testBuildConfig(2)).Build(pool))

	data, err := Marshal(pool)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, xml.Header))
	assert.Contains(t, text, "<ISO11783_TaskData")
	assert.Contains(t, text, `VersionMajor="4"`)
	assert.Contains(t, text, `VersionMinor="3"`)
	assert.Contains(t, text, `B="Test Sprayer"`)
	assert.Contains(t, text, `E="SN-1"`)

	// Client NAME and localization are hex-encoded.
	assert.Contains(t, text, `D="a001020304050607"`)

	// DDIs appear as four uppercase hex digits: 161 = 00A1.
	assert.Contains(t, text, `B="00A1"`)

	// The document parses back.
	var doc struct {
		XMLName xml.Name `xml:"ISO11783_TaskData"`
		Device  struct {
			Elements []struct {
				ObjectID   uint16 `xml:"B,attr"`
				References []struct {
					ObjectID uint16 `xml:"A,attr"`
				} `xml:"DOR"`
			} `xml:"DET"`
			ProcessData   []struct{} `xml:"DPD"`
			Properties    []struct{} `xml:"DPT"`
			Presentations []struct{} `xml:"DVP"`
		} `xml:"DVC"`
	}
	require.NoError(t, xml.Unmarshal(data, &doc))
	assert.Len(t, doc.Device.Elements, 4+2)
	assert.Len(t, doc.Device.Presentations, 4)
	assert.NotEmpty(t, doc.Device.ProcessData)
	assert.NotEmpty(t, doc.Device.Properties)
}

func TestMarshal_RefusesInvalidPool(t *testing.T) {
	t.Run("empty pool", func(t *testing.T) {
		_, err := Marshal(NewPool())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoDevice)
	})

	t.Run("dangling reference", func(t *testing.T) {
		pool := NewPool()
		require.True(t, NewBuilder(testBuildConfig(2)).Build(pool))
		main, found := pool.Element(idMainElement)
		require.True(t, found)
		main.AddChildReference(9999)

		_, err := Marshal(pool)
		assert.ErrorIs(t, err, ErrDanglingReference)
	})
}

func TestWriteFile(t *testing.T) {
	pool := NewPool()
	require.True(t, NewBuilder(testBuildConfig(2)).Build(pool))

	path := filepath.Join(t.TempDir(), "TASKDATA.XML")
	require.NoError(t, WriteFile(pool, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<ISO11783_TaskData")
}
