package ssrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recsync/recsync-cli/internal/core/domain"
)

const sampleFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"
      xmlns:m="http://schemas.microsoft.com/ado/2007/08/dataservices/metadata"
      xmlns:d="http://schemas.microsoft.com/ado/2007/08/dataservices">
  <title>Project List</title>
  <updated>2025-03-01T00:00:00Z</updated>
  <entry>
    <id>http://srv/rs/1</id>
    <content type="application/xml">
      <m:properties>
        <d:ProjectID>P100</d:ProjectID>
        <d:Name> Network Refresh </d:Name>
        <d:Percent_Complete>40</d:Percent_Complete>
      </m:properties>
    </content>
  </entry>
  <entry>
    <content type="application/xml">
      <m:properties>
        <d:ProjectID>P200</d:ProjectID>
        <d:Name>Cloud Migration</d:Name>
      </m:properties>
    </content>
  </entry>
</feed>`

func TestParseEntries(t *testing.T) {
	entries, err := ParseEntries(sampleFeed)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "P100", first.Fields["project_id"])
	assert.Equal(t, "Network Refresh", first.Fields["name"])
	assert.Equal(t, "40", first.Fields["percent_complete"])
	// Elements outside the content block never become fields.
	assert.NotContains(t, first.Fields, "id")
	assert.NotEmpty(t, first.Raw)

	assert.Equal(t, "P200", entries[1].Fields["project_id"])
}

func TestParseEntries_WithoutPropertiesWrapper(t *testing.T) {
	feed := `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <content>
      <TicketID>T9</TicketID>
      <Summary>Printer down</Summary>
    </content>
  </entry>
</feed>`

	entries, err := ParseEntries(feed)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "T9", entries[0].Fields["ticket_id"])
	assert.Equal(t, "Printer down", entries[0].Fields["summary"])
}

func TestParseEntries_Empty(t *testing.T) {
	entries, err := ParseEntries(`<feed xmlns="http://www.w3.org/2005/Atom"><title>Empty</title></feed>`)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseEntries_Malformed(t *testing.T) {
	_, err := ParseEntries(`<feed><entry><content attr=">`)
	require.Error(t, err)
	var parseErr *domain.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestNormalizeFieldName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ProjectID", "project_id"},
		{"Percent_Complete", "percent_complete"},
		{"closeDate", "close_date"},
		{"SRNumber", "sr_number"},
		{"Actual Hours", "actual_hours"},
		{"already_snake", "already_snake"},
		{"  Padded  ", "padded"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeFieldName(tt.in), "input %q", tt.in)
	}
}
