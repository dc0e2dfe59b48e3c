package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{name: "Both Set", cfg: New("https://imgur.com/a/AbCd123", "XYZ"), want: nil},
		{name: "No Link", cfg: New("", "XYZ"), want: []string{FieldLink}},
		{name: "No Client ID", cfg: New("https://imgur.com/a/AbCd123", ""), want: []string{FieldClientID}},
		{name: "Neither", cfg: Config{}, want: []string{FieldLink, FieldClientID}},
		{name: "Whitespace Only", cfg: New("  ", "\t"), want: []string{FieldLink, FieldClientID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.MissingFields())
			assert.Equal(t, len(tt.want) == 0, tt.cfg.IsComplete())
		})
	}
}

func TestConfigStringMasksClientID(t *testing.T) {
	cfg := New("https://imgur.com/a/AbCd123", "abcdef123456")
	s := cfg.String()
	assert.Contains(t, s, "https://imgur.com/a/AbCd123")
	assert.NotContains(t, s, "abcdef123456")
	assert.Contains(t, s, "ab********56")

	assert.Contains(t, Config{}.String(), "<unset>")
}

func TestClientIDKeyring(t *testing.T) {
	keyring.MockInit()

	id, err := LoadClientID()
	require.NoError(t, err)
	assert.Empty(t, id, "nothing stored yet")

	require.NoError(t, SaveClientID("XYZ"))

	id, err = LoadClientID()
	require.NoError(t, err)
	assert.Equal(t, "XYZ", id)

	id, err = ResolveClientID("flag-wins")
	require.NoError(t, err)
	assert.Equal(t, "flag-wins", id)

	id, err = ResolveClientID("")
	require.NoError(t, err)
	assert.Equal(t, "XYZ", id)

	require.NoError(t, DeleteClientID())
	require.NoError(t, DeleteClientID(), "deleting twice is fine")

	id, err = LoadClientID()
	require.NoError(t, err)
	assert.Empty(t, id)

	assert.Error(t, SaveClientID(""))
}
