package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCollection_InsertionOrder(t *testing.T) {
	c := NewItemCollection()
	c.Add("648800", &NormalizedProduct{Name: "Raft"})
	c.Add("1455840", &NormalizedProduct{Name: "Dorfromantik"})
	c.Add("427520", &NormalizedProduct{Name: "Factorio"})

	assert.Equal(t, []string{"648800", "1455840", "427520"}, c.IDs())
	assert.Equal(t, 3, c.Len())

	names := []string{}
	for _, item := range c.Items() {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Raft", "Dorfromantik", "Factorio"}, names)
}

func TestItemCollection_ReplaceKeepsPosition(t *testing.T) {
	c := NewItemCollection()
	c.Add("1", &NormalizedProduct{Name: "first"})
	c.Add("2", &NormalizedProduct{Name: "second"})
	c.Add("1", &NormalizedProduct{Name: "replaced"})

	assert.Equal(t, []string{"1", "2"}, c.IDs())
	item, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "replaced", item.Name)

	_, ok = c.Get("3")
	assert.False(t, ok)
}

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    FlexInt
		wantErr bool
	}{
		{`18`, 18, false},
		{`"18"`, 18, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"eighteen"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got FlexInt
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizationError(t *testing.T) {
	var err error = &NormalizationError{ProductID: "42", Field: "header_image", Reason: "marker not found"}
	wrapped := errors.Join(errors.New("context"), err)

	assert.True(t, errors.Is(err, ErrNormalization))
	assert.True(t, IsNormalizationError(wrapped))
	assert.False(t, IsNormalizationError(errors.New("other")))
	assert.Equal(t, "normalize product 42 field header_image: marker not found", err.Error())
}
