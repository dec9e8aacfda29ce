package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adyen/productpage/internal/models"
)

func TestParseSection(t *testing.T) {
	tests := []struct {
		input   string
		want    models.Section
		wantErr bool
	}{
		{input: "description", want: models.SectionDescription},
		{input: "shipping", want: models.SectionShipping},
		{input: "reviews", want: models.SectionReviews},
		{input: "none", want: models.SectionNone, wantErr: true},
		{input: "", want: models.SectionNone, wantErr: true},
		{input: "Reviews", want: models.SectionNone, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := models.ParseSection(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidSection)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCartRequestState_Predicates(t *testing.T) {
	assert.True(t, models.CartIdle.AcceptsSubmit())
	assert.True(t, models.CartSucceeded.AcceptsSubmit())
	assert.False(t, models.CartSubmitting.AcceptsSubmit())

	assert.True(t, models.CartSubmitting.IsSubmitting())
	assert.False(t, models.CartIdle.IsSubmitting())

	assert.True(t, models.CartSucceeded.IsSucceeded())
	assert.False(t, models.CartSubmitting.IsSucceeded())
}
