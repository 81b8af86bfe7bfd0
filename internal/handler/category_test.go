package handler

import (
	"encoding/json"
	"testing"

	"github.com/dukerupert/shoplist/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorderRequestIDs(t *testing.T) {
	tests := []struct {
		body string
		want []int64
		ok   bool
	}{
		{`{"categoryIds":[3,1,2]}`, []int64{3, 1, 2}, true},
		{`{"category_ids":[2]}`, []int64{2}, true},
		{`{"categoryIds":[]}`, []int64{}, true},
		{`{"categoryIds":[5],"category_ids":[6]}`, []int64{5}, true},
		{`{}`, nil, false},
		{`{"categoryIds":null}`, nil, false},
		{`{"order":[1,2]}`, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req reorderRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			ids, err := req.ids()
			if !tt.ok {
				assert.True(t, apperr.Is(err, apperr.KindValidation), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}
