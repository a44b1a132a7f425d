package request

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationFromQuery(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"page=3&per_page=10", 10, 20},
		{"page=-1&per_page=abc", 20, 0},
		{"page=2&per_page=500", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			p := PaginationFromQuery(q)
			assert.Equal(t, tt.wantLimit, p.Limit())
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}

func TestLabelList(t *testing.T) {
	var req PackageRequest
	err := req.Items.UnmarshalJSON([]byte(`"2 speakers\n\n  1 mixer "`))
	assert.NoError(t, err)
	assert.Equal(t, LabelList{"2 speakers", "1 mixer"}, req.Items)

	err = req.Extras.UnmarshalJSON([]byte(`[" lights ", ""]`))
	assert.NoError(t, err)
	assert.Equal(t, LabelList{"lights"}, req.Extras)

	assert.Error(t, req.Extras.UnmarshalJSON([]byte(`42`)))
}

func TestLooseText(t *testing.T) {
	var v LooseText
	assert.NoError(t, v.UnmarshalJSON([]byte(`150.5`)))
	assert.Equal(t, LooseText("150.5"), v)
	assert.NoError(t, v.UnmarshalJSON([]byte(`"abc"`)))
	assert.Equal(t, LooseText("abc"), v)
}
