package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderStatus
		wantErr bool
	}{
		{in: "pending", want: StatusPending},
		{in: "dispatched", want: StatusDispatched},
		{in: "success", want: StatusSuccess},
		{in: "completed", want: StatusCompleted},
		{in: "Pending", wantErr: true},
		{in: "cancelled", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	assert.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter("All")
	assert.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter("completed")
	assert.NoError(t, err)
	assert.Equal(t, Filter(StatusCompleted), f)

	_, err = ParseFilter("all")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestFilter_Matches(t *testing.T) {
	o := Order{ID: "A", Status: StatusPending}

	assert.True(t, FilterAll.Matches(o))
	assert.True(t, Filter(StatusPending).Matches(o))
	assert.False(t, Filter(StatusCompleted).Matches(o))
}

func TestFilter_Label(t *testing.T) {
	assert.Equal(t, "All", FilterAll.Label())
	assert.Equal(t, "Dispatched", Filter(StatusDispatched).Label())
}

func TestOrder_UnmarshalImageVariants(t *testing.T) {
	raw := `{
		"_id": "order-1",
		"orderNumber": "ORD-1",
		"status": "pending",
		"products": [
			{"product": {"id": "p1", "name": "Chair", "price": 20, "stock": 3}, "image": "https://cdn/img.png", "quantity": 1, "price": 20},
			{"product": {"id": "p2"}, "image": {"_type": "image", "asset": {"_ref": "image-abc-200x200-png"}}, "quantity": 2, "price": 5},
			{"product": {"id": "p3"}, "image": null, "quantity": 1, "price": 1}
		]
	}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(raw), &o))

	assert.Equal(t, "order-1", o.Ref())
	require.Len(t, o.Products, 3)
	assert.Equal(t, "https://cdn/img.png", o.Products[0].Image.String())
	assert.Equal(t, "image-abc-200x200-png", o.Products[1].Image.String())
	assert.Equal(t, "", o.Products[2].Image.String())
	assert.Equal(t, "Chair", o.Products[0].Product.Name)
}
