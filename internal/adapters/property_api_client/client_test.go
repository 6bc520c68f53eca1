package property_api_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBody = `{"data": [
  {"id": 1, "title": "Nhà mặt phố", "cost": 3500000000, "land_area": 80, "content": "Gần chợ",
   "images": ["https://img/1a.jpg", "https://img/1b.jpg"], "type_posting_id": 4,
   "province_code": "79", "ward_code": 26734, "number_of_street": "12 Lê Lợi",
   "cost_deposit": null, "condition_interior": 1},
  {"id": "2", "title": "Không ảnh", "images": []},
  {"id": "3", "title": "Căn hộ", "cost": "Thỏa thuận", "land_area": "45.5", "images": ["https://img/3.jpg"], "type_posting_id": "1"}
]}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *PropertyAPIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPropertyAPIClient(srv.URL+"/", time.Second)
}

func TestListProperties(t *testing.T) {
	var gotTrace string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/properties", r.URL.Path)
		gotTrace = r.Header.Get("X-Trace-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listBody))
	})

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-42")
	records, err := client.ListProperties(ctx)
	require.NoError(t, err)

	assert.Equal(t, "trace-42", gotTrace)
	require.Len(t, records, 2, "record without images is skipped")

	first := records[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "3500000000", first.Cost)
	assert.Equal(t, "80", first.LandArea)
	assert.True(t, first.IsVIP())
	assert.Equal(t, []string{"https://img/1a.jpg", "https://img/1b.jpg"}, first.Images)
	assert.Equal(t, "26734", first.Details.WardCode)
	assert.Equal(t, "", first.Details.CostDeposit)
	assert.Equal(t, 1, first.Details.ConditionInterior)

	assert.Equal(t, "3", records[1].ID)
	assert.Equal(t, "Thỏa thuận", records[1].Cost)
	assert.Equal(t, domain.PostingType(1), records[1].TypePostingID)
}

func TestListProperties_ServerError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database is down", http.StatusInternalServerError)
	})

	_, err := client.ListProperties(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestListProperties_BadJSON(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [`))
	})

	_, err := client.ListProperties(context.Background())
	assert.Error(t, err)
}

func TestGetByID(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/properties/7":
			_, _ = w.Write([]byte(`{"data": {"id": 7, "title": "Đất nền", "images": ["https://img/7.jpg"], "cost_deposit": 5000000}}`))
		case "/api/v1/properties/noimg":
			_, _ = w.Write([]byte(`{"data": {"id": "noimg", "images": []}}`))
		case "/api/v1/properties/null":
			_, _ = w.Write([]byte(`{"data": null}`))
		case "/api/v1/properties/boom":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	record, err := client.GetByID(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "7", record.ID)
	assert.True(t, record.Details.IsRental())

	_, err = client.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)

	_, err = client.GetByID(ctx, "noimg")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)

	_, err = client.GetByID(ctx, "null")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)

	_, err = client.GetByID(ctx, "boom")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestGetByID_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetByID(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFlexString(t *testing.T) {
	var dto propertyDTO
	require.NoError(t, dto.ID.UnmarshalJSON([]byte(`12.50`)))
	assert.Equal(t, flexString("12.50"), dto.ID)
	require.NoError(t, dto.ID.UnmarshalJSON([]byte(`" 9 "`)))
	assert.Equal(t, flexString("9"), dto.ID)
	assert.Equal(t, 9, dto.ID.Int())
	require.NoError(t, dto.ID.UnmarshalJSON([]byte(`null`)))
	assert.Equal(t, flexString(""), dto.ID)
	assert.Error(t, dto.ID.UnmarshalJSON([]byte(`{}`)))
}
