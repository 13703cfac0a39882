package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/interceptors/constants"
)

func TestSession_MintsAndReuses(t *testing.T) {
	var seen string
	h := Session(time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(constants.HeaderXSessionID))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(cookies[0])
	first := seen
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, first, seen, "cookie reused")

	other := uuid.NewString()
	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(constants.HeaderXSessionID, other)
	req.AddCookie(cookies[0])
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, other, seen, "header wins over cookie")

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(constants.HeaderXSessionID, "../../etc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "../../etc", seen, "malformed ids are replaced")
}

func TestAttachTracingMetadata(t *testing.T) {
	var reqID, idem string
	var md metadata.MD
	h := middleware.RequestID(AttachTracingMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID = interceptors.RequestIDFromContext(r.Context())
		idem = interceptors.IdempotencyKeyFromContext(r.Context())
		md, _ = metadata.FromOutgoingContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Header.Set(constants.HeaderXIdempotencyKey, "idem-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEmpty(t, reqID)
	assert.Equal(t, "idem-7", idem)
	assert.Equal(t, []string{reqID}, md.Get(constants.HeaderXRequestId))
	assert.Equal(t, []string{"idem-7"}, md.Get(constants.HeaderXIdempotencyKey))
}
