package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnero/utils"
)

func performRequest(handler gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Handle(method, "/t", handler)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestBookingHandlerRejectsMalformedBody(t *testing.T) {
	hb := &HandlerBundle{}
	w := performRequest(hb.RequestBookingHandler, http.MethodPost, "/t", "{not json")

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid input", resp.Message)
	assert.NotEmpty(t, resp.Details)
}

func TestQuotePriceHandlerRejectsBadTime(t *testing.T) {
	hb := &HandlerBundle{}
	w := performRequest(hb.QuotePriceHandler, http.MethodGet, "/t?serviceId=s1&providerId=p1&time=noon", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "time must be RFC3339", resp.Message)
}
