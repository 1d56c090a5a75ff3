// Package testutil provides utility functions for testing HTTP handlers.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// MakeJSONRequest is a helper function for making JSON requests in tests.
// A nil body sends no payload; an empty authToken sends no Authorization header.
func MakeJSONRequest(body interface{}, authToken string, r *gin.Engine, endpoint string, method string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, endpoint, reader)
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	resp := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

// Data returns the "data" member of a decoded response envelope as an object.
func Data(resp map[string]interface{}) map[string]interface{} {
	data, _ := resp["data"].(map[string]interface{})
	return data
}

// Float64Ptr is a helper function to get a pointer to a float64
func Float64Ptr(f float64) *float64 {
	return &f
}
