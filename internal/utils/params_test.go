package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/apperror"
)

func contextWithQuery(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return ctx
}

func TestGetPageRequest(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		size     int
		wantFail bool
	}{
		{query: "", page: 0, size: 0},
		{query: "page=2&size=25", page: 2, size: 25},
		{query: "size=0", page: 0, size: 0},
		{query: "page=-1", wantFail: true},
		{query: "size=-5", wantFail: true},
		{query: "size=ten", wantFail: true},
		{query: "size=1000", page: 0, size: 1000},
		{query: "size=1001", wantFail: true},
		{query: "page=922337203685477581&size=10", wantFail: true},
		{query: "page=99999999999999999999&size=10", wantFail: true},
	}

	for _, tt := range tests {
		req, err := GetPageRequest(contextWithQuery(tt.query))

		if tt.wantFail {
			var verr *apperror.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("%q: expected validation error, got %v", tt.query, err)
			}
			continue
		}

		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.query, err)
			continue
		}
		if req.Page != tt.page || req.Size != tt.size {
			t.Errorf("%q: expected page %d size %d, got %+v", tt.query, tt.page, tt.size, req)
		}
	}
}

func TestGetUUIDParam(t *testing.T) {
	ctx := contextWithQuery("")
	ctx.Params = gin.Params{{Key: "id", Value: "nope"}}

	if _, err := GetUUIDParam(ctx, "id"); err == nil {
		t.Fatal("expected error for malformed uuid")
	}

	ctx.Params = gin.Params{{Key: "id", Value: "7c9e6679-7425-40de-944b-e07fc1f90ae7"}}
	id, err := GetUUIDParam(ctx, "id")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if id.String() != "7c9e6679-7425-40de-944b-e07fc1f90ae7" {
		t.Fatalf("unexpected id %s", id)
	}
}
