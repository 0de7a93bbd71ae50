package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/yungbote/censusgap-backend/internal/platform/apierr"
)

func TestRespondErrorUsesCarriedStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondError(c, apierr.New(http.StatusNotFound, "no_data", errors.New("no data for race asian in year 2019")))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body["error"] != "no data for race asian in year 2019" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestBindMessageFlattensValidationErrors(t *testing.T) {
	type payload struct {
		Year int    `json:"year" binding:"required"`
		Name string `json:"name" binding:"required,max=3"`
	}
	err := binding.Validator.ValidateStruct(&payload{Name: "toolong"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	got := BindMessage(err)
	want := "Year is required; Name must be at most 3"
	if got != want {
		t.Fatalf("message: got=%q want=%q", got, want)
	}
}
