package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestDataResponseEnvelope(t *testing.T) {
	c, rec := newTestContext()

	if err := DataResponse(c, http.StatusBadRequest, "nope"); err != nil {
		t.Fatalf("DataResponse: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("transport status = %d", rec.Code)
	}

	var env APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Status != http.StatusBadRequest || env.Message != "Bad Request" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestAppErrorResponseCarriesStatus(t *testing.T) {
	c, rec := newTestContext()

	appErr := TooManyRequestsError("rate limited")
	if err := AppErrorResponse(c, appErr); err != nil {
		t.Fatalf("AppErrorResponse: %v", err)
	}

	var env struct {
		Status int         `json:"status"`
		Data   []*AppError `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Status != http.StatusTooManyRequests {
		t.Errorf("status = %d", env.Status)
	}
	if len(env.Data) != 1 || env.Data[0].Code != "ERR_RATE_LIMITED" {
		t.Errorf("data = %+v", env.Data)
	}
}

func TestAppErrorResponseUnknownErrorIs500(t *testing.T) {
	c, rec := newTestContext()

	if err := AppErrorResponse(c, errors.New("boom")); err != nil {
		t.Fatalf("AppErrorResponse: %v", err)
	}

	var env APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", env.Status)
	}
}

func TestAppErrorWrapsCause(t *testing.T) {
	cause := errors.New("upstream down")
	err := InternalError("signal unavailable").WithError(cause)

	if !errors.Is(err, cause) {
		t.Errorf("cause not unwrapped")
	}
	if err.Error() != "signal unavailable: upstream down" {
		t.Errorf("Error() = %q", err.Error())
	}
}
