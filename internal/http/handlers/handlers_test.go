package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T, method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestUpdateVehicleRejectsNonPositiveCapacity(t *testing.T) {
	c, w := testContext(t, http.MethodPut, `{"code":"BUS-1","capacity":0}`)
	c.Params = gin.Params{{Key: "id", Value: "3"}}

	UpdateVehicle(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdateStationRejectsUnknownKind(t *testing.T) {
	c, w := testContext(t, http.MethodPut, `{"name":"Terminal","kind":"garage"}`)
	c.Params = gin.Params{{Key: "id", Value: "2"}}

	UpdateStation(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDeletePersonRejectsInvalidID(t *testing.T) {
	c, w := testContext(t, http.MethodDelete, "")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	DeletePerson(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
