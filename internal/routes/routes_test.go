package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/auth"
	"github.com/BruksfildServices01/sto-scheduler/internal/config"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/sto-scheduler/internal/logging"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
	"github.com/BruksfildServices01/sto-scheduler/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	httperr.UseJSONFieldNames()
}

type api struct {
	t       *testing.T
	db      *gorm.DB
	router  *gin.Engine
	tokens  *auth.Tokens
	service *models.Service
	date    string
}

func newAPI(t *testing.T, opts ...func(*Deps)) *api {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		Timezone:           "UTC",
		SlotStepMinutes:    30,
		BookingHorizonDays: 30,
		EditWindow:         2 * time.Hour,
	}

	deps := Deps{
		DB:     db,
		Config: cfg,
		Log:    logging.NewWithWriter("error", io.Discard),
		Locker: lock.NewLocalLocker(),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	r := gin.New()
	RegisterRoutes(r, deps)

	cat := testutil.CreateCategory(t, db, "ТО")
	testutil.CreateBox(t, db, "Box 1", testutil.WeekdaysHours("08:00", "18:00"))
	testutil.CreateBox(t, db, "Box 2", testutil.WeekdaysHours("08:00", "18:00"))

	return &api{
		t:       t,
		db:      db,
		router:  r,
		tokens:  auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		service: testutil.CreateService(t, db, cat.ID, "200.00", 60),
		date:    futureWeekday(),
	}
}

// futureWeekday is at least two days ahead so every slot of the day is
// bookable and editable.
func futureWeekday() string {
	d := time.Now().UTC().AddDate(0, 0, 2)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func (a *api) call(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (a *api) list(path, token string) []any {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var out []any
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (a *api) adminToken() string {
	a.t.Helper()
	admin := testutil.CreateAdmin(a.t, a.db, "boss")
	token, err := a.tokens.Issue(admin)
	require.NoError(a.t, err)
	return token
}

func (a *api) guestBooking(at string) map[string]any {
	return map[string]any{
		"service_id":       a.service.ID,
		"appointment_date": a.date,
		"appointment_time": at,
		"guest_name":       "Olena",
		"guest_phone":      "+380501234567",
	}
}

func TestGuestBookingFillsBoxesInOrder(t *testing.T) {
	a := newAPI(t)

	w, body := a.call(http.MethodPost, "/api/guest-appointments?language=en", "", a.guestBooking("10:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "11:00", body["end_time"])
	assert.Equal(t, "200.00", body["total_price"])
	assert.Equal(t, "Box 1", body["box"].(map[string]any)["name"])
	assert.Equal(t, "Service", body["service"].(map[string]any)["name"])

	w, body = a.call(http.MethodPost, "/api/guest-appointments", "", a.guestBooking("10:30"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Box 2", body["box"].(map[string]any)["name"])

	w, body = a.call(http.MethodPost, "/api/guest-appointments", "", a.guestBooking("10:00"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "no_box_available", body["error_code"])
}

func TestGuestBookingValidation(t *testing.T) {
	a := newAPI(t)

	w, body := a.call(http.MethodPost, "/api/guest-appointments", "", map[string]any{"guest_name": "Olena"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "service_id")
	assert.Contains(t, fields, "appointment_date")
	assert.Contains(t, fields, "appointment_time")

	req := a.guestBooking("10:00")
	req["guest_phone"] = ""
	w, body = a.call(http.MethodPost, "/api/guest-appointments", "", req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["fields"].(map[string]any), "guest_phone")
}

func TestAvailabilityEndpoints(t *testing.T) {
	a := newAPI(t)

	w, body := a.call(http.MethodGet, fmt.Sprintf("/api/boxes/available_dates?service_id=%d", a.service.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body["available_dates"], a.date)

	path := fmt.Sprintf("/api/boxes/available_times?service_id=%d&date=%s", a.service.ID, a.date)
	w, body = a.call(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	times := body["available_times"].([]any)
	assert.Equal(t, "08:00", times[0])
	assert.Equal(t, "17:00", times[len(times)-1])

	boxes := a.list(fmt.Sprintf("/api/boxes/available_boxes?service_id=%d&date=%s&time=09:00", a.service.ID, a.date), "")
	assert.Len(t, boxes, 2)

	w, body = a.call(http.MethodGet, fmt.Sprintf("/api/boxes/available_times?service_id=%d&date=tomorrow", a.service.ID), "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", body["error_code"])

	w, _ = a.call(http.MethodGet, "/api/boxes/available_times?service_id=abc&date="+a.date, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerBookingLifecycle(t *testing.T) {
	a := newAPI(t)
	admin := a.adminToken()

	w, session := a.call(http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "ivan",
		"email":    "ivan@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := session["token"].(string)
	require.NotEmpty(t, token)

	w, _ = a.call(http.MethodPost, "/api/auth/login", "", map[string]any{"username": "ivan", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = a.call(http.MethodPost, "/api/appointments", "", a.guestBooking("09:00"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, ap := a.call(http.MethodPost, "/api/appointments", token, map[string]any{
		"service_id":       a.service.ID,
		"appointment_date": a.date,
		"appointment_time": "09:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := int(ap["id"].(float64))

	mine := a.list("/api/appointments/my", token)
	require.Len(t, mine, 1)

	w, updated := a.call(http.MethodPut, fmt.Sprintf("/api/appointments/%d", id), token, map[string]any{
		"service_id":       a.service.ID,
		"appointment_date": a.date,
		"appointment_time": "13:00",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "13:00", updated["appointment_time"])

	// only admins move the lifecycle forward
	w, body := a.call(http.MethodPost, fmt.Sprintf("/api/appointments/%d/confirm", id), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "admin_only", body["error_code"])

	w, body = a.call(http.MethodPost, fmt.Sprintf("/api/appointments/%d/confirm", id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", body["status"])

	// confirmed bookings are no longer editable
	w, body = a.call(http.MethodPut, fmt.Sprintf("/api/appointments/%d", id), token, map[string]any{
		"service_id":       a.service.ID,
		"appointment_date": a.date,
		"appointment_time": "14:00",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body = a.call(http.MethodPost, fmt.Sprintf("/api/appointments/%d/complete", id), admin, map[string]any{
		"mechanic_notes": "Oil and filter replaced",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", body["status"])

	history := a.list("/api/service-history", token)
	require.Len(t, history, 1)
	assert.Equal(t, "Oil and filter replaced", history[0].(map[string]any)["mechanic_notes"])

	ledger := a.list("/api/loyalty-transactions", token)
	require.Len(t, ledger, 1)
	assert.Equal(t, float64(200), ledger[0].(map[string]any)["points"])

	w, profile := a.call(http.MethodGet, "/api/customers/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(200), profile["loyalty_points"])
	assert.Equal(t, float64(1), profile["completed_appointments"])
	assert.Equal(t, "0.5", profile["discount_percent"])
}

func TestCancelByOwnerAndAdmin(t *testing.T) {
	a := newAPI(t)
	admin := a.adminToken()

	_, session := a.call(http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "maria",
		"email":    "maria@example.com",
		"password": "password123",
	})
	token := session["token"].(string)

	_, ap := a.call(http.MethodPost, "/api/appointments", token, map[string]any{
		"service_id":       a.service.ID,
		"appointment_date": a.date,
		"appointment_time": "09:00",
	})
	id := int(ap["id"].(float64))

	w, body := a.call(http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", body["status"])

	w, body = a.call(http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel", id), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "appointment_closed", body["error_code"])

	_, guest := a.call(http.MethodPost, "/api/guest-appointments", "", a.guestBooking("11:00"))
	guestID := int(guest["id"].(float64))

	w, _ = a.call(http.MethodPost, fmt.Sprintf("/api/admin/%d/cancel_appointment", guestID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = a.call(http.MethodPost, fmt.Sprintf("/api/admin/%d/cancel_appointment", guestID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled_by_admin", body["status"])
}

func TestAdminCatalogAndReports(t *testing.T) {
	a := newAPI(t)
	admin := a.adminToken()

	w, created := a.call(http.MethodPost, "/api/admin/services", admin, map[string]any{
		"category_id":      a.service.CategoryID,
		"name":             map[string]string{"uk": "Шиномонтаж", "en": "Tyre fitting"},
		"price":            "450.5",
		"duration_minutes": 45,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Tyre fitting", created["name"].(map[string]any)["en"])
	id := int(created["id"].(float64))

	w, _ = a.call(http.MethodPost, fmt.Sprintf("/api/admin/services/%d/toggle_featured", id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	featured := a.list("/api/services/featured?language=en", "")
	require.Len(t, featured, 1)
	svc := featured[0].(map[string]any)
	assert.Equal(t, "Tyre fitting", svc["name"])
	assert.Equal(t, "450.50", svc["price"])

	uk := a.list("/api/services", "")
	assert.Len(t, uk, 2)

	w, body := a.call(http.MethodPost, "/api/admin/services", admin, map[string]any{"name": map[string]string{"uk": "X"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["fields"].(map[string]any), "category_id")

	w, body = a.call(http.MethodPost, "/api/admin/boxes", admin, map[string]any{
		"name": map[string]string{"uk": "Бокс 3"},
		"working_hours": map[string]any{
			"monday": map[string]string{"start": "18:00", "end": "09:00"},
		},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["fields"].(map[string]any), "working_hours")

	a.call(http.MethodPost, "/api/guest-appointments", "", a.guestBooking("10:00"))

	w, stats := a.call(http.MethodGet, "/api/admin/statistics", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), stats["total_appointments"])

	w, week := a.call(http.MethodGet, "/api/admin/weekly_schedule?week_start="+a.date, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, week["days"], 7)

	apps := a.list("/api/admin/appointments?status=pending&date_from="+a.date, admin)
	assert.Len(t, apps, 1)

	w, _ = a.call(http.MethodGet, "/api/admin/appointments?price_min=abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.call(http.MethodGet, "/api/admin/statistics", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminBlocksCustomer(t *testing.T) {
	a := newAPI(t)
	admin := a.adminToken()

	_, session := a.call(http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "petro",
		"email":    "petro@example.com",
		"password": "password123",
	})
	token := session["token"].(string)
	customerID := int(session["customer"].(map[string]any)["id"].(float64))

	w, body := a.call(http.MethodPost, fmt.Sprintf("/api/admin/customers/%d/block", customerID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["is_blocked"])

	w, body = a.call(http.MethodPost, "/api/appointments", token, map[string]any{
		"service_id":       a.service.ID,
		"appointment_date": a.date,
		"appointment_time": "09:00",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "customer_blocked", body["error_code"])

	w, list := a.call(http.MethodGet, "/api/admin/customers?search=petro", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), list["total"])
}

func TestAuditTrailIsListedForAdmins(t *testing.T) {
	var dispatcher *audit.Dispatcher
	a := newAPI(t, func(d *Deps) {
		dispatcher = audit.NewDispatcher(d.Log, audit.New(d.DB))
		d.Audit = dispatcher
	})
	admin := a.adminToken()

	_, guest := a.call(http.MethodPost, "/api/guest-appointments", "", a.guestBooking("10:00"))
	id := int(guest["id"].(float64))

	w, _ := a.call(http.MethodPost, fmt.Sprintf("/api/appointments/%d/confirm", id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// flush queued events
	dispatcher.Close()

	w, page := a.call(http.MethodGet, fmt.Sprintf("/api/admin/audit-logs?entity=appointment&entity_id=%d", id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), page["total"])

	logs := page["logs"].([]any)
	assert.Equal(t, audit.ActionAppointmentConfirmed, logs[0].(map[string]any)["action"])
	assert.Equal(t, audit.ActionAppointmentCreated, logs[1].(map[string]any)["action"])

	w, page = a.call(http.MethodGet, "/api/admin/audit-logs?action="+audit.ActionAppointmentCreated+"&limit=1", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), page["limit"])

	w, _ = a.call(http.MethodGet, "/api/admin/audit-logs?entity_id=x", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInactiveServiceVisibleOnlyToAdmins(t *testing.T) {
	a := newAPI(t)
	require.NoError(t, a.db.Model(a.service).Update("is_active", false).Error)
	path := fmt.Sprintf("/api/services/%d", a.service.ID)

	w, _ := a.call(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body := a.call(http.MethodGet, path, a.adminToken(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, body["is_active"])

	w, _ = a.call(http.MethodGet, path, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
