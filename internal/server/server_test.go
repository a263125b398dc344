package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	auditdomain "github.com/brokerbase/polisdesk/internal/audit/domain"
	auditrepository "github.com/brokerbase/polisdesk/internal/audit/repository"
	auditservice "github.com/brokerbase/polisdesk/internal/audit/service"
	authdomain "github.com/brokerbase/polisdesk/internal/auth/domain"
	authrepository "github.com/brokerbase/polisdesk/internal/auth/repository"
	authservice "github.com/brokerbase/polisdesk/internal/auth/service"
	"github.com/brokerbase/polisdesk/internal/blob"
	"github.com/brokerbase/polisdesk/internal/clock"
	companyservice "github.com/brokerbase/polisdesk/internal/company/service"
	"github.com/brokerbase/polisdesk/internal/config"
	customerservice "github.com/brokerbase/polisdesk/internal/customer/service"
	propertyservice "github.com/brokerbase/polisdesk/internal/property/service"
	"github.com/brokerbase/polisdesk/internal/treestore"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testServer struct {
	srv   *Server
	blobs *blob.MemoryStore
	clock *clock.FakeClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&authdomain.User{}, &auditdomain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()
	store := treestore.NewMemoryStore()
	blobs := blob.NewMemoryStore()

	authSvc := authservice.NewService(authservice.Params{
		DB:    gdb,
		Log:   log,
		Cfg:   config.Config{AuthJWTSecret: "test-secret", AuthTokenTTLMin: 60},
		Clock: fake,
		GenID: node,
		Repo:  authrepository.Provide(),
	})
	auditSvc := auditservice.NewService(auditservice.Params{
		DB:    gdb,
		Log:   log,
		Clock: fake,
		GenID: node,
		Repo:  auditrepository.Provide(),
	})
	customerSvc := customerservice.NewService(customerservice.Params{Log: log, Store: store, Clock: fake})
	propertySvc := propertyservice.NewService(propertyservice.Params{Log: log, Store: store, Clock: fake})
	companySvc := companyservice.NewService(companyservice.Params{Log: log, Store: store, Clock: fake})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{HTTPAddr: ":0"},
		Log:         log,
		AuthSvc:     authSvc,
		CustomerSvc: customerSvc,
		PropertySvc: propertySvc,
		CompanySvc:  companySvc,
		AuditSvc:    auditSvc,
		BlobStore:   blobs,
		Clock:       fake,
	})

	return &testServer{srv: srv, blobs: blobs, clock: fake}
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func (ts *testServer) signup(t *testing.T, fullName, username, role string) string {
	t.Helper()

	payload := fmt.Sprintf(`{"fullName": %q, "username": %q, "password": "secret123", "role": %q}`, fullName, username, role)
	rec := ts.do(t, http.MethodPost, "/api/users/signup", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupLoginProfile(t *testing.T) {
	ts := newTestServer(t)

	token := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")

	rec := ts.do(t, http.MethodPost, "/api/users/login", "", `{"username": "Eko Prasetyo", "password": "secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	rec = ts.do(t, http.MethodGet, "/api/users/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "eko-prasetyo", user["handle"])

	rec = ts.do(t, http.MethodGet, "/api/users/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/users/profile", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfileAndChangePassword(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")

	rec := ts.do(t, http.MethodPut, "/api/users/profile", token, `{"fullName": "Eko P. Wibowo"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Eko P. Wibowo", user["fullName"])
	// The handle is the record-id prefix and never changes.
	assert.Equal(t, "eko-prasetyo", user["handle"])

	rec = ts.do(t, http.MethodPut, "/api/users/profile", token, `{"fullName": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_fields", decodeBody(t, rec)["error"])

	rec = ts.do(t, http.MethodPut, "/api/users/change-password", token, `{"currentPassword": "wrong", "newPassword": "newsecret"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "current_password_incorrect", decodeBody(t, rec)["error"])

	rec = ts.do(t, http.MethodPut, "/api/users/change-password", token, `{"currentPassword": "secret123", "newPassword": "short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password_too_short", decodeBody(t, rec)["error"])

	rec = ts.do(t, http.MethodPut, "/api/users/change-password", token, `{"currentPassword": "secret123", "newPassword": "newsecret"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/users/login", "", `{"username": "Eko Prasetyo", "password": "secret123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/users/login", "", `{"username": "Eko Prasetyo", "password": "newsecret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomerLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")

	rec := ts.do(t, http.MethodPost, "/api/customers", token, `{"name": "Budi Santoso", "phone": "0812"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	created := body["customer"].(map[string]any)
	assert.Equal(t, "eko-prasetyo-1", created["id"])

	rec = ts.do(t, http.MethodGet, "/api/customers/eko-prasetyo-1", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/customers/eko-prasetyo-1", token, `{"carData": {"carBrand": "Toyota"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	updated := body["customer"].(map[string]any)
	carData := updated["carData"].(map[string]any)
	assert.Equal(t, "Toyota", carData["carBrand"])
	assert.Equal(t, "Budi Santoso", carData["ownerName"])

	rec = ts.do(t, http.MethodGet, "/api/customers", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])

	rec = ts.do(t, http.MethodDelete, "/api/customers/eko-prasetyo-1", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/customers/eko-prasetyo-1", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "customer_not_found", body["error"])

	// Sequence numbers are never reused.
	rec = ts.do(t, http.MethodPost, "/api/customers", token, `{"name": "Siti"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "eko-prasetyo-2", body["customer"].(map[string]any)["id"])
}

func TestCrossTenantAccessIsForbidden(t *testing.T) {
	ts := newTestServer(t)
	ekoToken := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")
	budiToken := ts.signup(t, "Budi Raharjo", "Budi Raharjo", "")

	rec := ts.do(t, http.MethodPost, "/api/customers", ekoToken, `{"name": "Customer A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Forbidden regardless of whether the record exists.
	rec = ts.do(t, http.MethodGet, "/api/customers/eko-prasetyo-1", budiToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/customers/eko-prasetyo-999", budiToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/customers/eko-prasetyo-1", budiToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRecordRoutesRejectAdmin(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.signup(t, "Site Admin", "siteadmin", "admin")

	rec := ts.do(t, http.MethodGet, "/api/customers", adminToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/properties", adminToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// But the admin still reaches its own audit history.
	rec = ts.do(t, http.MethodGet, "/api/audit-logs", adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidationErrorsMapToBadRequest(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")

	rec := ts.do(t, http.MethodPost, "/api/customers", token, `{"name": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "name_required", body["error"])

	rec = ts.do(t, http.MethodPost, "/api/customers", token, `{"name": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/customers/not-mine-1", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/customers/search", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "empty_query", body["error"])
}

func TestCustomerSearchAndStats(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")

	rec := ts.do(t, http.MethodPost, "/api/customers", token, `{"name": "Budi Santoso", "carData": {"plateNumber": "B 1234 XYZ"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/customers", token, `{"name": "Siti Aminah"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/customers/search?query=b+1234", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])

	rec = ts.do(t, http.MethodGet, "/api/customers/stats", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["totalCustomers"])
	assert.Equal(t, float64(2), stats["currentCounter"])
	assert.Equal(t, "eko-prasetyo-3", stats["nextCustomerId"])
}

func TestPropertyStatusRouteAndCheckExpired(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")

	past := ts.clock.Now().UnixMilli() - 1
	payload := fmt.Sprintf(`{"ownerName": "Budi", "insuranceData": {"endDate": %d}}`, past)
	rec := ts.do(t, http.MethodPost, "/api/properties", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/properties", token, `{"ownerName": "Siti"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/properties/status/Active", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])

	rec = ts.do(t, http.MethodGet, "/api/properties/check-expired", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, float64(1), body["expiredCount"])

	rec = ts.do(t, http.MethodGet, "/api/properties/status/Expired", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
}

func multipartFile(t *testing.T, slot, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, slot, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func (ts *testServer) doUpload(t *testing.T, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestUploadCarPhotos(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")

	rec := ts.do(t, http.MethodPost, "/api/customers", token, `{"name": "Budi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body, contentType := multipartFile(t, "front", "front.jpg", "image/jpeg", []byte("jpeg-bytes"))
	rec = ts.doUpload(t, "/api/customers/eko-prasetyo-1/upload-photos", token, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody(t, rec)
	photos := resp["photos"].(map[string]any)
	assert.Equal(t, "memory://customer/eko-prasetyo-1/front.jpg", photos["front"])

	customer := resp["customer"].(map[string]any)
	carPhotos := customer["carPhotos"].(map[string]any)
	assert.Equal(t, "memory://customer/eko-prasetyo-1/front.jpg", carPhotos["front"])

	stored, ok := ts.blobs.Object("customer/eko-prasetyo-1/front.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg-bytes"), stored)
}

func TestUploadRejectsUnknownAndEmpty(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")

	rec := ts.do(t, http.MethodPost, "/api/customers", token, `{"name": "Budi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Unknown slot names are ignored, leaving nothing to store.
	body, contentType := multipartFile(t, "dashboard", "d.jpg", "image/jpeg", []byte("x"))
	rec = ts.doUpload(t, "/api/customers/eko-prasetyo-1/upload-photos", token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no_files_uploaded", decodeBody(t, rec)["error"])

	body, contentType = multipartFile(t, "front", "notes.txt", "text/plain", []byte("x"))
	rec = ts.doUpload(t, "/api/customers/eko-prasetyo-1/upload-photos", token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unsupported_file_type", decodeBody(t, rec)["error"])

	// Uploads to a foreign record never touch the blob store.
	budiToken := ts.signup(t, "Budi Raharjo", "Budi Raharjo", "")
	body, contentType = multipartFile(t, "front", "front.jpg", "image/jpeg", []byte("x"))
	rec = ts.doUpload(t, "/api/customers/eko-prasetyo-1/upload-photos", budiToken, body, contentType)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, ok := ts.blobs.Object("customer/eko-prasetyo-1/front.jpg")
	assert.False(t, ok)
}

func TestCompanyProfileLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")

	// Before creation the profile comes back as an empty default.
	rec := ts.do(t, http.MethodGet, "/api/company/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeBody(t, rec)["profile"].(map[string]any)
	assert.Equal(t, "", profile["companyName"])
	assert.Nil(t, profile["companyLogo"])

	rec = ts.do(t, http.MethodPost, "/api/company/profile", token, `{"companyName": "Asuransi Jaya", "companyCity": "Jakarta"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	profile = decodeBody(t, rec)["profile"].(map[string]any)
	assert.Equal(t, "Asuransi Jaya", profile["companyName"])
	assert.NotZero(t, profile["createdAt"])

	rec = ts.do(t, http.MethodPost, "/api/company/profile", token, `{"companyName": "Asuransi Jaya"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "company_profile_exists", decodeBody(t, rec)["error"])

	rec = ts.do(t, http.MethodPost, "/api/company/profile", token, `{"companyName": "  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "company_name_required", decodeBody(t, rec)["error"])

	rec = ts.do(t, http.MethodPut, "/api/company/profile", token, `{"companyName": "Asuransi Jaya Abadi", "companySubtitle": "Sejak 1999"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	profile = decodeBody(t, rec)["profile"].(map[string]any)
	assert.Equal(t, "Asuransi Jaya Abadi", profile["companyName"])
	assert.Equal(t, "Sejak 1999", profile["companySubtitle"])

	// Profiles are per tenant.
	budiToken := ts.signup(t, "Budi Raharjo", "Budi Raharjo", "")
	rec = ts.do(t, http.MethodGet, "/api/company/profile", budiToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile = decodeBody(t, rec)["profile"].(map[string]any)
	assert.Equal(t, "", profile["companyName"])
}

func TestCompanyLogoUploadAndDelete(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")

	// No profile yet: the logo has nothing to hang off.
	body, contentType := multipartFile(t, "logo", "logo.png", "image/png", []byte("png-bytes"))
	rec := ts.doUpload(t, "/api/company/logo", token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "company_profile_missing", decodeBody(t, rec)["error"])

	rec = ts.do(t, http.MethodPost, "/api/company/profile", token, `{"companyName": "Asuransi Jaya"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body, contentType = multipartFile(t, "logo", "logo.png", "image/png", []byte("png-bytes"))
	rec = ts.doUpload(t, "/api/company/logo", token, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	logo := decodeBody(t, rec)["logo"].(map[string]any)
	assert.Equal(t, "memory://company/eko-prasetyo/logo.png", logo["url"])

	stored, ok := ts.blobs.Object("company/eko-prasetyo/logo.png")
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), stored)

	rec = ts.do(t, http.MethodGet, "/api/company/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeBody(t, rec)["profile"].(map[string]any)
	require.NotNil(t, profile["companyLogo"])

	body, contentType = multipartFile(t, "logo", "notes.txt", "text/plain", []byte("x"))
	rec = ts.doUpload(t, "/api/company/logo", token, body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unsupported_file_type", decodeBody(t, rec)["error"])

	// Replacing under a new extension removes the old object.
	body, contentType = multipartFile(t, "logo", "logo.jpg", "image/jpeg", []byte("jpg-bytes"))
	rec = ts.doUpload(t, "/api/company/logo", token, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)
	_, ok = ts.blobs.Object("company/eko-prasetyo/logo.png")
	assert.False(t, ok)

	rec = ts.do(t, http.MethodDelete, "/api/company/logo", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, ok = ts.blobs.Object("company/eko-prasetyo/logo.jpg")
	assert.False(t, ok)

	rec = ts.do(t, http.MethodGet, "/api/company/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile = decodeBody(t, rec)["profile"].(map[string]any)
	assert.Nil(t, profile["companyLogo"])
}

func TestAuditLogsListing(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "Eko Prasetyo", "Eko Prasetyo", "")

	rec := ts.do(t, http.MethodPost, "/api/customers", token, `{"name": "Budi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = ts.do(t, http.MethodDelete, "/api/customers/eko-prasetyo-1", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/audit-logs", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])

	rec = ts.do(t, http.MethodGet, "/api/audit-logs?action=customer.delete", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])

	rec = ts.do(t, http.MethodGet, "/api/audit-logs?page_token=garbage", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Other tenants never see eko's history.
	budiToken := ts.signup(t, "Budi Raharjo", "Budi Raharjo", "")
	rec = ts.do(t, http.MethodGet, "/api/audit-logs", budiToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, float64(0), body["count"])
}
