package commoncode

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type mockCommonCodeService struct {
	masters     []CommonMaster
	master      *CommonMaster
	details     []CommonDetail
	detail      *CommonDetail
	err         error
	invalidated bool

	gotCode  string
	gotSeq   int
	gotInput map[string]any
}

func (m *mockCommonCodeService) GetAllMasters() ([]CommonMaster, error) {
	return m.masters, m.err
}

func (m *mockCommonCodeService) GetMasterByCode(masterCode string) (*CommonMaster, error) {
	m.gotCode = masterCode
	return m.master, m.err
}

func (m *mockCommonCodeService) GetCodesByMaster(masterCode string) ([]CommonDetail, error) {
	m.gotCode = masterCode
	return m.details, m.err
}

func (m *mockCommonCodeService) GetActiveCodesByMaster(masterCode string) ([]CommonDetail, error) {
	m.gotCode = masterCode
	return m.details, m.err
}

func (m *mockCommonCodeService) CreateMaster(input map[string]any) (*CommonMaster, error) {
	m.gotInput = input
	return m.master, m.err
}

func (m *mockCommonCodeService) UpdateMaster(seq int, input map[string]any) (*CommonMaster, error) {
	m.gotSeq, m.gotInput = seq, input
	return m.master, m.err
}

func (m *mockCommonCodeService) DeleteMaster(seq int) error {
	m.gotSeq = seq
	return m.err
}

func (m *mockCommonCodeService) CreateDetail(input map[string]any) (*CommonDetail, error) {
	m.gotInput = input
	return m.detail, m.err
}

func (m *mockCommonCodeService) UpdateDetail(seq int, input map[string]any) (*CommonDetail, error) {
	m.gotSeq, m.gotInput = seq, input
	return m.detail, m.err
}

func (m *mockCommonCodeService) DeleteDetail(seq int) error {
	m.gotSeq = seq
	return m.err
}

func (m *mockCommonCodeService) InvalidateSchemaCache() {
	m.invalidated = true
}

func setupCommonCodeRouter(svc CommonCodeServiceAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	RegisterRoutes(r, svc)
	RegisterAdminRoutes(r.Group("/contents"), svc)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCommonCodeController_GetAllMasters(t *testing.T) {
	mockSvc := &mockCommonCodeService{masters: []CommonMaster{{Seq: 1, MasterCode: "CATEGORY1"}}}
	r := setupCommonCodeRouter(mockSvc)

	w := serve(r, http.MethodGet, "/common-code", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got []CommonMaster
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].MasterCode != "CATEGORY1" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestCommonCodeController_GetAllMasters_ServiceError(t *testing.T) {
	r := setupCommonCodeRouter(&mockCommonCodeService{err: errors.New("db down")})

	w := serve(r, http.MethodGet, "/common-code", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestCommonCodeController_MasterAndDetailLookups(t *testing.T) {
	mockSvc := &mockCommonCodeService{details: []CommonDetail{{DetailCode: "KOREAN"}}}
	r := setupCommonCodeRouter(mockSvc)

	w := serve(r, http.MethodGet, "/common-code/master/CATEGORY9", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "null" {
		t.Fatalf("expected null master, got %d %s", w.Code, w.Body.String())
	}
	if mockSvc.gotCode != "CATEGORY9" {
		t.Fatalf("code=%q", mockSvc.gotCode)
	}

	w = serve(r, http.MethodGet, "/common-code/CATEGORY1", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "KOREAN") {
		t.Fatalf("unexpected details response: %d %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodGet, "/contents/common/details/CATEGORY2", "")
	if w.Code != http.StatusOK || mockSvc.gotCode != "CATEGORY2" {
		t.Fatalf("admin details lookup failed: %d %q", w.Code, mockSvc.gotCode)
	}
}

func TestCommonCodeController_CreateMaster(t *testing.T) {
	mockSvc := &mockCommonCodeService{master: &CommonMaster{Seq: 6, MasterCode: "CATEGORY6"}}
	r := setupCommonCodeRouter(mockSvc)

	w := serve(r, http.MethodPost, "/contents/common/masters", `{"masterCode":"CATEGORY6"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if mockSvc.gotInput["masterCode"] != "CATEGORY6" {
		t.Fatalf("input not forwarded: %#v", mockSvc.gotInput)
	}
}

func TestCommonCodeController_CreateMaster_MissingField(t *testing.T) {
	r := setupCommonCodeRouter(&mockCommonCodeService{err: ErrMissingField})

	w := serve(r, http.MethodPost, "/contents/common/masters", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCommonCodeController_UpdateDetail_InvalidSeq(t *testing.T) {
	mockSvc := &mockCommonCodeService{}
	r := setupCommonCodeRouter(mockSvc)

	w := serve(r, http.MethodPatch, "/contents/common/details/abc", `{"detailName":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if mockSvc.gotSeq != 0 {
		t.Fatalf("service should not be called")
	}
}

func TestCommonCodeController_UpdateDetail(t *testing.T) {
	mockSvc := &mockCommonCodeService{detail: &CommonDetail{Seq: 3, DetailCode: "SPICY"}}
	r := setupCommonCodeRouter(mockSvc)

	w := serve(r, http.MethodPatch, "/contents/common/details/3", `{"detailName":"매운맛"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mockSvc.gotSeq != 3 || mockSvc.gotInput["detailName"] != "매운맛" {
		t.Fatalf("unexpected args: %d %#v", mockSvc.gotSeq, mockSvc.gotInput)
	}
}

func TestCommonCodeController_DeleteMaster(t *testing.T) {
	mockSvc := &mockCommonCodeService{}
	r := setupCommonCodeRouter(mockSvc)

	w := serve(r, http.MethodDelete, "/contents/common/masters/2", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"success":true}` {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
	if mockSvc.gotSeq != 2 {
		t.Fatalf("seq=%d want 2", mockSvc.gotSeq)
	}
}

func TestCommonCodeController_RefreshSchema(t *testing.T) {
	mockSvc := &mockCommonCodeService{}
	r := setupCommonCodeRouter(mockSvc)

	w := serve(r, http.MethodPost, "/contents/common/schema/refresh", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !mockSvc.invalidated {
		t.Fatalf("expected cache invalidation")
	}
}
