package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	visitdomain "github.com/fieldline/fieldline/internal/visit/domain"
	"github.com/fieldline/fieldline/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type fakeVisitService struct {
	lastElements []visitdomain.BulkElement
	result       visitdomain.BulkResult
	err          error
}

func (f *fakeVisitService) BulkUpsert(ctx context.Context, elements []visitdomain.BulkElement) (visitdomain.BulkResult, error) {
	_ = ctx
	f.lastElements = elements
	return f.result, f.err
}

func (f *fakeVisitService) GetByID(ctx context.Context, rawID string) (visitdomain.VisitDetail, error) {
	_ = ctx
	_ = rawID
	return visitdomain.VisitDetail{}, visitdomain.ErrNotFound
}

func (f *fakeVisitService) List(ctx context.Context, req visitdomain.ListVisitRequest) ([]*visitdomain.Visit, *pagination.PageInfo, error) {
	_ = ctx
	_ = req
	return nil, nil, nil
}

func (f *fakeVisitService) Delete(ctx context.Context, rawID string) error {
	_ = ctx
	_ = rawID
	return nil
}

func newBulkTestServer(svc *fakeVisitService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{visitSvc: svc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/v1/visits/bulk", srv.BulkUpsertVisits)
	return router
}

func postBulk(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/visits/bulk", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestBulkStatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		summary visitdomain.BulkSummary
		want    int
	}{
		{"all created", visitdomain.BulkSummary{Total: 2, Created: 2}, http.StatusCreated},
		{"mixed created and updated", visitdomain.BulkSummary{Total: 2, Created: 1, Updated: 1}, http.StatusCreated},
		{"all updated", visitdomain.BulkSummary{Total: 2, Updated: 2}, http.StatusOK},
		{"partial failure", visitdomain.BulkSummary{Total: 3, Created: 1, Updated: 1, Failed: 1}, http.StatusMultiStatus},
		{"all failed", visitdomain.BulkSummary{Total: 2, Failed: 2}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeVisitService{result: visitdomain.BulkResult{Summary: tc.summary}}
			router := newBulkTestServer(svc)

			resp := postBulk(t, router, `{"visits":[{"visit":{"customer_id":"5","sales_person_id":"9"}}]}`)
			if resp.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestBulkAcceptsLegacyShapes(t *testing.T) {
	bodies := []struct {
		name string
		body string
	}{
		{"visits envelope", `{"visits":[{"visit":{"customer_id":"5","sales_person_id":"9"}}]}`},
		{"legacy visit envelope", `{"visit":[{"visit":{"customer_id":"5","sales_person_id":"9"}}]}`},
		{"bare array", `[{"visit":{"customer_id":"5","sales_person_id":"9"}}]`},
	}

	for _, tc := range bodies {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeVisitService{result: visitdomain.BulkResult{Summary: visitdomain.BulkSummary{Total: 1, Created: 1}}}
			router := newBulkTestServer(svc)

			resp := postBulk(t, router, tc.body)
			if resp.Code != http.StatusCreated {
				t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
			}
			if len(svc.lastElements) != 1 {
				t.Fatalf("expected 1 element, got %d", len(svc.lastElements))
			}
			if svc.lastElements[0].Visit.CustomerID != "5" {
				t.Fatalf("unexpected customer_id %q", svc.lastElements[0].Visit.CustomerID)
			}
		})
	}
}

func TestBulkRejectsMalformedBody(t *testing.T) {
	svc := &fakeVisitService{}
	router := newBulkTestServer(svc)

	resp := postBulk(t, router, `{"visits": "nope"`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if svc.lastElements != nil {
		t.Fatal("expected service not to be called")
	}
}

func TestBulkMultipartAttachesImagesByIndex(t *testing.T) {
	svc := &fakeVisitService{result: visitdomain.BulkResult{Summary: visitdomain.BulkSummary{Total: 2, Created: 2}}}
	router := newBulkTestServer(svc)

	payload, err := json.Marshal(map[string]any{
		"visits": []map[string]any{
			{"visit": map[string]any{"customer_id": "5", "sales_person_id": "9"}},
			{"visit": map[string]any{"customer_id": "6", "sales_person_id": "9"}},
		},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("visits", string(payload)); err != nil {
		t.Fatalf("write visits field: %v", err)
	}
	part, err := writer.CreateFormFile("visit_1_self_images", "selfie.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/visits/bulk", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.lastElements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(svc.lastElements))
	}
	if len(svc.lastElements[0].Images.Self) != 0 {
		t.Fatalf("expected no images on element 0, got %d", len(svc.lastElements[0].Images.Self))
	}
	if len(svc.lastElements[1].Images.Self) != 1 {
		t.Fatalf("expected 1 self image on element 1, got %d", len(svc.lastElements[1].Images.Self))
	}
	image := svc.lastElements[1].Images.Self[0]
	if image.Name != "selfie.jpg" {
		t.Fatalf("unexpected image name %q", image.Name)
	}
	if string(image.Data) != "jpeg-bytes" {
		t.Fatalf("unexpected image data %q", image.Data)
	}
}

func TestBulkEmptyBatchReturns400(t *testing.T) {
	svc := &fakeVisitService{err: visitdomain.ErrEmptyBatch}
	router := newBulkTestServer(svc)

	resp := postBulk(t, router, `{"visits":[]}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestBulkResponseGroupsElementsByOutcome(t *testing.T) {
	svc := &fakeVisitService{result: visitdomain.BulkResult{
		Created: []visitdomain.ElementResult{{Index: 0}},
		Updated: []visitdomain.ElementResult{{Index: 1}},
		Failed: []visitdomain.ElementFailure{{
			Index:      2,
			Error:      "duplicate key value violates unique constraint \"payments_payment_number_key\"",
			Code:       "23505",
			Constraint: "payments_payment_number_key",
		}},
		Summary: visitdomain.BulkSummary{Total: 3, Created: 1, Updated: 1, Failed: 1},
	}}
	router := newBulkTestServer(svc)

	resp := postBulk(t, router, `{"visits":[{"visit":{"customer_id":"5","sales_person_id":"9"}}]}`)
	if resp.Code != http.StatusMultiStatus {
		t.Fatalf("expected status 207, got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Created []struct {
				Index int `json:"index"`
			} `json:"created"`
			Updated []struct {
				Index int `json:"index"`
			} `json:"updated"`
			Failed []struct {
				Index      int    `json:"index"`
				Error      string `json:"error"`
				Code       string `json:"code"`
				Constraint string `json:"constraint"`
			} `json:"failed"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(envelope.Data.Created) != 1 || envelope.Data.Created[0].Index != 0 {
		t.Fatalf("unexpected created list: %+v", envelope.Data.Created)
	}
	if len(envelope.Data.Updated) != 1 || envelope.Data.Updated[0].Index != 1 {
		t.Fatalf("unexpected updated list: %+v", envelope.Data.Updated)
	}
	if len(envelope.Data.Failed) != 1 {
		t.Fatalf("unexpected failed list: %+v", envelope.Data.Failed)
	}
	failure := envelope.Data.Failed[0]
	if failure.Index != 2 || failure.Code != "23505" || failure.Constraint != "payments_payment_number_key" {
		t.Fatalf("expected constraint metadata on failed entry, got %+v", failure)
	}
	if failure.Error == "" {
		t.Fatal("expected error message on failed entry")
	}
}
