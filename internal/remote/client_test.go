package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/julianstephens/slotsheet/internal/errors"
	"github.com/julianstephens/slotsheet/internal/models"
	"github.com/julianstephens/slotsheet/internal/submission"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]interface{}
}

type fakeService struct {
	mu       sync.Mutex
	requests []capturedRequest
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := capturedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &req.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeService) last() capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeService) {
	t.Helper()
	svc := &fakeService{handler: handler}
	server := httptest.NewServer(svc)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, WithCredentials(models.Credentials{Token: "tok", UserID: 42}))
	return client, svc
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name string
		auth map[string]interface{}
	}{
		{name: "token", auth: map[string]interface{}{"token": "abc"}},
		{name: "accessToken", auth: map[string]interface{}{"accessToken": "abc"}},
		{name: "nested result", auth: map[string]interface{}{"result": map[string]string{"accessToken": "abc"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/Authenticate":
					writeJSON(w, http.StatusOK, tt.auth)
				case "/LoginUser":
					if r.Header.Get("Authorization") != "Bearer abc" {
						w.WriteHeader(http.StatusUnauthorized)
						return
					}
					writeJSON(w, http.StatusOK, map[string]interface{}{"id": 7, "name": "Ada", "surname": "Yilmaz", "email": "ada@example.com"})
				}
			})
			client.SetCredentials(models.Credentials{})

			creds, err := client.Login(context.Background(), "ada@example.com", "secret")
			if err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			want := models.Credentials{Token: "abc", UserID: 7, Email: "ada@example.com", Name: "Ada", Surname: "Yilmaz"}
			if creds != want {
				t.Errorf("creds = %+v, want %+v", creds, want)
			}
			if client.Credentials() != want {
				t.Error("client did not keep the credentials")
			}

			auth := svc.requests[0]
			if auth.Method != http.MethodPost || auth.Body["email"] != "ada@example.com" || auth.Body["password"] != "secret" {
				t.Errorf("unexpected auth request: %+v", auth)
			}
			if auth.Header.Get("api-version") != "1.0" || auth.Header.Get("language") != "tr" {
				t.Errorf("missing API headers: %v", auth.Header)
			}
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad password"})
		})
		_, err := client.Login(context.Background(), "a@b.c", "x")
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "bad password" {
			t.Fatalf("err = %v, want APIError with message", err)
		}
		if !errors.Is(err, apperrors.ErrRemoteRejected) {
			t.Error("expected ErrRemoteRejected")
		}
	})

	t.Run("no token", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{})
		})
		if _, err := client.Login(context.Background(), "a@b.c", "x"); !errors.Is(err, apperrors.ErrRemoteRejected) {
			t.Fatalf("err = %v, want ErrRemoteRejected", err)
		}
	})
}

func TestFetchJobCatalog(t *testing.T) {
	longName := strings.Repeat("a", 70)
	client, svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"value": []map[string]interface{}{
				{"jobDefinitionId": 300, "jobDefinition": map[string]string{"name": "Third"}},
				{"jobDefinitionId": 100, "jobDefinition": map[string]string{"name": longName}},
				{"jobDefinitionId": 300, "jobDefinition": map[string]string{"name": "Third again"}},
				{"jobDefinitionId": 200},
				{"jobDefinitionId": nil, "jobDefinition": map[string]string{"name": "orphan"}},
			},
		})
	})

	catalog, err := client.FetchJobCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchJobCatalog failed: %v", err)
	}

	if len(catalog) != 2 {
		t.Fatalf("got %d jobs, want 2: %+v", len(catalog), catalog)
	}
	if catalog[0].ID != 100 || catalog[1].ID != 300 {
		t.Errorf("catalog not sorted by id: %+v", catalog)
	}
	if catalog[0].Name != strings.Repeat("a", 57)+"..." {
		t.Errorf("long name not truncated: %q", catalog[0].Name)
	}
	if catalog[1].Name != "Third" {
		t.Errorf("first occurrence should win: %q", catalog[1].Name)
	}

	req := svc.last()
	if req.Path != "/UserJobDefinition/GetMyTask(userId=42)" {
		t.Errorf("path = %s", req.Path)
	}
	if !strings.Contains(req.Query, "$top=100") || !strings.Contains(req.Query, "$orderby=startTime%20desc") {
		t.Errorf("query = %s", req.Query)
	}
	if req.Header.Get("Authorization") != "Bearer tok" {
		t.Errorf("Authorization = %q", req.Header.Get("Authorization"))
	}
}

func TestFetchHistory(t *testing.T) {
	client, svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"value": []map[string]interface{}{
				{"id": 1, "jobDefinitionId": 108411, "statusId": "Completed", "description": "patching", "startTime": "2024-01-10T09:00:00Z", "endTime": "2024-01-10T09:30:00Z", "hour": 0.5, "jobDefinition": map[string]string{"name": "Linux"}},
				{"id": 2, "statusId": "DayOff", "startTime": "2024-01-10T08:30:00Z"},
				{"id": 3, "jobDefinitionId": 5, "statusId": "Planned", "startTime": "2024-01-11T10:00:00"},
			},
		})
	})

	records, err := client.FetchHistory(context.Background(), 25)
	if err != nil {
		t.Fatalf("FetchHistory failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	want := models.RemoteRecord{
		ID: 1, StartTimestamp: "2024-01-10T09:00:00Z", EndTimestamp: "2024-01-10T09:30:00Z",
		StatusKind: models.StatusOrdinary, JobID: 108411, Description: "patching", JobName: "Linux", Hour: 0.5,
	}
	if records[0] != want {
		t.Errorf("record 0 = %+v, want %+v", records[0], want)
	}
	if records[1].StatusKind != models.StatusDayOff || records[1].JobID != 0 {
		t.Errorf("record 1 = %+v", records[1])
	}
	if records[2].StatusKind != models.StatusPlanned || records[2].TimeOfDay() != "10:00" {
		t.Errorf("record 2 = %+v", records[2])
	}

	if !strings.Contains(svc.last().Query, "$top=25") {
		t.Errorf("query = %s", svc.last().Query)
	}
}

func TestSubmitPayloads(t *testing.T) {
	client, svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 900}`))
	})
	ctx := context.Background()

	if err := client.SubmitJob(ctx, submission.JobSubmission{
		JobID: 108411, Description: "Routine Linux work",
		Start: "2024-01-10T09:00:00", End: "2024-01-10T09:30:00Z", Hour: 0.5,
	}); err != nil {
		t.Fatalf("SubmitJob failed: %v", err)
	}
	job := svc.last().Body
	checks := map[string]interface{}{
		"dataStatus":       "Activated",
		"hour":             0.5,
		"piece":            float64(0),
		"otherPositionJob": false,
		"userId":           float64(42),
		"statusId":         "Completed",
		"jobDefinitionId":  float64(108411),
		"description":      "Routine Linux work",
		"startTime":        "2024-01-10T09:00:00Z",
		"endTime":          "2024-01-10T09:30:00Z",
	}
	for k, v := range checks {
		if job[k] != v {
			t.Errorf("job payload %s = %v, want %v", k, job[k], v)
		}
	}

	if err := client.SubmitPlanning(ctx, "2024-01-10", "10:00", "10:30", 108413); err != nil {
		t.Fatalf("SubmitPlanning failed: %v", err)
	}
	plan := svc.last().Body
	if plan["statusId"] != "Planned" || plan["jobDefinitionId"] != float64(108413) || plan["description"] != nil {
		t.Errorf("unexpected planning payload: %v", plan)
	}
	if plan["startTime"] != "2024-01-10T10:00:00Z" || plan["endTime"] != "2024-01-10T10:30:00Z" {
		t.Errorf("unexpected planning times: %v", plan)
	}

	if err := client.SubmitDayOff(ctx, "2024-01-10", "08:30", "09:00"); err != nil {
		t.Fatalf("SubmitDayOff failed: %v", err)
	}
	dayOff := svc.last().Body
	if dayOff["statusId"] != "DayOff" || dayOff["jobDefinitionId"] != nil || dayOff["hour"] != 0.5 {
		t.Errorf("unexpected day-off payload: %v", dayOff)
	}
	if _, ok := dayOff["description"]; !ok {
		t.Error("description should be sent as null")
	}

	for _, req := range svc.requests {
		if req.Method != http.MethodPost || req.Path != "/UserJobDefinition" {
			t.Errorf("unexpected request %s %s", req.Method, req.Path)
		}
	}
}

func TestDeleteRecord(t *testing.T) {
	client, svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteRecord(context.Background(), 77); err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}
	req := svc.last()
	if req.Method != http.MethodDelete || req.Path != "/UserJobDefinition/77" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
}

func TestErrorClassification(t *testing.T) {
	t.Run("rejection", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "slot already taken"})
		})
		err := client.SubmitDayOff(context.Background(), "2024-01-10", "08:30", "09:00")
		if !errors.Is(err, apperrors.ErrRemoteRejected) {
			t.Fatalf("err = %v, want ErrRemoteRejected", err)
		}
		if !strings.Contains(err.Error(), "slot already taken") {
			t.Errorf("server message lost: %v", err)
		}
	})

	t.Run("transport", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client := NewClient(url, WithCredentials(models.Credentials{Token: "tok", UserID: 1}), WithTimeout(time.Second))
		err := client.DeleteRecord(context.Background(), 1)
		if !errors.Is(err, apperrors.ErrTransport) {
			t.Fatalf("err = %v, want ErrTransport", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		})
		_, err := client.FetchHistory(context.Background(), 10)
		if !errors.Is(err, apperrors.ErrTransport) {
			t.Fatalf("err = %v, want ErrTransport", err)
		}
	})

	t.Run("not signed in", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:0")
		if _, err := client.FetchJobCatalog(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
			t.Fatalf("err = %v, want ErrNotAuthenticated", err)
		}
	})
}

func TestEnsureUTCSuffix(t *testing.T) {
	tests := map[string]string{
		"2024-01-10T09:00:00":  "2024-01-10T09:00:00Z",
		"2024-01-10T09:00:00Z": "2024-01-10T09:00:00Z",
	}
	for in, want := range tests {
		if got := EnsureUTCSuffix(in); got != want {
			t.Errorf("EnsureUTCSuffix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	if len(catalog) != 17 {
		t.Fatalf("got %d jobs, want 17", len(catalog))
	}
	if job, ok := catalog.Find(108447); !ok || job.Name != "LB Arıza Çözme" {
		t.Errorf("Find(108447) = %+v, %v", job, ok)
	}

	catalog[0].Name = "changed"
	if DefaultCatalog()[0].Name == "changed" {
		t.Error("DefaultCatalog returned shared storage")
	}
}
