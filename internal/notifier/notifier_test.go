package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/slotsheet/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return dir, nil }
	return dir
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func TestGetTrayAppConfigDir(t *testing.T) {
	base := stubConfigDir(t)
	trayDir := filepath.Join(base, constants.TrayAppIdentifier)

	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != trayDir {
		t.Errorf("expected %s, got %s", trayDir, dir)
	}

	custom := filepath.Join(base, "custom-locks")
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, custom)
	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != custom {
		t.Errorf("expected %s, got %s", custom, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		executable string
		wantErr    string
	}{
		{name: "valid", content: "8080|123|s3cret", executable: "slotsheet-tray"},
		{name: "malformed", content: "8080|123", executable: "slotsheet-tray", wantErr: "malformed"},
		{name: "bad port", content: "abc|123|s", executable: "slotsheet-tray", wantErr: "invalid port"},
		{name: "port out of range", content: "70000|123|s", executable: "slotsheet-tray", wantErr: "outside valid range"},
		{name: "bad pid", content: "8080|x|s", executable: "slotsheet-tray", wantErr: "invalid process ID"},
		{name: "empty secret", content: "8080|123| ", executable: "slotsheet-tray", wantErr: "secret"},
		{name: "process gone", content: "8080|123|s", executable: "", wantErr: "not running"},
		{name: "wrong process", content: "8080|123|s", executable: "bash", wantErr: "is not slotsheet-tray"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcess(t, tt.executable)
			path := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			lock, err := findAndValidateTrayProcess(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if lock.port != 8080 || lock.pid != 123 || lock.secret != "s3cret" {
				t.Errorf("unexpected lockfile: %+v", lock)
			}
		})
	}

	t.Run("missing lockfile", func(t *testing.T) {
		_, err := findAndValidateTrayProcess(filepath.Join(t.TempDir(), "nope.lock"))
		if !errors.Is(err, ErrTrayNotRunning) {
			t.Errorf("err = %v, want ErrTrayNotRunning", err)
		}
	})
}

func TestNotify(t *testing.T) {
	var got WebhookPayload
	var secret string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret = r.Header.Get("X-Slotsheet-Secret")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	u, _ := url.Parse(server.URL)
	port, _ := strconv.Atoi(u.Port())

	base := stubConfigDir(t)
	stubProcess(t, "slotsheet-tray")
	trayDir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%d|42|topsecret", port)
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0644); err != nil {
		t.Fatal(err)
	}

	if err := New().Notify(context.Background(), "2 succeeded, 1 failed"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if got.Text != "2 succeeded, 1 failed" || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("unexpected payload: %+v", got)
	}
	if secret != "topsecret" {
		t.Errorf("secret header = %q", secret)
	}
}

func TestSendFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("bad secret"))
	}))
	defer server.Close()

	u, _ := url.Parse(server.URL)
	port, _ := strconv.Atoi(u.Port())

	err := New().send(context.Background(), lockfile{port: port, pid: 1, secret: "x"}, WebhookPayload{Text: "hi"})
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("err = %v, want status 403", err)
	}
}

func TestCheckTray(t *testing.T) {
	base := stubConfigDir(t)
	stubProcess(t, "")

	if err := CheckTray(); !errors.Is(err, ErrTrayNotRunning) {
		t.Fatalf("expected ErrTrayNotRunning without a lockfile, got %v", err)
	}

	trayDir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte("4000|42|s"), 0644); err != nil {
		t.Fatal(err)
	}
	stubProcess(t, "slotsheet-tray")
	if err := CheckTray(); err != nil {
		t.Errorf("CheckTray failed: %v", err)
	}
}
