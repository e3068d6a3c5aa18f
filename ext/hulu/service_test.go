package hulu

import (
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"huludl/ext/hulu/envelope"
)

// fakeService is an in-process stand-in for the playback service.
type fakeService struct {
	t *testing.T

	deviceKey []byte
	serverKey []byte
	keyID     string

	// overrides; empty means "behave normally"
	configStatus   int
	configBody     string
	legacyBody     string
	playlistStatus int
	playlistBody   string

	configHits atomic.Int32

	mu          sync.Mutex
	configForms []map[string]string
	legacyReqs  [][]byte
	sixReqs     [][]byte
}

func newFakeService(
	t *testing.T,
	deviceKey, serverKey []byte,
	configure ...func(*fakeService),
) (*fakeService, *httptest.Server) {
	t.Helper()
	svc := &fakeService{
		t:         t,
		deviceKey: deviceKey,
		serverKey: serverKey,
		keyID:     "kid-1",
	}
	for _, fn := range configure {
		fn(svc)
	}
	server := httptest.NewServer(svc)
	t.Cleanup(server.Close)
	return svc, server
}

func (s *fakeService) sessionKey() []byte {
	key, err := envelope.DeriveKey(s.deviceKey, s.serverKey)
	if err != nil {
		s.t.Fatalf("derive key: %v", err)
	}
	return key
}

func (s *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case configPath:
		s.configHits.Add(1)
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		form := make(map[string]string)
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		s.mu.Lock()
		s.configForms = append(s.configForms, form)
		s.mu.Unlock()

		if s.configStatus != 0 {
			http.Error(w, "config failure", s.configStatus)
			return
		}
		if s.configBody != "" {
			io.WriteString(w, s.configBody)
			return
		}
		text, err := envelope.Seal(s.deviceKey, map[string]any{
			"key":    hex.EncodeToString(s.serverKey),
			"key_id": s.keyID,
		})
		if err != nil {
			s.t.Errorf("seal config: %v", err)
		}
		io.WriteString(w, text)

	case legacyPlaylistPath:
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.legacyReqs = append(s.legacyReqs, body)
		s.mu.Unlock()

		if s.legacyBody != "" {
			io.WriteString(w, s.legacyBody)
			return
		}
		text, err := envelope.Seal(s.sessionKey(), map[string]any{
			"stream_url": "https://manifest.example.com/legacy.mpd",
			"wv_server":  "https://license.example.com/wv",
			"transcripts_urls": map[string]any{
				"webvtt": map[string]any{
					"en": "https://subs.example.com/en.vtt",
				},
			},
		})
		if err != nil {
			s.t.Errorf("seal playlist: %v", err)
		}
		io.WriteString(w, text)

	case playlistPath:
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.sixReqs = append(s.sixReqs, body)
		s.mu.Unlock()

		if s.playlistStatus != 0 {
			http.Error(w, "playlist failure", s.playlistStatus)
			return
		}
		if s.playlistBody != "" {
			io.WriteString(w, s.playlistBody)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"stream_url":"https://manifest.example.com/six.mpd","wv_server":"https://license.example.com/wv6"}`)

	default:
		http.NotFound(w, r)
	}
}

func (s *fakeService) forms() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.configForms...)
}

func (s *fakeService) lastLegacyRequest() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.legacyReqs) == 0 {
		s.t.Fatalf("no legacy playlist request received")
	}
	return string(s.legacyReqs[len(s.legacyReqs)-1])
}

func (s *fakeService) lastSixRequest() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sixReqs) == 0 {
		s.t.Fatalf("no v6 playlist request received")
	}
	return string(s.sixReqs[len(s.sixReqs)-1])
}

func fixedRandom(value int) func() (int, error) {
	return func() (int, error) {
		return value, nil
	}
}

func mustDevice(t *testing.T, code string, hexKey string) *Device {
	t.Helper()
	device, err := NewDeviceFromHex(code, hexKey)
	if err != nil {
		t.Fatalf("NewDeviceFromHex: %v", err)
	}
	return device
}

var zeroKeyHex = strings.Repeat("00", 16)
