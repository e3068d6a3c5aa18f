package hulu

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestChannel(t *testing.T, configure ...func(*fakeService)) (*fakeService, *Channel) {
	t.Helper()
	svc, server := newFakeService(t, make([]byte, 16), bytes.Repeat([]byte{0xff}, 16), configure...)
	channel := NewChannel(
		mustDevice(t, "830", zeroKeyHex),
		WithHTTPClient(server.Client()),
		WithBaseURL(server.URL),
		WithExtraPlaylistParams(LegacyAudioParams(true)),
	)
	return svc, channel
}

func codecTypes(result gjson.Result) []string {
	var types []string
	for _, value := range result.Array() {
		types = append(types, value.Get("type").String())
	}
	return types
}

func TestLoadPlaylistLegacy(t *testing.T) {
	svc, channel := newTestChannel(t)

	playlist, err := channel.LoadPlaylist(context.Background(), "EAB::abc::1::2")
	require.NoError(t, err)
	assert.Equal(t, "https://manifest.example.com/legacy.mpd", playlist.StreamURL())
	assert.Equal(t, "https://license.example.com/wv", playlist.LicenseURL())
	subtitleURL, ok := playlist.TranscriptURL("webvtt", "en")
	assert.True(t, ok)
	assert.Equal(t, "https://subs.example.com/en.vtt", subtitleURL)

	req := svc.lastLegacyRequest()
	assert.Equal(t, "D41D8CD98F00B204E9800998ECF8427E", gjson.Get(req, "device_identifier").String())
	assert.EqualValues(t, 830, gjson.Get(req, "deejay_device_id").Int())
	assert.EqualValues(t, 1, gjson.Get(req, "version").Int())
	assert.Equal(t, "EAB::abc::1::2", gjson.Get(req, "content_eab_id").String())
	assert.Equal(t, "kid-1", gjson.Get(req, "kv").String())
	rv := gjson.Get(req, "rv").Int()
	assert.GreaterOrEqual(t, rv, int64(100000))
	assert.Less(t, rv, int64(1000000))
	assert.Equal(t, []string{"AAC"}, codecTypes(gjson.Get(req, "playback.audio.codecs.values")))
}

func TestLoadPlaylistLegacyHandshakesOnce(t *testing.T) {
	svc, channel := newTestChannel(t)

	for i := 0; i < 3; i++ {
		_, err := channel.LoadPlaylist(context.Background(), "EAB::1")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, svc.configHits.Load())
}

func TestLoadPlaylistLegacyMalformedEnvelope(t *testing.T) {
	_, channel := newTestChannel(t, func(s *fakeService) {
		s.legacyBody = "zz"
	})

	_, err := channel.LoadPlaylist(context.Background(), "EAB::1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedEnvelope), "got %v", err)
	assert.False(t, errors.Is(err, ErrDecryption))
}

func TestLoadPlaylistLegacyWrongSessionKey(t *testing.T) {
	// the session key here is ff..ff; 16 zero bytes decrypt to bad padding
	_, channel := newTestChannel(t, func(s *fakeService) {
		s.legacyBody = zeroKeyHex
	})

	_, err := channel.LoadPlaylist(context.Background(), "EAB::1")
	assert.True(t, errors.Is(err, ErrDecryption), "got %v", err)
}

func TestLoadPlaylistSixHEVCWithHDR(t *testing.T) {
	svc, channel := newTestChannel(t)

	playlist, err := channel.LoadPlaylistSix(context.Background(), "EAB::1", 210, PlaylistOptions{
		HEVC: true,
		HDR:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://manifest.example.com/six.mpd", playlist.StreamURL())
	assert.Equal(t, "https://license.example.com/wv6", playlist.Data["wv_server"])

	req := svc.lastSixRequest()
	assert.EqualValues(t, 210, gjson.Get(req, "deejay_device_id").Int())
	assert.Equal(t, "kid-1", gjson.Get(req, "kv").String())
	assert.Equal(t, "US", gjson.Get(req, "region").String())
	assert.Equal(t, "5DFEB7AD-3651-8C6A-8302-56EC694FD9E8", gjson.Get(req, "device_ad_id").String())
	assert.False(t, gjson.Get(req, "limit_ad_tracking").Bool())

	video := gjson.Get(req, "playback.video")
	assert.Equal(t, "DOLBY_VISION", video.Get("dynamic_range").String())
	values := video.Get("codecs.values").Array()
	require.Len(t, values, 1)
	assert.Equal(t, "H265", values[0].Get("type").String())
	assert.Equal(t, "MAIN_10", values[0].Get("profile").String())
	assert.EqualValues(t, 3840, values[0].Get("width").Int())
	assert.EqualValues(t, 2160, values[0].Get("height").Int())
	assert.EqualValues(t, 60, values[0].Get("framerate").Int())
	assert.Equal(t, "5.1", values[0].Get("level").String())

	assert.True(t, gjson.Get(req, "playback.drm.multi_key").Bool())
}

func TestLoadPlaylistSixAVC(t *testing.T) {
	svc, channel := newTestChannel(t)

	_, err := channel.LoadPlaylistSix(context.Background(), "EAB::1", 210, PlaylistOptions{})
	require.NoError(t, err)

	req := svc.lastSixRequest()
	values := gjson.Get(req, "playback.video.codecs.values").Array()
	require.Len(t, values, 1)
	assert.Equal(t, "H264", values[0].Get("type").String())
	assert.Equal(t, "HIGH", values[0].Get("profile").String())
	assert.Equal(t, "4.1", values[0].Get("level").String())
	assert.False(t, gjson.Get(req, "playback.video.dynamic_range").Exists())
	assert.False(t, gjson.Get(req, "playback.drm.multi_key").Exists())
}

func TestLoadPlaylistSixFailure(t *testing.T) {
	_, channel := newTestChannel(t, func(s *fakeService) {
		s.playlistStatus = http.StatusUnauthorized
	})

	_, err := channel.LoadPlaylistSix(context.Background(), "EAB::1", 210, PlaylistOptions{HEVC: true})
	require.Error(t, err)
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "playlist failure")
	assert.True(t, errors.Is(err, ErrRequestFailed))
}

func TestLoadPlaylistSixMalformedPayload(t *testing.T) {
	_, channel := newTestChannel(t, func(s *fakeService) {
		s.playlistBody = "<html>oops</html>"
	})

	_, err := channel.LoadPlaylistSix(context.Background(), "EAB::1", 210, PlaylistOptions{})
	assert.True(t, errors.Is(err, ErrMalformedPayload), "got %v", err)
}

func TestBuildPlaylistRequestShape(t *testing.T) {
	creds := &SessionCredentials{ServerKeyID: "kid-9"}
	req := BuildPlaylistRequest(DefaultFingerprint, creds, "EAB::1", 210, 123456, PlaylistOptions{HEVC: true})
	raw, err := sonic.Marshal(req)
	require.NoError(t, err)
	doc := gjson.ParseBytes(raw)

	assert.Equal(t, []string{"EC3", "AAC"}, codecTypes(doc.Get("playback.audio.codecs.values")))
	assert.Equal(t, "ALL", doc.Get("playback.audio.codecs.selection_mode").String())
	assert.Equal(t, "ALL", doc.Get("playback.video.codecs.selection_mode").String())

	drm := doc.Get("playback.drm.values").Array()
	require.Len(t, drm, 2)
	assert.Equal(t, "WIDEVINE", drm[0].Get("type").String())
	assert.Equal(t, "MODULAR", drm[0].Get("version").String())
	assert.Equal(t, "L3", drm[0].Get("security_level").String())
	assert.Equal(t, "PLAYREADY", drm[1].Get("type").String())
	assert.Equal(t, "V2", drm[1].Get("version").String())
	assert.Equal(t, "SL2000", drm[1].Get("security_level").String())
	assert.Equal(t, "ALL", doc.Get("playback.drm.selection_mode").String())

	manifest := doc.Get("playback.manifest")
	assert.Equal(t, "DASH", manifest.Get("type").String())
	assert.True(t, manifest.Get("https").Bool())
	assert.True(t, manifest.Get("multiple_cdns").Bool())
	assert.True(t, manifest.Get("patch_updates").Bool())
	assert.EqualValues(t, 3, manifest.Get("live_fragment_delay").Int())

	segments := doc.Get("playback.segments")
	assert.Equal(t, "ONE", segments.Get("selection_mode").String())
	assert.Equal(t, "FMP4", segments.Get("values.0.type").String())
	assert.Equal(t, "CENC", segments.Get("values.0.encryption.mode").String())
	assert.Equal(t, "CENC", segments.Get("values.0.encryption.type").String())

	assert.EqualValues(t, 123456, doc.Get("rv").Int())
	assert.Equal(t, "kid-9", doc.Get("kv").String())
	assert.EqualValues(t, 2, doc.Get("playback.version").Int())
}

func TestBuildPlaylistRequestForce2ch(t *testing.T) {
	creds := &SessionCredentials{ServerKeyID: "kid-9"}
	req := BuildPlaylistRequest(DefaultFingerprint, creds, "EAB::1", 210, 123456, PlaylistOptions{Force2ch: true})
	for _, codec := range req.Playback.Audio.Codecs.Values {
		assert.NotEqual(t, "EC3", string(codec.Type))
	}
	require.Len(t, req.Playback.Audio.Codecs.Values, 1)
}

func TestBuildLegacyRequestAudioCodecs(t *testing.T) {
	device := mustDevice(t, "190", zeroKeyHex)
	creds := &SessionCredentials{ServerKeyID: "kid-2"}

	stereo := BuildLegacyRequest(device, creds, "EAB::1", 100000, LegacyAudioParams(true))
	raw, err := sonic.Marshal(stereo)
	require.NoError(t, err)
	assert.NotContains(t, codecTypes(gjson.GetBytes(raw, "playback.audio.codecs.values")), "EC3")

	surround := BuildLegacyRequest(device, creds, "EAB::1", 100000, LegacyAudioParams(false))
	raw, err = sonic.Marshal(surround)
	require.NoError(t, err)
	types := codecTypes(gjson.GetBytes(raw, "playback.audio.codecs.values"))
	assert.Contains(t, types, "AAC")
	assert.Contains(t, types, "EC3")

	assert.Equal(t, 190, surround["deejay_device_id"])
	assert.Equal(t, "kid-2", surround["kv"])
}

func TestBuildLegacyRequestExtraOverrides(t *testing.T) {
	device := mustDevice(t, "190", zeroKeyHex)
	creds := &SessionCredentials{ServerKeyID: "kid-2"}
	extra := map[string]any{
		"version": 2,
		"playback": map[string]any{
			"audio": map[string]any{"codecs": map[string]any{"selection_mode": "ONE"}},
		},
	}
	params := BuildLegacyRequest(device, creds, "EAB::1", 100000, extra)
	assert.Equal(t, 2, params["version"])
	assert.Equal(t, "EAB::1", params["content_eab_id"])

	params2 := BuildLegacyRequest(device, creds, "EAB::1", 100000, extra)
	params2["playback"].(map[string]any)["audio"] = nil
	assert.NotNil(t, extra["playback"].(map[string]any)["audio"])
}
