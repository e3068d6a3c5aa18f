package hulu

import (
	"bytes"
	"context"
	"fmt"

	"huludl/ext/hulu/envelope"
	"huludl/models"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// BuildLegacyRequest returns the v4 playlist request with extra merged
// over the defaults.
func BuildLegacyRequest(
	device *Device,
	creds *SessionCredentials,
	contentID string,
	randomValue int,
	extra map[string]any,
) map[string]any {
	params := map[string]any{
		"device_identifier": deviceIdentifier,
		"deejay_device_id":  device.ID(),
		"version":           1,
		"content_eab_id":    contentID,
		"rv":                randomValue,
		"kv":                creds.ServerKeyID,
	}
	return deepMerge(params, extra)
}

// BuildPlaylistRequest returns the v6 playlist request.
func BuildPlaylistRequest(
	fingerprint Fingerprint,
	creds *SessionCredentials,
	contentID string,
	deviceID int,
	randomValue int,
	opts PlaylistOptions,
) *PlaylistRequest {
	return &PlaylistRequest{
		DeviceIdentifier: deviceIdentifier,
		DeejayDeviceID:   deviceID,
		Version:          1,
		AllCDN:           true,
		ContentEABID:     contentID,
		Region:           fingerprint.Region,
		XlinkSupport:     false,
		DeviceAdID:       fingerprint.DeviceAdID,
		LimitAdTracking:  false,
		IgnoreKidsBlock:  false,
		GUID:             fingerprint.GUID,
		RV:               randomValue,
		KV:               creds.ServerKeyID,
		CPSessionID:      fingerprint.CPSessionID,
		Unencrypted:      true,
		NetworkMode:      fingerprint.NetworkMode,
		InterfaceVersion: fingerprint.InterfaceVersion,
		PlayIntent:       fingerprint.PlayIntent,
		Playback:         newPlayback(opts),
	}
}

// LoadPlaylist requests the legacy (v4) playlist. Its response is an
// encrypted envelope opened with the session key.
func (c *Channel) LoadPlaylist(ctx context.Context, contentID string) (*models.Playlist, error) {
	creds, err := c.Establish(ctx)
	if err != nil {
		return nil, err
	}
	randomValue, err := c.random()
	if err != nil {
		return nil, err
	}
	params := BuildLegacyRequest(c.device, creds, contentID, randomValue, c.extraParams)
	reqBody, err := sonic.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode playlist request: %w", err)
	}

	body, err := c.post(
		ctx,
		c.baseURL+legacyPlaylistPath,
		bytes.NewReader(reqBody),
		"application/json",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to request playlist: %w", err)
	}
	ciphertext, err := c.ciphertext(string(body), params)
	if err != nil {
		return nil, err
	}
	data, plaintext, err := c.Decrypt(creds.SessionKey, ciphertext)
	if err != nil {
		return nil, err
	}
	zap.S().Debugf("legacy playlist: %s", plaintext)
	return models.NewPlaylist(data, plaintext), nil
}

// LoadPlaylistSix requests the v6 playlist for deviceID. The v6 endpoint
// answers in plain JSON.
func (c *Channel) LoadPlaylistSix(
	ctx context.Context,
	contentID string,
	deviceID int,
	opts PlaylistOptions,
) (*models.Playlist, error) {
	creds, err := c.Establish(ctx)
	if err != nil {
		return nil, err
	}
	randomValue, err := c.random()
	if err != nil {
		return nil, err
	}
	params := BuildPlaylistRequest(c.fingerprint, creds, contentID, deviceID, randomValue, opts)
	reqBody, err := sonic.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode playlist request: %w", err)
	}

	body, err := c.post(
		ctx,
		c.baseURL+playlistPath,
		bytes.NewReader(reqBody),
		"application/json",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to request playlist: %w", err)
	}
	data, err := envelope.DecodePayload(body)
	if err != nil {
		return nil, err
	}
	zap.S().Debugf("playlist: %s", body)
	return models.NewPlaylist(data, body), nil
}
