package hulu

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"huludl/ext/hulu/envelope"
	"huludl/models"
	"huludl/util/networking"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://play.hulu.com"

	configPath         = "/config"
	legacyPlaylistPath = "/v4/playlist"
	playlistPath       = "/v6/playlist"

	protocolVersion = "1"
	mozartVersion   = "1"
	region          = "US"

	randomMin = 100000
	randomMax = 1000000
)

// md5 of nothing, upper-cased; the service only checks its shape
var deviceIdentifier = func() string {
	hash := md5.Sum(nil)
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}()

// SessionCredentials is the result of the config handshake. SessionKey is
// only valid together with ServerKeyID.
type SessionCredentials struct {
	SessionKey  []byte
	ServerKeyID string
}

// Channel is an encrypted session with the playback service. The
// handshake runs once, on first use; its result (or error) is shared by
// every caller for the lifetime of the channel.
type Channel struct {
	device      *Device
	client      models.HTTPClient
	baseURL     string
	fingerprint Fingerprint
	extraParams map[string]any
	random      func() (int, error)

	once  sync.Once
	creds *SessionCredentials
	err   error
}

type Option func(*Channel)

func WithHTTPClient(client models.HTTPClient) Option {
	return func(c *Channel) {
		c.client = client
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Channel) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithFingerprint(fingerprint Fingerprint) Option {
	return func(c *Channel) {
		c.fingerprint = fingerprint
	}
}

// WithExtraPlaylistParams sets parameters deep-merged over every legacy
// playlist request.
func WithExtraPlaylistParams(params map[string]any) Option {
	return func(c *Channel) {
		c.extraParams = params
	}
}

func WithRandom(random func() (int, error)) Option {
	return func(c *Channel) {
		c.random = random
	}
}

func NewChannel(device *Device, opts ...Option) *Channel {
	c := &Channel{
		device:      device,
		baseURL:     DefaultBaseURL,
		fingerprint: DefaultFingerprint,
		random:      RandomValue,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = networking.GetDefaultHTTPClient()
	}
	return c
}

// RandomValue returns a uniformly random integer in [100000, 1000000).
func RandomValue() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(randomMax-randomMin))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random value: %w", err)
	}
	return int(n.Int64()) + randomMin, nil
}

// Establish performs the handshake if it has not run yet and returns the
// session credentials.
func (c *Channel) Establish(ctx context.Context) (*SessionCredentials, error) {
	c.once.Do(func() {
		c.creds, c.err = c.handshake(ctx)
	})
	return c.creds, c.err
}

func (c *Channel) handshake(ctx context.Context) (*SessionCredentials, error) {
	randomValue, err := c.random()
	if err != nil {
		return nil, err
	}
	deviceKey := c.device.Key()
	nonce := envelope.Nonce(deviceKey, c.device.Code(), protocolVersion, randomValue)

	payload := url.Values{
		"rv":              []string{strconv.Itoa(randomValue)},
		"mozart_version":  []string{mozartVersion},
		"region":          []string{region},
		"version":         []string{protocolVersion},
		"device":          []string{c.device.Code()},
		"encrypted_nonce": []string{nonce},
	}

	zap.S().Debugf("requesting session key for device %s", c.device.Code())
	body, err := c.post(
		ctx,
		c.baseURL+configPath,
		strings.NewReader(payload.Encode()),
		"application/x-www-form-urlencoded",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to request config: %w", err)
	}
	ciphertext, err := c.ciphertext(string(body), formToMap(payload))
	if err != nil {
		return nil, err
	}
	_, plaintext, err := c.Decrypt(deviceKey, ciphertext)
	if err != nil {
		return nil, err
	}

	keyMaterial := gjson.GetBytes(plaintext, "key")
	keyID := gjson.GetBytes(plaintext, "key_id")
	if !keyMaterial.Exists() || !keyID.Exists() {
		return nil, fmt.Errorf("%w: config response lacks key or key_id", ErrMalformedPayload)
	}
	serverKey, err := hex.DecodeString(keyMaterial.String())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid server key: %v", ErrMalformedPayload, err)
	}
	sessionKey, err := envelope.DeriveKey(deviceKey, serverKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}
	zap.S().Debugf("session established with key id %s", keyID.String())

	return &SessionCredentials{
		SessionKey:  sessionKey,
		ServerKeyID: keyID.String(),
	}, nil
}

// Decrypt opens an envelope with key. Padding failures are logged with the
// ciphertext and key so a key mismatch can be inspected.
func (c *Channel) Decrypt(key []byte, ciphertext []byte) (map[string]any, []byte, error) {
	payload, plaintext, err := envelope.Open(key, ciphertext)
	if err != nil {
		if errors.Is(err, envelope.ErrDecryption) {
			zap.S().Error("error decrypting response")
			zap.S().Error("ciphertext:")
			zap.S().Error(base64.StdEncoding.EncodeToString(ciphertext))
			zap.S().Errorf(
				"tried decrypting with key %s",
				base64.StdEncoding.EncodeToString(key),
			)
		}
		return nil, nil, err
	}
	return payload, plaintext, nil
}

func (c *Channel) ciphertext(text string, request any) ([]byte, error) {
	ciphertext, err := envelope.DecodeHex(text)
	if err != nil {
		zap.S().Error("error decoding response hex")
		zap.S().Error("request:")
		if dump, dumpErr := sonic.ConfigStd.MarshalIndent(request, "", "    "); dumpErr == nil {
			for _, line := range strings.Split(string(dump), "\n") {
				zap.S().Error(line)
			}
		}
		zap.S().Error("response:")
		for _, line := range strings.Split(text, "\n") {
			zap.S().Error(line)
		}
		return nil, err
	}
	return ciphertext, nil
}

func (c *Channel) post(
	ctx context.Context,
	endpoint string,
	body io.Reader,
	contentType string,
) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}
	return respBody, nil
}

func formToMap(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k := range values {
		out[k] = values.Get(k)
	}
	return out
}
