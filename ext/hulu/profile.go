package hulu

import "huludl/enums"

// Fingerprint holds the static client identifiers the v6 playlist endpoint
// expects. They are a protocol contract with the service, not derived.
type Fingerprint struct {
	DeviceAdID       string
	GUID             string
	CPSessionID      string
	Region           string
	NetworkMode      string
	InterfaceVersion string
	PlayIntent       string
}

var DefaultFingerprint = Fingerprint{
	DeviceAdID:       "5DFEB7AD-3651-8C6A-8302-56EC694FD9E8",
	GUID:             "0BFDBD0D05D1DF844899A7D608B95BBE",
	CPSessionID:      "4408CF3E-D697-B2EA-A70A-4769B8D072F1",
	Region:           "US",
	NetworkMode:      "wifi",
	InterfaceVersion: "1.3.0-alpha.1",
	PlayIntent:       "resume",
}

// PlaylistOptions selects the codec and DRM shape of a v6 request.
type PlaylistOptions struct {
	HEVC     bool
	HDR      bool
	Force2ch bool
}

type PlaylistRequest struct {
	DeviceIdentifier string    `json:"device_identifier"`
	DeejayDeviceID   int       `json:"deejay_device_id"`
	Version          int       `json:"version"`
	AllCDN           bool      `json:"all_cdn"`
	ContentEABID     string    `json:"content_eab_id"`
	Region           string    `json:"region"`
	XlinkSupport     bool      `json:"xlink_support"`
	DeviceAdID       string    `json:"device_ad_id"`
	LimitAdTracking  bool      `json:"limit_ad_tracking"`
	IgnoreKidsBlock  bool      `json:"ignore_kids_block"`
	GUID             string    `json:"guid"`
	RV               int       `json:"rv"`
	KV               string    `json:"kv"`
	CPSessionID      string    `json:"cp_session_id"`
	Unencrypted      bool      `json:"unencrypted"`
	NetworkMode      string    `json:"network_mode"`
	InterfaceVersion string    `json:"interface_version"`
	PlayIntent       string    `json:"play_intent"`
	Playback         *Playback `json:"playback"`
}

type Playback struct {
	Version                     int             `json:"version"`
	Video                       *VideoConfig    `json:"video"`
	Audio                       *AudioConfig    `json:"audio"`
	DRM                         *DRMConfig      `json:"drm"`
	Manifest                    *ManifestConfig `json:"manifest"`
	TrustedExecutionEnvironment bool            `json:"trusted_execution_environment"`
	Segments                    *SegmentConfig  `json:"segments"`
}

type VideoConfig struct {
	Codecs       VideoCodecs        `json:"codecs"`
	DynamicRange enums.DynamicRange `json:"dynamic_range,omitempty"`
}

type VideoCodecs struct {
	SelectionMode enums.SelectionMode `json:"selection_mode"`
	Values        []*VideoCodecParams `json:"values"`
}

type VideoCodecParams struct {
	Type      enums.VideoCodec   `json:"type"`
	Profile   enums.VideoProfile `json:"profile"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Framerate int                `json:"framerate,omitempty"`
	Level     string             `json:"level"`
	Tier      string             `json:"tier,omitempty"`
}

type AudioConfig struct {
	Codecs AudioCodecs `json:"codecs"`
}

type AudioCodecs struct {
	Values        []*AudioCodecParams `json:"values"`
	SelectionMode enums.SelectionMode `json:"selection_mode"`
}

type AudioCodecParams struct {
	Type enums.AudioCodec `json:"type"`
}

type DRMConfig struct {
	Values        []*DRMParams        `json:"values"`
	SelectionMode enums.SelectionMode `json:"selection_mode"`
	MultiKey      bool                `json:"multi_key,omitempty"`
}

type DRMParams struct {
	Type          enums.DRMType `json:"type"`
	Version       string        `json:"version"`
	SecurityLevel string        `json:"security_level"`
}

type ManifestConfig struct {
	Type              string `json:"type"`
	HTTPS             bool   `json:"https"`
	MultipleCDNs      bool   `json:"multiple_cdns"`
	PatchUpdates      bool   `json:"patch_updates"`
	HuluTypes         bool   `json:"hulu_types"`
	LiveDAI           bool   `json:"live_dai"`
	SecondaryAudio    bool   `json:"secondary_audio"`
	LiveFragmentDelay int    `json:"live_fragment_delay"`
}

type SegmentConfig struct {
	Values        []*SegmentParams    `json:"values"`
	SelectionMode enums.SelectionMode `json:"selection_mode"`
}

type SegmentParams struct {
	Type       string             `json:"type"`
	Encryption *SegmentEncryption `json:"encryption"`
	HTTPS      bool               `json:"https"`
}

type SegmentEncryption struct {
	Mode string `json:"mode"`
	Type string `json:"type"`
}

func hevcCodec() *VideoCodecParams {
	return &VideoCodecParams{
		Type:      enums.VideoCodecH265,
		Profile:   enums.VideoProfileMain10,
		Width:     3840,
		Height:    2160,
		Framerate: 60,
		Level:     "5.1",
		Tier:      "MAIN",
	}
}

func avcCodec() *VideoCodecParams {
	return &VideoCodecParams{
		Type:    enums.VideoCodecH264,
		Profile: enums.VideoProfileHigh,
		Width:   1920,
		Height:  1080,
		Level:   "4.1",
	}
}

// EC3 first, AAC always
func audioCodecs(force2ch bool) []*AudioCodecParams {
	codecs := make([]*AudioCodecParams, 0, 2)
	if !force2ch {
		codecs = append(codecs, &AudioCodecParams{Type: enums.AudioCodecEC3})
	}
	return append(codecs, &AudioCodecParams{Type: enums.AudioCodecAAC})
}

// both DRM systems are always offered; the service may reject narrower
// requests.
func drmCandidates() []*DRMParams {
	return []*DRMParams{
		{
			Type:          enums.DRMTypeWidevine,
			Version:       "MODULAR",
			SecurityLevel: "L3",
		},
		{
			Type:          enums.DRMTypePlayReady,
			Version:       "V2",
			SecurityLevel: "SL2000",
		},
	}
}

func newPlayback(opts PlaylistOptions) *Playback {
	video := avcCodec()
	if opts.HEVC {
		video = hevcCodec()
	}
	playback := &Playback{
		Version: 2,
		Video: &VideoConfig{
			Codecs: VideoCodecs{
				SelectionMode: enums.SelectionModeAll,
				Values:        []*VideoCodecParams{video},
			},
		},
		Audio: &AudioConfig{
			Codecs: AudioCodecs{
				Values:        audioCodecs(opts.Force2ch),
				SelectionMode: enums.SelectionModeAll,
			},
		},
		DRM: &DRMConfig{
			Values:        drmCandidates(),
			SelectionMode: enums.SelectionModeAll,
		},
		Manifest: &ManifestConfig{
			Type:              "DASH",
			HTTPS:             true,
			MultipleCDNs:      true,
			PatchUpdates:      true,
			HuluTypes:         true,
			LiveDAI:           true,
			SecondaryAudio:    true,
			LiveFragmentDelay: 3,
		},
		TrustedExecutionEnvironment: true,
		Segments: &SegmentConfig{
			Values: []*SegmentParams{{
				Type: "FMP4",
				Encryption: &SegmentEncryption{
					Mode: "CENC",
					Type: "CENC",
				},
				HTTPS: true,
			}},
			SelectionMode: enums.SelectionModeOne,
		},
	}
	if opts.HDR {
		playback.Video.DynamicRange = enums.DynamicRangeDolbyVision
		playback.DRM.MultiKey = true
	}
	return playback
}
