package models

import "huludl/enums"

type Track struct {
	ID        string
	Type      enums.MediaType
	Codecs    string
	Bandwidth uint64
	Width     uint64
	Height    uint64
	Lang      string
	Role      string // adaptation set role, empty when absent
	URL       string
}

type ManifestSummary struct {
	PeriodID   string
	Video      []*Track
	Audio      []*Track
	DefaultKID string

	// widevine init data (base64) of the video and audio sets
	PSSH      string
	AudioPSSH string
}
