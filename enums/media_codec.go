package enums

// codec identifiers as the playlist service spells them
type VideoCodec string

const (
	VideoCodecH264 VideoCodec = "H264"
	VideoCodecH265 VideoCodec = "H265"
)

type AudioCodec string

const (
	AudioCodecEC3 AudioCodec = "EC3"
	AudioCodecAAC AudioCodec = "AAC"
)

type VideoProfile string

const (
	VideoProfileHigh   VideoProfile = "HIGH"
	VideoProfileMain10 VideoProfile = "MAIN_10"
)

type DynamicRange string

const (
	DynamicRangeDolbyVision DynamicRange = "DOLBY_VISION"
)
