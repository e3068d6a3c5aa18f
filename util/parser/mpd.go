package parser

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"huludl/enums"
	"huludl/models"
	"huludl/util"

	"github.com/unki2aut/go-mpd"
	"go.uber.org/zap"
)

const (
	adPeriodPrefix = "ad-"
	cencScheme     = "urn:mpeg:dash:mp4protection:2011"
	widevineScheme = "urn:uuid:edef8ba9-79d6-4ace-a3c8-27dcd51d21ed"
	mainRole       = "main"
)

var ErrNoContentPeriod = &util.Error{Message: "no content period found in mpd"}

// go-mpd's Descriptor drops the cenc:pssh child, so content protection is
// decoded a second time with it attached.
type psshManifest struct {
	Periods []struct {
		ID             string `xml:"id,attr"`
		AdaptationSets []struct {
			MimeType           string           `xml:"mimeType,attr"`
			ContentProtections []psshDescriptor `xml:"ContentProtection"`
		} `xml:"AdaptationSet"`
	} `xml:"Period"`
}

type psshDescriptor struct {
	mpd.Descriptor
	Pssh string `xml:"pssh"`
}

// SummarizeMPDFromURL downloads a DASH manifest and summarizes it.
func SummarizeMPDFromURL(ctx context.Context, client models.HTTPClient, manifestURL string) (*models.ManifestSummary, error) {
	body, err := fetchContent(ctx, client, manifestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch MPD content: %w", err)
	}
	return SummarizeMPD(body, manifestURL)
}

// SummarizeMPD lists the video and audio representations of the first
// non-ad period, highest bandwidth first.
func SummarizeMPD(content []byte, baseURL string) (*models.ManifestSummary, error) {
	baseURLObj, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	mpdDoc := &mpd.MPD{}
	if err := mpdDoc.Decode(content); err != nil {
		return nil, fmt.Errorf("failed parsing MPD: %w", err)
	}

	period := contentPeriod(mpdDoc.Period)
	if period == nil {
		return nil, ErrNoContentPeriod
	}
	summary := &models.ManifestSummary{}
	if period.ID != nil {
		summary.PeriodID = *period.ID
	}

	periodBaseURL := resolveBaseURL(resolveBaseURL(baseURLObj, mpdDoc.BaseURL), period.BaseURL)
	for _, set := range period.AdaptationSets {
		if set == nil {
			continue
		}
		mediaType := getMediaType(set.MimeType, set.ContentType)
		setBaseURL := resolveBaseURL(periodBaseURL, set.BaseURL)

		for _, protection := range set.ContentProtections {
			if summary.DefaultKID != "" {
				break
			}
			if protection.SchemeIDURI == nil || protection.CencDefaultKeyId == nil {
				continue
			}
			if strings.EqualFold(*protection.SchemeIDURI, cencScheme) {
				summary.DefaultKID = strings.ToLower(*protection.CencDefaultKeyId)
			}
		}
		for _, representation := range set.Representations {
			if representation.ID == nil || representation.Bandwidth == nil {
				continue
			}
			track := &models.Track{
				ID:        *representation.ID,
				Type:      mediaType,
				Bandwidth: uint64(*representation.Bandwidth),
				URL:       resolveBaseURL(setBaseURL, representation.BaseURL).String(),
			}
			if representation.Codecs != nil {
				track.Codecs = *representation.Codecs
			} else if set.Codecs != nil {
				track.Codecs = *set.Codecs
			}
			if representation.Width != nil {
				track.Width = uint64(*representation.Width)
			}
			if representation.Height != nil {
				track.Height = uint64(*representation.Height)
			}
			if set.Lang != nil {
				track.Lang = *set.Lang
			}
			track.Role = adaptationSetRole(set)

			switch mediaType {
			case enums.MediaTypeVideo:
				summary.Video = append(summary.Video, track)
			case enums.MediaTypeAudio:
				summary.Audio = append(summary.Audio, track)
			default:
				zap.S().Debugf("skipping %q representation %s", mediaType, track.ID)
			}
		}
	}

	byBandwidth := func(a, b *models.Track) int {
		switch {
		case a.Bandwidth > b.Bandwidth:
			return -1
		case a.Bandwidth < b.Bandwidth:
			return 1
		}
		return 0
	}
	slices.SortStableFunc(summary.Video, byBandwidth)
	slices.SortStableFunc(summary.Audio, byBandwidth)

	summary.PSSH, summary.AudioPSSH, err = findPSSH(content)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// findPSSH returns the widevine pssh of the first video and the first audio
// adaptation set of the content period.
func findPSSH(content []byte) (string, string, error) {
	var manifest psshManifest
	if err := xml.Unmarshal(content, &manifest); err != nil {
		return "", "", fmt.Errorf("failed parsing MPD content protection: %w", err)
	}
	var video, audio string
	for _, period := range manifest.Periods {
		if strings.HasPrefix(period.ID, adPeriodPrefix) {
			continue
		}
		for _, set := range period.AdaptationSets {
			pssh := widevinePSSH(set.ContentProtections)
			if pssh == "" {
				continue
			}
			switch {
			case video == "" && strings.Contains(set.MimeType, "video"):
				video = pssh
			case audio == "" && strings.Contains(set.MimeType, "audio"):
				audio = pssh
			}
		}
		break
	}
	return video, audio, nil
}

func widevinePSSH(protections []psshDescriptor) string {
	for _, protection := range protections {
		if protection.SchemeIDURI == nil {
			continue
		}
		if !strings.EqualFold(*protection.SchemeIDURI, widevineScheme) {
			continue
		}
		if pssh := strings.TrimSpace(protection.Pssh); pssh != "" {
			return pssh
		}
	}
	return ""
}

func adaptationSetRole(set *mpd.AdaptationSet) string {
	for _, role := range set.Role {
		if role != nil && role.Value != nil {
			return *role.Value
		}
	}
	return ""
}

func contentPeriod(periods []*mpd.Period) *mpd.Period {
	for _, period := range periods {
		if period == nil {
			continue
		}
		if period.ID != nil && strings.HasPrefix(*period.ID, adPeriodPrefix) {
			continue
		}
		return period
	}
	return nil
}

func resolveBaseURL(baseURL *url.URL, baseURLs []*mpd.BaseURL) *url.URL {
	if len(baseURLs) > 0 && baseURLs[0] != nil && baseURLs[0].Value != "" {
		if resolved, err := url.Parse(baseURLs[0].Value); err == nil {
			return baseURL.ResolveReference(resolved)
		}
	}
	return baseURL
}
