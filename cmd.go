package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"huludl/config"
	"huludl/ext/hulu"
	"huludl/logger"
	"huludl/models"
	"huludl/util/networking"
	"huludl/util/parser"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	season        string
	episode       string
	device        string
	configPath    string
	subtitleLangs []string
	quality       string
	audioLang     string
	h264          bool
	hdr           bool
	force2ch      bool
	info          bool
	debug         bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "huludl <url or id>",
		Short:        "Resolve Hulu titles to playback manifests",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.season, "season", "s", "", "season(s) to resolve (for TV series)")
	flags.StringVarP(&opts.episode, "episode", "e", "", "episode(s) to resolve (for TV series) [default: all]")
	flags.StringVar(&opts.device, "device", "chrome", "configured device to authenticate as")
	flags.StringVar(&opts.configPath, "config", "", "path to the YAML config [default: $HULU_CONFIG or hulu.yaml]")
	flags.StringSliceVar(&opts.subtitleLangs, "subtitle-lang", []string{"en"}, "subtitle language(s)")
	flags.StringVarP(&opts.quality, "quality", "q", "", "video quality, e.g. 2160p,1080p [default: all]")
	flags.StringVar(&opts.audioLang, "audio-lang", "", "audio language [default: main track]")
	flags.BoolVar(&opts.h264, "h264", false, "only request H.264 video")
	flags.BoolVar(&opts.hdr, "hdr", false, "request the HDR/Dolby Vision manifest")
	flags.BoolVarP(&opts.force2ch, "force-2ch", "2", false, "force 2.0 audio instead of 5.1")
	flags.BoolVarP(&opts.info, "info", "i", false, "fetch the manifests and display track information")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, out io.Writer, input string, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := config.LoadEnv(); err != nil {
		return err
	}
	level := config.Env.LogLevel
	if opts.debug {
		level = "debug"
	}
	logger.Init(level)
	defer logger.Sync()

	configPath := config.Env.ConfigPath
	if opts.configPath != "" {
		configPath = opts.configPath
	}
	zap.S().Debugf("using config %s", configPath)
	qualities, err := parseQualities(opts.quality)
	if err != nil {
		zap.S().Error(err)
		return err
	}
	cfg, err := config.LoadClientConfig(configPath, config.Env)
	if err != nil {
		zap.S().Error(err)
		return err
	}
	client, err := networking.NewClientFromConfig(cfg)
	if err != nil {
		zap.S().Error(err)
		return err
	}

	watchID, err := hulu.ParseWatchID(input)
	if err != nil {
		zap.S().Errorf("%q is not a valid Hulu watch URL or ID", input)
		return err
	}
	if hulu.IsSeriesURL(input) && opts.season == "" {
		err := fmt.Errorf("for series, please use the --season argument")
		zap.S().Error(err)
		return err
	}

	discover := hulu.NewDiscover(client, cfg.DiscoverURL)
	titles, err := resolveTitles(ctx, discover, watchID, opts)
	if err != nil {
		zap.S().Error(err)
		return err
	}

	device, err := config.GetDevice(cfg, opts.device)
	if err != nil {
		zap.S().Error(err)
		return err
	}
	channel := hulu.NewChannel(
		device,
		hulu.WithHTTPClient(client),
		hulu.WithBaseURL(cfg.BaseURL),
		hulu.WithExtraPlaylistParams(hulu.LegacyAudioParams(opts.force2ch)),
	)

	playbackOptions := &models.PlaybackOptions{
		Device:        opts.device,
		HEVC:          !opts.h264,
		HDR:           opts.hdr,
		Force2ch:      opts.force2ch,
		SubtitleLangs: opts.subtitleLangs,
		Info:          opts.info,
		Qualities:     qualities,
		AudioLang:     opts.audioLang,
	}
	for _, title := range titles {
		pctx := &models.PlaybackContext{
			Context: ctx,
			Title:   title,
			Options: playbackOptions,
		}
		if err := processTitle(pctx, out, channel, client, cfg); err != nil {
			zap.S().Error(err)
			return err
		}
	}
	return nil
}

// parseQualities reads "2160p,1080" style lists into heights.
func parseQualities(value string) ([]int, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var heights []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(part)), "p")
		height, err := strconv.Atoi(part)
		if err != nil || height <= 0 {
			return nil, fmt.Errorf("invalid quality %q", value)
		}
		heights = append(heights, height)
	}
	return heights, nil
}

func resolveTitles(
	ctx context.Context,
	discover *hulu.Discover,
	watchID string,
	opts *options,
) ([]*models.Title, error) {
	if opts.season == "" {
		title, err := discover.GetTitle(ctx, watchID)
		if err != nil {
			return nil, err
		}
		return []*models.Title{title}, nil
	}

	seasons, err := hulu.ParseSelection(opts.season, 0)
	if err != nil {
		return nil, err
	}
	var titles []*models.Title
	for _, season := range seasons {
		episodes, err := discover.GetEpisodes(ctx, watchID, season)
		if err != nil {
			return nil, fmt.Errorf("season %d: %w", season, err)
		}
		if opts.episode == "" {
			titles = append(titles, episodes...)
			continue
		}
		wanted, err := hulu.ParseSelection(opts.episode, len(episodes))
		if err != nil {
			return nil, err
		}
		for _, episode := range episodes {
			if slices.Contains(wanted, episode.Episode) {
				titles = append(titles, episode)
			}
		}
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("no matching episodes found")
	}
	return titles, nil
}

func processTitle(
	pctx *models.PlaybackContext,
	out io.Writer,
	channel *hulu.Channel,
	client models.HTTPClient,
	cfg *models.ClientConfig,
) error {
	ctx := pctx.Context
	title := pctx.Title
	opts := pctx.Options

	zap.S().Infof("resolving: %s", title)

	video, err := channel.LoadPlaylistSix(ctx, title.ID, cfg.PlaylistDeviceID, hulu.PlaylistOptions{
		HEVC:     opts.HEVC,
		HDR:      opts.HDR,
		Force2ch: opts.Force2ch,
	})
	if err != nil {
		return fmt.Errorf("failed to load video playlist: %w", err)
	}
	if reason, blocked := video.Blocked(); blocked {
		return fmt.Errorf("%w: video manifest: %s", hulu.ErrPlaylistBlocked, reason)
	}
	audio, err := channel.LoadPlaylist(ctx, title.ID)
	if err != nil {
		return fmt.Errorf("failed to load audio playlist: %w", err)
	}
	if reason, blocked := audio.Blocked(); blocked {
		return fmt.Errorf("%w: audio manifest: %s", hulu.ErrPlaylistBlocked, reason)
	}

	zap.S().Infof("video manifest : %s", video.StreamURL())
	zap.S().Infof("audio manifest : %s", audio.StreamURL())
	zap.S().Infof("license URL    : %s", video.LicenseURL())
	for _, lang := range opts.SubtitleLangs {
		subtitleURL, ok := video.TranscriptURL("webvtt", lang)
		if !ok {
			zap.S().Warnf("no %q subtitle found", lang)
			continue
		}
		zap.S().Infof("subtitle URL (%s): %s", lang, subtitleURL)
	}

	if !opts.Info {
		return nil
	}
	return showTracks(pctx, out, client, video, audio)
}

func showTracks(
	pctx *models.PlaybackContext,
	out io.Writer,
	client models.HTTPClient,
	video *models.Playlist,
	audio *models.Playlist,
) error {
	videoSummary, err := parser.SummarizeMPDFromURL(pctx.Context, client, video.StreamURL())
	if err != nil {
		return fmt.Errorf("failed to read video manifest: %w", err)
	}
	audioSummary, err := parser.SummarizeMPDFromURL(pctx.Context, client, audio.StreamURL())
	if err != nil {
		return fmt.Errorf("failed to read audio manifest: %w", err)
	}

	videoTracks, err := parser.SelectVideo(videoSummary.Video, pctx.Options.Qualities)
	if err != nil {
		return err
	}
	audioTracks, err := parser.SelectAudio(audioSummary.Audio, pctx.Options.AudioLang)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, pctx.Title)
	fmt.Fprintln(out, renderVideoTracks(videoTracks))
	fmt.Fprintln(out, renderAudioTracks(audioTracks))
	if videoSummary.DefaultKID != "" {
		fmt.Fprintf(out, "default KID: %s\n", videoSummary.DefaultKID)
	}
	if videoSummary.PSSH != "" {
		fmt.Fprintf(out, "PSSH       : %s\n", videoSummary.PSSH)
	}
	if videoSummary.AudioPSSH != "" {
		fmt.Fprintf(out, "audio PSSH : %s\n", videoSummary.AudioPSSH)
	}
	return nil
}
