package main

import (
	"strconv"

	"huludl/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderVideoTracks(tracks []*models.Track) string {
	tw := newTrackTable("ID", "RESOLUTION", "CODECS", "BANDWIDTH")
	for _, track := range tracks {
		tw.AppendRow(table.Row{
			track.ID,
			strconv.FormatUint(track.Width, 10) + "x" + strconv.FormatUint(track.Height, 10),
			track.Codecs,
			strconv.FormatUint(track.Bandwidth, 10),
		})
	}
	return tw.Render()
}

func renderAudioTracks(tracks []*models.Track) string {
	tw := newTrackTable("ID", "LANG", "CODECS", "BANDWIDTH")
	for _, track := range tracks {
		tw.AppendRow(table.Row{
			track.ID,
			track.Lang,
			track.Codecs,
			strconv.FormatUint(track.Bandwidth, 10),
		})
	}
	return tw.Render()
}

// bandwidth is the last column and right aligned
func newTrackTable(headers ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs([]table.ColumnConfig{{
		Number:      len(headers),
		Align:       text.AlignRight,
		AlignHeader: text.AlignLeft,
	}})
	return tw
}
