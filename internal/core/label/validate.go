package label

import (
	"regexp"

	"github.com/ixugo/goddd/pkg/reason"
)

var (
	formatPattern  = regexp.MustCompile(`^\d{2}$`)
	contentPattern = regexp.MustCompile(`^\d{3}$`)
)

// Validate 校验标记请求，校验不通过的请求不会产生任何副作用
func (in *LabelEventsInput) Validate() error {
	if len(in.EventIDs) == 0 {
		return reason.ErrBadRequest.Withf("event_ids is required")
	}
	seen := make(map[int64]struct{}, len(in.EventIDs))
	for _, id := range in.EventIDs {
		if id <= 0 {
			return reason.ErrBadRequest.Withf("invalid event id [%d]", id)
		}
		if _, ok := seen[id]; ok {
			return reason.ErrBadRequest.Withf("duplicate event id [%d]", id)
		}
		seen[id] = struct{}{}
	}

	if !in.DetectionType.Valid() {
		return reason.ErrBadRequest.Withf("unknown detection_type [%s]", in.DetectionType)
	}
	if in.Repeat == nil {
		return reason.ErrBadRequest.Withf("repeat is required")
	}
	if in.Format != "" && !formatPattern.MatchString(in.Format) {
		return reason.ErrBadRequest.Withf("format must match ^\\d{2}$, got [%s]", in.Format)
	}
	if in.Content != "" && !contentPattern.MatchString(in.Content) {
		return reason.ErrBadRequest.Withf("content must match ^\\d{3}$, got [%s]", in.Content)
	}

	switch in.DetectionType {
	case TypeProgramContent:
		if (in.EpisodeID != "" || in.SeasonID != "") && in.ProgramContent == nil {
			return reason.ErrBadRequest.Withf("episode_id/season_id require program_content_details")
		}
		if in.ProgramContent == nil {
			return reason.ErrBadRequest.Withf("program_content_details is required")
		}
		if in.ProgramContent.Description == "" {
			return reason.ErrBadRequest.Withf("program_content_details.description is required")
		}
		if in.ProgramContent.FormatType == "" {
			return reason.ErrBadRequest.Withf("program_content_details.format_type is required")
		}
		if in.ProgramContent.ContentType == "" {
			return reason.ErrBadRequest.Withf("program_content_details.content_type is required")
		}
	case TypeCommercialBreak:
		if in.CommercialBreak == nil {
			return reason.ErrBadRequest.Withf("commercial_break_details is required")
		}
	case TypeSpotsOutsideBreaks:
		if in.SpotsOutsideBreaks == nil {
			return reason.ErrBadRequest.Withf("spots_outside_breaks_details is required")
		}
		if in.SpotsOutsideBreaks.FormatType == "" {
			return reason.ErrBadRequest.Withf("spots_outside_breaks_details.format_type is required")
		}
	case TypeAutoPromo:
		if in.AutoPromo == nil {
			return reason.ErrBadRequest.Withf("auto_promo_details is required")
		}
		if in.AutoPromo.ContentType == "" {
			return reason.ErrBadRequest.Withf("auto_promo_details.content_type is required")
		}
	case TypeSong:
		if in.Song == nil {
			return reason.ErrBadRequest.Withf("song_details is required")
		}
		if in.Song.SongName == "" {
			return reason.ErrBadRequest.Withf("song_details.song_name is required")
		}
		if in.Song.ArtistName == "" {
			return reason.ErrBadRequest.Withf("song_details.artist_name is required")
		}
	case TypeError:
		if in.Error == nil {
			return reason.ErrBadRequest.Withf("error_details is required")
		}
		if in.Error.ErrorType == "" {
			return reason.ErrBadRequest.Withf("error_details.error_type is required")
		}
	}
	return nil
}

// categoryOverlay 类别详情展开为覆盖层，与首事件详情合并时类别字段优先
func (in *LabelEventsInput) categoryOverlay() map[string]any {
	out := make(map[string]any, 6)
	put := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}

	switch in.DetectionType {
	case TypeProgramContent:
		if d := in.ProgramContent; d != nil {
			put("description", d.Description)
			put("format_type", d.FormatType)
			put("content_type", d.ContentType)
		}
	case TypeCommercialBreak:
		if d := in.CommercialBreak; d != nil {
			put("category", d.Category)
			put("sector", d.Sector)
		}
	case TypeSpotsOutsideBreaks:
		if d := in.SpotsOutsideBreaks; d != nil {
			put("format_type", d.FormatType)
			put("category", d.Category)
			put("sector", d.Sector)
		}
	case TypeAutoPromo:
		if d := in.AutoPromo; d != nil {
			put("content_type", d.ContentType)
			put("category", d.Category)
		}
	case TypeSong:
		if d := in.Song; d != nil {
			put("song_name", d.SongName)
			put("artist_name", d.ArtistName)
			put("movie_name_or_album_name", d.MovieNameOrAlbumName)
			put("year_of_publication", d.YearOfPublication)
			put("genre", d.Genre)
			put("tempo", d.Tempo)
		}
	case TypeError:
		if d := in.Error; d != nil {
			put("error_type", d.ErrorType)
		}
	}
	return out
}
