package label

import (
	"log/slog"
)

// adjacencyWindowSec 相邻分段归并窗口
// 超过该间隔的两段即使其余字段全同也不会合并
const adjacencyWindowSec = 60

// Group 展示分组，由相邻且等价的分段在读取时归并而来
// 归并不落库，时长与帧列表每次重新计算
type Group struct {
	DeviceID       string        `json:"device_id"`
	DetectionType  DetectionType `json:"detection_type"`
	Date           string        `json:"date"`
	Begin          string        `json:"begin"`
	Format         string        `json:"format,omitempty"`
	Content        string        `json:"content,omitempty"`
	Title          string        `json:"title,omitempty"`
	EpisodeID      string        `json:"episode_id,omitempty"`
	SeasonID       string        `json:"season_id,omitempty"`
	Repeat         bool          `json:"repeat"`
	TimestampStart int64         `json:"timestamp_start,string"`
	TimestampEnd   int64         `json:"timestamp_end,string"`
	Duration       int64         `json:"duration"` // 秒，跨全部成员的时间跨度
	Images         []string      `json:"images"`
	SegmentIDs     []int64       `json:"segment_ids"`

	// lastStart 最近并入分段的开始时间，窗口判定的参照点
	lastStart int64
	key       similarityKey
}

// similarityKey 判定两段是否描述同一播出单元的全部比较字段
// 缺省字段以空串参与比较，双方皆缺省视为相等
type similarityKey struct {
	DeviceID      string
	DetectionType DetectionType
	Date          string
	Begin         string
	Format        string
	Content       string
	Title         string
	EpisodeID     string
	SeasonID      string
	Repeat        bool

	Description          string
	FormatType           string
	ContentType          string
	Category             string
	Sector               string
	SongName             string
	MovieNameOrAlbumName string
	ArtistName           string
	YearOfPublication    string
	Genre                string
	Tempo                string
	ErrorType            string
}

func segmentKey(s *LabeledSegment) similarityKey {
	return similarityKey{
		DeviceID:      s.DeviceID,
		DetectionType: s.DetectionType,
		Date:          s.Date,
		Begin:         s.Begin,
		Format:        s.Format,
		Content:       s.Content,
		Title:         s.Title,
		EpisodeID:     s.EpisodeID,
		SeasonID:      s.SeasonID,
		Repeat:        s.Repeat,

		Description:          s.Details.stringField("description"),
		FormatType:           s.Details.stringField("format_type"),
		ContentType:          s.Details.stringField("content_type"),
		Category:             s.Details.stringField("category"),
		Sector:               s.Details.stringField("sector"),
		SongName:             s.Details.stringField("song_name"),
		MovieNameOrAlbumName: s.Details.stringField("movie_name_or_album_name"),
		ArtistName:           s.Details.stringField("artist_name"),
		YearOfPublication:    s.Details.stringField("year_of_publication"),
		Genre:                s.Details.stringField("genre"),
		Tempo:                s.Details.stringField("tempo"),
		ErrorType:            s.Details.stringField("error_type"),
	}
}

// similar 纯比较函数，键全等即等价，窗口判定另行处理
func similar(a, b similarityKey) bool {
	return a == b
}

// Reconcile 将按 timestamp_start 升序的分段序列归并为展示分组
// 单次左到右扫描，维护一个打开的分组；详情不合法的分段跳过不参与归并
func Reconcile(segments []*LabeledSegment) []*Group {
	groups := make([]*Group, 0, len(segments))
	var open *Group

	for _, s := range segments {
		if !s.Details.validImagePath() {
			slog.Debug("skip segment with invalid details", "segment_id", s.ID)
			continue
		}

		key := segmentKey(s)
		if open != nil && similar(open.key, key) && within(s.TimestampStart, open.lastStart) {
			open.absorb(s)
			continue
		}
		if open != nil {
			groups = append(groups, open)
		}
		open = newGroup(s, key)
	}
	if open != nil {
		groups = append(groups, open)
	}
	return groups
}

func within(candidate, reference int64) bool {
	d := candidate - reference
	if d < 0 {
		d = -d
	}
	return d <= adjacencyWindowSec
}

func newGroup(s *LabeledSegment, key similarityKey) *Group {
	return &Group{
		DeviceID:       s.DeviceID,
		DetectionType:  s.DetectionType,
		Date:           s.Date,
		Begin:          s.Begin,
		Format:         s.Format,
		Content:        s.Content,
		Title:          s.Title,
		EpisodeID:      s.EpisodeID,
		SeasonID:       s.SeasonID,
		Repeat:         s.Repeat,
		TimestampStart: s.TimestampStart,
		TimestampEnd:   s.TimestampEnd,
		Duration:       s.TimestampEnd - s.TimestampStart,
		Images:         append([]string(nil), s.Details.Images()...),
		SegmentIDs:     []int64{s.ID},
		lastStart:      s.TimestampStart,
		key:            key,
	}
}

// absorb 并入一条等价分段，扩展右边界并重算跨度
func (g *Group) absorb(s *LabeledSegment) {
	if s.TimestampEnd > g.TimestampEnd {
		g.TimestampEnd = s.TimestampEnd
	}
	g.Duration = g.TimestampEnd - g.TimestampStart
	g.Images = append(g.Images, s.Details.Images()...)
	g.SegmentIDs = append(g.SegmentIDs, s.ID)
	g.lastStart = s.TimestampStart
}
