package oss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveLabeledURI(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "unrecognized segment",
			source: "https://frames.example.com/bucket/unrecognized_frames/dev001/1.jpg",
			want:   "https://frames.example.com/bucket/labeled_frames/dev001/1.jpg",
		},
		{
			name:   "analyzed segment",
			source: "s3://frames/analayzed_frames/dev001/2.jpg",
			want:   "s3://frames/labeled_frames/dev001/2.jpg",
		},
		{
			name:   "device directory named like a segment stays intact",
			source: "s3://frames/unrecognized_frames/unrecognized_frames/3.jpg",
			want:   "s3://frames/labeled_frames/unrecognized_frames/3.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveLabeledURI(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// 同一来源永远推导出同一目标，重试安全
func TestDeriveLabeledURIDeterministic(t *testing.T) {
	source := "s3://frames/unrecognized_frames/dev001/1.jpg"
	first, err := DeriveLabeledURI(source)
	require.NoError(t, err)
	second, err := DeriveLabeledURI(source)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeriveLabeledURIRejectsLabeledSource(t *testing.T) {
	_, err := DeriveLabeledURI("s3://frames/labeled_frames/dev001/1.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRelocation)
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{
			name: "path style url",
			uri:  "https://minio.local:9000/frames/unrecognized_frames/dev001/1.jpg",
			want: "unrecognized_frames/dev001/1.jpg",
		},
		{
			name: "labeled segment",
			uri:  "s3://frames/labeled_frames/dev001/1.jpg",
			want: "labeled_frames/dev001/1.jpg",
		},
		{
			name: "analyzed segment",
			uri:  "s3://frames/analayzed_frames/dev001/1.jpg",
			want: "analayzed_frames/dev001/1.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ObjectKey(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObjectKeyRejectsUnknownLayout(t *testing.T) {
	_, err := ObjectKey("https://example.com/archive/dev001/1.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRelocation)
}
