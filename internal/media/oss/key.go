package oss

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrRelocation 帧迁移失败，来源对象未被改动，可用同一来源安全重试
var ErrRelocation = errors.New("frame relocation failed")

// 桶内的存储区路径段
// analayzed_frames 的拼写沿用采集链路落盘的既有前缀，改动会导致存量引用失效
const (
	SegmentUnrecognized = "unrecognized_frames"
	SegmentAnalyzed     = "analayzed_frames"
	SegmentLabeled      = "labeled_frames"
)

var unlabeledSegments = []string{SegmentUnrecognized, SegmentAnalyzed}

// DeriveLabeledURI 由未标记区引用推导已标记区引用
// 将路径中的未标记区段替换为 labeled_frames，其余部分原样保留
// 推导是纯函数：同一来源永远得到同一目标
func DeriveLabeledURI(sourceURI string) (string, error) {
	u, err := url.Parse(sourceURI)
	if err != nil {
		return "", fmt.Errorf("%w: parse source uri [%s]: %v", ErrRelocation, sourceURI, err)
	}

	parts := strings.Split(u.Path, "/")
	replaced := false
	for i, p := range parts {
		for _, seg := range unlabeledSegments {
			if p == seg {
				parts[i] = SegmentLabeled
				replaced = true
				break
			}
		}
		if replaced {
			break
		}
	}
	if !replaced {
		return "", fmt.Errorf("%w: source uri [%s] has no unlabeled path segment", ErrRelocation, sourceURI)
	}

	u.Path = strings.Join(parts, "/")
	return u.String(), nil
}

// ObjectKey 从引用中截取桶内对象 key，从存储区段起算
func ObjectKey(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: parse uri [%s]: %v", ErrRelocation, uri, err)
	}

	parts := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	for i, p := range parts {
		switch p {
		case SegmentUnrecognized, SegmentAnalyzed, SegmentLabeled:
			return strings.Join(parts[i:], "/"), nil
		}
	}
	return "", fmt.Errorf("%w: uri [%s] has no storage segment", ErrRelocation, uri)
}
