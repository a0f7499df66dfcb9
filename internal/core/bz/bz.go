// Package bz 业务常量
package bz

// 唯一 id 前缀
const (
	IDPrefixDevice = "dev"
)
