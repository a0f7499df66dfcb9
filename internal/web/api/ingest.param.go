package api

// IngestEventInput 检测事件上报请求体
type IngestEventInput struct {
	DeviceID    string            `json:"device_id" binding:"required"` // 监测终端 ID
	Timestamp   int64             `json:"timestamp,string"`             // Unix 时间戳 (秒)，十进制字符串
	ChannelName string            `json:"channel_name"`                 // 频道名称
	Detections  []IngestDetection `json:"detections"`                   // 检测结果列表
	Snapshot    string            `json:"snapshot"`                     // Base64 编码的帧 (JPEG)
}

// IngestDetection 单条检测结果
type IngestDetection struct {
	Type  int            `json:"type"`            // 事件类型编码
	Score float64        `json:"score"`           // 置信度 (0.0 - 1.0)
	Extra map[string]any `json:"extra,omitempty"` // 附加字段，合并入事件 details
}

// IngestOutput 通用响应体
type IngestOutput struct {
	Code int    `json:"code"` // 错误代码，0 表示成功
	Msg  string `json:"msg"`  // 消息
}

func newIngestOutputOK() IngestOutput {
	return IngestOutput{Code: 0, Msg: "success"}
}
