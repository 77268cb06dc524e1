package dto

import "encoding/json"

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Version string `json:"version,omitempty"`
}

// ReadinessCheck 单项依赖检查结果
type ReadinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// ReadinessResponse 就绪检查响应
type ReadinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*ReadinessCheck `json:"checks,omitempty"`
}

// ContractInfoResponse 托管合约信息
type ContractInfoResponse struct {
	ContractAddress string  `json:"contractAddress"`
	Network         string  `json:"network"`
	ChainID         int64   `json:"chainId"`
	USDCAddress     string  `json:"usdcAddress"`
	FeePercentage   float64 `json:"feePercentage"`
}

// MiniAppFrame Farcaster mini app manifest 的 frame 字段
type MiniAppFrame struct {
	Version               string   `json:"version"`
	Name                  string   `json:"name"`
	Subtitle              string   `json:"subtitle,omitempty"`
	Description           string   `json:"description,omitempty"`
	IconURL               string   `json:"iconUrl"`
	SplashImageURL        string   `json:"splashImageUrl,omitempty"`
	SplashBackgroundColor string   `json:"splashBackgroundColor,omitempty"`
	HomeURL               string   `json:"homeUrl"`
	WebhookURL            string   `json:"webhookUrl,omitempty"`
	PrimaryCategory       string   `json:"primaryCategory,omitempty"`
	Tags                  []string `json:"tags,omitempty"`
	HeroImageURL          string   `json:"heroImageUrl,omitempty"`
	Tagline               string   `json:"tagline,omitempty"`
	OGTitle               string   `json:"ogTitle,omitempty"`
	OGDescription         string   `json:"ogDescription,omitempty"`
	OGImageURL            string   `json:"ogImageUrl,omitempty"`
}

// MiniAppManifest /.well-known/farcaster.json
type MiniAppManifest struct {
	Frame MiniAppFrame `json:"frame"`
}

// TriggerAgentRequest 代理动作请求
type TriggerAgentRequest struct {
	Action         string `json:"action"`
	InvoiceID      *int64 `json:"invoiceId"`
	MilestoneIndex *int   `json:"milestoneIndex"`
}

// TriggerAgentResponse 代理动作响应（占位）
type TriggerAgentResponse struct {
	Message        string `json:"message"`
	Action         string `json:"action"`
	InvoiceID      *int64 `json:"invoiceId"`
	MilestoneIndex *int   `json:"milestoneIndex"`
}

// NotificationResponse 通知接收结果
type NotificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// IsJSONObject 判断原始 JSON 是否为对象
func IsJSONObject(raw json.RawMessage) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(raw, &obj) == nil && obj != nil
}
