package dto

import (
	domain "freelance-invoice-api/internal/domain/milestone"
)

// GenerateMilestonesRequest 里程碑生成请求
type GenerateMilestonesRequest struct {
	ProjectDescription string `json:"projectDescription"`
	// TotalAmount 指针用于区分缺失与 0
	TotalAmount *float64 `json:"totalAmount"`
}

// ToDomain 转换为领域请求
func (r *GenerateMilestonesRequest) ToDomain() domain.GenerationRequest {
	req := domain.GenerationRequest{ProjectDescription: r.ProjectDescription}
	if r.TotalAmount != nil {
		req.TotalAmount = *r.TotalAmount
	}
	return req
}

// Milestone 里程碑线格式，字段名与顺序固定
type Milestone struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// GenerateMilestonesResponse 生成成功响应
type GenerateMilestonesResponse struct {
	Milestones []Milestone `json:"milestones"`
}

// GenerationErrorResponse 生成失败响应，诊断字段按错误类别出现
type GenerationErrorResponse struct {
	Error    string   `json:"error"`
	Kind     string   `json:"kind"`
	Details  string   `json:"details,omitempty"`
	Raw      *string  `json:"raw,omitempty"`
	Index    *int     `json:"index,omitempty"`
	Sum      *float64 `json:"sum,omitempty"`
	Expected *float64 `json:"expected,omitempty"`
	TraceID  string   `json:"trace_id,omitempty"`
}

// FromMilestones 领域对象转线格式，保持顺序
func FromMilestones(ms []domain.Milestone) []Milestone {
	out := make([]Milestone, 0, len(ms))
	for _, m := range ms {
		out = append(out, Milestone{Name: m.Name, Amount: m.Amount})
	}
	return out
}

// ToMilestones 线格式转领域对象
func ToMilestones(ms []Milestone) []domain.Milestone {
	out := make([]domain.Milestone, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.Milestone{Name: m.Name, Amount: m.Amount})
	}
	return out
}

// NewGenerationErrorResponse 按错误类别填充诊断字段
func NewGenerationErrorResponse(e *domain.GenerationError) GenerationErrorResponse {
	resp := GenerationErrorResponse{
		Error: e.Detail,
		Kind:  string(e.Kind),
	}
	switch e.Kind {
	case domain.KindMalformedResponse:
		raw := e.Raw
		resp.Raw = &raw
	case domain.KindUnexpectedShape:
		if e.HasIndex() {
			idx := e.Index
			resp.Index = &idx
		}
	case domain.KindSumMismatch:
		sum, expected := e.Sum, e.Expected
		resp.Sum = &sum
		resp.Expected = &expected
	case domain.KindUpstreamFailure, domain.KindTimeout:
		if e.Err != nil {
			resp.Details = e.Err.Error()
		}
	}
	return resp
}
